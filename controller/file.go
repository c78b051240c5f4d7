package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/service"
)

type FileController struct {
	fileService service.FileService
}

func NewFileController(fileService service.FileService) *FileController {
	return &FileController{fileService: fileService}
}

// Upload 上传文件
// @Summary      上传文件
// @Description  文件大小和类型受配置限制，对象键位于调用者自己的目录下。
// @Tags         files (文件)
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "文件"
// @Param        category formData string false "分类，默认 common" maxLength(32)
// @Success      200 {object} vo.FileResponseWrapper "上传成功"
// @Failure      413 {object} vo.BaseResponseWrapper "文件过大"
// @Failure      415 {object} vo.BaseResponseWrapper "不支持的文件类型"
// @Router       /api/v1/files [post]
func (ctrl *FileController) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(myErrors.NewValidationError("file", "缺少上传文件"))
		return
	}
	result, err := ctrl.fileService.Upload(c.Request.Context(), userID, c.PostForm("category"), fh)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, result, "上传成功")
}

// Delete 删除文件
// @Summary      删除文件
// @Description  只能删除自己上传的文件。
// @Tags         files (文件)
// @Produce      json
// @Security     BearerAuth
// @Param        object_key query string true "对象键"
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      403 {object} vo.BaseResponseWrapper "无权删除"
// @Router       /api/v1/files [delete]
func (ctrl *FileController) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	objectKey := c.Query("object_key")
	if objectKey == "" {
		_ = c.Error(myErrors.NewValidationError("object_key", "不能为空"))
		return
	}
	if err := ctrl.fileService.Delete(c.Request.Context(), userID, objectKey); err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess[any](c, nil, "文件已删除")
}

func (ctrl *FileController) RegisterRoutes(group *gin.RouterGroup, guards RouteGuards) {
	files := group.Group("/files", guards.Auth)
	{
		files.POST("", guards.RateLimit("upload"), ctrl.Upload)
		files.DELETE("", ctrl.Delete)
	}
}
