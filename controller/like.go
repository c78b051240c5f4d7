package controller

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/service"
)

type LikeController struct {
	likeService service.LikeService
}

func NewLikeController(likeService service.LikeService) *LikeController {
	return &LikeController{likeService: likeService}
}

// Like 点赞
// @Summary      点赞
// @Tags         likes (点赞)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.LikeRequest true "点赞目标"
// @Success      200 {object} vo.LikeStatusResponseWrapper "点赞成功"
// @Failure      404 {object} vo.BaseResponseWrapper "目标不存在"
// @Failure      409 {object} vo.BaseResponseWrapper "已经点过赞"
// @Router       /api/v1/likes [post]
func (ctrl *LikeController) Like(c *gin.Context) {
	ctrl.handle(c, c.ShouldBindJSON, ctrl.likeService.Like, "点赞成功")
}

// Unlike 取消点赞
// @Summary      取消点赞
// @Tags         likes (点赞)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.LikeRequest true "点赞目标"
// @Success      200 {object} vo.LikeStatusResponseWrapper "已取消点赞"
// @Failure      400 {object} vo.BaseResponseWrapper "尚未点赞"
// @Router       /api/v1/likes [delete]
func (ctrl *LikeController) Unlike(c *gin.Context) {
	ctrl.handle(c, c.ShouldBindJSON, ctrl.likeService.Unlike, "已取消点赞")
}

// Status 点赞状态
// @Summary      点赞状态
// @Tags         likes (点赞)
// @Produce      json
// @Security     BearerAuth
// @Param        target_id query uint64 true "目标 ID"
// @Param        target_type query string true "目标类型" Enums(post,comment)
// @Success      200 {object} vo.LikeStatusResponseWrapper "成功"
// @Router       /api/v1/likes/status [get]
func (ctrl *LikeController) Status(c *gin.Context) {
	ctrl.handle(c, c.ShouldBindQuery, ctrl.likeService.Status, "")
}

func (ctrl *LikeController) handle(
	c *gin.Context,
	bind func(obj any) error,
	action func(context.Context, uint64, *dto.LikeRequest) (*vo.LikeStatusVO, error),
	msg string,
) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.LikeRequest
	if err := bind(&req); err != nil {
		bindError(c, err)
		return
	}
	status, err := action(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, status, msg)
}

func (ctrl *LikeController) RegisterRoutes(group *gin.RouterGroup, guards RouteGuards) {
	likes := group.Group("/likes", guards.Auth)
	{
		likes.POST("", ctrl.Like)
		likes.DELETE("", ctrl.Unlike)
		likes.GET("/status", ctrl.Status)
	}
}
