package controller

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/service"
)

// UserController 用户资料与关注关系。
type UserController struct {
	userService   service.UserService
	followService service.FollowService
}

func NewUserController(userService service.UserService, followService service.FollowService) *UserController {
	return &UserController{userService: userService, followService: followService}
}

// GetMe 获取当前登录用户的资料
// @Summary      我的资料
// @Tags         users (用户)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} vo.UserProfileResponseWrapper "成功"
// @Failure      401 {object} vo.BaseResponseWrapper "未登录"
// @Router       /api/v1/users/me [get]
func (ctrl *UserController) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profile, err := ctrl.userService.GetProfile(c.Request.Context(), userID, true)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, profile, "")
}

// GetUser 获取指定用户的公开资料
// @Summary      用户资料
// @Tags         users (用户)
// @Produce      json
// @Param        user_id path uint64 true "用户 ID"
// @Success      200 {object} vo.UserProfileResponseWrapper "成功"
// @Failure      404 {object} vo.BaseResponseWrapper "用户不存在"
// @Router       /api/v1/users/{user_id} [get]
func (ctrl *UserController) GetUser(c *gin.Context) {
	userID, ok := pathUint64(c, "user_id")
	if !ok {
		return
	}
	profile, err := ctrl.userService.GetProfile(c.Request.Context(), userID, viewerID(c) == userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, profile, "")
}

// UpdateProfile 修改个人资料
// @Summary      修改资料
// @Description  只更新请求中出现的字段，interests 整体替换。
// @Tags         users (用户)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "资料字段"
// @Success      200 {object} vo.UserProfileResponseWrapper "修改成功"
// @Failure      400 {object} vo.BaseResponseWrapper "参数错误"
// @Router       /api/v1/users/me/profile [put]
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	profile, err := ctrl.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, profile, "资料已更新")
}

// UploadAvatar 上传头像
// @Summary      上传头像
// @Tags         users (用户)
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "头像图片"
// @Success      200 {object} vo.UserProfileResponseWrapper "上传成功"
// @Failure      413 {object} vo.BaseResponseWrapper "文件过大"
// @Failure      415 {object} vo.BaseResponseWrapper "不支持的文件类型"
// @Router       /api/v1/users/me/avatar [post]
func (ctrl *UserController) UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		_ = c.Error(myErrors.NewValidationError("avatar", "缺少头像文件"))
		return
	}
	profile, err := ctrl.userService.UploadAvatar(c.Request.Context(), userID, fh)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, profile, "头像已更新")
}

// Follow 关注用户
// @Summary      关注
// @Tags         follows (关注)
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path uint64 true "被关注的用户 ID"
// @Success      200 {object} vo.FollowStatusResponseWrapper "关注成功"
// @Failure      400 {object} vo.BaseResponseWrapper "不能关注自己"
// @Failure      409 {object} vo.BaseResponseWrapper "已经关注过"
// @Router       /api/v1/users/{user_id}/follow [post]
func (ctrl *UserController) Follow(c *gin.Context) {
	ctrl.followAction(c, ctrl.followService.Follow, "关注成功")
}

// Unfollow 取消关注
// @Summary      取消关注
// @Tags         follows (关注)
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path uint64 true "被关注的用户 ID"
// @Success      200 {object} vo.FollowStatusResponseWrapper "已取消关注"
// @Failure      400 {object} vo.BaseResponseWrapper "尚未关注"
// @Router       /api/v1/users/{user_id}/follow [delete]
func (ctrl *UserController) Unfollow(c *gin.Context) {
	ctrl.followAction(c, ctrl.followService.Unfollow, "已取消关注")
}

// FollowStatus 当前用户是否关注了指定用户
// @Summary      关注状态
// @Tags         follows (关注)
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path uint64 true "用户 ID"
// @Success      200 {object} vo.FollowStatusResponseWrapper "成功"
// @Router       /api/v1/users/{user_id}/follow-status [get]
func (ctrl *UserController) FollowStatus(c *gin.Context) {
	ctrl.followAction(c, ctrl.followService.Status, "")
}

type followFunc func(ctx context.Context, followerID, followeeID uint64) (*vo.FollowStatusVO, error)

func (ctrl *UserController) followAction(c *gin.Context, action followFunc, msg string) {
	followerID, ok := currentUserID(c)
	if !ok {
		return
	}
	followeeID, ok := pathUint64(c, "user_id")
	if !ok {
		return
	}
	status, err := action(c.Request.Context(), followerID, followeeID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, status, msg)
}

// ListFollowers 粉丝列表
// @Summary      粉丝列表
// @Tags         follows (关注)
// @Produce      json
// @Param        user_id path uint64 true "用户 ID"
// @Param        cursor query uint64 false "上一页最后一条关注记录的 ID"
// @Param        page_size query int false "每页数量" minimum(1) maximum(100)
// @Success      200 {object} vo.ListFollowsResponseWrapper "成功"
// @Router       /api/v1/users/{user_id}/followers [get]
func (ctrl *UserController) ListFollowers(c *gin.Context) {
	ctrl.listFollows(c, ctrl.followService.ListFollowers)
}

// ListFollowing 关注列表
// @Summary      关注列表
// @Tags         follows (关注)
// @Produce      json
// @Param        user_id path uint64 true "用户 ID"
// @Param        cursor query uint64 false "上一页最后一条关注记录的 ID"
// @Param        page_size query int false "每页数量" minimum(1) maximum(100)
// @Success      200 {object} vo.ListFollowsResponseWrapper "成功"
// @Router       /api/v1/users/{user_id}/following [get]
func (ctrl *UserController) ListFollowing(c *gin.Context) {
	ctrl.listFollows(c, ctrl.followService.ListFollowing)
}

func (ctrl *UserController) listFollows(c *gin.Context, list func(context.Context, uint64, *dto.CursorPageRequest) (*vo.ListFollowsResponse, error)) {
	userID, ok := pathUint64(c, "user_id")
	if !ok {
		return
	}
	var page dto.CursorPageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}
	result, err := list(c.Request.Context(), userID, &page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, result, "")
}

func (ctrl *UserController) RegisterRoutes(group *gin.RouterGroup, guards RouteGuards) {
	users := group.Group("/users")
	{
		users.GET("/me", guards.Auth, ctrl.GetMe)
		users.PUT("/me/profile", guards.Auth, ctrl.UpdateProfile)
		users.POST("/me/avatar", guards.Auth, guards.RateLimit("upload"), ctrl.UploadAvatar)
		users.GET("/:user_id", guards.OptionalAuth, ctrl.GetUser)
		users.POST("/:user_id/follow", guards.Auth, ctrl.Follow)
		users.DELETE("/:user_id/follow", guards.Auth, ctrl.Unfollow)
		users.GET("/:user_id/follow-status", guards.Auth, ctrl.FollowStatus)
		users.GET("/:user_id/followers", ctrl.ListFollowers)
		users.GET("/:user_id/following", ctrl.ListFollowing)
	}
}
