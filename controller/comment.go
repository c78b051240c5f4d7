package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/service"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// CreateComment 发表评论
// @Summary      发表评论
// @Description  parent_id 非 0 时为回复，父评论必须属于同一帖子。
// @Tags         comments (评论)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path uint64 true "帖子 ID"
// @Param        request body dto.CreateCommentRequest true "评论内容"
// @Success      200 {object} vo.CommentResponseWrapper "评论成功"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子或父评论不存在"
// @Router       /api/v1/posts/{post_id}/comments [post]
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := pathUint64(c, "post_id")
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	comment, err := ctrl.commentService.CreateComment(c.Request.Context(), userID, postID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, comment, "评论成功")
}

// ListComments 帖子评论列表
// @Summary      评论列表
// @Description  最新的评论在前，ID 游标分页。
// @Tags         comments (评论)
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID"
// @Param        cursor query uint64 false "上一页最后一条评论的 ID"
// @Param        page_size query int false "每页数量" minimum(1) maximum(100)
// @Success      200 {object} vo.ListCommentsResponseWrapper "成功"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/posts/{post_id}/comments [get]
func (ctrl *CommentController) ListComments(c *gin.Context) {
	postID, ok := pathUint64(c, "post_id")
	if !ok {
		return
	}
	var page dto.CursorPageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}
	result, err := ctrl.commentService.ListComments(c.Request.Context(), postID, viewerID(c), &page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, result, "")
}

// DeleteComment 删除评论
// @Summary      删除评论
// @Description  评论作者或帖子作者可以删除。
// @Tags         comments (评论)
// @Produce      json
// @Security     BearerAuth
// @Param        comment_id path uint64 true "评论 ID"
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      403 {object} vo.BaseResponseWrapper "无权删除"
// @Failure      404 {object} vo.BaseResponseWrapper "评论不存在"
// @Router       /api/v1/comments/{comment_id} [delete]
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	commentID, ok := pathUint64(c, "comment_id")
	if !ok {
		return
	}
	if err := ctrl.commentService.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess[any](c, nil, "评论已删除")
}

func (ctrl *CommentController) RegisterRoutes(group *gin.RouterGroup, guards RouteGuards) {
	group.POST("/posts/:post_id/comments", guards.Auth, ctrl.CreateComment)
	group.GET("/posts/:post_id/comments", guards.OptionalAuth, ctrl.ListComments)
	group.DELETE("/comments/:comment_id", guards.Auth, ctrl.DeleteComment)
}
