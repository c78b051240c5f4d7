package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/service"
)

// MessageController 私信，所有接口都需要登录
type MessageController struct {
	messageService service.MessageService
}

func NewMessageController(messageService service.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

// Send 发送私信
// @Summary      发送私信
// @Description  首次发送时自动创建会话，接收方未读数加一。
// @Tags         messages (私信)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SendMessageRequest true "私信内容"
// @Success      200 {object} vo.MessageResponseWrapper "发送成功"
// @Failure      400 {object} vo.BaseResponseWrapper "不能给自己发私信"
// @Failure      404 {object} vo.BaseResponseWrapper "接收方不存在"
// @Failure      429 {object} vo.BaseResponseWrapper "发送过于频繁"
// @Router       /api/v1/messages [post]
func (ctrl *MessageController) Send(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	msg, err := ctrl.messageService.Send(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, msg, "发送成功")
}

// ListSessions 会话列表
// @Summary      会话列表
// @Description  按最后一条消息时间倒序。
// @Tags         messages (私信)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} vo.ListSessionsResponseWrapper "成功"
// @Router       /api/v1/messages/sessions [get]
func (ctrl *MessageController) ListSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessions, err := ctrl.messageService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, sessions, "")
}

// ListMessages 会话消息
// @Summary      会话消息
// @Description  只有会话参与者可以读取，按时间倒序，before 为上一页最早一条消息的 ID。
// @Tags         messages (私信)
// @Produce      json
// @Security     BearerAuth
// @Param        session_id path string true "会话 ID"
// @Param        before query string false "消息 ID 游标"
// @Param        limit query int false "数量" minimum(1) maximum(100)
// @Success      200 {object} vo.ListMessagesResponseWrapper "成功"
// @Failure      404 {object} vo.BaseResponseWrapper "会话不存在"
// @Router       /api/v1/messages/sessions/{session_id} [get]
func (ctrl *MessageController) ListMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.ListMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := ctrl.messageService.ListMessages(c.Request.Context(), userID, c.Param("session_id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, result, "")
}

// MarkRead 标记会话已读
// @Summary      标记已读
// @Tags         messages (私信)
// @Produce      json
// @Security     BearerAuth
// @Param        session_id path string true "会话 ID"
// @Success      200 {object} vo.BaseResponseWrapper "成功"
// @Failure      404 {object} vo.BaseResponseWrapper "会话不存在"
// @Router       /api/v1/messages/sessions/{session_id}/read [put]
func (ctrl *MessageController) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := ctrl.messageService.MarkRead(c.Request.Context(), userID, c.Param("session_id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess[any](c, nil, "已读")
}

func (ctrl *MessageController) RegisterRoutes(group *gin.RouterGroup, guards RouteGuards) {
	messages := group.Group("/messages", guards.Auth)
	{
		messages.POST("", guards.RateLimit("sendMessage"), ctrl.Send)
		messages.GET("/sessions", ctrl.ListSessions)
		messages.GET("/sessions/:session_id", ctrl.ListMessages)
		messages.PUT("/sessions/:session_id/read", ctrl.MarkRead)
	}
}
