package dto

import "github.com/Xushengqwer/social_service/models/enums"

// CreateCommentRequest 发表评论，ParentID 为 0 表示一级评论
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=1000"`
	ParentID uint64 `json:"parent_id"`
}

// LikeRequest 点赞或取消点赞
type LikeRequest struct {
	TargetID   uint64               `json:"target_id" form:"target_id" binding:"required,gte=1"`
	TargetType enums.LikeTargetType `json:"target_type" form:"target_type" binding:"required,oneof=post comment" swaggertype:"string"`
}

// SendMessageRequest 发送私信
type SendMessageRequest struct {
	ReceiverID uint64 `json:"receiver_id" binding:"required,gte=1"`
	Content    string `json:"content" binding:"required,min=1,max=2000"`
	Type       string `json:"type" binding:"omitempty,oneof=text image"`
}

// ListMessagesRequest 会话消息列表，before 为上一页最早一条消息的 ID
type ListMessagesRequest struct {
	Before string `form:"before" binding:"omitempty,len=24,hexadecimal"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
}
