package vo

import (
	"time"

	"github.com/Xushengqwer/social_service/models/documents"
)

type MessageVO struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	SenderID   uint64    `json:"sender_id"`
	ReceiverID uint64    `json:"receiver_id"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewMessageVO(m *documents.Message) *MessageVO {
	return &MessageVO{
		ID:         m.ID.Hex(),
		SessionID:  m.SessionID.Hex(),
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Type:       m.Type,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

// SessionVO 会话列表项，Peer 为会话中的另一方
type SessionVO struct {
	ID            string       `json:"id"`
	Peer          *UserBriefVO `json:"peer"`
	LastMessage   string       `json:"last_message"`
	LastSenderID  uint64       `json:"last_sender_id"`
	LastMessageAt time.Time    `json:"last_message_at"`
	Unread        int64        `json:"unread"`
}

// NewSessionVO 以 viewerID 的视角生成会话摘要。
func NewSessionVO(s *documents.DialogSession, viewerID uint64) *SessionVO {
	v := &SessionVO{
		ID:            s.ID.Hex(),
		LastMessage:   s.LastMessage,
		LastSenderID:  s.LastSenderID,
		LastMessageAt: s.LastMessageAt,
		Unread:        s.Unread[documents.UnreadField(viewerID)],
	}
	for _, p := range s.Participants {
		if p != viewerID {
			v.Peer = &UserBriefVO{UserID: p}
			break
		}
	}
	if v.Peer == nil {
		v.Peer = &UserBriefVO{UserID: viewerID}
	}
	return v
}

type ListMessagesResponse struct {
	Messages []*MessageVO `json:"messages"`
	// NextBefore 传给下一次请求的 before 参数，空表示没有更早的消息
	NextBefore string `json:"next_before"`
}
