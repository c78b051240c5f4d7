package documents

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DialogSession 两个用户之间的私信会话，集合 dialog_sessions。
// SessionKey 由两个用户 ID 升序拼接，保证同一对用户只有一个会话。
type DialogSession struct {
	ID            bson.ObjectID    `json:"id"            bson:"_id,omitempty"`
	SessionKey    string           `json:"sessionKey"    bson:"session_key"`
	Participants  []uint64         `json:"participants"  bson:"participants"`
	LastMessage   string           `json:"lastMessage"   bson:"last_message"`
	LastSenderID  uint64           `json:"lastSenderId"  bson:"last_sender_id"`
	LastMessageAt time.Time        `json:"lastMessageAt" bson:"last_message_at"`
	Unread        map[string]int64 `json:"unread"        bson:"unread"`
	CreatedAt     time.Time        `json:"createdAt"     bson:"created_at"`
}

// Message 单条私信，集合 messages。
type Message struct {
	ID         bson.ObjectID `json:"id"         bson:"_id,omitempty"`
	SessionID  bson.ObjectID `json:"sessionId"  bson:"session_id"`
	SenderID   uint64        `json:"senderId"   bson:"sender_id"`
	ReceiverID uint64        `json:"receiverId" bson:"receiver_id"`
	Content    string        `json:"content"    bson:"content"`
	Type       string        `json:"type"       bson:"type"`
	Read       bool          `json:"read"       bson:"read"`
	CreatedAt  time.Time     `json:"createdAt"  bson:"created_at"`
}

// SessionKey 返回两个用户的会话键，与参数顺序无关。
func SessionKey(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// UnreadField 用户在 unread 映射中的字段名。
func UnreadField(userID uint64) string {
	return fmt.Sprintf("%d", userID)
}

// HasParticipant 判断用户是否属于该会话。
func (s *DialogSession) HasParticipant(userID uint64) bool {
	for _, p := range s.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
