package vo

import (
	"time"

	"github.com/Xushengqwer/social_service/models/entities"
)

type CommentVO struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"post_id"`
	UserID    uint64    `json:"user_id"`
	ParentID  uint64    `json:"parent_id"`
	Content   string    `json:"content"`
	LikeCount int64     `json:"like_count"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
}

type ListCommentsResponse struct {
	Comments   []*CommentVO `json:"comments"`
	NextCursor *uint64      `json:"next_cursor"`
}

func NewCommentVO(c *entities.Comment) *CommentVO {
	return &CommentVO{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		LikeCount: c.LikeCount,
		Username:  c.Username,
		Avatar:    c.Avatar,
		CreatedAt: c.CreatedAt,
	}
}

// MapCommentsToVO liked 为当前用户已点赞的评论 ID 集合，可为 nil。
func MapCommentsToVO(comments []*entities.Comment, liked map[uint64]bool) []*CommentVO {
	out := make([]*CommentVO, 0, len(comments))
	for _, c := range comments {
		v := NewCommentVO(c)
		v.Liked = liked[c.ID]
		out = append(out, v)
	}
	return out
}

// LikeStatusVO 点赞后的最新状态
type LikeStatusVO struct {
	TargetID   uint64 `json:"target_id"`
	TargetType string `json:"target_type"`
	Liked      bool   `json:"liked"`
	LikeCount  int64  `json:"like_count"`
}

type FollowStatusVO struct {
	UserID    uint64 `json:"user_id"`
	Following bool   `json:"following"`
}

type ListFollowsResponse struct {
	Users      []*UserBriefVO `json:"users"`
	NextCursor *uint64        `json:"next_cursor"`
}
