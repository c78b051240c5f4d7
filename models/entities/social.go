package entities

import (
	"time"

	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/social_service/models/enums"
)

// Tag 话题标签，UseCount 随发帖、改帖事务增减。
type Tag struct {
	entities.BaseModel

	Name     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	UseCount int64  `gorm:"type:int;default:0;index"`
}

// Comment 帖子评论。ParentID 为 0 表示一级评论，否则指向同一帖子下的另一条评论。
type Comment struct {
	entities.BaseModel

	PostID    uint64 `gorm:"not null;index:idx_comment_post_id"`
	UserID    uint64 `gorm:"not null;index"`
	ParentID  uint64 `gorm:"not null;default:0;index"`
	Content   string `gorm:"type:varchar(1000);not null"`
	LikeCount int64  `gorm:"type:int;default:0"`

	// 评论者快照
	Username string `gorm:"type:varchar(50);not null"`
	Avatar   string `gorm:"type:varchar(1023)"`
}

// Like 点赞记录，(user_id, target_id, target_type) 唯一。
// 取消点赞为物理删除，保证唯一索引可以再次插入。
type Like struct {
	ID         uint64               `gorm:"primaryKey"`
	UserID     uint64               `gorm:"not null;uniqueIndex:uk_like_user_target"`
	TargetID   uint64               `gorm:"not null;uniqueIndex:uk_like_user_target;index:idx_like_target"`
	TargetType enums.LikeTargetType `gorm:"type:varchar(20);not null;uniqueIndex:uk_like_user_target;index:idx_like_target"`
	CreatedAt  time.Time
}

// Follow 关注关系，(follower_id, followee_id) 唯一，取消关注为物理删除。
type Follow struct {
	ID         uint64 `gorm:"primaryKey"`
	FollowerID uint64 `gorm:"not null;uniqueIndex:uk_follow_pair;index"`
	FolloweeID uint64 `gorm:"not null;uniqueIndex:uk_follow_pair;index"`
	CreatedAt  time.Time
}

// AuditLog 操作日志，由中间件异步写入。
type AuditLog struct {
	ID           uint64    `gorm:"primaryKey"`
	UserID       uint64    `gorm:"index"`
	Operation    string    `gorm:"type:varchar(255);not null"`
	Method       string    `gorm:"type:varchar(10);not null"`
	Path         string    `gorm:"type:varchar(255);not null"`
	IP           string    `gorm:"type:varchar(64)"`
	StatusCode   int       `gorm:"not null"`
	LatencyMs    int64     `gorm:"not null"`
	ErrorMessage string    `gorm:"type:varchar(500)"`
	CreatedAt    time.Time `gorm:"index"`
}
