package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"

	"github.com/Xushengqwer/social_service/models/enums"
)

// Post 帖子简略实体
// - 使用场景: 列表页数据，存储标题、作者快照、状态、计数与标签
// - 表名: posts
type Post struct {
	entities.BaseModel // ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 标题，必填
	Title string `gorm:"type:varchar(255);not null"`

	// 作者ID，关联 users.id
	AuthorID uint64 `gorm:"not null;index"`

	// 作者头像与用户名为发帖时的快照，列表页直接展示，避免逐条查询用户资料
	AuthorAvatar   string `gorm:"type:varchar(1023)"`
	AuthorUsername string `gorm:"type:varchar(50);not null;index"`

	// 0=正常, 1=隐藏
	Status enums.PostStatus `gorm:"type:int;default:0;index"`

	// 浏览量由定时任务从 Redis 回写
	ViewCount int64 `gorm:"type:int;default:0"`

	// 点赞数、评论数与 likes/comments 表在同一事务中维护
	LikeCount    int64 `gorm:"type:int;default:0"`
	CommentCount int64 `gorm:"type:int;default:0"`

	// 标签名列表，JSON 列；标签使用次数在发帖/改帖事务中同步维护在 tags 表
	Tags []string `gorm:"type:json;serializer:json"`
}
