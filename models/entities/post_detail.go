package entities

import "github.com/Xushengqwer/go-common/models/entities"

// PostDetail 帖子正文，和 posts 一对一。列表接口只查 posts，详情才回表查这里。
type PostDetail struct {
	entities.BaseModel

	PostID   uint64 `gorm:"type:bigint;uniqueIndex:uk_post_details_post;not null"`
	Content  string `gorm:"type:text;not null"`
	Location string `gorm:"type:varchar(255)"`
}
