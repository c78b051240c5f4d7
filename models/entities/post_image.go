package entities

import "github.com/Xushengqwer/go-common/models/entities"

// PostImage 帖子配图，按 DisplayOrder 升序展示。
type PostImage struct {
	entities.BaseModel

	PostID       uint64 `gorm:"not null;index:idx_post_images_order,priority:1"`
	DisplayOrder int    `gorm:"not null;default:0;index:idx_post_images_order,priority:2"`
	ImageURL     string `gorm:"type:varchar(1023);not null"`
	// ObjectKey 删帖或创建失败回滚时据此清理对象存储
	ObjectKey string `gorm:"type:varchar(255);not null"`
}
