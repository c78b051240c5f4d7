package entities

import (
	"time"

	"github.com/Xushengqwer/go-common/models/entities"
)

// HotNewsMain 热点资讯摘要，列表页使用。
type HotNewsMain struct {
	entities.BaseModel

	Title       string    `gorm:"type:varchar(255);not null"`
	Source      string    `gorm:"type:varchar(100)"`
	URL         string    `gorm:"type:varchar(1023)"`
	Cover       string    `gorm:"type:varchar(1023)"`
	Category    string    `gorm:"type:varchar(50);index"`
	HotValue    int64     `gorm:"default:0"`
	Rank        int       `gorm:"default:0;index"`
	PublishedAt time.Time `gorm:"index"`
}

// HotNewsDetail 热点资讯正文，与 HotNewsMain 一对一。
type HotNewsDetail struct {
	entities.BaseModel

	NewsID  uint64   `gorm:"not null;uniqueIndex"`
	Content string   `gorm:"type:text;not null"`
	Images  []string `gorm:"type:json;serializer:json"`
}
