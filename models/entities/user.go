package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
	commonenums "github.com/Xushengqwer/go-common/models/enums"

	"github.com/Xushengqwer/social_service/models/enums"
)

// User 账号实体，只保存认证相关字段，展示信息在 UserProfile。
// - 表名: users
type User struct {
	entities.BaseModel

	// 登录名，全局唯一
	Username string `gorm:"type:varchar(50);not null;uniqueIndex"`

	// bcrypt 哈希，明文在哈希前按 UTF-8 截断到 72 字节
	PasswordHash string `gorm:"type:varchar(100);not null"`

	Email string `gorm:"type:varchar(100)"`

	// RoleAdmin 是零值，列上不能设默认值，否则创建管理员时会被默认值覆盖
	Role commonenums.UserRole `gorm:"type:tinyint unsigned;not null"`

	Status commonenums.UserStatus `gorm:"type:tinyint unsigned;not null;default:0"`
}

// UserProfile 用户资料，与 User 一对一。
// - 表名: user_profiles
type UserProfile struct {
	entities.BaseModel

	UserID uint64 `gorm:"not null;uniqueIndex"`

	Nickname string `gorm:"type:varchar(50);not null"`

	// 头像访问地址与对象存储中的 Key，更换头像时用 Key 删除旧对象
	AvatarURL       string `gorm:"type:varchar(1023)"`
	AvatarObjectKey string `gorm:"type:varchar(255)"`

	Bio      string       `gorm:"type:varchar(500)"`
	Gender   enums.Gender `gorm:"type:int;default:0"`
	Location string       `gorm:"type:varchar(100)"`

	// 兴趣标签，JSON 列
	Interests []string `gorm:"type:json;serializer:json"`
}
