package vo

import (
	"time"

	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/enums"
)

// LoginResponse 登录/注册成功后返回
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type" example:"Bearer"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        *UserProfileVO `json:"user"`
}

// UserProfileVO 用户公开资料
type UserProfileVO struct {
	UserID         uint64       `json:"user_id"`
	Username       string       `json:"username"`
	Nickname       string       `json:"nickname"`
	AvatarURL      string       `json:"avatar_url"`
	Bio            string       `json:"bio"`
	Gender         enums.Gender `json:"gender" swaggertype:"integer"`
	Location       string       `json:"location"`
	Interests      []string     `json:"interests"`
	Role           string       `json:"role,omitempty"`
	FollowerCount  int64        `json:"follower_count"`
	FollowingCount int64        `json:"following_count"`
	PostCount      int64        `json:"post_count"`
	CreatedAt      time.Time    `json:"created_at"`
}

// NewUserProfileVO profile 缺失时仅填充账号字段。
func NewUserProfileVO(user *entities.User, profile *entities.UserProfile) *UserProfileVO {
	if user == nil {
		return nil
	}
	vo := &UserProfileVO{
		UserID:    user.ID,
		Username:  user.Username,
		Nickname:  user.Username,
		Interests: []string{},
		CreatedAt: user.CreatedAt,
	}
	if profile != nil {
		if profile.Nickname != "" {
			vo.Nickname = profile.Nickname
		}
		vo.AvatarURL = profile.AvatarURL
		vo.Bio = profile.Bio
		vo.Gender = profile.Gender
		vo.Location = profile.Location
		if profile.Interests != nil {
			vo.Interests = profile.Interests
		}
	}
	return vo
}

// UserBriefVO 列表中展示的用户摘要
type UserBriefVO struct {
	UserID    uint64 `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}
