package dto

import (
	"time"

	"github.com/Xushengqwer/social_service/models/enums"
)

// CreatePostRequest 创建帖子，multipart/form-data 提交，图片在 images 字段。
// 作者信息取自登录态，不由客户端提交。
type CreatePostRequest struct {
	Title    string   `form:"title" binding:"required,max=100"`
	Content  string   `form:"content" binding:"required,max=5000"`
	Location string   `form:"location" binding:"omitempty,max=255"`
	Tags     []string `form:"tags" binding:"omitempty,max=10,dive,min=1,max=30"`
}

// UpdatePostRequest 更新帖子，nil 字段保持不变；Tags 非 nil 时整体替换。
type UpdatePostRequest struct {
	Title    *string  `json:"title" binding:"omitempty,min=1,max=100"`
	Content  *string  `json:"content" binding:"omitempty,min=1,max=5000"`
	Location *string  `json:"location" binding:"omitempty,max=255"`
	Tags     []string `json:"tags" binding:"omitempty,max=10,dive,min=1,max=30"`
}

// ListPostsByUserIDRequest 某个用户的帖子列表（ID 游标）
type ListPostsByUserIDRequest struct {
	UserID   uint64  `form:"user_id" binding:"required,gte=1"`
	Cursor   *uint64 `form:"cursor"`
	PageSize int     `form:"page_size" binding:"required,gt=0,lte=100"`
}

// GetUserPostsRequestDTO 当前用户自己的帖子（页码分页）
type GetUserPostsRequestDTO struct {
	Page     int               `form:"page" binding:"required,gte=1"`
	PageSize int               `form:"pageSize" binding:"required,gte=1,lte=100"`
	Title    *string           `form:"title" binding:"omitempty,max=255"`
	Status   *enums.PostStatus `form:"status" binding:"omitempty,oneof=0 1" swaggertype:"integer"`
}

// GetOffset (page - 1) * pageSize
func (d *GetUserPostsRequestDTO) GetOffset() int {
	if d.Page <= 0 {
		return 0
	}
	return (d.Page - 1) * d.PageSize
}

// GetPostsTimelineRequestDTO 时间线查询参数，lastCreatedAt 与 lastPostId 需同时提供才作为游标生效。
type GetPostsTimelineRequestDTO struct {
	LastCreatedAt  *time.Time `form:"lastCreatedAt" time_format:"2006-01-02T15:04:05Z07:00"`
	LastPostID     *uint64    `form:"lastPostId" binding:"omitempty,gte=1"`
	PageSize       int        `form:"pageSize" binding:"required,gte=1,lte=100"`
	Title          *string    `form:"title" binding:"omitempty,max=255"`
	AuthorUsername *string    `form:"authorUsername" binding:"omitempty,max=50"`
	Tag            *string    `form:"tag" binding:"omitempty,max=30"`
}

// TimelineQueryDTO Service 与 Repo 之间传递的时间线查询条件
type TimelineQueryDTO struct {
	LastCreatedAt  *time.Time `json:"lastCreatedAt"`
	LastPostID     *uint64    `json:"lastPostID"`
	PageSize       int        `json:"pageSize"`
	Title          *string    `json:"title"`
	AuthorUsername *string    `json:"authorUsername"`
	Tag            *string    `json:"tag"`
}

// ListPostsByConditionRequest 管理员按条件分页查询帖子
type ListPostsByConditionRequest struct {
	ID             *uint64           `form:"id" json:"id,omitempty"`
	Title          *string           `form:"title" json:"title,omitempty"`
	AuthorUsername *string           `form:"author_username" json:"author_username,omitempty"`
	Status         *enums.PostStatus `form:"status" json:"status,omitempty" swaggertype:"integer"`
	ViewCountMin   *int64            `form:"view_count_min" json:"view_count_min,omitempty"`
	ViewCountMax   *int64            `form:"view_count_max" json:"view_count_max,omitempty"`
	OrderBy        string            `form:"order_by" json:"order_by" binding:"omitempty,oneof=created_at updated_at view_count like_count"`
	OrderDesc      bool              `form:"order_desc" json:"order_desc"`
	Page           int               `form:"page" json:"page" binding:"required,gt=0"`
	PageSize       int               `form:"page_size" json:"page_size" binding:"required,gt=0,lte=100"`
}

// UpdatePostStatusRequest 管理员隐藏/恢复帖子
type UpdatePostStatusRequest struct {
	PostID uint64           `json:"post_id" binding:"required" example:"123"`
	Status enums.PostStatus `json:"status" binding:"oneof=0 1" swaggertype:"integer"`
}
