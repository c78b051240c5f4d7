package dto

import "github.com/Xushengqwer/social_service/models/enums"

// UpdateProfileRequest 更新个人资料，nil 字段保持不变。
type UpdateProfileRequest struct {
	Nickname  *string       `json:"nickname" binding:"omitempty,min=1,max=50"`
	Bio       *string       `json:"bio" binding:"omitempty,max=500"`
	Gender    *enums.Gender `json:"gender" binding:"omitempty,oneof=0 1 2" swaggertype:"integer"`
	Location  *string       `json:"location" binding:"omitempty,max=100"`
	Interests []string      `json:"interests" binding:"omitempty,max=20,dive,min=1,max=30"`
}

// CursorPageRequest 通用的 ID 游标分页参数
type CursorPageRequest struct {
	Cursor   *uint64 `form:"cursor" binding:"omitempty,gte=1"`
	PageSize int     `form:"page_size" binding:"omitempty,gte=1,lte=100"`
}

// Size 返回有效的每页数量，未传时为 10。
func (r *CursorPageRequest) Size() int {
	if r.PageSize <= 0 {
		return 10
	}
	return r.PageSize
}
