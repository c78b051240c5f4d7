package dto

import "time"

// CreateHotNewsRequest 管理员录入热点资讯
type CreateHotNewsRequest struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Source      string    `json:"source" binding:"omitempty,max=100"`
	URL         string    `json:"url" binding:"omitempty,url,max=1023"`
	Cover       string    `json:"cover" binding:"omitempty,url,max=1023"`
	Category    string    `json:"category" binding:"omitempty,max=50"`
	HotValue    int64     `json:"hot_value" binding:"gte=0"`
	Rank        int       `json:"rank" binding:"gte=0"`
	PublishedAt time.Time `json:"published_at"`
	Content     string    `json:"content" binding:"required"`
	Images      []string  `json:"images" binding:"omitempty,max=20,dive,url"`
}

// ListHotNewsRequest 热点资讯列表
type ListHotNewsRequest struct {
	Category string `form:"category" binding:"omitempty,max=50"`
	Limit    int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

// ListAuditLogsRequest 操作日志分页查询
type ListAuditLogsRequest struct {
	UserID   *uint64 `form:"user_id"`
	Page     int     `form:"page" binding:"required,gte=1"`
	PageSize int     `form:"page_size" binding:"required,gte=1,lte=100"`
}
