package vo

import (
	"time"

	"github.com/Xushengqwer/social_service/models/entities"
)

// FileVO 上传结果
type FileVO struct {
	ObjectKey   string `json:"object_key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type HotNewsVO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Cover       string    `json:"cover"`
	Category    string    `json:"category"`
	HotValue    int64     `json:"hot_value"`
	Rank        int       `json:"rank"`
	PublishedAt time.Time `json:"published_at"`
}

type HotNewsDetailVO struct {
	HotNewsVO
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

func NewHotNewsVO(n *entities.HotNewsMain) *HotNewsVO {
	return &HotNewsVO{
		ID:          n.ID,
		Title:       n.Title,
		Source:      n.Source,
		URL:         n.URL,
		Cover:       n.Cover,
		Category:    n.Category,
		HotValue:    n.HotValue,
		Rank:        n.Rank,
		PublishedAt: n.PublishedAt,
	}
}

func NewHotNewsDetailVO(n *entities.HotNewsMain, d *entities.HotNewsDetail) *HotNewsDetailVO {
	v := &HotNewsDetailVO{HotNewsVO: *NewHotNewsVO(n), Images: []string{}}
	if d != nil {
		v.Content = d.Content
		if d.Images != nil {
			v.Images = d.Images
		}
	}
	return v
}

func MapHotNewsToVO(news []*entities.HotNewsMain) []*HotNewsVO {
	out := make([]*HotNewsVO, 0, len(news))
	for _, n := range news {
		out = append(out, NewHotNewsVO(n))
	}
	return out
}

type AuditLogVO struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	Operation    string    `json:"operation"`
	Method       string    `json:"method"`
	Path         string    `json:"path"`
	IP           string    `json:"ip"`
	StatusCode   int       `json:"status_code"`
	LatencyMs    int64     `json:"latency_ms"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListAuditLogsResponse struct {
	Logs  []*AuditLogVO `json:"logs"`
	Total int64         `json:"total"`
}

func MapAuditLogsToVO(logs []*entities.AuditLog) []*AuditLogVO {
	out := make([]*AuditLogVO, 0, len(logs))
	for _, l := range logs {
		out = append(out, &AuditLogVO{
			ID:           l.ID,
			UserID:       l.UserID,
			Operation:    l.Operation,
			Method:       l.Method,
			Path:         l.Path,
			IP:           l.IP,
			StatusCode:   l.StatusCode,
			LatencyMs:    l.LatencyMs,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		})
	}
	return out
}
