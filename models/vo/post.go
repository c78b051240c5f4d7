package vo

import (
	"time"

	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/enums"
)

// PostResponse 帖子基础信息
type PostResponse struct {
	ID             uint64           `json:"id"`
	Title          string           `json:"title"`
	Status         enums.PostStatus `json:"status" swaggertype:"integer"` // 0=正常, 1=隐藏
	ViewCount      int64            `json:"view_count"`
	LikeCount      int64            `json:"like_count"`
	CommentCount   int64            `json:"comment_count"`
	AuthorID       uint64           `json:"author_id"`
	AuthorAvatar   string           `json:"author_avatar"`
	AuthorUsername string           `json:"author_username"`
	Tags           []string         `json:"tags"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ListHotPostsByCursorResponse 热门帖子列表，游标为热榜排名
type ListHotPostsByCursorResponse struct {
	Posts      []*PostResponse `json:"posts"`
	NextCursor *uint64         `json:"next_cursor"` // nil 表示无更多数据
}

// ListPostsByCursorResponse 某个用户的帖子列表
type ListPostsByCursorResponse struct {
	Posts      []*PostResponse `json:"posts"`
	NextCursor *uint64         `json:"next_cursor"`
}

// PostTimelinePageVO 时间线分页，两个游标字段同时为 nil 表示没有下一页
type PostTimelinePageVO struct {
	Posts         []*PostResponse `json:"posts"`
	NextCreatedAt *time.Time      `json:"nextCreatedAt"`
	NextPostID    *uint64         `json:"nextPostId"`
}

// ListUserPostPageVO 自己发布的帖子，页码分页
type ListUserPostPageVO struct {
	Posts []*PostResponse `json:"posts"`
	Total int64           `json:"total"`
}

// ListPostsAdminByConditionResponse 管理员按条件查询帖子
type ListPostsAdminByConditionResponse struct {
	Posts []*PostResponse `json:"posts"`
	Total int64           `json:"total"`
}

// TagVO 热门标签
type TagVO struct {
	Name     string `json:"name"`
	UseCount int64  `json:"use_count"`
}

// NewPostResponse 将帖子实体转换为响应结构，nil 返回 nil。
func NewPostResponse(post *entities.Post) *PostResponse {
	if post == nil {
		return nil
	}
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	return &PostResponse{
		ID:             post.ID,
		Title:          post.Title,
		Status:         post.Status,
		ViewCount:      post.ViewCount,
		LikeCount:      post.LikeCount,
		CommentCount:   post.CommentCount,
		AuthorID:       post.AuthorID,
		AuthorAvatar:   post.AuthorAvatar,
		AuthorUsername: post.AuthorUsername,
		Tags:           tags,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}
}

// MapPostsToPostResponsesVO 空输入返回空切片而不是 nil，前端拿到的是 []。
func MapPostsToPostResponsesVO(posts []*entities.Post) []*PostResponse {
	responses := make([]*PostResponse, 0, len(posts))
	for _, post := range posts {
		if post == nil {
			continue
		}
		responses = append(responses, NewPostResponse(post))
	}
	return responses
}

func MapTagsToVO(tags []*entities.Tag) []*TagVO {
	out := make([]*TagVO, 0, len(tags))
	for _, t := range tags {
		out = append(out, &TagVO{Name: t.Name, UseCount: t.UseCount})
	}
	return out
}
