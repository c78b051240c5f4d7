package vo

import (
	"github.com/Xushengqwer/social_service/models/entities"
)

// PostDetailVO 帖子详情页，聚合 Post、PostDetail 与 PostImage。
// 热门帖子的详情以该结构的 JSON 缓存在 Redis。
type PostDetailVO struct {
	PostResponse

	Content  string        `json:"content"`
	Location string        `json:"location"`
	Images   []PostImageVO `json:"images"` // 已按 DisplayOrder 排序

	// 当前登录用户是否已点赞，未登录时为 false
	Liked bool `json:"liked"`
}

type PostImageVO struct {
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
}

// NewPostDetailVO detail 为 nil 时正文为空。
func NewPostDetailVO(post *entities.Post, detail *entities.PostDetail, images []*entities.PostImage) *PostDetailVO {
	if post == nil {
		return nil
	}
	vo := &PostDetailVO{
		PostResponse: *NewPostResponse(post),
		Images:       NewPostImageVOsFromEntities(images),
	}
	if detail != nil {
		vo.Content = detail.Content
		vo.Location = detail.Location
	}
	return vo
}

// NewPostImageVOsFromEntities 跳过 nil 元素，空输入返回非 nil 的空切片。
func NewPostImageVOsFromEntities(images []*entities.PostImage) []PostImageVO {
	vos := make([]PostImageVO, 0, len(images))
	for _, img := range images {
		if img == nil {
			continue
		}
		vos = append(vos, PostImageVO{ImageURL: img.ImageURL, DisplayOrder: img.DisplayOrder})
	}
	return vos
}
