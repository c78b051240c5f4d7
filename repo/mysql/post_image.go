package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/models/entities"
)

// PostImageRepository 定义了与 post_images 表交互的接口。
type PostImageRepository interface {
	// BatchCreatePostImages 批量插入图片元数据，空切片直接返回。
	BatchCreatePostImages(ctx context.Context, db *gorm.DB, images []*entities.PostImage) error

	// GetImagesByPostID 按 display_order 升序返回帖子的全部图片，没有图片时返回空切片。
	GetImagesByPostID(ctx context.Context, postID uint64) ([]*entities.PostImage, error)

	// DeleteImagesByPostID 删除帖子的全部图片记录，返回被删除记录的 ObjectKey 供调用方清理对象存储。
	DeleteImagesByPostID(ctx context.Context, db *gorm.DB, postID uint64) ([]string, error)
}

type postImageRepository struct {
	db *gorm.DB
}

// NewPostImageRepository 创建 PostImageRepository 的新实例。
func NewPostImageRepository(db *gorm.DB) PostImageRepository {
	return &postImageRepository{db: db}
}

func (r *postImageRepository) BatchCreatePostImages(ctx context.Context, db *gorm.DB, images []*entities.PostImage) error {
	if len(images) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&images).Error
}

func (r *postImageRepository) GetImagesByPostID(ctx context.Context, postID uint64) ([]*entities.PostImage, error) {
	var images []*entities.PostImage
	err := r.db.WithContext(ctx).
		Scopes(byPostID(postID)).
		Order("display_order ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *postImageRepository) DeleteImagesByPostID(ctx context.Context, db *gorm.DB, postID uint64) ([]string, error) {
	var keys []string
	tx := db.WithContext(ctx)
	if err := tx.Model(&entities.PostImage{}).Scopes(byPostID(postID)).Pluck("object_key", &keys).Error; err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return keys, nil
	}
	if err := tx.Scopes(byPostID(postID)).Delete(&entities.PostImage{}).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
