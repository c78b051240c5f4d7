package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/models/entities"
)

// PostDetailRepository 帖子正文表，与 posts 一对一，写操作都由调用方传入事务。
type PostDetailRepository interface {
	CreatePostDetail(ctx context.Context, tx *gorm.DB, detail *entities.PostDetail) error

	// GetPostDetailByPostID 不存在时返回 commonerrors.ErrRepoNotFound。
	GetPostDetailByPostID(ctx context.Context, postID uint64) (*entities.PostDetail, error)

	// UpdatePostDetail nil 字段保持不变。
	UpdatePostDetail(ctx context.Context, tx *gorm.DB, postID uint64, content, location *string) error

	DeletePostDetailByPostID(ctx context.Context, tx *gorm.DB, postID uint64) error
}

type postDetailRepository struct {
	db *gorm.DB
}

func NewPostDetailRepository(db *gorm.DB) PostDetailRepository {
	return &postDetailRepository{db: db}
}

func byPostID(postID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("post_id = ?", postID) }
}

func (r *postDetailRepository) CreatePostDetail(ctx context.Context, tx *gorm.DB, detail *entities.PostDetail) error {
	return tx.WithContext(ctx).Create(detail).Error
}

func (r *postDetailRepository) GetPostDetailByPostID(ctx context.Context, postID uint64) (*entities.PostDetail, error) {
	detail := new(entities.PostDetail)
	switch err := r.db.WithContext(ctx).Scopes(byPostID(postID)).Take(detail).Error; {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, commonerrors.ErrRepoNotFound
	case err != nil:
		return nil, fmt.Errorf("查询帖子 %d 的正文: %w", postID, err)
	}
	return detail, nil
}

func (r *postDetailRepository) UpdatePostDetail(ctx context.Context, tx *gorm.DB, postID uint64, content, location *string) error {
	changes := map[string]interface{}{}
	if content != nil {
		changes["content"] = *content
	}
	if location != nil {
		changes["location"] = *location
	}
	if len(changes) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Model(&entities.PostDetail{}).Scopes(byPostID(postID)).Updates(changes).Error
}

func (r *postDetailRepository) DeletePostDetailByPostID(ctx context.Context, tx *gorm.DB, postID uint64) error {
	return tx.WithContext(ctx).Scopes(byPostID(postID)).Delete(&entities.PostDetail{}).Error
}
