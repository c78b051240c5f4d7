package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/models/entities"
)

// FollowRepository 关注关系。
type FollowRepository interface {
	// CreateFollow 重复关注返回 ErrDuplicateEntry。
	CreateFollow(ctx context.Context, follow *entities.Follow) error

	// DeleteFollow 返回是否真的删除了记录。
	DeleteFollow(ctx context.Context, followerID, followeeID uint64) (bool, error)

	IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error)

	// ListFollowers 关注 userID 的人，按关注记录 ID 降序游标分页。
	ListFollowers(ctx context.Context, userID uint64, cursor *uint64, pageSize int) ([]*entities.Follow, *uint64, error)

	// ListFollowing userID 关注的人。
	ListFollowing(ctx context.Context, userID uint64, cursor *uint64, pageSize int) ([]*entities.Follow, *uint64, error)

	// CountFollows 返回粉丝数与关注数。
	CountFollows(ctx context.Context, userID uint64) (followers int64, following int64, err error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) CreateFollow(ctx context.Context, follow *entities.Follow) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(follow).Error)
}

func (r *followRepository) DeleteFollow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&entities.Follow{})
	return result.RowsAffected > 0, result.Error
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint64, cursor *uint64, pageSize int) ([]*entities.Follow, *uint64, error) {
	return r.listCursor(ctx, "followee_id = ?", userID, cursor, pageSize)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint64, cursor *uint64, pageSize int) ([]*entities.Follow, *uint64, error) {
	return r.listCursor(ctx, "follower_id = ?", userID, cursor, pageSize)
}

func (r *followRepository) listCursor(ctx context.Context, cond string, userID uint64, cursor *uint64, pageSize int) ([]*entities.Follow, *uint64, error) {
	var follows []*entities.Follow
	query := r.db.WithContext(ctx).Where(cond, userID).Order("id DESC")
	if cursor != nil {
		query = query.Where("id < ?", *cursor)
	}
	if err := query.Limit(pageSize + 1).Find(&follows).Error; err != nil {
		return nil, nil, err
	}
	var nextCursor *uint64
	if len(follows) > pageSize {
		nextCursor = &follows[pageSize-1].ID
		follows = follows[:pageSize]
	}
	return follows, nextCursor, nil
}

func (r *followRepository) CountFollows(ctx context.Context, userID uint64) (int64, int64, error) {
	var followers, following int64
	db := r.db.WithContext(ctx).Model(&entities.Follow{})
	if err := db.Session(&gorm.Session{}).Where("followee_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Session(&gorm.Session{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
