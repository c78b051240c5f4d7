package mysql

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/enums"
)

// ErrDuplicateEntry 唯一索引冲突，由点赞/关注等幂等写入返回给服务层。
var ErrDuplicateEntry = errors.New("记录已存在")

// MySQL 1062: Duplicate entry
const mysqlDuplicateEntryCode = 1062

func translateDuplicate(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntryCode {
		return ErrDuplicateEntry
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEntry
	}
	return err
}

// LikeRepository 点赞记录，帖子与评论共用一张表。
type LikeRepository interface {
	// CreateLike 重复点赞返回 ErrDuplicateEntry。
	CreateLike(ctx context.Context, db *gorm.DB, like *entities.Like) error

	// DeleteLike 返回是否真的删除了记录。
	DeleteLike(ctx context.Context, db *gorm.DB, userID, targetID uint64, targetType enums.LikeTargetType) (bool, error)

	// LikedTargets 返回 targetIDs 中该用户已点赞的子集。
	LikedTargets(ctx context.Context, userID uint64, targetType enums.LikeTargetType, targetIDs []uint64) (map[uint64]bool, error)

	// DeleteByTargets 删除帖子或评论时清理点赞记录。
	DeleteByTargets(ctx context.Context, db *gorm.DB, targetType enums.LikeTargetType, targetIDs []uint64) error
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) CreateLike(ctx context.Context, db *gorm.DB, like *entities.Like) error {
	return translateDuplicate(db.WithContext(ctx).Create(like).Error)
}

func (r *likeRepository) DeleteLike(ctx context.Context, db *gorm.DB, userID, targetID uint64, targetType enums.LikeTargetType) (bool, error) {
	result := db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).
		Delete(&entities.Like{})
	return result.RowsAffected > 0, result.Error
}

func (r *likeRepository) LikedTargets(ctx context.Context, userID uint64, targetType enums.LikeTargetType, targetIDs []uint64) (map[uint64]bool, error) {
	liked := make(map[uint64]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return liked, nil
	}
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&entities.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, targetIDs).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *likeRepository) DeleteByTargets(ctx context.Context, db *gorm.DB, targetType enums.LikeTargetType, targetIDs []uint64) error {
	if len(targetIDs) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Delete(&entities.Like{}).Error
}
