package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/models/entities"
)

// CommentRepository 帖子评论。
type CommentRepository interface {
	CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error

	// GetCommentByID 未找到返回 commonerrors.ErrRepoNotFound。
	GetCommentByID(ctx context.Context, id uint64) (*entities.Comment, error)

	// ListByPostCursor 按 ID 降序游标分页，返回 nextCursor 为 nil 表示没有更多。
	ListByPostCursor(ctx context.Context, postID uint64, cursor *uint64, pageSize int) ([]*entities.Comment, *uint64, error)

	// DeleteCommentTree 软删除评论及其下任意层级的回复，返回删除条数。
	DeleteCommentTree(ctx context.Context, db *gorm.DB, commentID uint64) (int64, error)

	// DeleteByPostID 删除帖子时级联软删除全部评论。
	DeleteByPostID(ctx context.Context, db *gorm.DB, postID uint64) error

	// IncrementLikeCount 结果不会小于 0。
	IncrementLikeCount(ctx context.Context, db *gorm.DB, commentID uint64, delta int64) error
}

type commentRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

func NewCommentRepository(db *gorm.DB, logger *core.ZapLogger) CommentRepository {
	return &commentRepository{db: db, logger: logger}
}

func (r *commentRepository) CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error {
	return db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetCommentByID(ctx context.Context, id uint64) (*entities.Comment, error) {
	var comment entities.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取评论失败", zap.Uint64("commentID", id), zap.Error(err))
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPostCursor(ctx context.Context, postID uint64, cursor *uint64, pageSize int) ([]*entities.Comment, *uint64, error) {
	var comments []*entities.Comment
	query := r.db.WithContext(ctx).Scopes(byPostID(postID)).Order("id DESC")
	if cursor != nil {
		query = query.Where("id < ?", *cursor)
	}
	if err := query.Limit(pageSize + 1).Find(&comments).Error; err != nil {
		return nil, nil, err
	}

	var nextCursor *uint64
	if len(comments) > pageSize {
		nextCursor = &comments[pageSize-1].ID
		comments = comments[:pageSize]
	}
	return comments, nextCursor, nil
}

func (r *commentRepository) DeleteCommentTree(ctx context.Context, db *gorm.DB, commentID uint64) (int64, error) {
	db = db.WithContext(ctx)
	ids, err := collectSubtree(commentID, func(parents []uint64) ([]uint64, error) {
		var children []uint64
		err := db.Model(&entities.Comment{}).Where("parent_id IN ?", parents).Pluck("id", &children).Error
		return children, err
	})
	if err != nil {
		r.logger.Error("收集评论回复失败", zap.Uint64("commentID", commentID), zap.Error(err))
		return 0, err
	}
	result := db.Where("id IN ?", ids).Delete(&entities.Comment{})
	return result.RowsAffected, result.Error
}

// collectSubtree 从 root 开始逐层查询子节点，返回包含 root 在内的全部 ID。
// 回复只能指向已存在的评论，层级之间不会成环。
func collectSubtree(root uint64, children func(parents []uint64) ([]uint64, error)) ([]uint64, error) {
	ids := []uint64{root}
	frontier := ids
	for len(frontier) > 0 {
		next, err := children(frontier)
		if err != nil {
			return nil, err
		}
		ids = append(ids, next...)
		frontier = next
	}
	return ids, nil
}

func (r *commentRepository) DeleteByPostID(ctx context.Context, db *gorm.DB, postID uint64) error {
	return db.WithContext(ctx).Scopes(byPostID(postID)).Delete(&entities.Comment{}).Error
}

func (r *commentRepository) IncrementLikeCount(ctx context.Context, db *gorm.DB, commentID uint64, delta int64) error {
	result := db.WithContext(ctx).
		Model(&entities.Comment{}).
		Where("id = ?", commentID).
		UpdateColumn("like_count", gorm.Expr("GREATEST(CAST(like_count AS SIGNED) + ?, 0)", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
