package mysql

import (
	"context"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/enums"
)

// PostAdminRepository 管理后台的帖子检索与审核。
type PostAdminRepository interface {
	// UpdatePostStatus 帖子不存在或已删除时返回 commonerrors.ErrRepoNotFound。
	UpdatePostStatus(ctx context.Context, postID uint64, status enums.PostStatus) error

	ListPostsByCondition(ctx context.Context, req *dto.ListPostsByConditionRequest) ([]*entities.Post, int64, error)
}

type postAdminRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

func NewPostAdminRepository(db *gorm.DB, logger *core.ZapLogger) PostAdminRepository {
	return &postAdminRepository{db: db, logger: logger}
}

func (r *postAdminRepository) UpdatePostStatus(ctx context.Context, postID uint64, status enums.PostStatus) error {
	// 带上 status <> ? 条件，RowsAffected 为 0 只剩“不存在”和“已是目标状态”两种情况
	res := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("id = ? AND status <> ?", postID, status).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("更新帖子 %d 状态: %w", postID, res.Error)
	}
	if res.RowsAffected > 0 {
		r.logger.Info("帖子状态已变更", zap.Uint64("postID", postID), zap.Int("status", int(status)))
		return nil
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&entities.Post{}).Where("id = ?", postID).Count(&n).Error; err != nil {
		return fmt.Errorf("确认帖子 %d 是否存在: %w", postID, err)
	}
	if n == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

func (r *postAdminRepository) ListPostsByCondition(ctx context.Context, req *dto.ListPostsByConditionRequest) ([]*entities.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Post{}).Scopes(adminPostFilter(req))

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计后台帖子列表: %w", err)
	}
	var posts []*entities.Post
	if total == 0 {
		return posts, 0, nil
	}

	err := query.Order(adminPostOrder(req.OrderBy, req.OrderDesc)).
		Order("id DESC").
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("查询后台帖子列表失败", zap.Error(err), zap.Int("page", req.Page))
		return nil, 0, fmt.Errorf("查询后台帖子列表: %w", err)
	}
	return posts, total, nil
}

// adminPostFilter 指定 ID 时其余条件全部忽略。
func adminPostFilter(req *dto.ListPostsByConditionRequest) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if req.ID != nil {
			return db.Where("id = ?", *req.ID)
		}
		if req.Title != nil {
			db = db.Where("title LIKE ?", "%"+*req.Title+"%")
		}
		if req.AuthorUsername != nil {
			db = db.Where("author_username LIKE ?", "%"+*req.AuthorUsername+"%")
		}
		if req.Status != nil {
			db = db.Where("status = ?", *req.Status)
		}
		if req.ViewCountMin != nil {
			db = db.Where("view_count >= ?", *req.ViewCountMin)
		}
		if req.ViewCountMax != nil {
			db = db.Where("view_count <= ?", *req.ViewCountMax)
		}
		return db
	}
}

var adminSortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"view_count": true,
	"like_count": true,
}

// adminPostOrder 未知字段回落到 created_at，防止拼接任意列名。
func adminPostOrder(orderBy string, desc bool) clause.OrderByColumn {
	if !adminSortableColumns[orderBy] {
		orderBy = "created_at"
	}
	return clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: desc}
}
