package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/models/entities"
)

// AuditLogRepository 操作日志。
type AuditLogRepository interface {
	Create(ctx context.Context, log *entities.AuditLog) error

	// List userID 为 nil 时不过滤用户，按时间倒序页码分页。
	List(ctx context.Context, userID *uint64, offset, limit int) ([]*entities.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entities.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepository) List(ctx context.Context, userID *uint64, offset, limit int) ([]*entities.AuditLog, int64, error) {
	var (
		logs  []*entities.AuditLog
		total int64
	)
	query := r.db.WithContext(ctx).Model(&entities.AuditLog{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return logs, 0, nil
	}
	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}
