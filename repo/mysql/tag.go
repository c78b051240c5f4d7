package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/social_service/models/entities"
)

// TagRepository 话题标签使用次数。
type TagRepository interface {
	// AdjustUseCounts 在调用方的事务 tx 中调整计数: added 中的标签 +1（不存在则创建），
	// removed 中的标签 -1 且不小于 0。
	AdjustUseCounts(ctx context.Context, tx *gorm.DB, added, removed []string) error

	// ListHotTags 按使用次数降序返回前 limit 个标签。
	ListHotTags(ctx context.Context, limit int) ([]*entities.Tag, error)
}

type tagRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

func NewTagRepository(db *gorm.DB, logger *core.ZapLogger) TagRepository {
	return &tagRepository{db: db, logger: logger}
}

func (r *tagRepository) AdjustUseCounts(ctx context.Context, tx *gorm.DB, added, removed []string) error {
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}
	tx = tx.WithContext(ctx)
	if len(added) > 0 {
		tags := make([]*entities.Tag, 0, len(added))
		for _, name := range added {
			tags = append(tags, &entities.Tag{Name: name, UseCount: 1})
		}
		// INSERT ... ON DUPLICATE KEY UPDATE use_count = use_count + 1
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"use_count": gorm.Expr("use_count + 1")}),
		}).Create(&tags).Error
		if err != nil {
			r.logger.Error("增加标签使用次数失败", zap.Strings("tags", added), zap.Error(err))
			return err
		}
	}
	if len(removed) > 0 {
		err := tx.Model(&entities.Tag{}).
			Where("name IN ? AND use_count > 0", removed).
			UpdateColumn("use_count", gorm.Expr("use_count - 1")).Error
		if err != nil {
			r.logger.Error("减少标签使用次数失败", zap.Strings("tags", removed), zap.Error(err))
			return err
		}
	}
	return nil
}

func (r *tagRepository) ListHotTags(ctx context.Context, limit int) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	err := r.db.WithContext(ctx).
		Where("use_count > 0").
		Order("use_count DESC").Order("id ASC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}
