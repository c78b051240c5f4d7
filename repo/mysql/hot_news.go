package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/models/entities"
)

// HotNewsRepository 热点资讯的摘要表与正文表。
type HotNewsRepository interface {
	// Create 在事务中写入摘要与正文，detail.NewsID 由本方法填充。
	Create(ctx context.Context, main *entities.HotNewsMain, detail *entities.HotNewsDetail) error

	// List category 为空时不过滤，按 rank 升序、热度降序。
	List(ctx context.Context, category string, limit int) ([]*entities.HotNewsMain, error)

	// GetByID 未找到返回 commonerrors.ErrRepoNotFound。
	GetByID(ctx context.Context, id uint64) (*entities.HotNewsMain, *entities.HotNewsDetail, error)

	// Delete 软删除摘要与正文，未找到返回 commonerrors.ErrRepoNotFound。
	Delete(ctx context.Context, id uint64) error
}

type hotNewsRepository struct {
	db *gorm.DB
}

func NewHotNewsRepository(db *gorm.DB) HotNewsRepository {
	return &hotNewsRepository{db: db}
}

func (r *hotNewsRepository) Create(ctx context.Context, main *entities.HotNewsMain, detail *entities.HotNewsDetail) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(main).Error; err != nil {
			return err
		}
		detail.NewsID = main.ID
		return tx.Create(detail).Error
	})
}

func (r *hotNewsRepository) List(ctx context.Context, category string, limit int) ([]*entities.HotNewsMain, error) {
	var news []*entities.HotNewsMain
	query := r.db.WithContext(ctx)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("`rank` ASC").Order("hot_value DESC").Order("id DESC").Limit(limit).Find(&news).Error
	return news, err
}

func (r *hotNewsRepository) GetByID(ctx context.Context, id uint64) (*entities.HotNewsMain, *entities.HotNewsDetail, error) {
	var main entities.HotNewsMain
	if err := r.db.WithContext(ctx).First(&main, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, commonerrors.ErrRepoNotFound
		}
		return nil, nil, err
	}
	var detail entities.HotNewsDetail
	if err := r.db.WithContext(ctx).Where("news_id = ?", id).First(&detail).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		// 正文缺失时仍返回摘要
		detail = entities.HotNewsDetail{NewsID: id}
	}
	return &main, &detail, nil
}

func (r *hotNewsRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entities.HotNewsMain{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return commonerrors.ErrRepoNotFound
		}
		return tx.Where("news_id = ?", id).Delete(&entities.HotNewsDetail{}).Error
	})
}
