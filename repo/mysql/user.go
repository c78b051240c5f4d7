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

// UserRepository 账号与资料的持久化操作。
type UserRepository interface {
	// CreateUser 在同一事务中写入 users 与 user_profiles，profile.UserID 由本方法填充。
	CreateUser(ctx context.Context, db *gorm.DB, user *entities.User, profile *entities.UserProfile) error

	// GetUserByUsername 未找到返回 commonerrors.ErrRepoNotFound。
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)

	GetUserByID(ctx context.Context, id uint64) (*entities.User, error)

	// ExistsByUsername 包含已软删除的账号，保证用户名不会被复用。
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// GetProfileByUserID 未找到返回 commonerrors.ErrRepoNotFound。
	GetProfileByUserID(ctx context.Context, userID uint64) (*entities.UserProfile, error)

	// GetProfilesByUserIDs 返回 userID -> 资料，缺失的用户不在结果中。
	GetProfilesByUserIDs(ctx context.Context, userIDs []uint64) (map[uint64]*entities.UserProfile, error)

	// UpdateProfile 按列更新资料，updates 的 key 为列名。
	UpdateProfile(ctx context.Context, userID uint64, updates map[string]interface{}) error

	// UpdateInterests interests 为 JSON 列，单独走结构体更新以使用序列化器。
	UpdateInterests(ctx context.Context, userID uint64, interests []string) error
}

type userRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

func NewUserRepository(db *gorm.DB, logger *core.ZapLogger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) CreateUser(ctx context.Context, db *gorm.DB, user *entities.User, profile *entities.UserProfile) error {
	tx := db.WithContext(ctx)
	if err := tx.Create(user).Error; err != nil {
		return translateDuplicate(err)
	}
	profile.UserID = user.ID
	return tx.Create(profile).Error
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据用户名查询用户失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 查询用户失败", zap.Uint64("userID", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&entities.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) GetProfileByUserID(ctx context.Context, userID uint64) (*entities.UserProfile, error) {
	var profile entities.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) GetProfilesByUserIDs(ctx context.Context, userIDs []uint64) (map[uint64]*entities.UserProfile, error) {
	result := make(map[uint64]*entities.UserProfile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	var profiles []*entities.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		result[p.UserID] = p
	}
	return result, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID uint64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&entities.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("更新用户资料失败", zap.Uint64("userID", userID), zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *userRepository) UpdateInterests(ctx context.Context, userID uint64, interests []string) error {
	return r.db.WithContext(ctx).
		Model(&entities.UserProfile{}).
		Where("user_id = ?", userID).
		Select("interests").
		Updates(&entities.UserProfile{Interests: interests}).Error
}
