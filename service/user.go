package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/background"
	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/dependencies"
	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
)

// UserService 用户资料查询与修改。
type UserService interface {
	// GetProfile self 为 true 时返回角色字段。
	GetProfile(ctx context.Context, userID uint64, self bool) (*vo.UserProfileVO, error)
	UpdateProfile(ctx context.Context, userID uint64, req *dto.UpdateProfileRequest) (*vo.UserProfileVO, error)

	// UploadAvatar 上传新头像，成功后删除旧对象并同步帖子中的作者快照。
	UploadAvatar(ctx context.Context, userID uint64, fh *multipart.FileHeader) (*vo.UserProfileVO, error)

	// GetBriefs 批量获取用户昵称与头像，缺失的用户不出现在结果中。
	GetBriefs(ctx context.Context, userIDs []uint64) (map[uint64]*vo.UserBriefVO, error)

	// Exists 用户存在且未被删除。
	Exists(ctx context.Context, userID uint64) (bool, error)
}

type userService struct {
	userRepo     mysql.UserRepository
	followRepo   mysql.FollowRepository
	postRepo     mysql.PostRepository
	storage      dependencies.ObjectStorage
	uploadPolicy UploadPolicy
	tasks        background.Runner
	logger       *core.ZapLogger
}

func NewUserService(
	userRepo mysql.UserRepository,
	followRepo mysql.FollowRepository,
	postRepo mysql.PostRepository,
	storage dependencies.ObjectStorage,
	uploadPolicy UploadPolicy,
	tasks background.Runner,
	logger *core.ZapLogger,
) UserService {
	return &userService{
		userRepo:     userRepo,
		followRepo:   followRepo,
		postRepo:     postRepo,
		storage:      storage,
		uploadPolicy: uploadPolicy,
		tasks:        tasks,
		logger:       logger,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uint64, self bool) (*vo.UserProfileVO, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, myErrors.NewSystemError("获取用户信息失败", err)
	}
	profile, err := s.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil && !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return nil, myErrors.NewSystemError("获取用户资料失败", err)
	}

	result := vo.NewUserProfileVO(user, profile)
	if self {
		result.Role = user.Role.String()
	}

	// 计数失败不影响资料展示
	if followers, following, cErr := s.followRepo.CountFollows(ctx, userID); cErr == nil {
		result.FollowerCount, result.FollowingCount = followers, following
	} else {
		s.logger.Warn("统计关注数失败", zap.Uint64("userID", userID), zap.Error(cErr))
	}
	if posts, cErr := s.postRepo.CountByAuthor(ctx, userID); cErr == nil {
		result.PostCount = posts
	} else {
		s.logger.Warn("统计帖子数失败", zap.Uint64("userID", userID), zap.Error(cErr))
	}
	return result, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint64, req *dto.UpdateProfileRequest) (*vo.UserProfileVO, error) {
	updates := make(map[string]interface{})
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, updates); err != nil {
		return nil, myErrors.NewSystemError("更新用户资料失败", err)
	}
	// interests 是 JSON 列，单独走序列化器
	if req.Interests != nil {
		if err := s.userRepo.UpdateInterests(ctx, userID, NormalizeTags(req.Interests)); err != nil {
			return nil, myErrors.NewSystemError("更新兴趣标签失败", err)
		}
	}
	return s.GetProfile(ctx, userID, true)
}

func (s *userService) UploadAvatar(ctx context.Context, userID uint64, fh *multipart.FileHeader) (*vo.UserProfileVO, error) {
	contentType, err := s.uploadPolicy.Check(fh)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrUserNotFound
		}
		return nil, myErrors.NewSystemError("获取用户信息失败", err)
	}
	profile, err := s.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, myErrors.NewSystemError("获取用户资料失败", err)
	}
	oldKey := profile.AvatarObjectKey

	file, err := fh.Open()
	if err != nil {
		return nil, myErrors.NewValidationError("avatar", "无法读取上传的头像文件")
	}
	defer file.Close()

	objectKey := BuildObjectKey(constant.ObjectKeyPrefixAvatars, userID, fh.Filename, time.Now())
	url, err := s.storage.UploadFile(ctx, objectKey, file, fh.Size, contentType)
	if err != nil {
		s.logger.Error("上传头像失败", zap.Uint64("userID", userID), zap.Error(err))
		return nil, myErrors.NewSystemError("上传头像失败", err)
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, map[string]interface{}{
		"avatar_url":        url,
		"avatar_object_key": objectKey,
	}); err != nil {
		_ = s.storage.DeleteObject(context.Background(), objectKey)
		return nil, myErrors.NewSystemError("保存头像失败", err)
	}

	s.tasks.Go("avatarFollowUp", objectCleanupTimeout, func(ctx context.Context) error {
		if oldKey != "" {
			if delErr := s.storage.DeleteObject(ctx, oldKey); delErr != nil {
				s.logger.Warn("删除旧头像失败", zap.String("objectKey", oldKey), zap.Error(delErr))
			}
		}
		if snapErr := s.postRepo.UpdateAuthorSnapshot(ctx, userID, user.Username, url); snapErr != nil {
			return fmt.Errorf("同步用户 %d 的帖子作者头像: %w", userID, snapErr)
		}
		return nil
	})

	return s.GetProfile(ctx, userID, true)
}

func (s *userService) GetBriefs(ctx context.Context, userIDs []uint64) (map[uint64]*vo.UserBriefVO, error) {
	profiles, err := s.userRepo.GetProfilesByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, myErrors.NewSystemError("获取用户资料失败", err)
	}
	out := make(map[uint64]*vo.UserBriefVO, len(profiles))
	for id, p := range profiles {
		out[id] = &vo.UserBriefVO{UserID: id, Nickname: p.Nickname, AvatarURL: p.AvatarURL}
	}
	return out, nil
}

func (s *userService) Exists(ctx context.Context, userID uint64) (bool, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return false, nil
		}
		return false, myErrors.NewSystemError("获取用户信息失败", err)
	}
	return true, nil
}
