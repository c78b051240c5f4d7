package service

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
)

// FollowService 用户关注关系。
type FollowService interface {
	Follow(ctx context.Context, followerID, followeeID uint64) (*vo.FollowStatusVO, error)
	Unfollow(ctx context.Context, followerID, followeeID uint64) (*vo.FollowStatusVO, error)
	Status(ctx context.Context, followerID, followeeID uint64) (*vo.FollowStatusVO, error)
	ListFollowers(ctx context.Context, userID uint64, page *dto.CursorPageRequest) (*vo.ListFollowsResponse, error)
	ListFollowing(ctx context.Context, userID uint64, page *dto.CursorPageRequest) (*vo.ListFollowsResponse, error)
}

type followService struct {
	followRepo  mysql.FollowRepository
	userService UserService
	logger      *core.ZapLogger
}

func NewFollowService(followRepo mysql.FollowRepository, userService UserService, logger *core.ZapLogger) FollowService {
	return &followService{followRepo: followRepo, userService: userService, logger: logger}
}

func (s *followService) Follow(ctx context.Context, followerID, followeeID uint64) (*vo.FollowStatusVO, error) {
	if followerID == followeeID {
		return nil, myErrors.ErrSelfFollow
	}
	exists, err := s.userService.Exists(ctx, followeeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, myErrors.ErrUserNotFound
	}

	if err := s.followRepo.CreateFollow(ctx, &entities.Follow{FollowerID: followerID, FolloweeID: followeeID}); err != nil {
		if errors.Is(err, mysql.ErrDuplicateEntry) {
			return nil, myErrors.ErrAlreadyFollowing
		}
		s.logger.Error("创建关注关系失败", zap.Error(err), zap.Uint64("followerID", followerID), zap.Uint64("followeeID", followeeID))
		return nil, myErrors.NewSystemError("关注失败", err)
	}
	return &vo.FollowStatusVO{UserID: followeeID, Following: true}, nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followeeID uint64) (*vo.FollowStatusVO, error) {
	if followerID == followeeID {
		return nil, myErrors.ErrSelfFollow
	}
	deleted, err := s.followRepo.DeleteFollow(ctx, followerID, followeeID)
	if err != nil {
		return nil, myErrors.NewSystemError("取消关注失败", err)
	}
	if !deleted {
		return nil, myErrors.ErrNotFollowing
	}
	return &vo.FollowStatusVO{UserID: followeeID, Following: false}, nil
}

func (s *followService) Status(ctx context.Context, followerID, followeeID uint64) (*vo.FollowStatusVO, error) {
	following, err := s.followRepo.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return nil, myErrors.NewSystemError("查询关注状态失败", err)
	}
	return &vo.FollowStatusVO{UserID: followeeID, Following: following}, nil
}

func (s *followService) ListFollowers(ctx context.Context, userID uint64, page *dto.CursorPageRequest) (*vo.ListFollowsResponse, error) {
	follows, next, err := s.followRepo.ListFollowers(ctx, userID, page.Cursor, page.Size())
	if err != nil {
		return nil, myErrors.NewSystemError("获取粉丝列表失败", err)
	}
	ids := make([]uint64, len(follows))
	for i, f := range follows {
		ids[i] = f.FollowerID
	}
	return s.buildList(ctx, ids, next)
}

func (s *followService) ListFollowing(ctx context.Context, userID uint64, page *dto.CursorPageRequest) (*vo.ListFollowsResponse, error) {
	follows, next, err := s.followRepo.ListFollowing(ctx, userID, page.Cursor, page.Size())
	if err != nil {
		return nil, myErrors.NewSystemError("获取关注列表失败", err)
	}
	ids := make([]uint64, len(follows))
	for i, f := range follows {
		ids[i] = f.FolloweeID
	}
	return s.buildList(ctx, ids, next)
}

// buildList 按关注时间顺序组装用户简要信息，资料缺失的用户只返回 ID。
func (s *followService) buildList(ctx context.Context, ids []uint64, next *uint64) (*vo.ListFollowsResponse, error) {
	briefs, err := s.userService.GetBriefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	users := make([]*vo.UserBriefVO, 0, len(ids))
	for _, id := range ids {
		if b, ok := briefs[id]; ok {
			users = append(users, b)
		} else {
			users = append(users, &vo.UserBriefVO{UserID: id})
		}
	}
	return &vo.ListFollowsResponse{Users: users, NextCursor: next}, nil
}
