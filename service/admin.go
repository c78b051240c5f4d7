package service

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/enums"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
	"github.com/Xushengqwer/social_service/repo/redis"
)

// PostAdminService 管理员对帖子的查询与上下架。
type PostAdminService interface {
	ListPostsByCondition(ctx context.Context, req *dto.ListPostsByConditionRequest) (*vo.ListPostsAdminByConditionResponse, error)

	// UpdatePostStatus 隐藏时移出排行榜与热帖缓存，浏览计数保留；恢复时按原计数重新入榜。
	UpdatePostStatus(ctx context.Context, req *dto.UpdatePostStatusRequest) error
}

type postAdminService struct {
	postAdminRepo mysql.PostAdminRepository
	postViewRepo  redis.PostViewRepository
	hotPostCache  redis.HotPostCache
	logger        *core.ZapLogger
}

func NewPostAdminService(
	postAdminRepo mysql.PostAdminRepository,
	postViewRepo redis.PostViewRepository,
	hotPostCache redis.HotPostCache,
	logger *core.ZapLogger,
) PostAdminService {
	return &postAdminService{
		postAdminRepo: postAdminRepo,
		postViewRepo:  postViewRepo,
		hotPostCache:  hotPostCache,
		logger:        logger,
	}
}

func (s *postAdminService) ListPostsByCondition(ctx context.Context, req *dto.ListPostsByConditionRequest) (*vo.ListPostsAdminByConditionResponse, error) {
	posts, total, err := s.postAdminRepo.ListPostsByCondition(ctx, req)
	if err != nil {
		s.logger.Error("管理员按条件查询帖子失败", zap.Error(err), zap.Any("request", req))
		return nil, myErrors.NewSystemError("查询帖子列表失败", err)
	}
	return &vo.ListPostsAdminByConditionResponse{
		Posts: vo.MapPostsToPostResponsesVO(posts),
		Total: total,
	}, nil
}

func (s *postAdminService) UpdatePostStatus(ctx context.Context, req *dto.UpdatePostStatusRequest) error {
	if !req.Status.Valid() {
		return myErrors.NewValidationError("status", "无效的帖子状态")
	}
	if err := s.postAdminRepo.UpdatePostStatus(ctx, req.PostID, req.Status); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrPostNotFound
		}
		s.logger.Error("更新帖子状态失败", zap.Error(err), zap.Uint64("postID", req.PostID))
		return myErrors.NewSystemError("更新帖子状态失败", err)
	}

	s.syncRanking(ctx, req.PostID, req.Status)
	s.logger.Info("帖子状态已更新", zap.Uint64("postID", req.PostID), zap.Int("status", int(req.Status)))
	return nil
}

// syncRanking 排行与热帖缓存是派生数据，失败只记日志，等定时任务下一轮修正。
func (s *postAdminService) syncRanking(ctx context.Context, postID uint64, status enums.PostStatus) {
	var errs []error
	if status == enums.PostHidden {
		errs = append(errs, s.postViewRepo.Unrank(ctx, postID), s.hotPostCache.Invalidate(ctx, postID))
	} else {
		errs = append(errs, s.postViewRepo.EnsureRanked(ctx, postID))
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("帖子状态变更后同步排行失败", zap.Uint64("postID", postID), zap.Int("status", int(status)), zap.Error(err))
	}
}
