package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/background"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/redis"
)

// ErrHotCursorExpired 游标帖子已不在热榜中，客户端应从头加载。
var ErrHotCursorExpired = myErrors.NewBusinessError(myErrors.CodeBusiness, "热榜已更新，请刷新后重试")

// HotPostService 热门帖子查询，数据全部来自定时任务生成的 Redis 快照。
type HotPostService interface {
	// GetHotPostsByCursor lastPostID 为 nil 表示首页；返回的游标为 nil 表示没有更多。
	GetHotPostsByCursor(ctx context.Context, lastPostID *uint64, limit int) (*vo.ListHotPostsByCursorResponse, error)

	// GetHotPostDetail 缓存未命中时回源数据库。
	GetHotPostDetail(ctx context.Context, postID uint64, viewerID uint64) (*vo.PostDetailVO, error)
}

type hotPostService struct {
	postCache    redis.HotPostCache
	postViewRepo redis.PostViewRepository
	postService  PostService
	tasks        background.Runner
	logger       *core.ZapLogger
}

func NewHotPostService(postCache redis.HotPostCache, postViewRepo redis.PostViewRepository, postService PostService, tasks background.Runner, logger *core.ZapLogger) HotPostService {
	return &hotPostService{
		postCache:    postCache,
		postViewRepo: postViewRepo,
		postService:  postService,
		tasks:        tasks,
		logger:       logger,
	}
}

func (s *hotPostService) GetHotPostsByCursor(ctx context.Context, lastPostID *uint64, limit int) (*vo.ListHotPostsByCursorResponse, error) {
	if limit <= 0 {
		return nil, myErrors.NewValidationError("limit", "limit 参数必须大于0")
	}

	var start int64
	if lastPostID != nil {
		rank, err := s.postCache.GetPostRank(ctx, *lastPostID)
		if err != nil {
			s.logger.Error("获取上一页最后帖子排名失败", zap.Error(err), zap.Uint64p("lastPostID", lastPostID))
			return nil, myErrors.NewSystemError("获取热门帖子失败", err)
		}
		if rank == -1 {
			s.logger.Warn("游标 lastPostID 已不在热榜中", zap.Uint64p("lastPostID", lastPostID))
			return nil, ErrHotCursorExpired
		}
		start = rank + 1
	}
	stop := start + int64(limit) - 1

	// 1. 按排名取 ID
	postIDs, err := s.postCache.GetPostsByRange(ctx, start, stop)
	if err != nil {
		s.logger.Error("从缓存按排名范围获取帖子 ID 失败", zap.Error(err), zap.Int64("start", start), zap.Int64("stop", stop))
		return nil, myErrors.NewSystemError("获取热门帖子失败", err)
	}
	if len(postIDs) == 0 {
		return &vo.ListHotPostsByCursorResponse{Posts: []*vo.PostResponse{}}, nil
	}

	// 2. 批量取摘要，部分缺失时直接跳过
	posts, err := s.postCache.GetPosts(ctx, postIDs)
	if err != nil {
		s.logger.Error("从缓存批量获取帖子失败", zap.Error(err), zap.Int("count", len(postIDs)))
		return nil, myErrors.NewSystemError("获取热门帖子失败", err)
	}

	// 游标取自 ZSet 返回的最后一个 ID，而不是实际取到的帖子
	var nextCursor *uint64
	if len(postIDs) == limit {
		last := postIDs[len(postIDs)-1]
		nextCursor = &last
	}
	return &vo.ListHotPostsByCursorResponse{
		Posts:      vo.MapPostsToPostResponsesVO(posts),
		NextCursor: nextCursor,
	}, nil
}

func (s *hotPostService) GetHotPostDetail(ctx context.Context, postID uint64, viewerID uint64) (*vo.PostDetailVO, error) {
	detail, err := s.postCache.GetPostDetail(ctx, postID)
	if err != nil {
		if !errors.Is(err, myErrors.ErrCacheMiss) {
			s.logger.Warn("从缓存获取帖子详情失败，回源数据库", zap.Error(err), zap.Uint64("postID", postID))
		}
		// 回源路径自带浏览计数
		return s.postService.GetPostDetailByPostID(ctx, postID, viewerID)
	}

	if viewerID != 0 {
		uID := strconv.FormatUint(viewerID, 10)
		s.tasks.Go("incrementHotView", viewCountTimeout, func(ctx context.Context) error {
			if _, incErr := s.postViewRepo.IncrementViewCount(ctx, postID, uID); incErr != nil {
				return fmt.Errorf("热门帖子 %d 浏览计数: %w", postID, incErr)
			}
			return nil
		})
	}
	return detail, nil
}
