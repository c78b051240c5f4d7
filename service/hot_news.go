package service

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
	"github.com/Xushengqwer/social_service/repo/redis"
)

const defaultHotNewsLimit = 20

// HotNewsService 热点资讯，列表走 cache-aside。
type HotNewsService interface {
	List(ctx context.Context, req *dto.ListHotNewsRequest) ([]*vo.HotNewsVO, error)
	Detail(ctx context.Context, newsID uint64) (*vo.HotNewsDetailVO, error)
	Create(ctx context.Context, req *dto.CreateHotNewsRequest) (*vo.HotNewsDetailVO, error)
	Delete(ctx context.Context, newsID uint64) error
}

type hotNewsService struct {
	repo   mysql.HotNewsRepository
	cache  redis.HotNewsCache
	logger *zap.Logger
}

func NewHotNewsService(repo mysql.HotNewsRepository, cache redis.HotNewsCache, logger *zap.Logger) HotNewsService {
	return &hotNewsService{repo: repo, cache: cache, logger: logger}
}

func (s *hotNewsService) List(ctx context.Context, req *dto.ListHotNewsRequest) ([]*vo.HotNewsVO, error) {
	limit := pageLimit(req.Limit, defaultHotNewsLimit, 0)

	cached, err := s.cache.GetList(ctx, req.Category, limit)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, myErrors.ErrCacheMiss) {
		// 缓存故障时降级读库
		s.logger.Warn("读取热点资讯缓存失败", zap.String("category", req.Category), zap.Error(err))
	}

	news, err := s.repo.List(ctx, req.Category, limit)
	if err != nil {
		return nil, myErrors.NewSystemError("获取热点资讯失败", err)
	}
	result := vo.MapHotNewsToVO(news)
	if setErr := s.cache.SetList(ctx, req.Category, limit, result); setErr != nil {
		s.logger.Warn("写入热点资讯缓存失败", zap.String("category", req.Category), zap.Error(setErr))
	}
	return result, nil
}

func (s *hotNewsService) Detail(ctx context.Context, newsID uint64) (*vo.HotNewsDetailVO, error) {
	main, detail, err := s.repo.GetByID(ctx, newsID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrNewsNotFound
		}
		return nil, myErrors.NewSystemError("获取资讯详情失败", err)
	}
	return vo.NewHotNewsDetailVO(main, detail), nil
}

func (s *hotNewsService) Create(ctx context.Context, req *dto.CreateHotNewsRequest) (*vo.HotNewsDetailVO, error) {
	publishedAt := req.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}
	main := &entities.HotNewsMain{
		Title:       req.Title,
		Source:      req.Source,
		URL:         req.URL,
		Cover:       req.Cover,
		Category:    req.Category,
		HotValue:    req.HotValue,
		Rank:        req.Rank,
		PublishedAt: publishedAt,
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}
	detail := &entities.HotNewsDetail{Content: req.Content, Images: images}

	if err := s.repo.Create(ctx, main, detail); err != nil {
		s.logger.Error("创建热点资讯失败", zap.String("title", req.Title), zap.Error(err))
		return nil, myErrors.NewSystemError("创建热点资讯失败", err)
	}
	s.invalidate(ctx)
	return vo.NewHotNewsDetailVO(main, detail), nil
}

func (s *hotNewsService) Delete(ctx context.Context, newsID uint64) error {
	if err := s.repo.Delete(ctx, newsID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return myErrors.ErrNewsNotFound
		}
		return myErrors.NewSystemError("删除热点资讯失败", err)
	}
	s.invalidate(ctx)
	return nil
}

// invalidate 失败只记日志，缓存最多滞后一个 TTL。
func (s *hotNewsService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("清理热点资讯缓存失败", zap.Error(err))
	}
}
