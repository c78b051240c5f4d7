package tasks

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/repo/redis"
)

const (
	defaultHotPostsSpec = "@every 5m"
	defaultHotPostsSize = 100
	hotPostsTimeout     = 10 * time.Minute
	hotPostsLockName    = "hot_posts_cache"
)

// HotPostsCacheTask 定时从全量排行截取热榜快照，并刷新热门帖子与详情缓存。
type HotPostsCacheTask struct {
	hotPostCache redis.HotPostCache
	locker       *TaskLocker
	cron         *cron.Cron
	spec         string
	size         int64
	logger       *zap.Logger
}

func NewHotPostsCacheTask(hotPostCache redis.HotPostCache, locker *TaskLocker, cfg config.ViewSyncConfig, logger *zap.Logger) *HotPostsCacheTask {
	t := &HotPostsCacheTask{
		hotPostCache: hotPostCache,
		locker:       locker,
		cron:         cron.New(),
		spec:         cfg.HotPostsCronSpec,
		size:         cfg.HotPostsSize,
		logger:       logger,
	}
	if t.spec == "" {
		t.spec = defaultHotPostsSpec
	}
	if t.size <= 0 {
		t.size = defaultHotPostsSize
	}
	return t
}

func (t *HotPostsCacheTask) Start() error {
	entryID, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), hotPostsTimeout)
		defer cancel()
		t.locker.RunExclusive(ctx, hotPostsLockName, hotPostsTimeout+time.Minute, t.RunOnce)
	})
	if err != nil {
		return err
	}
	t.cron.Start()
	t.logger.Info("热门帖子缓存刷新定时任务已启动", zap.String("schedule", t.spec), zap.Int("cronEntryID", int(entryID)))
	return nil
}

// RunOnce 快照生成失败时不刷新缓存，避免基于旧快照写入。
func (t *HotPostsCacheTask) RunOnce(ctx context.Context) {
	start := time.Now()
	if err := t.hotPostCache.CreateHotList(ctx, t.size); err != nil {
		t.logger.Error("创建热榜快照失败", zap.Error(err))
		return
	}
	if err := t.hotPostCache.RefreshHotPosts(ctx); err != nil {
		t.logger.Error("刷新热门帖子缓存失败", zap.Error(err))
		return
	}
	t.logger.Info("热门帖子缓存刷新完成", zap.Int64("size", t.size), zap.Duration("duration", time.Since(start)))
}

func (t *HotPostsCacheTask) Stop() context.Context {
	t.logger.Info("正在停止热门帖子缓存刷新定时任务...")
	return t.cron.Stop()
}
