package tasks

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/repo/mysql"
	"github.com/Xushengqwer/social_service/repo/redis"
)

const (
	defaultViewSyncSpec = "@every 10m"
	viewSyncTimeout     = 3 * time.Minute
	viewSyncLockName    = "view_count_sync"
)

// ViewCountSyncTask 定时将 Redis 中的帖子浏览量回写 MySQL。
type ViewCountSyncTask struct {
	postViewRepo  redis.PostViewRepository
	postBatchRepo mysql.PostBatchOperationsRepository
	locker        *TaskLocker
	cron          *cron.Cron
	spec          string
	logger        *zap.Logger
}

func NewViewCountSyncTask(
	postViewRepo redis.PostViewRepository,
	postBatchRepo mysql.PostBatchOperationsRepository,
	locker *TaskLocker,
	cfg config.ViewSyncConfig,
	logger *zap.Logger,
) *ViewCountSyncTask {
	spec := cfg.CronSpec
	if spec == "" {
		spec = defaultViewSyncSpec
	}
	return &ViewCountSyncTask{
		postViewRepo:  postViewRepo,
		postBatchRepo: postBatchRepo,
		locker:        locker,
		cron:          cron.New(),
		spec:          spec,
		logger:        logger,
	}
}

// Start 注册并启动 cron 作业，调度表达式非法时返回错误。
func (t *ViewCountSyncTask) Start() error {
	entryID, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), viewSyncTimeout)
		defer cancel()
		t.locker.RunExclusive(ctx, viewSyncLockName, viewSyncTimeout+time.Minute, t.RunOnce)
	})
	if err != nil {
		return err
	}
	t.cron.Start()
	t.logger.Info("帖子浏览量同步MySQL定时任务已启动", zap.String("schedule", t.spec), zap.Int("cronEntryID", int(entryID)))
	return nil
}

// RunOnce 执行一次回写。单个批次失败由仓库层聚合返回，这里只记录日志。
func (t *ViewCountSyncTask) RunOnce(ctx context.Context) {
	start := time.Now()
	viewCounts, err := t.postViewRepo.GetAllViewCounts(ctx)
	if err != nil {
		t.logger.Error("从 Redis 获取全量浏览量失败，本次同步中止", zap.Error(err))
		return
	}
	if len(viewCounts) == 0 {
		t.logger.Debug("没有需要回写的浏览量")
		return
	}

	if err := t.postBatchRepo.BatchUpdatePostViewCounts(ctx, viewCounts); err != nil {
		t.logger.Error("批量回写浏览量部分失败", zap.Error(err), zap.Int("帖子数量", len(viewCounts)))
		return
	}
	t.logger.Info("浏览量回写完成", zap.Int("帖子数量", len(viewCounts)), zap.Duration("duration", time.Since(start)))
}

// Stop 停止调度，返回的 context 在正在执行的任务结束后关闭。
func (t *ViewCountSyncTask) Stop() context.Context {
	t.logger.Info("正在停止帖子浏览量同步MySQL定时任务...")
	return t.cron.Stop()
}
