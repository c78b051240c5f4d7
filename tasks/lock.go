package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/constant"
)

// TaskLocker 基于 redsync 的任务互斥，多实例部署时同一任务同一时刻只在一个实例上执行。
type TaskLocker struct {
	rs     *redsync.Redsync
	logger *zap.Logger
}

func NewTaskLocker(client *redis.Client, logger *zap.Logger) *TaskLocker {
	return &TaskLocker{rs: redsync.New(goredis.NewPool(client)), logger: logger}
}

// RunExclusive 拿到锁才执行 fn，拿不到直接跳过本轮。ttl 应大于任务的最长执行时间。
func (l *TaskLocker) RunExclusive(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context)) bool {
	mutex := l.rs.NewMutex(constant.TaskLockPrefix+name,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)
	if err := mutex.LockContext(ctx); err != nil {
		if errors.Is(err, redsync.ErrFailed) {
			l.logger.Info("任务锁已被其他实例持有，跳过本轮", zap.String("task", name))
		} else {
			l.logger.Info("未获取到任务锁，跳过本轮", zap.String("task", name), zap.Error(err))
		}
		return false
	}
	defer func() {
		// 任务本身的 ctx 可能已超时，解锁使用独立的 ctx
		unlockCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if ok, err := mutex.UnlockContext(unlockCtx); err != nil || !ok {
			l.logger.Warn("释放任务锁失败，等待自动过期", zap.String("task", name), zap.Error(err))
		}
	}()

	fn(ctx)
	return true
}
