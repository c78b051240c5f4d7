package dependencies

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	connectAttempts = 5
	connectInterval = 2 * time.Second
)

// connectWithRetry 启动阶段依赖可能比本服务晚就绪，按固定间隔重试 attempts 次。
// ctx 结束时立即放弃。
func connectWithRetry(ctx context.Context, name string, attempts int, interval time.Duration, logger *zap.Logger, connect func(context.Context) error) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = connect(ctx); err == nil {
			return nil
		}
		logger.Warn("连接依赖失败", zap.String("dependency", name), zap.Int("attempt", i), zap.Int("attempts", attempts), zap.Error(err))
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("连接 %s 被取消: %w (最后一次错误: %v)", name, ctx.Err(), err)
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("连接 %s 失败，已重试 %d 次: %w", name, attempts, err)
}
