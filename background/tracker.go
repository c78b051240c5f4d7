package background

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Tracker 托管请求结束后仍需完成的异步任务（事件发送、浏览计数、操作日志、对象清理）。
// 每个任务使用独立的超时上下文，不继承请求的 ctx。
// Shutdown 之后提交的任务会被丢弃。
type Tracker struct {
	mu     sync.RWMutex
	closed bool
	wg     conc.WaitGroup
	logger *zap.Logger
}

func NewTracker(logger *zap.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// Go 提交一个任务，返回 false 表示 Tracker 已关闭、任务未执行。
// fn 返回的错误以 Warn 级别记录，panic 会被 conc 捕获并在 Shutdown 时记录。
func (t *Tracker) Go(name string, timeout time.Duration, fn func(ctx context.Context) error) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		t.logger.Warn("服务正在关闭，丢弃异步任务", zap.String("task", name))
		return false
	}
	t.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			t.logger.Warn("异步任务失败", zap.String("task", name), zap.Error(err))
		}
	})
	return true
}

// Shutdown 停止接收新任务并等待已提交的任务结束，ctx 到期时返回 ctx.Err()。
func (t *Tracker) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if r := t.wg.WaitAndRecover(); r != nil {
			t.logger.Error("异步任务发生 panic", zap.Error(r.AsError()))
		}
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Runner 提交异步任务，*Tracker 实现该接口。
type Runner interface {
	Go(name string, timeout time.Duration, fn func(ctx context.Context) error) bool
}
