package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTrackerShutdownWaitsForTasks(t *testing.T) {
	tr := NewTracker(zap.NewNop())
	var done atomic.Int32

	for i := 0; i < 5; i++ {
		ok := tr.Go("sleep", time.Second, func(ctx context.Context) error {
			time.Sleep(20 * time.Millisecond)
			done.Add(1)
			return nil
		})
		require.True(t, ok)
	}
	tr.Go("fail", time.Second, func(ctx context.Context) error { return errors.New("boom") })

	require.NoError(t, tr.Shutdown(context.Background()))
	assert.Equal(t, int32(5), done.Load())

	// 关闭后提交的任务不会执行
	ran := false
	assert.False(t, tr.Go("late", time.Second, func(ctx context.Context) error {
		ran = true
		return nil
	}))
	assert.False(t, ran)
}

func TestTrackerTaskContextHasTimeout(t *testing.T) {
	tr := NewTracker(zap.NewNop())
	var deadlineSet atomic.Bool
	tr.Go("deadline", 50*time.Millisecond, func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		deadlineSet.Store(ok)
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, tr.Shutdown(context.Background()))
	assert.True(t, deadlineSet.Load())
}

func TestTrackerShutdownTimeout(t *testing.T) {
	tr := NewTracker(zap.NewNop())
	release := make(chan struct{})
	defer close(release)
	tr.Go("stuck", time.Minute, func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tr.Shutdown(ctx), context.DeadlineExceeded)
}

func TestTrackerRecoversPanic(t *testing.T) {
	tr := NewTracker(zap.NewNop())
	tr.Go("panic", time.Second, func(ctx context.Context) error {
		panic("unexpected")
	})
	assert.NoError(t, tr.Shutdown(context.Background()))
}
