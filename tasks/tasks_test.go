package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/social_service/repo/redis"
)

func newTestLocker(t *testing.T) (*miniredis.Miniredis, *TaskLocker) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewTaskLocker(client, zap.NewNop())
}

// 只实现任务用到的方法，其余方法调用会因内嵌 nil 接口而 panic
type fakeViewRepo struct {
	redisrepo.PostViewRepository
	counts map[uint64]int64
	err    error
}

func (f *fakeViewRepo) GetAllViewCounts(ctx context.Context) (map[uint64]int64, error) {
	return f.counts, f.err
}

type fakeBatchRepo struct {
	mysql.PostBatchOperationsRepository
	calls []map[uint64]int64
}

func (f *fakeBatchRepo) BatchUpdatePostViewCounts(ctx context.Context, viewCounts map[uint64]int64) error {
	f.calls = append(f.calls, viewCounts)
	return nil
}

type fakeHotPostCache struct {
	redisrepo.HotPostCache
	createErr error
	created   []int64
	refreshed int
}

func (f *fakeHotPostCache) CreateHotList(ctx context.Context, n int64) error {
	f.created = append(f.created, n)
	return f.createErr
}

func (f *fakeHotPostCache) RefreshHotPosts(ctx context.Context) error {
	f.refreshed++
	return nil
}

func TestTaskLockerRunExclusive(t *testing.T) {
	mr, locker := newTestLocker(t)
	ctx := context.Background()

	runs := 0
	for i := 0; i < 2; i++ {
		ok := locker.RunExclusive(ctx, "demo", time.Minute, func(ctx context.Context) {
			runs++
			assert.True(t, mr.Exists(constant.TaskLockPrefix+"demo"), "执行期间应持有锁")
		})
		assert.True(t, ok)
	}
	assert.Equal(t, 2, runs)
	assert.False(t, mr.Exists(constant.TaskLockPrefix+"demo"), "执行结束后应释放锁")
}

func TestTaskLockerSkipsWhenHeldElsewhere(t *testing.T) {
	mr, locker := newTestLocker(t)
	require.NoError(t, mr.Set(constant.TaskLockPrefix+"demo", "another-instance"))

	called := false
	ok := locker.RunExclusive(context.Background(), "demo", time.Minute, func(ctx context.Context) {
		called = true
	})
	assert.False(t, ok)
	assert.False(t, called)

	// 其他实例的锁不能被误删
	v, err := mr.Get(constant.TaskLockPrefix + "demo")
	require.NoError(t, err)
	assert.Equal(t, "another-instance", v)
}

func TestViewCountSyncRunOnce(t *testing.T) {
	tests := []struct {
		name      string
		view      *fakeViewRepo
		wantCalls int
	}{
		{"有浏览量时回写", &fakeViewRepo{counts: map[uint64]int64{1: 10, 2: 3}}, 1},
		{"没有浏览量时跳过", &fakeViewRepo{counts: map[uint64]int64{}}, 0},
		{"读取 Redis 失败时中止", &fakeViewRepo{err: errors.New("redis down")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := &fakeBatchRepo{}
			task := NewViewCountSyncTask(tt.view, batch, nil, config.ViewSyncConfig{}, zap.NewNop())
			task.RunOnce(context.Background())
			require.Len(t, batch.calls, tt.wantCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, tt.view.counts, batch.calls[0])
			}
		})
	}
}

func TestHotPostsCacheRunOnce(t *testing.T) {
	cache := &fakeHotPostCache{}
	task := NewHotPostsCacheTask(cache, nil, config.ViewSyncConfig{HotPostsSize: 30}, zap.NewNop())
	task.RunOnce(context.Background())
	assert.Equal(t, []int64{30}, cache.created)
	assert.Equal(t, 1, cache.refreshed)

	// 快照失败时不刷新
	failing := &fakeHotPostCache{createErr: errors.New("boom")}
	task = NewHotPostsCacheTask(failing, nil, config.ViewSyncConfig{}, zap.NewNop())
	task.RunOnce(context.Background())
	assert.Equal(t, []int64{defaultHotPostsSize}, failing.created)
	assert.Zero(t, failing.refreshed)
}

func TestTaskStartRejectsInvalidSpec(t *testing.T) {
	task := NewHotPostsCacheTask(&fakeHotPostCache{}, nil, config.ViewSyncConfig{HotPostsCronSpec: "not a spec"}, zap.NewNop())
	assert.Error(t, task.Start())

	syncTask := NewViewCountSyncTask(&fakeViewRepo{}, &fakeBatchRepo{}, nil, config.ViewSyncConfig{CronSpec: "@every 1h"}, zap.NewNop())
	require.NoError(t, syncTask.Start())
	<-syncTask.Stop().Done()
}
