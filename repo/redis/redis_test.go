package redis

import (
	"context"
	"testing"
	"time"

	commonentities "github.com/Xushengqwer/go-common/models/entities"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRateLimiterTokenBucket(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()

	now := time.UnixMilli(1_700_000_000_000)
	l := NewRateLimiter(client, zap.NewNop()).(*rateLimiter)
	l.now = func() time.Time { return now }

	key := constant.RateLimitPrefix + "AuthController:Login:login"
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, key, 3, time.Second)
		require.NoError(t, err)
		assert.True(t, ok, "第 %d 次请求应当放行", i+1)
	}
	ok, err := l.Allow(ctx, key, 3, time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	// 另一个 key 使用独立的桶
	ok, err = l.Allow(ctx, key+"-other", 3, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	// 过去三分之一个窗口补充一个令牌
	now = now.Add(334 * time.Millisecond)
	ok, err = l.Allow(ctx, key, 3, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = l.Allow(ctx, key, 3, time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRateLimiterDisabledRule(t *testing.T) {
	_, client := newTestRedis(t)
	l := NewRateLimiter(client, zap.NewNop())
	ok, err := l.Allow(context.Background(), "k", 0, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenBlacklist(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	b := NewTokenBlacklist(client)

	found, err := b.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, b.Add(ctx, "jti-1", time.Minute))
	found, err = b.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, found)

	mr.FastForward(2 * time.Minute)
	found, err = b.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, b.Add(ctx, "expired", 0))
	assert.False(t, mr.Exists(constant.TokenBlacklistPrefix+"expired"))
}

func TestHotNewsCache(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	c := NewHotNewsCache(client, zap.NewNop())

	_, err := c.GetList(ctx, "", 10)
	assert.ErrorIs(t, err, myErrors.ErrCacheMiss)

	news := []*vo.HotNewsVO{{ID: 1, Title: "暑期出行高峰"}}
	require.NoError(t, c.SetList(ctx, "", 10, news))
	require.NoError(t, c.SetList(ctx, "travel", 5, news))

	got, err := c.GetList(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "暑期出行高峰", got[0].Title)
	assert.Equal(t, constant.HotNewsCacheTTL, mr.TTL(constant.HotNewsListKey+"all:10"))

	require.NoError(t, c.InvalidateAll(ctx))
	_, err = c.GetList(ctx, "travel", 5)
	assert.ErrorIs(t, err, myErrors.ErrCacheMiss)
}

func TestDestinationRank(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()
	r := NewDestinationRank(client)

	require.NoError(t, r.IncrDestination(ctx, "Kyoto", 1))
	require.NoError(t, r.IncrDestination(ctx, " kyoto ", 1))
	require.NoError(t, r.IncrDestination(ctx, "大理", 1))
	require.NoError(t, r.IncrDestination(ctx, "", 1))

	top, err := r.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "kyoto", top[0].Destination)
	assert.Equal(t, int64(2), top[0].PlanCount)

	require.NoError(t, r.IncrDestination(ctx, "大理", -1))
	top, err = r.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
}

type fakePostBatch struct {
	posts   []*entities.Post
	details []*entities.PostDetail
}

func (f *fakePostBatch) BatchUpdatePostViewCounts(context.Context, map[uint64]int64) error {
	return nil
}

func (f *fakePostBatch) GetPostDetailsByPostIDs(_ context.Context, ids []uint64) ([]*entities.PostDetail, error) {
	return f.details, nil
}

func (f *fakePostBatch) GetPostsByIDs(_ context.Context, ids []uint64) ([]*entities.Post, error) {
	want := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*entities.Post
	for _, p := range f.posts {
		if want[p.ID] {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePostBatch) BatchGetPostImages(_ context.Context, ids []uint64) (map[uint64][]*entities.PostImage, error) {
	return map[uint64][]*entities.PostImage{}, nil
}

func TestHotPostCacheRefreshAndRead(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	batch := &fakePostBatch{
		posts: []*entities.Post{
			{BaseModel: commonentities.BaseModel{ID: 1}, Title: "一"},
			{BaseModel: commonentities.BaseModel{ID: 2}, Title: "二"},
			{BaseModel: commonentities.BaseModel{ID: 3}, Title: "三"},
		},
		details: []*entities.PostDetail{{PostID: 2, Content: "正文二"}},
	}
	c := NewHotPostCache(client, batch, zap.NewNop())

	_, err := mr.ZAdd(constant.PostsRankKey, 5, "1")
	require.NoError(t, err)
	_, err = mr.ZAdd(constant.PostsRankKey, 50, "2")
	require.NoError(t, err)
	_, err = mr.ZAdd(constant.PostsRankKey, 20, "3")
	require.NoError(t, err)
	// 掉出热榜的旧详情应被清理
	require.NoError(t, mr.Set(constant.PostDetailCacheKeyPrefix+"99", "{}"))

	require.NoError(t, c.CreateHotList(ctx, 2))
	require.NoError(t, c.RefreshHotPosts(ctx))

	ids, err := c.GetPostsByRange(ctx, 0, 9)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, ids)

	rank, err := c.GetPostRank(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rank)
	rank, err = c.GetPostRank(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), rank)

	posts, err := c.GetPosts(ctx, []uint64{2, 1, 3})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, uint64(2), posts[0].ID)
	assert.Equal(t, int64(50), posts[0].ViewCount)

	detail, err := c.GetPostDetail(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "正文二", detail.Content)
	assert.False(t, mr.Exists(constant.PostDetailCacheKeyPrefix+"99"))

	require.NoError(t, c.Invalidate(ctx, 2))
	_, err = c.GetPostDetail(ctx, 2)
	assert.ErrorIs(t, err, myErrors.ErrCacheMiss)
}

func TestGetPostsByRangeRejectsInvalidRange(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewHotPostCache(client, &fakePostBatch{}, zap.NewNop())

	ids, err := c.GetPostsByRange(context.Background(), -1, 5)
	require.NoError(t, err)
	assert.Empty(t, ids)
	ids, err = c.GetPostsByRange(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPostViewCountsScanAndCleanup(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	repo := NewPostViewRepository(client, config.ViewSyncConfig{ScanBatchSize: 2}, zap.NewNop())

	for id, v := range map[string]string{"1": "10", "2": "3", "3": "7", "bad": "1"} {
		require.NoError(t, mr.Set(constant.PostViewCountPrefix+id, v))
	}
	require.NoError(t, mr.Set("unrelated", "99"))

	counts, err := repo.GetAllViewCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[uint64]int64{1: 10, 2: 3, 3: 7}, counts)

	require.NoError(t, repo.EnsureRanked(ctx, 1))
	_, err = client.ZAdd(ctx, constant.PostsRankKey, redis.Z{Score: 10, Member: "2"}).Result()
	require.NoError(t, err)
	require.NoError(t, repo.EnsureRanked(ctx, 2))
	score, err := client.ZScore(ctx, constant.PostsRankKey, "2").Result()
	require.NoError(t, err)
	assert.Equal(t, float64(10), score, "已有分数不应被覆盖")

	require.NoError(t, repo.RemovePost(ctx, 2))
	assert.False(t, mr.Exists(constant.PostViewCountPrefix+"2"))
	_, err = client.ZScore(ctx, constant.PostsRankKey, "2").Result()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestMergeViewCounts(t *testing.T) {
	dst := map[uint64]int64{}
	keys := []string{
		constant.PostViewCountPrefix + "1",
		constant.PostViewCountPrefix + "x",
		constant.PostViewCountPrefix + "2",
		constant.PostViewCountPrefix + "3",
	}
	skipped := mergeViewCounts(dst, keys, []interface{}{"5", "1", nil, "oops"})
	assert.Equal(t, 3, skipped)
	assert.Equal(t, map[uint64]int64{1: 5}, dst)
}

func TestPostViewUnrankKeepsCounter(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	repo := NewPostViewRepository(client, config.ViewSyncConfig{}, zap.NewNop())

	require.NoError(t, mr.Set(viewCountKey(5), "42"))
	require.NoError(t, mr.Set(viewersKey(5), "filter"))
	_, err := mr.ZAdd(constant.PostsRankKey, 42, "5")
	require.NoError(t, err)
	_, err = mr.ZAdd(constant.HotPostsRankKey, 42, "5")
	require.NoError(t, err)

	// 隐藏: 只出榜
	require.NoError(t, repo.Unrank(ctx, 5))
	assert.False(t, mr.Exists(constant.HotPostsRankKey))
	_, err = client.ZScore(ctx, constant.PostsRankKey, "5").Result()
	assert.ErrorIs(t, err, redis.Nil)
	got, err := mr.Get(viewCountKey(5))
	require.NoError(t, err)
	assert.Equal(t, "42", got)
	assert.True(t, mr.Exists(viewersKey(5)))

	// 恢复: 按原计数回榜
	require.NoError(t, repo.EnsureRanked(ctx, 5))
	score, err := client.ZScore(ctx, constant.PostsRankKey, "5").Result()
	require.NoError(t, err)
	assert.Equal(t, float64(42), score)

	counts, err := repo.GetAllViewCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), counts[5])
}

func TestEnsureRankedWithoutCounter(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()
	repo := NewPostViewRepository(client, config.ViewSyncConfig{}, zap.NewNop())

	require.NoError(t, repo.EnsureRanked(ctx, 9))
	score, err := client.ZScore(ctx, constant.PostsRankKey, "9").Result()
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestDestinationRankMove(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()
	r := NewDestinationRank(client)

	require.NoError(t, r.IncrDestination(ctx, "Kyoto", 2))
	require.NoError(t, r.IncrDestination(ctx, "大理", 1))

	require.NoError(t, r.Move(ctx, " kyoto", "大理"))
	scores := destinationScores(t, r)
	assert.Equal(t, map[string]int64{"kyoto": 1, "大理": 2}, scores)

	// 最后一次计数移走后旧目的地出榜
	require.NoError(t, r.Move(ctx, "Kyoto", "Osaka"))
	scores = destinationScores(t, r)
	assert.Equal(t, map[string]int64{"大理": 2, "osaka": 1}, scores)

	// 大小写差异视为同一目的地，不改变分数
	require.NoError(t, r.Move(ctx, "OSAKA", "osaka"))
	// 只有一端时退化为单边调整
	require.NoError(t, r.Move(ctx, "", "lisbon"))
	require.NoError(t, r.Move(ctx, "大理", ""))
	scores = destinationScores(t, r)
	assert.Equal(t, map[string]int64{"大理": 1, "osaka": 1, "lisbon": 1}, scores)
}

func destinationScores(t *testing.T, r DestinationRank) map[string]int64 {
	t.Helper()
	top, err := r.Top(context.Background(), 100)
	require.NoError(t, err)
	out := make(map[string]int64, len(top))
	for _, d := range top {
		out[d.Destination] = d.PlanCount
	}
	return out
}
