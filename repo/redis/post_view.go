package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/constant"
)

const defaultViewScanCount int64 = 1000

// PostViewRepository 帖子浏览计数与全量排行。
type PostViewRepository interface {
	// IncrementViewCount 同一用户在去重窗口内重复浏览只计一次，重复时 counted 为 false。
	IncrementViewCount(ctx context.Context, postID uint64, userID string) (counted bool, err error)

	// GetAllViewCounts 读取全部计数器，作为回写 MySQL 的数据源。
	GetAllViewCounts(ctx context.Context) (map[uint64]int64, error)

	// EnsureRanked 以当前浏览计数（没有计数器时为 0）进入全量排行，已有分数时不覆盖。
	EnsureRanked(ctx context.Context, postID uint64) error

	// Unrank 只把帖子移出两份排行，计数器与去重过滤器保留，用于隐藏后可恢复的帖子。
	Unrank(ctx context.Context, postID uint64) error

	// RemovePost 清理计数器、去重过滤器与两份排行中的成员，用于已删除的帖子。
	RemovePost(ctx context.Context, postID uint64) error
}

type postViewRepository struct {
	client    *redis.Client
	scanCount int64
	logger    *zap.Logger
}

func NewPostViewRepository(client *redis.Client, cfg config.ViewSyncConfig, logger *zap.Logger) PostViewRepository {
	scanCount := cfg.ScanBatchSize
	if scanCount <= 0 {
		scanCount = defaultViewScanCount
	}
	return &postViewRepository{client: client, scanCount: scanCount, logger: logger}
}

// KEYS: 过滤器, 计数器, 全量排行
// ARGV: userID, 误判率, 容量, 窗口秒数, postID
// 返回 -1 表示窗口内已计过数。
var countViewScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	redis.call("BF.RESERVE", KEYS[1], ARGV[2], ARGV[3])
	redis.call("EXPIRE", KEYS[1], ARGV[4])
end
if redis.call("BF.ADD", KEYS[1], ARGV[1]) == 0 then
	return -1
end
local views = redis.call("INCR", KEYS[2])
redis.call("ZADD", KEYS[3], views, ARGV[5])
return views
`)

func viewersKey(postID uint64) string {
	return constant.PostViewersPrefix + strconv.FormatUint(postID, 10)
}

func viewCountKey(postID uint64) string {
	return constant.PostViewCountPrefix + strconv.FormatUint(postID, 10)
}

func (r *postViewRepository) IncrementViewCount(ctx context.Context, postID uint64, userID string) (bool, error) {
	views, err := countViewScript.Run(ctx, r.client,
		[]string{viewersKey(postID), viewCountKey(postID), constant.PostsRankKey},
		userID,
		constant.ViewDedupErrorRate,
		constant.ViewDedupCapacity,
		int64(constant.ViewDedupWindow.Seconds()),
		postID,
	).Int64()
	if err != nil {
		r.logger.Error("浏览计数脚本执行失败", zap.Uint64("postID", postID), zap.Error(err))
		return false, fmt.Errorf("帖子 %d 浏览计数: %w", postID, err)
	}
	return views >= 0, nil
}

func (r *postViewRepository) GetAllViewCounts(ctx context.Context) (map[uint64]int64, error) {
	out := make(map[uint64]int64)
	iter := r.client.Scan(ctx, 0, constant.PostViewCountPrefix+"*", r.scanCount).Iterator()

	batch := make([]string, 0, r.scanCount)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		values, err := r.client.MGet(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("MGET %d 个浏览计数: %w", len(batch), err)
		}
		skipped := mergeViewCounts(out, batch, values)
		if skipped > 0 {
			r.logger.Warn("部分浏览计数无法解析，已跳过", zap.Int("skipped", skipped))
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if int64(len(batch)) >= r.scanCount {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("扫描浏览计数: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	r.logger.Debug("已读取全部浏览计数", zap.Int("posts", len(out)))
	return out, nil
}

// mergeViewCounts 把一批 MGET 结果写入 dst，key 或值无法解析的条目被跳过并计数。
// SCAN 与 MGET 之间被删除的 key 值为 nil，同样跳过。
func mergeViewCounts(dst map[uint64]int64, keys []string, values []interface{}) (skipped int) {
	for i, key := range keys {
		postID, err := strconv.ParseUint(strings.TrimPrefix(key, constant.PostViewCountPrefix), 10, 64)
		if err != nil || i >= len(values) {
			skipped++
			continue
		}
		raw, ok := values[i].(string)
		if !ok {
			skipped++
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			skipped++
			continue
		}
		dst[postID] = n
	}
	return skipped
}

// KEYS: 计数器, 全量排行
// ARGV: postID
var ensureRankedScript = redis.NewScript(`
local views = tonumber(redis.call("GET", KEYS[1]) or "0") or 0
return redis.call("ZADD", KEYS[2], "NX", views, ARGV[1])
`)

func (r *postViewRepository) EnsureRanked(ctx context.Context, postID uint64) error {
	err := ensureRankedScript.Run(ctx, r.client,
		[]string{viewCountKey(postID), constant.PostsRankKey},
		strconv.FormatUint(postID, 10),
	).Err()
	if err != nil {
		return fmt.Errorf("帖子 %d 加入排行: %w", postID, err)
	}
	return nil
}

func (r *postViewRepository) Unrank(ctx context.Context, postID uint64) error {
	member := strconv.FormatUint(postID, 10)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, constant.PostsRankKey, member)
		pipe.ZRem(ctx, constant.HotPostsRankKey, member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("帖子 %d 移出排行: %w", postID, err)
	}
	return nil
}

func (r *postViewRepository) RemovePost(ctx context.Context, postID uint64) error {
	member := strconv.FormatUint(postID, 10)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, viewCountKey(postID), viewersKey(postID))
		pipe.ZRem(ctx, constant.PostsRankKey, member)
		pipe.ZRem(ctx, constant.HotPostsRankKey, member)
		return nil
	})
	if err != nil {
		r.logger.Error("清理帖子浏览数据失败", zap.Uint64("postID", postID), zap.Error(err))
		return fmt.Errorf("清理帖子 %d 的浏览数据: %w", postID, err)
	}
	return nil
}
