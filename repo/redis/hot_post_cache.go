package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
)

// HotPostCache 热门帖子缓存。
// 写入侧由定时任务调用: CreateHotList 生成热榜快照，RefreshHotPosts 按快照回源 MySQL 填充 Hash 与详情 Key。
// 读取侧服务于热门帖子接口。
type HotPostCache interface {
	// CreateHotList 原子性地从全量排行截取前 n 名覆盖热榜快照。
	CreateHotList(ctx context.Context, n int64) error

	// RefreshHotPosts 将热榜快照中的帖子及详情写入缓存，并清理已掉出热榜的详情 Key。
	RefreshHotPosts(ctx context.Context) error

	// GetPostRank 热榜中的 0-based 排名，不在榜单中返回 -1。
	GetPostRank(ctx context.Context, postID uint64) (int64, error)

	// GetPostsByRange 按排名范围返回帖子 ID，闭区间。
	GetPostsByRange(ctx context.Context, start, stop int64) ([]uint64, error)

	// GetPosts 按给定顺序返回缓存中的帖子，未命中的 ID 被跳过。
	GetPosts(ctx context.Context, postIDs []uint64) ([]*entities.Post, error)

	// GetPostDetail 未命中返回 myErrors.ErrCacheMiss。
	GetPostDetail(ctx context.Context, postID uint64) (*vo.PostDetailVO, error)

	// Invalidate 帖子被修改、删除或隐藏时移除其缓存。
	Invalidate(ctx context.Context, postID uint64) error
}

// 详情 Key 的存活时间，应长于刷新周期，保证两次刷新之间不会集中失效
const hotPostDetailTTL = 2 * time.Hour

// ZREVRANGE WITHSCORES 返回 {member, score, ...}，ZADD 需要 {score, member, ...}
var createHotListScript = redis.NewScript(`
	local items = redis.call("ZREVRANGE", KEYS[1], 0, tonumber(ARGV[1]) - 1, "WITHSCORES")
	redis.call("DEL", KEYS[2])
	if #items > 0 then
		local args = {}
		for i = 1, #items, 2 do
			table.insert(args, items[i + 1])
			table.insert(args, items[i])
		end
		redis.call("ZADD", KEYS[2], unpack(args))
	end
	return #items / 2
`)

type hotPostCache struct {
	redisClient *redis.Client
	postBatch   mysql.PostBatchOperationsRepository
	logger      *zap.Logger
}

func NewHotPostCache(redisClient *redis.Client, postBatch mysql.PostBatchOperationsRepository, logger *zap.Logger) HotPostCache {
	return &hotPostCache{
		redisClient: redisClient,
		postBatch:   postBatch,
		logger:      logger,
	}
}

func (c *hotPostCache) CreateHotList(ctx context.Context, n int64) error {
	if n <= 0 {
		c.logger.Info("CreateHotList: 热榜大小小于或等于 0，跳过", zap.Int64("n", n))
		return nil
	}
	count, err := createHotListScript.Run(ctx, c.redisClient, []string{constant.PostsRankKey, constant.HotPostsRankKey}, n).Int64()
	if err != nil {
		c.logger.Error("执行 Lua 脚本创建热榜快照失败", zap.Error(err), zap.Int64("n", n))
		return fmt.Errorf("创建热榜快照 (Top %d) 失败: %w", n, err)
	}
	c.logger.Info("成功创建热榜快照", zap.Int64("requested", n), zap.Int64("members", count))
	return nil
}

func (c *hotPostCache) RefreshHotPosts(ctx context.Context) error {
	startTime := time.Now()

	// 1. 读取热榜快照（带分数，分数即浏览量）
	scores, err := c.redisClient.ZRevRangeWithScores(ctx, constant.HotPostsRankKey, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("读取热榜快照失败: %w", err)
	}
	ids := make([]uint64, 0, len(scores))
	viewCounts := make(map[uint64]int64, len(scores))
	for _, z := range scores {
		member, _ := z.Member.(string)
		id, parseErr := strconv.ParseUint(member, 10, 64)
		if parseErr != nil {
			c.logger.Warn("热榜成员不是合法的帖子 ID，已跳过", zap.String("member", member))
			continue
		}
		ids = append(ids, id)
		viewCounts[id] = int64(z.Score)
	}

	// 2. 回源 MySQL 批量加载帖子、详情和图片
	posts, err := c.postBatch.GetPostsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("批量加载热门帖子失败: %w", err)
	}
	details, err := c.postBatch.GetPostDetailsByPostIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("批量加载热门帖子详情失败: %w", err)
	}
	images, err := c.postBatch.BatchGetPostImages(ctx, ids)
	if err != nil {
		return fmt.Errorf("批量加载热门帖子图片失败: %w", err)
	}
	detailByPost := make(map[uint64]*entities.PostDetail, len(details))
	for _, d := range details {
		detailByPost[d.PostID] = d
	}

	// 3. 先写临时 Hash，再 RENAME 覆盖，读取方不会看到写了一半的数据
	tempHashKey := constant.PostsHashKey + "_temp_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	hashFields := make(map[string]interface{}, len(posts))
	pipe := c.redisClient.Pipeline()
	hot := make(map[string]struct{}, len(posts))
	for _, post := range posts {
		if vc, ok := viewCounts[post.ID]; ok && vc > post.ViewCount {
			post.ViewCount = vc
		}
		postJSON, mErr := json.Marshal(post)
		if mErr != nil {
			c.logger.Error("序列化热门帖子失败，已跳过", zap.Error(mErr), zap.Uint64("postID", post.ID))
			continue
		}
		field := strconv.FormatUint(post.ID, 10)
		hashFields[field] = postJSON

		detailJSON, mErr := json.Marshal(vo.NewPostDetailVO(post, detailByPost[post.ID], images[post.ID]))
		if mErr != nil {
			c.logger.Error("序列化热门帖子详情失败，已跳过", zap.Error(mErr), zap.Uint64("postID", post.ID))
			continue
		}
		detailKey := constant.PostDetailCacheKeyPrefix + field
		hot[detailKey] = struct{}{}
		pipe.Set(ctx, detailKey, detailJSON, hotPostDetailTTL)
	}
	if len(hashFields) > 0 {
		pipe.HSet(ctx, tempHashKey, hashFields)
		pipe.Rename(ctx, tempHashKey, constant.PostsHashKey)
	} else {
		pipe.Del(ctx, constant.PostsHashKey)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("写入热门帖子缓存失败", zap.Error(err))
		return fmt.Errorf("写入热门帖子缓存失败: %w", err)
	}

	// 4. 清理掉出热榜的详情 Key
	removed, err := c.removeStaleDetails(ctx, hot)
	if err != nil {
		c.logger.Warn("清理过期热门详情缓存失败", zap.Error(err))
	}

	c.logger.Info("热门帖子缓存刷新完成",
		zap.Int("hotPosts", len(hashFields)),
		zap.Int("staleDetailsRemoved", removed),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}

func (c *hotPostCache) removeStaleDetails(ctx context.Context, keep map[string]struct{}) (int, error) {
	var (
		cursor uint64
		stale  []string
	)
	for {
		keys, next, err := c.redisClient.Scan(ctx, cursor, constant.PostDetailCacheKeyPrefix+"*", 500).Result()
		if err != nil {
			return 0, err
		}
		for _, k := range keys {
			if _, ok := keep[k]; !ok {
				stale = append(stale, k)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	return len(stale), c.redisClient.Del(ctx, stale...).Err()
}

func (c *hotPostCache) GetPostRank(ctx context.Context, postID uint64) (int64, error) {
	rank, err := c.redisClient.ZRevRank(ctx, constant.HotPostsRankKey, strconv.FormatUint(postID, 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		c.logger.Error("从 Redis 获取帖子排名失败", zap.Error(err), zap.Uint64("postID", postID))
		return -1, fmt.Errorf("获取帖子(ID: %d)热榜排名失败: %w", postID, err)
	}
	return rank, nil
}

func (c *hotPostCache) GetPostsByRange(ctx context.Context, start, stop int64) ([]uint64, error) {
	if start < 0 || (stop >= 0 && start > stop) {
		return []uint64{}, nil
	}
	idStrs, err := c.redisClient.ZRevRange(ctx, constant.HotPostsRankKey, start, stop).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Error("按排名范围获取帖子 ID 失败", zap.Error(err), zap.Int64("start", start), zap.Int64("stop", stop))
		return nil, fmt.Errorf("获取排名 %d-%d 的帖子 ID 失败: %w", start, stop, err)
	}

	ids := make([]uint64, 0, len(idStrs))
	for _, idStr := range idStrs {
		id, parseErr := strconv.ParseUint(idStr, 10, 64)
		if parseErr != nil {
			c.logger.Warn("解析热榜中的帖子 ID 失败，已跳过", zap.String("idStr", idStr))
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *hotPostCache) GetPosts(ctx context.Context, postIDs []uint64) ([]*entities.Post, error) {
	if len(postIDs) == 0 {
		return []*entities.Post{}, nil
	}
	fields := make([]string, len(postIDs))
	for i, id := range postIDs {
		fields[i] = strconv.FormatUint(id, 10)
	}

	values, err := c.redisClient.HMGet(ctx, constant.PostsHashKey, fields...).Result()
	if err != nil {
		c.logger.Error("HMGET 批量获取热门帖子失败", zap.Error(err), zap.Int("idCount", len(postIDs)))
		return nil, fmt.Errorf("批量获取帖子缓存失败: %w", err)
	}

	posts := make([]*entities.Post, 0, len(postIDs))
	misses := 0
	for i, val := range values {
		jsonStr, ok := val.(string)
		if !ok {
			misses++
			continue
		}
		var post entities.Post
		if jsonErr := json.Unmarshal([]byte(jsonStr), &post); jsonErr != nil {
			c.logger.Error("反序列化热门帖子缓存失败，已跳过", zap.Error(jsonErr), zap.String("field", fields[i]))
			continue
		}
		posts = append(posts, &post)
	}
	if misses > 0 {
		c.logger.Debug("部分热门帖子缓存未命中", zap.Int("requested", len(postIDs)), zap.Int("misses", misses))
	}
	return posts, nil
}

func (c *hotPostCache) GetPostDetail(ctx context.Context, postID uint64) (*vo.PostDetailVO, error) {
	key := constant.PostDetailCacheKeyPrefix + strconv.FormatUint(postID, 10)
	jsonData, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, myErrors.ErrCacheMiss
		}
		c.logger.Error("从 Redis 获取帖子详情失败", zap.Error(err), zap.String("key", key))
		return nil, fmt.Errorf("获取帖子(ID: %d)详情缓存失败: %w", postID, err)
	}

	var detail vo.PostDetailVO
	if jsonErr := json.Unmarshal([]byte(jsonData), &detail); jsonErr != nil {
		// 损坏的缓存直接删掉，按未命中处理
		_ = c.redisClient.Del(ctx, key).Err()
		c.logger.Error("帖子详情缓存数据损坏，已删除", zap.Error(jsonErr), zap.String("key", key))
		return nil, myErrors.ErrCacheMiss
	}
	return &detail, nil
}

func (c *hotPostCache) Invalidate(ctx context.Context, postID uint64) error {
	field := strconv.FormatUint(postID, 10)
	pipe := c.redisClient.TxPipeline()
	pipe.HDel(ctx, constant.PostsHashKey, field)
	pipe.Del(ctx, constant.PostDetailCacheKeyPrefix+field)
	_, err := pipe.Exec(ctx)
	return err
}
