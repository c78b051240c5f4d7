package constant

import "time"

// Redis Key 前缀
const (
	PostViewersPrefix   = "post:viewers:" // Bloom Filter
	PostViewCountPrefix = "post:views:"   // String 计数器

	// PostsHashKey 热门帖子摘要的 Hash，field 为 postID，value 为帖子 JSON。
	PostsHashKey = "posts"

	// PostDetailCacheKeyPrefix 热门帖子详情缓存 (String JSON)，例: "post_detail:123"
	PostDetailCacheKeyPrefix = "post_detail:"

	// TokenBlacklistPrefix 登出后的 JWT jti，TTL 与 token 剩余有效期一致。
	TokenBlacklistPrefix = "token_blacklist:"

	// RateLimitPrefix 接口级限流令牌桶，完整格式 "rate_limit:<Controller>:<Method>:<key>"
	RateLimitPrefix = "rate_limit:"

	// TaskLockPrefix 定时任务分布式锁。
	TaskLockPrefix = "task_lock:"
)

// 全局 Key
const (
	// PostsRankKey 全量帖子排行 ZSet，member 为 postID，score 为浏览量。
	PostsRankKey = "post_rank"

	// HotPostsRankKey 由定时任务从 PostsRankKey 截取 TopN 生成的热榜快照。
	HotPostsRankKey = "hot_post_rank"

	// HotNewsListKey 热点资讯列表缓存，后缀为分类 ("all" 表示不限分类)。
	HotNewsListKey = "hot_news:list:"

	// TravelDestinationRankKey 旅行目的地热度 ZSet，member 为目的地，score 为计划数。
	TravelDestinationRankKey = "travel_destination_rank"
)

const HotNewsCacheTTL = 5 * time.Minute
