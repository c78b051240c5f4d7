package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter 多实例共享的令牌桶限流器。
type RateLimiter interface {
	// Allow 从 key 对应的桶中取一个令牌，桶容量为 limit，每 window 补满一次。
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}

// 令牌按毫秒线性补充。当前时间由调用方传入，脚本内不读取服务器时钟。
// KEYS[1] 桶; ARGV: capacity, window_ms, now_ms
var tokenBucketScript = redis.NewScript(`
	local capacity = tonumber(ARGV[1])
	local window_ms = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local bucket = redis.call("HMGET", KEYS[1], "tokens", "ts")
	local tokens = tonumber(bucket[1])
	local ts = tonumber(bucket[2])
	if tokens == nil or ts == nil then
		tokens = capacity
		ts = now
	end

	local elapsed = now - ts
	if elapsed > 0 then
		tokens = math.min(capacity, tokens + elapsed * capacity / window_ms)
		ts = now
	end

	local allowed = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call("HSET", KEYS[1], "tokens", tostring(tokens), "ts", tostring(ts))
	redis.call("PEXPIRE", KEYS[1], window_ms * 2)
	return allowed
`)

type rateLimiter struct {
	redisClient *redis.Client
	logger      *zap.Logger
	now         func() time.Time
}

func NewRateLimiter(redisClient *redis.Client, logger *zap.Logger) RateLimiter {
	return &rateLimiter{redisClient: redisClient, logger: logger, now: time.Now}
}

func (l *rateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}
	allowed, err := tokenBucketScript.Run(ctx, l.redisClient, []string{key},
		limit, window.Milliseconds(), l.now().UnixMilli()).Int64()
	if err != nil {
		l.logger.Error("执行限流脚本失败", zap.Error(err), zap.String("key", key))
		return false, fmt.Errorf("限流检查失败 (key: %s): %w", key, err)
	}
	return allowed == 1, nil
}
