package dependencies

import (
	"context"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
)

func InitRedis(ctx context.Context, cfg *config.RedisConfig, logger *core.ZapLogger) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redisConfig.address 未配置")
	}
	dialTimeout := 5 * time.Second
	if cfg.DialTimeout > 0 {
		dialTimeout = time.Duration(cfg.DialTimeout) * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  dialTimeout,
	})
	err := connectWithRetry(ctx, "redis", connectAttempts, connectInterval, logger.Logger(), func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		return client.Ping(pingCtx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("Redis 已连接", zap.String("address", cfg.Address), zap.Int("db", cfg.DB))
	return client, nil
}
