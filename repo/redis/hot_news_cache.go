package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
)

// HotNewsCache 热点资讯列表的旁路缓存，按分类与条数分 Key。
type HotNewsCache interface {
	// GetList 未命中返回 myErrors.ErrCacheMiss。
	GetList(ctx context.Context, category string, limit int) ([]*vo.HotNewsVO, error)
	SetList(ctx context.Context, category string, limit int, news []*vo.HotNewsVO) error
	// InvalidateAll 资讯增删后清空所有列表缓存。
	InvalidateAll(ctx context.Context) error
}

type hotNewsCache struct {
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewHotNewsCache(redisClient *redis.Client, logger *zap.Logger) HotNewsCache {
	return &hotNewsCache{redisClient: redisClient, logger: logger}
}

func hotNewsListKey(category string, limit int) string {
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf("%s%s:%d", constant.HotNewsListKey, category, limit)
}

func (c *hotNewsCache) GetList(ctx context.Context, category string, limit int) ([]*vo.HotNewsVO, error) {
	data, err := c.redisClient.Get(ctx, hotNewsListKey(category, limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, myErrors.ErrCacheMiss
		}
		return nil, err
	}
	var news []*vo.HotNewsVO
	if err := json.Unmarshal(data, &news); err != nil {
		c.logger.Warn("热点资讯缓存数据损坏，按未命中处理", zap.Error(err))
		return nil, myErrors.ErrCacheMiss
	}
	return news, nil
}

func (c *hotNewsCache) SetList(ctx context.Context, category string, limit int, news []*vo.HotNewsVO) error {
	data, err := json.Marshal(news)
	if err != nil {
		return err
	}
	return c.redisClient.Set(ctx, hotNewsListKey(category, limit), data, constant.HotNewsCacheTTL).Err()
}

func (c *hotNewsCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.redisClient.Scan(ctx, cursor, constant.HotNewsListKey+"*", 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.redisClient.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
