package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Xushengqwer/social_service/constant"
)

// TokenBlacklist 登出后的 JWT 黑名单，按 jti 存储。
type TokenBlacklist interface {
	// Add ttl <= 0 时 token 已过期，不需要写入。
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

type tokenBlacklist struct {
	redisClient *redis.Client
}

func NewTokenBlacklist(redisClient *redis.Client) TokenBlacklist {
	return &tokenBlacklist{redisClient: redisClient}
}

func (b *tokenBlacklist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.redisClient.Set(ctx, constant.TokenBlacklistPrefix+tokenID, 1, ttl).Err()
}

func (b *tokenBlacklist) Contains(ctx context.Context, tokenID string) (bool, error) {
	err := b.redisClient.Get(ctx, constant.TokenBlacklistPrefix+tokenID).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return false, err
}
