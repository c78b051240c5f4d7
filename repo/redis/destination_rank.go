package redis

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/models/vo"
)

// DestinationRank 旅行目的地热度排行，score 为引用该目的地的计划数。
type DestinationRank interface {
	// IncrDestination 分数降到 0 及以下时移除该成员。
	IncrDestination(ctx context.Context, destination string, delta float64) error

	// Move 把一次计数从 from 移到 to，两步在同一个脚本里原子执行。
	// from 为空时只给 to 加一，to 为空时只给 from 减一。
	Move(ctx context.Context, from, to string) error
	Top(ctx context.Context, limit int64) ([]*vo.DestinationVO, error)
}

var incrDestinationScript = redis.NewScript(`
	local score = redis.call("ZINCRBY", KEYS[1], ARGV[1], ARGV[2])
	if tonumber(score) <= 0 then
		redis.call("ZREM", KEYS[1], ARGV[2])
	end
	return score
`)

var moveDestinationScript = redis.NewScript(`
	if ARGV[1] ~= "" then
		local score = redis.call("ZINCRBY", KEYS[1], -1, ARGV[1])
		if tonumber(score) <= 0 then
			redis.call("ZREM", KEYS[1], ARGV[1])
		end
	end
	if ARGV[2] ~= "" then
		redis.call("ZINCRBY", KEYS[1], 1, ARGV[2])
	end
	return 1
`)

type destinationRank struct {
	redisClient *redis.Client
}

func NewDestinationRank(redisClient *redis.Client) DestinationRank {
	return &destinationRank{redisClient: redisClient}
}

// NormalizeDestination 去掉首尾空白，大小写不敏感。
func NormalizeDestination(destination string) string {
	return strings.ToLower(strings.TrimSpace(destination))
}

func (r *destinationRank) IncrDestination(ctx context.Context, destination string, delta float64) error {
	member := NormalizeDestination(destination)
	if member == "" || delta == 0 {
		return nil
	}
	return incrDestinationScript.Run(ctx, r.redisClient, []string{constant.TravelDestinationRankKey}, delta, member).Err()
}

func (r *destinationRank) Move(ctx context.Context, from, to string) error {
	from, to = NormalizeDestination(from), NormalizeDestination(to)
	if from == to {
		return nil
	}
	return moveDestinationScript.Run(ctx, r.redisClient, []string{constant.TravelDestinationRankKey}, from, to).Err()
}

func (r *destinationRank) Top(ctx context.Context, limit int64) ([]*vo.DestinationVO, error) {
	if limit <= 0 {
		limit = 10
	}
	zs, err := r.redisClient.ZRevRangeWithScores(ctx, constant.TravelDestinationRankKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*vo.DestinationVO, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		out = append(out, &vo.DestinationVO{Destination: member, PlanCount: int64(z.Score)})
	}
	return out, nil
}
