package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	commonconfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/models/events"
	"github.com/Xushengqwer/social_service/repo/redis"
)

func newTestZapLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonconfig.ZapConfig{Level: "error", Encoding: "console"})
	require.NoError(t, err)
	return logger
}

// failingOnceRank 第一次 Move 直接返回错误，之后委托给真实的排行。
type failingOnceRank struct {
	redis.DestinationRank
	moves int
}

func (f *failingOnceRank) Move(ctx context.Context, from, to string) error {
	f.moves++
	if f.moves == 1 {
		return errors.New("connection reset")
	}
	return f.DestinationRank.Move(ctx, from, to)
}

func updatedPlanMessage(t *testing.T, from, to string) kafka.Message {
	t.Helper()
	value, err := json.Marshal(events.TravelPlanUpdatedEvent{
		EventID:             "e-1",
		Plan:                events.TravelPlanData{ID: "p-1", Destination: to},
		PreviousDestination: from,
	})
	require.NoError(t, err)
	return kafka.Message{Topic: "travel-plan-updated", Value: value}
}

func TestTravelPlanUpdatedHandlerMovesOnceUnderRetry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	rank := redis.NewDestinationRank(client)
	require.NoError(t, rank.IncrDestination(ctx, "kyoto", 1))

	ranker := &failingOnceRank{DestinationRank: rank}
	h := NewRetryHandler(NewTravelPlanUpdatedHandler(newTestZapLogger(t), ranker), nil, 3, time.Millisecond, zap.NewNop())
	h.sleep = func(context.Context, time.Duration) error { return nil }

	require.NoError(t, h.Handle(ctx, updatedPlanMessage(t, "Kyoto", "Osaka")))
	assert.Equal(t, 2, ranker.moves)

	top, err := rank.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "osaka", top[0].Destination)
	assert.Equal(t, int64(1), top[0].PlanCount)
}

func TestTravelPlanUpdatedHandlerSkipsUnchangedDestination(t *testing.T) {
	ranker := &failingOnceRank{}
	h := NewTravelPlanUpdatedHandler(newTestZapLogger(t), ranker)

	require.NoError(t, h.Handle(context.Background(), updatedPlanMessage(t, "", "Osaka")))
	require.NoError(t, h.Handle(context.Background(), updatedPlanMessage(t, "Osaka", "Osaka")))
	require.NoError(t, h.Handle(context.Background(), kafka.Message{Value: []byte("{broken")}))
	assert.Zero(t, ranker.moves)
}

type recordingPostRanker struct {
	ranked []uint64
	err    error
}

func (r *recordingPostRanker) EnsureRanked(_ context.Context, postID uint64) error {
	r.ranked = append(r.ranked, postID)
	return r.err
}

func TestPostCreatedHandler(t *testing.T) {
	ranker := &recordingPostRanker{}
	h := NewPostCreatedHandler(newTestZapLogger(t), ranker)

	value, err := json.Marshal(events.PostCreatedEvent{EventID: "e-2", Post: events.PostData{ID: 17, Tags: []string{"旅行"}}})
	require.NoError(t, err)
	require.NoError(t, h.Handle(context.Background(), kafka.Message{Value: value}))
	assert.Equal(t, []uint64{17}, ranker.ranked)

	// 无法解析的消息直接丢弃，不触发重试
	require.NoError(t, h.Handle(context.Background(), kafka.Message{Value: []byte("not json")}))
	assert.Len(t, ranker.ranked, 1)

	ranker.err = errors.New("redis down")
	assert.Error(t, h.Handle(context.Background(), kafka.Message{Value: value}))
}
