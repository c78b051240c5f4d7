package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/models/events"
)

// DestinationRanker 旅行目的地热度榜。
type DestinationRanker interface {
	IncrDestination(ctx context.Context, destination string, delta float64) error
	Move(ctx context.Context, from, to string) error
}

type TravelPlanCreatedHandler struct {
	logger *core.ZapLogger
	ranker DestinationRanker
}

func NewTravelPlanCreatedHandler(logger *core.ZapLogger, ranker DestinationRanker) *TravelPlanCreatedHandler {
	return &TravelPlanCreatedHandler{logger: logger, ranker: ranker}
}

func (h *TravelPlanCreatedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.TravelPlanCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("TravelPlanCreatedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil
	}
	if event.Plan.Destination == "" {
		return nil
	}
	if err := h.ranker.IncrDestination(ctx, event.Plan.Destination, 1); err != nil {
		return fmt.Errorf("TravelPlanCreatedHandler: 更新目的地热度失败: %w", err)
	}
	h.logger.Info("TravelPlanCreatedHandler: 目的地热度 +1",
		zap.String("event_id", event.EventID),
		zap.String("plan_id", event.Plan.ID),
		zap.String("destination", event.Plan.Destination))
	return nil
}

type TravelPlanUpdatedHandler struct {
	logger *core.ZapLogger
	ranker DestinationRanker
}

func NewTravelPlanUpdatedHandler(logger *core.ZapLogger, ranker DestinationRanker) *TravelPlanUpdatedHandler {
	return &TravelPlanUpdatedHandler{logger: logger, ranker: ranker}
}

// Handle 目的地变化时把一次计数从旧目的地移到新目的地。
func (h *TravelPlanUpdatedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.TravelPlanUpdatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("TravelPlanUpdatedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil
	}
	prev, cur := event.PreviousDestination, event.Plan.Destination
	if prev == "" || prev == cur {
		return nil
	}
	// 扣减与增加在一个脚本里完成，失败重试时不会只执行一半
	if err := h.ranker.Move(ctx, prev, cur); err != nil {
		return fmt.Errorf("TravelPlanUpdatedHandler: 迁移目的地热度失败: %w", err)
	}
	h.logger.Info("TravelPlanUpdatedHandler: 目的地热度已迁移",
		zap.String("plan_id", event.Plan.ID),
		zap.String("from", prev),
		zap.String("to", cur))
	return nil
}
