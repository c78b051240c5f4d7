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

// PostRanker 把帖子放入全量排行榜。
type PostRanker interface {
	EnsureRanked(ctx context.Context, postID uint64) error
}

// PostCreatedHandler 新帖进入全量排行榜。标签计数在发帖事务内完成，这里不再处理。
type PostCreatedHandler struct {
	logger *core.ZapLogger
	ranker PostRanker
}

func NewPostCreatedHandler(logger *core.ZapLogger, ranker PostRanker) *PostCreatedHandler {
	return &PostCreatedHandler{logger: logger, ranker: ranker}
}

func (h *PostCreatedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.PostCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("PostCreatedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}
	postID := event.Post.ID

	// 新帖以 0 分进入排行榜，已有分数时不覆盖
	if err := h.ranker.EnsureRanked(ctx, postID); err != nil {
		return fmt.Errorf("PostCreatedHandler: 帖子 %d 加入排行榜失败: %w", postID, err)
	}

	h.logger.Info("PostCreatedHandler: 帖子创建事件处理完成",
		zap.String("event_id", event.EventID),
		zap.Uint64("post_id", postID))
	return nil
}
