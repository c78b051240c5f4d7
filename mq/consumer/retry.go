package consumer

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/models/events"
)

// 退避指数上限，第 5 次之后的重试间隔不再增长
const maxBackoffExponent = 5

// BackoffDelay 第 retryCount 次重试前的等待时间: base * 2^min(retryCount, 5)。
func BackoffDelay(base time.Duration, retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	if retryCount > maxBackoffExponent {
		retryCount = maxBackoffExponent
	}
	return base * time.Duration(1<<uint(retryCount))
}

// DeadLetterSender 死信投递，由 producer.KafkaProducer 实现。
type DeadLetterSender interface {
	SendDeadLetter(ctx context.Context, event events.DeadLetterEvent) error
}

// RetryHandler 为 MessageHandler 增加指数退避重试，maxRetries 为总尝试次数（含首次），
// 全部失败后投递死信主题。
type RetryHandler struct {
	next           MessageHandler
	deadLetter     DeadLetterSender
	maxRetries     int
	baseDelay      time.Duration
	attemptTimeout time.Duration
	logger         *zap.Logger
	sleep          func(ctx context.Context, d time.Duration) error
}

// NewRetryHandler deadLetter 可以为 nil，此时重试耗尽后返回最后一次的错误。
func NewRetryHandler(next MessageHandler, deadLetter DeadLetterSender, maxRetries int, baseDelay time.Duration, logger *zap.Logger) *RetryHandler {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &RetryHandler{
		next:           next,
		deadLetter:     deadLetter,
		maxRetries:     maxRetries,
		baseDelay:      baseDelay,
		attemptTimeout: 30 * time.Second,
		logger:         logger,
		sleep:          sleepContext,
	}
}

func (h *RetryHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var lastErr error
	for attempt := 1; ; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, h.attemptTimeout)
		lastErr = h.next.Handle(attemptCtx, msg)
		cancel()
		if lastErr == nil {
			return nil
		}
		if attempt >= h.maxRetries {
			break
		}

		delay := BackoffDelay(h.baseDelay, attempt-1)
		h.logger.Warn("消息处理失败，等待后重试",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Int("maxRetries", h.maxRetries),
			zap.Duration("delay", delay),
			zap.Error(lastErr))
		if err := h.sleep(ctx, delay); err != nil {
			return fmt.Errorf("重试等待被中断 (topic: %s, offset: %d): %w", msg.Topic, msg.Offset, err)
		}
	}

	if h.deadLetter == nil {
		return fmt.Errorf("尝试 %d 次后仍失败: %w", h.maxRetries, lastErr)
	}

	dl := events.DeadLetterEvent{
		OriginalTopic: msg.Topic,
		Partition:     msg.Partition,
		Offset:        msg.Offset,
		Key:           string(msg.Key),
		Payload:       string(msg.Value),
		Error:         lastErr.Error(),
		RetryCount:    h.maxRetries,
	}
	if err := h.deadLetter.SendDeadLetter(ctx, dl); err != nil {
		return fmt.Errorf("投递死信失败: %w (原始错误: %v)", err, lastErr)
	}
	h.logger.Error("消息重试耗尽，已投递死信",
		zap.String("topic", msg.Topic),
		zap.Int64("offset", msg.Offset),
		zap.Error(lastErr))
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
