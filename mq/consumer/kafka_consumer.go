package consumer

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/social_service/config"
)

// MessageHandler 处理单条 Kafka 消息。
// 返回 nil 表示消息已处理完毕（包括无法解析、无需重试的消息）。
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// messageReader 是 *kafka.Reader 中消费循环用到的部分。
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer 单主题消费者。位移在 handler 返回后才提交，进程崩溃时消息会被重新投递。
type Consumer struct {
	reader       messageReader
	handler      MessageHandler
	logger       *zap.Logger
	topic        string
	fetchBackoff time.Duration
}

func NewConsumer(cfg *appConfig.KafkaConfig, groupID string, topicName string, handler MessageHandler, logger *zap.Logger) (*Consumer, error) {
	if topicName == "" {
		return nil, errors.New("kafka topic 名称不能为空")
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers 配置不能为空")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       topicName,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     3 * time.Second,
		StartOffset: kafka.FirstOffset,
	})
	logger.Info("Kafka 消费者已创建",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", topicName),
		zap.String("group_id", groupID))

	return newConsumer(reader, topicName, handler, logger), nil
}

func newConsumer(reader messageReader, topic string, handler MessageHandler, logger *zap.Logger) *Consumer {
	return &Consumer{reader: reader, handler: handler, logger: logger, topic: topic, fetchBackoff: time.Second}
}

// Start 串行消费直到 ctx 取消，保证分区内有序。重试由 handler 负责。
func (c *Consumer) Start(ctx context.Context) {
	c.logger.Info("Kafka 消费者开始消费", zap.String("topic", c.topic))
	defer c.logger.Info("Kafka 消费者已停止", zap.String("topic", c.topic))

	for ctx.Err() == nil {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			c.logger.Error("拉取 Kafka 消息失败", zap.String("topic", c.topic), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.fetchBackoff):
			}
			continue
		}

		if err := c.handler.Handle(ctx, msg); err != nil {
			// 死信也投递失败时只能记录，继续提交以免阻塞整个分区
			c.logger.Error("Kafka 消息最终处理失败",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset))
		}
		if ctx.Err() != nil {
			// 处理被关停打断，不提交，重启后重新消费这条消息
			return
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Warn("提交 Kafka 位移失败", zap.String("topic", c.topic), zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("关闭 Kafka Reader 失败", zap.Error(err), zap.String("topic", c.topic))
		return err
	}
	return nil
}
