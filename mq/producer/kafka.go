package producer

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/models/events"
)

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer *kafka.Writer
	logger *core.ZapLogger
	topics config.Topics
}

// NewKafkaProducer 创建 Kafka 生产者实例
func NewKafkaProducer(config config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: config.Topics,
	}
}

// SendEvent 序列化事件并写入指定主题。key 决定分区，同一实体的事件保持有序。
func (p *KafkaProducer) SendEvent(ctx context.Context, topic string, key string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("序列化 Kafka 事件失败", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("发送 Kafka 消息",
		zap.String("topic", topic),
		zap.String("key", key),
		zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: eventBytes,
	})

	if err != nil {
		p.logger.Error("写入 Kafka 消息失败", zap.Error(err), zap.String("topic", topic))
	} else {
		p.logger.Info("Kafka 消息发送成功", zap.String("topic", topic), zap.String("key", key))
	}
	return err
}

// SendPostCreatedEvent 帖子创建事件
func (p *KafkaProducer) SendPostCreatedEvent(ctx context.Context, post events.PostData) error {
	event := events.PostCreatedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Post:      post,
	}
	return p.SendEvent(ctx, p.topics.PostCreated, uintKey(post.ID), event)
}

// SendPostUpdatedEvent 帖子更新事件，携带更新前的标签
func (p *KafkaProducer) SendPostUpdatedEvent(ctx context.Context, post events.PostData, previousTags []string) error {
	event := events.PostUpdatedEvent{
		EventID:      uuid.New().String(),
		Timestamp:    time.Now(),
		Post:         post,
		PreviousTags: previousTags,
	}
	return p.SendEvent(ctx, p.topics.PostUpdated, uintKey(post.ID), event)
}

// SendTravelPlanCreatedEvent 旅行计划创建事件
func (p *KafkaProducer) SendTravelPlanCreatedEvent(ctx context.Context, plan events.TravelPlanData) error {
	event := events.TravelPlanCreatedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Plan:      plan,
	}
	return p.SendEvent(ctx, p.topics.TravelPlanCreated, plan.ID, event)
}

// SendTravelPlanUpdatedEvent 旅行计划更新事件
func (p *KafkaProducer) SendTravelPlanUpdatedEvent(ctx context.Context, plan events.TravelPlanData, previousDestination string) error {
	event := events.TravelPlanUpdatedEvent{
		EventID:             uuid.New().String(),
		Timestamp:           time.Now(),
		Plan:                plan,
		PreviousDestination: previousDestination,
	}
	return p.SendEvent(ctx, p.topics.TravelPlanUpdated, plan.ID, event)
}

// SendDeadLetter 投递死信
func (p *KafkaProducer) SendDeadLetter(ctx context.Context, event events.DeadLetterEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.SendEvent(ctx, p.topics.DeadLetter, event.OriginalTopic, event)
}

// Close 刷新缓冲并关闭 writer
func (p *KafkaProducer) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Error("关闭 Kafka 生产者失败", zap.Error(err))
		return err
	}
	p.logger.Info("Kafka 生产者已关闭")
	return nil
}

func uintKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}
