package config

type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics        `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string        `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
	Retry           ConsumerRetry `mapstructure:"retry" json:"retry" yaml:"retry"`
}

type Topics struct {
	PostCreated       string `mapstructure:"postCreated" json:"postCreated" yaml:"postCreated"`                   //  帖子创建
	PostUpdated       string `mapstructure:"postUpdated" json:"postUpdated" yaml:"postUpdated"`                   //  帖子更新
	TravelPlanCreated string `mapstructure:"travelPlanCreated" json:"travelPlanCreated" yaml:"travelPlanCreated"` //  旅行计划创建
	TravelPlanUpdated string `mapstructure:"travelPlanUpdated" json:"travelPlanUpdated" yaml:"travelPlanUpdated"` //  旅行计划更新
	DeadLetter        string `mapstructure:"deadLetter" json:"deadLetter" yaml:"deadLetter"`                      //  重试耗尽后的死信
}

// ConsumerRetry 消费失败时的重试策略。
// MaxRetries 为总尝试次数（含首次），第 n 次失败后等待 BaseDelayMs * 2^min(n-1, 5) 毫秒再试，
// 全部失败后投递死信主题。
type ConsumerRetry struct {
	MaxRetries  int   `mapstructure:"maxRetries" json:"maxRetries" yaml:"maxRetries"`
	BaseDelayMs int64 `mapstructure:"baseDelayMs" json:"baseDelayMs" yaml:"baseDelayMs"`
}
