package config

// ViewSyncConfig 浏览量回写任务（Redis -> MySQL）的配置。
type ViewSyncConfig struct {
	// CronSpec 任务调度表达式，例如 "@every 10m"。
	CronSpec string `mapstructure:"cronSpec" json:"cronSpec" yaml:"cronSpec"`

	// BatchSize 单条 CASE WHEN 更新语句包含的帖子数量。
	BatchSize int `mapstructure:"batchSize" json:"batchSize" yaml:"batchSize"`

	// ConcurrencyLevel 并发执行批次更新的 worker 数。
	ConcurrencyLevel int `mapstructure:"concurrencyLevel" json:"concurrencyLevel" yaml:"concurrencyLevel"`

	// ScanBatchSize 传给 SCAN 的 COUNT 提示值。
	ScanBatchSize int64 `mapstructure:"scanBatchSize" json:"scanBatchSize" yaml:"scanBatchSize"`

	// HotPostsCronSpec 热榜缓存刷新任务的调度表达式。
	HotPostsCronSpec string `mapstructure:"hotPostsCronSpec" json:"hotPostsCronSpec" yaml:"hotPostsCronSpec"`

	// HotPostsSize 热榜保留的帖子数量。
	HotPostsSize int64 `mapstructure:"hotPostsSize" json:"hotPostsSize" yaml:"hotPostsSize"`
}
