package config

import "github.com/Xushengqwer/go-common/config"

// AppConfig 是整个社交服务的顶层配置，对应 config/config.*.yaml。
type AppConfig struct {
	ZapConfig         config.ZapConfig     `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig     config.GormLogConfig `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig      config.ServerConfig  `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	TracerConfig      config.TracerConfig  `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	ViewSyncConfig    ViewSyncConfig       `mapstructure:"viewSyncConfig" json:"viewSyncConfig" yaml:"viewSyncConfig"`
	MySQLConfig       MySQLConfig          `mapstructure:"mysqlConfig" json:"mysqlConfig" yaml:"mysqlConfig"`
	RedisConfig       RedisConfig          `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	MongoConfig       MongoConfig          `mapstructure:"mongoConfig" json:"mongoConfig" yaml:"mongoConfig"`
	KafkaConfig       KafkaConfig          `mapstructure:"kafkaConfig" json:"kafkaConfig" yaml:"kafkaConfig"`
	StorageConfig     StorageConfig        `mapstructure:"storageConfig" json:"storageConfig" yaml:"storageConfig"`
	JWTConfig         JWTConfig            `mapstructure:"jwtConfig" json:"jwtConfig" yaml:"jwtConfig"`
	RateLimitConfig   RateLimitConfig      `mapstructure:"rateLimitConfig" json:"rateLimitConfig" yaml:"rateLimitConfig"`
	SlowRequestConfig SlowRequestConfig    `mapstructure:"slowRequestConfig" json:"slowRequestConfig" yaml:"slowRequestConfig"`
}

// SlowRequestConfig 控制性能日志中间件的慢请求阈值。
type SlowRequestConfig struct {
	ThresholdMs int64 `mapstructure:"thresholdMs" json:"thresholdMs" yaml:"thresholdMs"`
}
