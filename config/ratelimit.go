package config

// RateLimitConfig 限流配置。
//   - Global*: 进程内令牌桶，挡在所有路由前面。
//   - Routes: 以字面量 key 为索引的接口级规则，落在 Redis 上，多实例共享。
type RateLimitConfig struct {
	Enabled        bool                     `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	GlobalRate     float64                  `mapstructure:"globalRate" json:"globalRate" yaml:"globalRate"` // 每秒令牌数
	GlobalCapacity int64                    `mapstructure:"globalCapacity" json:"globalCapacity" yaml:"globalCapacity"`
	Routes         map[string]RouteLimitCfg `mapstructure:"routes" json:"routes" yaml:"routes"`
}

type RouteLimitCfg struct {
	Limit         int `mapstructure:"limit" json:"limit" yaml:"limit"`
	WindowSeconds int `mapstructure:"windowSeconds" json:"windowSeconds" yaml:"windowSeconds"`
}
