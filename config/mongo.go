package config

// MongoConfig 旅行计划与私信使用的 MongoDB 配置。
type MongoConfig struct {
	URI            string `mapstructure:"uri" json:"uri" yaml:"uri"`
	Database       string `mapstructure:"database" json:"database" yaml:"database"`
	ConnectTimeout int    `mapstructure:"connectTimeout" json:"connectTimeout" yaml:"connectTimeout"` // 秒
	MaxPoolSize    uint64 `mapstructure:"maxPoolSize" json:"maxPoolSize" yaml:"maxPoolSize"`
}
