package config

// SourceConfig 一个数据库源（主库或从库）。
type SourceConfig struct {
	DSN             string `mapstructure:"dsn" json:"-" yaml:"dsn"`
	MaxIdleConns    *int   `mapstructure:"max_idle_conns,omitempty" json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
	MaxOpenConns    *int   `mapstructure:"max_open_conns,omitempty" json:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`
	ConnMaxLifetime *int   `mapstructure:"conn_max_lifetime,omitempty" json:"conn_max_lifetime,omitempty" yaml:"conn_max_lifetime,omitempty"` // 秒
}

// MySQLConfig 主库 + 从库列表，Read 为空时不启用读写分离。
type MySQLConfig struct {
	Write SourceConfig   `mapstructure:"write" json:"write" yaml:"write"`
	Read  []SourceConfig `mapstructure:"read" json:"read" yaml:"read"`

	// 主库未单独设置时使用的连接池参数
	SharedMaxIdleConns    int `mapstructure:"max_idle_conns" json:"max_idle_conns" yaml:"max_idle_conns"`
	SharedMaxOpenConns    int `mapstructure:"max_open_conns" json:"max_open_conns" yaml:"max_open_conns"`
	SharedConnMaxLifetime int `mapstructure:"conn_max_lifetime" json:"conn_max_lifetime" yaml:"conn_max_lifetime"` // 秒
}
