package config

type JWTConfig struct {
	Secret        string `mapstructure:"secret" json:"-" yaml:"secret"`
	Issuer        string `mapstructure:"issuer" json:"issuer" yaml:"issuer"`
	AccessTTLHour int    `mapstructure:"accessTTLHour" json:"accessTTLHour" yaml:"accessTTLHour"`
}
