package config

const (
	StorageProviderMinIO = "minio"
	StorageProviderCOS   = "cos"
)

// StorageConfig 对象存储配置，Provider 决定实际使用哪一个实现。
type StorageConfig struct {
	Provider      string      `mapstructure:"provider" json:"provider" yaml:"provider"`
	MaxUploadSize int64       `mapstructure:"maxUploadSize" json:"maxUploadSize" yaml:"maxUploadSize"` // 字节
	AllowedTypes  []string    `mapstructure:"allowedTypes" json:"allowedTypes" yaml:"allowedTypes"`
	MinIO         MinIOConfig `mapstructure:"minio" json:"minio" yaml:"minio"`
	COS           COSConfig   `mapstructure:"cos" json:"cos" yaml:"cos"`
}

type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`
	AccessKeyID     string `mapstructure:"accessKeyID" json:"accessKeyID" yaml:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey" json:"-" yaml:"secretAccessKey"`
	BucketName      string `mapstructure:"bucketName" json:"bucketName" yaml:"bucketName"`
	Location        string `mapstructure:"location" json:"location" yaml:"location"`
	UseSSL          bool   `mapstructure:"useSSL" json:"useSSL" yaml:"useSSL"`
	// PublicBaseURL 拼接对外访问地址，为空时使用 endpoint。
	PublicBaseURL string `mapstructure:"publicBaseURL" json:"publicBaseURL" yaml:"publicBaseURL"`
}

// COSConfig 腾讯云 COS 配置。
type COSConfig struct {
	BucketName string `mapstructure:"bucketName" json:"bucketName" yaml:"bucketName"`
	AppID      string `mapstructure:"appID" json:"appID" yaml:"appID"`
	Region     string `mapstructure:"region" json:"region" yaml:"region"`
	SecretID   string `mapstructure:"secretID" json:"secretID" yaml:"secretID"`
	SecretKey  string `mapstructure:"secretKey" json:"-" yaml:"secretKey"`
	BaseURL    string `mapstructure:"baseURL" json:"baseURL" yaml:"baseURL"`
}
