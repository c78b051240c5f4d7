package dependencies

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Xushengqwer/go-common/core"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
)

type minioStorage struct {
	client     *minio.Client
	bucketName string
	publicBase string
	logger     *core.ZapLogger
}

// InitMinIO 创建 MinIO 客户端，并确保存储桶存在。
// 出站请求经过 otelhttp Transport，以便在链路中看到对象存储调用。
func InitMinIO(ctx context.Context, cfg *config.MinIOConfig, logger *core.ZapLogger) (ObjectStorage, error) {
	if cfg.Endpoint == "" || cfg.BucketName == "" {
		return nil, fmt.Errorf("MinIO 配置不完整，缺少 endpoint 或 bucketName")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Location,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		logger.Error("创建 MinIO 客户端失败", zap.String("endpoint", cfg.Endpoint), zap.Error(err))
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("检查存储桶 '%s' 失败: %w", cfg.BucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Location}); err != nil {
			return nil, fmt.Errorf("创建存储桶 '%s' 失败: %w", cfg.BucketName, err)
		}
		logger.Info("已创建 MinIO 存储桶", zap.String("bucket", cfg.BucketName))
	}

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}
	publicBase = joinPublicURL(publicBase, cfg.BucketName)

	logger.Info("MinIO 客户端初始化成功",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.BucketName),
		zap.String("publicBase", publicBase))

	return &minioStorage{
		client:     client,
		bucketName: cfg.BucketName,
		publicBase: publicBase,
		logger:     logger,
	}, nil
}

func (m *minioStorage) UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	m.logger.Info("开始上传文件到 MinIO", zap.String("对象键", objectKey), zap.Int64("文件大小", size), zap.String("内容类型", contentType))
	info, err := m.client.PutObject(ctx, m.bucketName, objectKey, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		m.logger.Error("MinIO 上传失败", zap.String("对象键", objectKey), zap.Error(err))
		return "", fmt.Errorf("上传文件 '%s' 到 MinIO 失败: %w", objectKey, err)
	}
	publicURL := joinPublicURL(m.publicBase, objectKey)
	m.logger.Info("MinIO 文件上传成功", zap.String("对象键", objectKey), zap.String("etag", info.ETag), zap.String("公开访问URL", publicURL))
	return publicURL, nil
}

func (m *minioStorage) DeleteObject(ctx context.Context, objectKey string) error {
	m.logger.Info("准备从 MinIO 删除对象", zap.String("对象键", objectKey))
	if err := m.client.RemoveObject(ctx, m.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		m.logger.Error("MinIO 删除对象失败", zap.String("对象键", objectKey), zap.Error(err))
		return fmt.Errorf("从 MinIO 删除对象 '%s' 失败: %w", objectKey, err)
	}
	return nil
}
