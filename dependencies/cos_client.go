package dependencies

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Xushengqwer/go-common/core"
	"github.com/tencentyun/cos-go-sdk-v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
)

type cosStorage struct {
	client     *cos.Client
	publicBase string
	logger     *core.ZapLogger
}

// cosBucketURL 存储桶访问域名: https://<bucket>-<appid>.cos.<region>.myqcloud.com
func cosBucketURL(cfg *config.COSConfig) string {
	return fmt.Sprintf("https://%s-%s.cos.%s.myqcloud.com", cfg.BucketName, cfg.AppID, cfg.Region)
}

// InitCOS 初始化腾讯云 COS 客户端并探测存储桶，storageConfig.provider 为 cos 时使用。
func InitCOS(ctx context.Context, cfg *config.COSConfig, logger *core.ZapLogger) (ObjectStorage, error) {
	if cfg.SecretID == "" || cfg.SecretKey == "" || cfg.BucketName == "" || cfg.AppID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("COS 配置不完整，需要 secretID、secretKey、bucketName、appID 和 region")
	}
	bucketURL, err := url.Parse(cosBucketURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("解析 COS 存储桶地址失败: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: bucketURL}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	})
	if _, err := client.Bucket.Head(ctx); err != nil {
		return nil, fmt.Errorf("COS 存储桶 %s 不可访问: %w", cfg.BucketName, err)
	}

	// 配置了 CDN 或自定义域名时用它拼公开地址
	publicBase := cfg.BaseURL
	if publicBase == "" {
		publicBase = bucketURL.String()
	}
	logger.Info("COS 客户端初始化成功", zap.String("bucket", cfg.BucketName), zap.String("region", cfg.Region), zap.String("publicBase", publicBase))
	return &cosStorage{client: client, publicBase: publicBase, logger: logger}, nil
}

func (c *cosStorage) UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := c.client.Object.Put(ctx, objectKey, reader, &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   contentType,
			ContentLength: size,
		},
	})
	if err != nil {
		c.logger.Error("COS 上传失败", zap.String("objectKey", objectKey), zap.Error(err))
		return "", fmt.Errorf("上传对象 %s 到 COS: %w", objectKey, err)
	}
	return joinPublicURL(c.publicBase, objectKey), nil
}

func (c *cosStorage) DeleteObject(ctx context.Context, objectKey string) error {
	if _, err := c.client.Object.Delete(ctx, objectKey); err != nil && !cos.IsNotFoundError(err) {
		c.logger.Error("COS 删除失败", zap.String("objectKey", objectKey), zap.Error(err))
		return fmt.Errorf("从 COS 删除对象 %s: %w", objectKey, err)
	}
	return nil
}
