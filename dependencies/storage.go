package dependencies

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Xushengqwer/go-common/core"

	"github.com/Xushengqwer/social_service/config"
)

// ObjectStorage 对象存储抽象，MinIO 与 COS 各有一个实现。
// 调用方负责生成 objectKey。
type ObjectStorage interface {
	// UploadFile 上传并返回对象的公开访问 URL
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error)
	// DeleteObject 删除对象，对象不存在时不报错
	DeleteObject(ctx context.Context, objectKey string) error
}

// InitObjectStorage 根据 storageConfig.provider 初始化对应实现，默认 MinIO。
func InitObjectStorage(ctx context.Context, cfg *config.StorageConfig, logger *core.ZapLogger) (ObjectStorage, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", config.StorageProviderMinIO:
		return InitMinIO(ctx, &cfg.MinIO, logger)
	case config.StorageProviderCOS:
		return InitCOS(ctx, &cfg.COS, logger)
	default:
		return nil, fmt.Errorf("不支持的对象存储类型: %s", cfg.Provider)
	}
}

// joinPublicURL 拼接 base 与 objectKey，处理多余或缺失的斜杠。
func joinPublicURL(base, objectKey string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(objectKey, "/")
}
