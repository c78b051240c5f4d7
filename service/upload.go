package service

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/myErrors"
)

const defaultMaxUploadSize int64 = 10 << 20

// UploadPolicy 上传文件的大小与类型限制，帖子图片、头像、通用文件共用。
type UploadPolicy struct {
	maxSize int64
	allowed map[string]struct{}
}

func NewUploadPolicy(cfg config.StorageConfig) UploadPolicy {
	p := UploadPolicy{maxSize: cfg.MaxUploadSize, allowed: make(map[string]struct{}, len(cfg.AllowedTypes))}
	if p.maxSize <= 0 {
		p.maxSize = defaultMaxUploadSize
	}
	for _, t := range cfg.AllowedTypes {
		p.allowed[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return p
}

// Check 返回归一化后的 Content-Type。允许列表为空时不限制类型。
func (p UploadPolicy) Check(fh *multipart.FileHeader) (string, error) {
	if fh.Size > p.maxSize {
		return "", myErrors.ErrFileTooLarge
	}
	contentType := strings.ToLower(fh.Header.Get("Content-Type"))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if len(p.allowed) == 0 {
		return contentType, nil
	}
	if _, ok := p.allowed[contentType]; !ok {
		return "", myErrors.ErrFileTypeRejected
	}
	return contentType, nil
}

// BuildObjectKey 生成对象键: <prefix><userID>/<yyyymmdd>/<uuid><ext>。
// 用户 ID 作为目录，删除时据此校验归属。
func BuildObjectKey(prefix string, userID uint64, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("%s%d/%s/%s%s", prefix, userID, now.Format("20060102"), uuid.NewString(), ext)
}

// OwnsObjectKey 判断 objectKey 是否位于该用户在 prefix 下的目录中。
func OwnsObjectKey(prefix string, userID uint64, objectKey string) bool {
	if strings.Contains(objectKey, "..") {
		return false
	}
	return strings.HasPrefix(objectKey, fmt.Sprintf("%s%d/", prefix, userID))
}
