package service

import (
	"context"
	"mime/multipart"
	"regexp"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/dependencies"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
)

var categoryPattern = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

// FileService 通用文件上传，对象键位于 files/<category>/<userID>/ 下。
type FileService interface {
	Upload(ctx context.Context, userID uint64, category string, fh *multipart.FileHeader) (*vo.FileVO, error)
	// Delete 只能删除调用者自己目录下的对象。
	Delete(ctx context.Context, userID uint64, objectKey string) error
}

type fileService struct {
	storage dependencies.ObjectStorage
	policy  UploadPolicy
	logger  *core.ZapLogger
}

func NewFileService(storage dependencies.ObjectStorage, policy UploadPolicy, logger *core.ZapLogger) FileService {
	return &fileService{storage: storage, policy: policy, logger: logger}
}

func (s *fileService) Upload(ctx context.Context, userID uint64, category string, fh *multipart.FileHeader) (*vo.FileVO, error) {
	if category == "" {
		category = "common"
	}
	if !categoryPattern.MatchString(category) {
		return nil, myErrors.NewValidationError("category", "分类只能包含小写字母、数字、下划线和连字符")
	}
	contentType, err := s.policy.Check(fh)
	if err != nil {
		return nil, err
	}

	file, err := fh.Open()
	if err != nil {
		return nil, myErrors.NewValidationError("file", "无法读取上传的文件")
	}
	defer file.Close()

	objectKey := BuildObjectKey(filePrefix(category), userID, fh.Filename, time.Now())
	url, err := s.storage.UploadFile(ctx, objectKey, file, fh.Size, contentType)
	if err != nil {
		s.logger.Error("上传文件失败", zap.Uint64("userID", userID), zap.String("objectKey", objectKey), zap.Error(err))
		return nil, myErrors.NewSystemError("上传文件失败", err)
	}
	return &vo.FileVO{ObjectKey: objectKey, URL: url, Size: fh.Size, ContentType: contentType}, nil
}

func (s *fileService) Delete(ctx context.Context, userID uint64, objectKey string) error {
	if !ownsFileKey(userID, objectKey) {
		return myErrors.ErrForbidden
	}
	if err := s.storage.DeleteObject(ctx, objectKey); err != nil {
		s.logger.Error("删除文件失败", zap.Uint64("userID", userID), zap.String("objectKey", objectKey), zap.Error(err))
		return myErrors.NewSystemError("删除文件失败", err)
	}
	s.logger.Info("文件已删除", zap.Uint64("userID", userID), zap.String("objectKey", objectKey))
	return nil
}

func filePrefix(category string) string {
	return constant.ObjectKeyPrefixFiles + category + "/"
}

// ownsFileKey 键形如 files/<category>/<userID>/...，分类段不能为空。
func ownsFileKey(userID uint64, objectKey string) bool {
	rest, ok := strings.CutPrefix(objectKey, constant.ObjectKeyPrefixFiles)
	if !ok {
		return false
	}
	category, _, found := strings.Cut(rest, "/")
	if !found || !categoryPattern.MatchString(category) {
		return false
	}
	return OwnsObjectKey(filePrefix(category), userID, objectKey)
}
