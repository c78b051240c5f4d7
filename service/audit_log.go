package service

import (
	"context"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
)

// AuditLogService 操作日志的写入与查询。
type AuditLogService interface {
	Record(ctx context.Context, log *entities.AuditLog) error
	List(ctx context.Context, req *dto.ListAuditLogsRequest) (*vo.ListAuditLogsResponse, error)
}

type auditLogService struct {
	repo mysql.AuditLogRepository
}

func NewAuditLogService(repo mysql.AuditLogRepository) AuditLogService {
	return &auditLogService{repo: repo}
}

func (s *auditLogService) Record(ctx context.Context, log *entities.AuditLog) error {
	// error_message 列为 varchar(500)，按字符截断
	if r := []rune(log.ErrorMessage); len(r) > 500 {
		log.ErrorMessage = string(r[:500])
	}
	return s.repo.Create(ctx, log)
}

func (s *auditLogService) List(ctx context.Context, req *dto.ListAuditLogsRequest) (*vo.ListAuditLogsResponse, error) {
	offset := (req.Page - 1) * req.PageSize
	logs, total, err := s.repo.List(ctx, req.UserID, offset, req.PageSize)
	if err != nil {
		return nil, myErrors.NewSystemError("获取操作日志失败", err)
	}
	return &vo.ListAuditLogsResponse{Logs: vo.MapAuditLogsToVO(logs), Total: total}, nil
}
