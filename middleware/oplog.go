package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/background"
	"github.com/Xushengqwer/social_service/models/entities"
)

// 与 audit_logs 表的列宽一致，按字符截断
const (
	maxAuditOperationLen = 255
	maxAuditPathLen      = 255
	maxAuditErrorLen     = 500
	auditWriteTimeout    = 5 * time.Second
)

// AuditRecorder 写入操作日志，service.AuditLogService 实现该接口。
type AuditRecorder interface {
	Record(ctx context.Context, log *entities.AuditLog) error
}

// OperationLog 已登录用户的写请求在响应后异步落库，不阻塞请求。
// 需要注册在 ErrorHandler 之前，才能拿到错误响应的最终状态码。
func OperationLog(recorder AuditRecorder, tasks background.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWriteMethod(c.Request.Method) {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		// 认证中间件挂在路由组上，用户 ID 只能在 Next 之后读取
		userID, ok := GetUserID(c)
		if !ok {
			return
		}
		controller, method := splitHandlerName(c.HandlerName())
		entry := &entities.AuditLog{
			UserID:     userID,
			Operation:  truncateRunes(controller+"."+method, maxAuditOperationLen),
			Method:     c.Request.Method,
			Path:       truncateRunes(c.Request.URL.Path, maxAuditPathLen),
			IP:         c.ClientIP(),
			StatusCode: c.Writer.Status(),
			LatencyMs:  time.Since(start).Milliseconds(),
			CreatedAt:  start,
		}
		if len(c.Errors) > 0 {
			entry.ErrorMessage = truncateRunes(c.Errors.Last().Error(), maxAuditErrorLen)
		}

		tasks.Go("auditLog:"+entry.Operation, auditWriteTimeout, func(ctx context.Context) error {
			return recorder.Record(ctx, entry)
		})
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func isWriteMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
