package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/response"
)

// ErrorHandler 全局错误处理：handler 通过 c.Error(err) 上报错误并直接 return，
// 由这里统一转换为响应包络。已经写过响应的请求不再处理。
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		status, code, msg := Classify(last.Err)
		// 未识别的绑定错误按参数错误处理
		if status == http.StatusInternalServerError && last.IsType(gin.ErrorTypeBind) {
			status, code, msg = http.StatusBadRequest, myErrors.CodeValidation, "请求参数错误: "+last.Err.Error()
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(last.Err),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("请求处理失败", fields...)
		} else {
			logger.Debug("请求被拒绝", fields...)
		}

		response.RespondError(c, status, code, msg)
	}
}

// Classify 将错误映射为 (HTTP 状态码, 业务码, 对外消息)。
func Classify(err error) (int, int, string) {
	var (
		bizErr    *myErrors.BusinessError
		valErr    *myErrors.ValidationError
		sysErr    *myErrors.SystemError
		vErrs     validator.ValidationErrors
		numErr    *strconv.NumError
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)

	switch {
	case errors.As(err, &bizErr):
		status := bizErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		return status, bizErr.Code, bizErr.Message
	case errors.As(err, &valErr):
		return http.StatusBadRequest, myErrors.CodeValidation, valErr.Error()
	case errors.As(err, &vErrs):
		return http.StatusBadRequest, myErrors.CodeValidation, formatValidationErrors(vErrs)
	case errors.As(err, &numErr):
		return http.StatusBadRequest, myErrors.CodeValidation, fmt.Sprintf("参数类型不匹配: 无法解析 %q", numErr.Num)
	case errors.As(err, &typeErr):
		return http.StatusBadRequest, myErrors.CodeValidation, fmt.Sprintf("参数类型不匹配: 字段 %s 需要 %s", typeErr.Field, typeErr.Type.String())
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, myErrors.CodeValidation, "请求体格式错误"
	case errors.Is(err, commonerrors.ErrRepoNotFound):
		return http.StatusNotFound, myErrors.CodeNotFound, "资源不存在"
	case errors.As(err, &sysErr):
		return http.StatusInternalServerError, myErrors.CodeSystem, sysErr.Message
	default:
		return http.StatusInternalServerError, myErrors.CodeSystem, "服务器内部错误"
	}
}

func formatValidationErrors(vErrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s 不满足 %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s 不满足 %s", fe.Field(), fe.Tag()))
		}
	}
	return "参数校验失败: " + strings.Join(parts, "; ")
}

// NotFoundHandler 未匹配路由。
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.RespondError(c, http.StatusNotFound, myErrors.CodeNotFound, "接口不存在: "+c.Request.URL.Path)
	}
}

// MethodNotAllowedHandler 路由存在但方法不匹配，需要 engine.HandleMethodNotAllowed = true。
func MethodNotAllowedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.RespondError(c, http.StatusMethodNotAllowed, myErrors.CodeMethodInvalid, "不支持的请求方法: "+c.Request.Method)
	}
}
