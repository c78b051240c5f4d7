package myErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// 业务响应码。0 表示成功，其余按类别分段。
const (
	CodeSuccess       = 0
	CodeBusiness      = 1000
	CodeUnauthorized  = 1001
	CodeForbidden     = 1003
	CodeNotFound      = 1004
	CodeConflict      = 1009
	CodeTooMany       = 1029
	CodeValidation    = 4000
	CodeMethodInvalid = 4005
	CodeSystem        = 5000
)

// BusinessError 可预期的业务失败，例如资源不存在、重复点赞、无权限等。
// HTTPStatus 决定响应状态码，Message 会原样返回给客户端。
type BusinessError struct {
	Code       int
	HTTPStatus int
	Message    string
	Err        error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error { return e.Err }

// NewBusinessError 创建默认 400 的业务错误。
func NewBusinessError(code int, message string) *BusinessError {
	return &BusinessError{Code: code, HTTPStatus: http.StatusBadRequest, Message: message}
}

// WithStatus 返回一个修改了 HTTP 状态码的副本。
func (e *BusinessError) WithStatus(status int) *BusinessError {
	cp := *e
	cp.HTTPStatus = status
	return &cp
}

// ValidationError 请求参数不合法，统一映射为 400。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// SystemError 基础设施层面的失败（数据库、缓存、对象存储...），统一映射为 500，
// 对外只暴露 Message，Err 仅用于日志。
type SystemError struct {
	Message string
	Err     error
}

func (e *SystemError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error { return e.Err }

func NewSystemError(message string, err error) *SystemError {
	return &SystemError{Message: message, Err: err}
}

// 常用业务错误。使用 errors.Is 判断。
var (
	ErrUnauthorized     = &BusinessError{Code: CodeUnauthorized, HTTPStatus: http.StatusUnauthorized, Message: "未登录或登录已失效"}
	ErrTokenExpired     = &BusinessError{Code: CodeUnauthorized, HTTPStatus: http.StatusUnauthorized, Message: "登录已过期，请重新登录"}
	ErrBadCredentials   = &BusinessError{Code: CodeUnauthorized, HTTPStatus: http.StatusUnauthorized, Message: "用户名或密码错误"}
	ErrForbidden        = &BusinessError{Code: CodeForbidden, HTTPStatus: http.StatusForbidden, Message: "无权执行该操作"}
	ErrUserDisabled     = &BusinessError{Code: CodeForbidden, HTTPStatus: http.StatusForbidden, Message: "账号已被禁用"}
	ErrUsernameTaken    = &BusinessError{Code: CodeConflict, HTTPStatus: http.StatusConflict, Message: "用户名已被占用"}
	ErrUserNotFound     = &BusinessError{Code: CodeNotFound, HTTPStatus: http.StatusNotFound, Message: "用户不存在"}
	ErrPostNotFound     = &BusinessError{Code: CodeNotFound, HTTPStatus: http.StatusNotFound, Message: "帖子不存在"}
	ErrCommentNotFound  = &BusinessError{Code: CodeNotFound, HTTPStatus: http.StatusNotFound, Message: "评论不存在"}
	ErrParentMismatch   = &BusinessError{Code: CodeBusiness, HTTPStatus: http.StatusBadRequest, Message: "回复的评论不属于该帖子"}
	ErrAlreadyLiked     = &BusinessError{Code: CodeConflict, HTTPStatus: http.StatusConflict, Message: "已经点过赞了"}
	ErrNotLiked         = &BusinessError{Code: CodeBusiness, HTTPStatus: http.StatusBadRequest, Message: "尚未点赞"}
	ErrAlreadyFollowing = &BusinessError{Code: CodeConflict, HTTPStatus: http.StatusConflict, Message: "已经关注了该用户"}
	ErrNotFollowing     = &BusinessError{Code: CodeBusiness, HTTPStatus: http.StatusBadRequest, Message: "尚未关注该用户"}
	ErrPlanNotFound     = &BusinessError{Code: CodeNotFound, HTTPStatus: http.StatusNotFound, Message: "旅行计划不存在"}
	ErrSessionNotFound  = &BusinessError{Code: CodeNotFound, HTTPStatus: http.StatusNotFound, Message: "会话不存在"}
	ErrNewsNotFound     = &BusinessError{Code: CodeNotFound, HTTPStatus: http.StatusNotFound, Message: "资讯不存在"}
	ErrObjectNotFound   = &BusinessError{Code: CodeNotFound, HTTPStatus: http.StatusNotFound, Message: "文件不存在"}
	ErrTooManyRequests  = &BusinessError{Code: CodeTooMany, HTTPStatus: http.StatusTooManyRequests, Message: "请求过于频繁，请稍后再试"}
	ErrFileTooLarge     = &BusinessError{Code: CodeBusiness, HTTPStatus: http.StatusRequestEntityTooLarge, Message: "文件过大"}
	ErrFileTypeRejected = &BusinessError{Code: CodeBusiness, HTTPStatus: http.StatusUnsupportedMediaType, Message: "不支持的文件类型"}
)

// 常用参数错误
var (
	ErrSelfFollow      = NewValidationError("user_id", "不能关注自己")
	ErrSelfMessage     = NewValidationError("receiver_id", "不能给自己发私信")
	ErrInvalidDates    = NewValidationError("end_date", "结束日期不能早于开始日期")
	ErrInvalidTarget   = NewValidationError("target_type", "点赞目标类型只能是 post 或 comment")
	ErrDayOutOfRange   = NewValidationError("days", "行程天数超出计划日期范围")
	ErrInvalidObjectID = NewValidationError("id", "无效的 ID 格式")
)
