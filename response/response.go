package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/myErrors"
)

// APIResponse 统一响应包络。Timestamp 为服务端生成响应时的 Unix 毫秒时间戳。
type APIResponse[T any] struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      T      `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

func newResponse[T any](code int, message string, data T) APIResponse[T] {
	return APIResponse[T]{
		Code:      code,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// RespondSuccess 以 200 返回成功响应。
func RespondSuccess[T any](c *gin.Context, data T, message string) {
	if message == "" {
		message = "success"
	}
	c.JSON(http.StatusOK, newResponse(myErrors.CodeSuccess, message, data))
}

// RespondError 返回错误响应，data 固定为 null。
func RespondError(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, newResponse[any](code, message, nil))
}

// AbortWithError 写入错误响应并中止后续 handler，供中间件使用。
func AbortWithError(c *gin.Context, httpStatus int, code int, message string) {
	c.AbortWithStatusJSON(httpStatus, newResponse[any](code, message, nil))
}
