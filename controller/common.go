package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/middleware"
	"github.com/Xushengqwer/social_service/myErrors"
)

// RouteGuards 路由注册时按需挂载的中间件。
type RouteGuards struct {
	Auth         gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	Admin        gin.HandlerFunc // 需挂在 Auth 之后
	RateLimit    func(literal string) gin.HandlerFunc
}

// pathUint64 解析路径中的正整数 ID，失败时上报参数错误。
func pathUint64(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		_ = c.Error(myErrors.NewValidationError(name, "无效的 ID 格式"))
		return 0, false
	}
	return id, true
}

// currentUserID 用于挂了 JWTAuth 的路由。
func currentUserID(c *gin.Context) (uint64, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		_ = c.Error(myErrors.ErrUnauthorized)
	}
	return id, ok
}

// viewerID 匿名请求返回 0。
func viewerID(c *gin.Context) uint64 {
	id, _ := middleware.GetUserID(c)
	return id
}

func bindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
}
