package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/redis"
)

// RateLimitMiddleware 两级限流：进程内 juju 令牌桶挡住突发流量，
// 接口级规则落在 Redis 上由所有实例共享。
type RateLimitMiddleware struct {
	cfg     config.RateLimitConfig
	limiter redis.RateLimiter
	logger  *zap.Logger
}

func NewRateLimitMiddleware(cfg config.RateLimitConfig, limiter redis.RateLimiter, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{cfg: cfg, limiter: limiter, logger: logger}
}

// Global 进程内全局限流，未启用或未配置速率时直接放行。
func (m *RateLimitMiddleware) Global() gin.HandlerFunc {
	if !m.cfg.Enabled || m.cfg.GlobalRate <= 0 || m.cfg.GlobalCapacity <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	bucket := ratelimit.NewBucketWithRate(m.cfg.GlobalRate, m.cfg.GlobalCapacity)
	return func(c *gin.Context) {
		if bucket.TakeAvailable(1) != 1 {
			abortWith(c, myErrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// Route 按字面量 literal 查找接口规则。Redis 不可用时放行并记录日志。
func (m *RateLimitMiddleware) Route(literal string) gin.HandlerFunc {
	rule, ok := m.cfg.Routes[literal]
	if !m.cfg.Enabled || !ok || rule.Limit <= 0 || rule.WindowSeconds <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	window := time.Duration(rule.WindowSeconds) * time.Second

	return func(c *gin.Context) {
		key := BuildRateLimitKey(c.HandlerName(), literal)
		allowed, err := m.limiter.Allow(c.Request.Context(), key, int64(rule.Limit), window)
		if err != nil {
			m.logger.Warn("限流检查失败，放行请求", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			m.logger.Info("请求被限流", zap.String("key", key), zap.String("ip", c.ClientIP()))
			abortWith(c, myErrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// BuildRateLimitKey 由 handler 全名生成 rate_limit:<Controller>:<Method>:<literal>。
// handlerName 形如 "github.com/x/y/controller.(*AuthController).Login-fm"。
func BuildRateLimitKey(handlerName, literal string) string {
	controller, method := splitHandlerName(handlerName)
	return constant.RateLimitPrefix + controller + ":" + method + ":" + literal
}

func splitHandlerName(name string) (string, string) {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	// 去掉包名
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")

	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "func", name
	}
	controller := strings.NewReplacer("(", "", ")", "", "*", "").Replace(name[:i])
	return controller, name[i+1:]
}
