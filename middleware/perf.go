package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultSlowThreshold = 500 * time.Millisecond

// SlowRequest 记录耗时超过阈值的请求，thresholdMs <= 0 时使用 500ms。
func SlowRequest(thresholdMs int64, logger *zap.Logger) gin.HandlerFunc {
	threshold := time.Duration(thresholdMs) * time.Millisecond
	if threshold <= 0 {
		threshold = defaultSlowThreshold
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		if elapsed < threshold {
			return
		}
		controller, method := splitHandlerName(c.HandlerName())
		logger.Warn("慢请求",
			zap.String("handler", controller+"."+method),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", threshold),
		)
	}
}
