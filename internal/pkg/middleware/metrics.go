package middleware

import (
	"strconv"
	"time"

	"github.com/rmfpdlxmtidl/alpaca-salon/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录每个请求的 Prometheus 指标
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// 使用路由模板而非原始路径，避免指标基数爆炸
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		status := strconv.Itoa(c.Writer.Status())
		metrics.RecordHTTPRequest(c.Request.Method, endpoint, status, time.Since(start))
	}
}
