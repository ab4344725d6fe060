package metrics

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yated-center/yated-crm-api/internal/service"
)

// New returns middleware that records request metrics on the metrics service.
func New(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}
