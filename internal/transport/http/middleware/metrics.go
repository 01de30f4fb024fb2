package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"go-gin-gorm-crm/internal/metrics"
)

// Metrics records request count and latency per route template; unmatched
// paths share one label so scanners cannot blow up cardinality.
func Metrics(m *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.Request(path, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
