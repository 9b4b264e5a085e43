package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"dummy-data-api/pkg/metrics"
)

// Metrics 采集 HTTP 指标；skipPaths 中的路由（探针、/metrics）不计入
func Metrics(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.FullPath()
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method
		start := time.Now()

		if n := c.Request.ContentLength; n > 0 {
			metrics.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(n))
		}

		c.Next()

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()

		// 流式响应的耗时即生成耗时，由 datagen_generation_duration 统计
		if !isStreaming(c) {
			metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		}
		if n := c.Writer.Size(); n > 0 {
			metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(n))
		}
	}
}

func isStreaming(c *gin.Context) bool {
	if strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "text/event-stream") {
		return true
	}
	return c.IsWebsocket()
}
