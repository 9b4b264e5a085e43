package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"dummy-data-api/pkg/logger"
)

// Trace OpenTelemetry 追踪中间件，skipPaths 中的请求不产生 span
func Trace(serviceName string, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		_, ok := skip[r.URL.Path]
		return !ok
	}))
}

// TraceContext 把 trace_id/span_id 写入日志上下文与响应头，并给 span 打上会话与格式标签
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		sc := span.SpanContext()
		if !sc.IsValid() {
			c.Next()
			return
		}

		traceID := sc.TraceID().String()
		spanID := sc.SpanID().String()
		c.Set("trace_id", traceID)
		c.Set("span_id", spanID)

		ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
		ctx = logger.WithContext(ctx, logger.SpanIDKey, spanID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Trace-ID", traceID)

		if sid := c.Param("sid"); sid != "" {
			span.SetAttributes(attribute.String("datagen.session_id", sid))
		}

		c.Next()
	}
}
