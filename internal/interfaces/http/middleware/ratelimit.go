// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dummy-data-api/internal/interfaces/http/dto"
	apperrors "dummy-data-api/pkg/errors"
	"dummy-data-api/pkg/logger"
	"dummy-data-api/pkg/metrics"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
	// RequestsPerWindow 每个窗口内允许的请求数
	RequestsPerWindow int
	// Window 滑动窗口长度
	Window time.Duration
	// KeyPrefix Redis Key 前缀
	KeyPrefix string
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}

// KeyFunc 由前缀、客户端标识与路由构建限流键
type KeyFunc func(prefix, clientID, endpoint string) string

// RateLimit 限流中间件，按客户端 IP 与路由计数
func RateLimit(cfg RateLimitConfig, limiter RateLimiter, keyFn KeyFunc) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.RequestsPerWindow <= 0 {
		cfg.RequestsPerWindow = 20
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}

	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := keyFn(cfg.KeyPrefix, c.ClientIP(), path)

		allowed, remaining, err := limiter.Allow(c.Request.Context(), key, cfg.RequestsPerWindow, cfg.Window)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			metrics.RateLimitRejected.WithLabelValues(path).Inc()
			dto.AppError(c, apperrors.ErrTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}
