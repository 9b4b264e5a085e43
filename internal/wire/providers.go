// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"html/template"

	"dummy-data-api/internal/application/datagen"
	"dummy-data-api/internal/config"
	"dummy-data-api/internal/infrastructure/persistence/redis"
	"dummy-data-api/internal/infrastructure/ratelimit"
	"dummy-data-api/internal/interfaces/http/handler"
	"dummy-data-api/internal/interfaces/http/middleware"
	"dummy-data-api/internal/interfaces/http/router"
	"dummy-data-api/internal/interfaces/http/web"
	"dummy-data-api/pkg/logger"
)

// App 服务运行所需的顶层对象
type App struct {
	Router   *router.Router
	Sessions *datagen.SessionStore
	// MemoryLimiter 仅在使用进程内限流时非空，需要定期清理
	MemoryLimiter *ratelimit.MemoryLimiter
}

func redisRateLimitEnabled(cfg *config.Config) bool {
	rl := cfg.Security.RateLimit
	return rl.Enabled && rl.Backend == "redis"
}

// ProvideRedisClientOptional 仅 Redis 限流需要；连接失败时退回进程内限流
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !redisRateLimitEnabled(cfg) {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(ctx, &cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, falling back to in-memory rate limiter", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMemoryLimiter 启用限流且没有可用 Redis 时使用进程内限流
func ProvideMemoryLimiter(cfg *config.Config, redisClient *redis.Client) *ratelimit.MemoryLimiter {
	if !cfg.Security.RateLimit.Enabled || redisClient != nil {
		return nil
	}
	return ratelimit.NewMemoryLimiter()
}

// ProvideRateLimiter 未启用限流时返回 nil 接口
func ProvideRateLimiter(cfg *config.Config, redisClient *redis.Client, mem *ratelimit.MemoryLimiter) middleware.RateLimiter {
	if !cfg.Security.RateLimit.Enabled {
		return nil
	}
	if mem != nil {
		return mem
	}
	return redis.NewRateLimiter(redisClient)
}

func ProvideHealthChecker(redisClient *redis.Client) handler.HealthChecker {
	if redisClient == nil {
		return nil
	}
	return redisClient
}

func ProvideHealthHandler(cfg *config.Config, checker handler.HealthChecker) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, checker)
}

func ProvideTemplates() (*template.Template, error) {
	return web.ParseTemplates()
}

func ProvidePageHandler(cfg *config.Config, tpl *template.Template) *handler.PageHandler {
	return handler.NewPageHandler(tpl, cfg.Display.PreviewLines)
}

func ProvideDatagenHandler(cfg *config.Config, gen datagen.Streamer) *handler.DatagenHandler {
	return handler.NewDatagenHandler(gen, cfg.Display.PreviewLines)
}

func ProvideSessionStore(cfg *config.Config) *datagen.SessionStore {
	return datagen.NewSessionStore(cfg.Session.IdleTTL)
}

func ProvideSessionHandler(cfg *config.Config, store *datagen.SessionStore, gen datagen.Streamer) *handler.SessionHandler {
	return handler.NewSessionHandler(store, gen, cfg.Display.PreviewLines)
}
