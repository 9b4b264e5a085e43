// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dummy-data-api/internal/config"
	"dummy-data-api/internal/infrastructure/persistence/redis"
	"dummy-data-api/internal/interfaces/http/handler"
	"dummy-data-api/internal/interfaces/http/middleware"
	"dummy-data-api/internal/interfaces/http/web"
)

// Handlers 路由依赖的处理器集合
type Handlers struct {
	Health  *handler.HealthHandler
	Page    *handler.PageHandler
	Datagen *handler.DatagenHandler
	Session *handler.SessionHandler
	WS      *handler.WSHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers *Handlers
	limiter  middleware.RateLimiter
}

// New 创建新的路由器；limiter 为 nil 时不限流
func New(cfg *config.Config, handlers *Handlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	probes := []string{"/health", "/ready", "/live", r.cfg.Observability.Metrics.Path}

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name, probes...))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(probes...))
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	h := r.handlers

	// 系统端点
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 单页界面
	r.engine.GET("/", h.Page.Index)
	r.engine.StaticFS("/static", web.StaticFS())

	rl := r.cfg.Security.RateLimit
	limit := middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           rl.Enabled,
		RequestsPerWindow: rl.RequestsPerWindow,
		Window:            rl.Window,
		KeyPrefix:         rl.KeyPrefix,
	}, r.limiter, redis.BuildRateLimitKey)

	v1 := r.engine.Group("/v1")
	{
		v1.GET("/options", h.Datagen.Options)
		v1.GET("/examples", h.Datagen.Examples)
		v1.POST("/generate", limit, h.Datagen.Generate)
		v1.GET("/generate/ws", limit, h.WS.Generate)
		v1.POST("/export", h.Datagen.Export)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", h.Session.CreateSession)
			sessions.GET("/:sid", h.Session.GetSession)
			sessions.DELETE("/:sid", h.Session.DeleteSession)
			sessions.POST("/:sid/generate", limit, h.Session.Generate)
			sessions.GET("/:sid/download", h.Session.Download)
			sessions.GET("/:sid/clipboard", h.Session.Clipboard)
		}
	}
}
