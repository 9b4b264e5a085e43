//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"dummy-data-api/internal/application/datagen"
	"dummy-data-api/internal/config"
	"dummy-data-api/internal/infrastructure/llm"
	"dummy-data-api/internal/interfaces/http/handler"
	"dummy-data-api/internal/interfaces/http/router"
)

// InitializeApp 初始化完整应用
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		LLMSet,
		RateLimitSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// LLMSet 生成链路
var LLMSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(datagen.ChatModelFactory), new(*llm.EinoFactory)),
	datagen.NewGenerator,
	wire.Bind(new(datagen.Streamer), new(*datagen.Generator)),
	ProvideSessionStore,
)

// RateLimitSet 限流与 Redis
var RateLimitSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideMemoryLimiter,
	ProvideRateLimiter,
	ProvideHealthChecker,
)

// RouterSet 路由与处理器
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	ProvideTemplates,
	ProvidePageHandler,
	ProvideDatagenHandler,
	ProvideSessionHandler,
	handler.NewWSHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
