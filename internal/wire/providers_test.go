package wire

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dummy-data-api/internal/config"
	"dummy-data-api/internal/infrastructure/ratelimit"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "dummy-data-api"
	cfg.LLM.DefaultProvider = "gemini"
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"gemini": {APIKey: "test-key", Model: "gemini-2.0-flash", BaseURL: "http://127.0.0.1:1/v1"},
	}
	cfg.Display.PreviewLines = 100
	return cfg
}

func TestProvideRateLimiter(t *testing.T) {
	cfg := testConfig()
	assert.Nil(t, ProvideRateLimiter(cfg, nil, nil))

	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.Backend = "memory"
	mem := ProvideMemoryLimiter(cfg, nil)
	require.NotNil(t, mem)
	assert.IsType(t, &ratelimit.MemoryLimiter{}, ProvideRateLimiter(cfg, nil, mem))
}

func TestProvideHealthChecker_NilWithoutRedis(t *testing.T) {
	assert.Nil(t, ProvideHealthChecker(nil))
}

func TestInitializeApp_WithoutRedis(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.Backend = "memory"

	app, cleanup, err := InitializeApp(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, app.Router.Engine())
	assert.NotNil(t, app.Sessions)
	assert.NotNil(t, app.MemoryLimiter)
}
