// Package config 提供配置加载功能
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// envPattern 匹配 ${VAR} 或 ${VAR:default}
// g1: 变量名, g2: 默认值部分（含冒号）, g3: 默认值内容
var envPattern = regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)

// Load 从默认目录加载配置
func Load() (*Config, error) {
	return LoadFrom("configs")
}

// LoadFrom 从指定目录加载配置文件
// 按优先级加载：默认配置 -> 环境配置 -> 环境变量
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 加载默认配置（缺失时完全依赖默认值与环境变量）
	if err := loadConfigFile(v, dir+"/config.yaml", true); err != nil {
		return nil, err
	}

	// 2. 加载环境特定配置
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := fmt.Sprintf("%s/config.%s.yaml", dir, env)
	if err := loadConfigFile(v, envFile, true); err != nil {
		return nil, err
	}

	// 3. 绑定环境变量 (直接覆盖)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 设置默认值 (兜底)
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadConfigFile 读取文件，执行环境变量替换，并加载到 viper
func loadConfigFile(v *viper.Viper, path string, optional bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	reader := strings.NewReader(expandEnv(string(content)))
	if v.ConfigFileUsed() == "" {
		if err := v.ReadConfig(reader); err != nil {
			return fmt.Errorf("failed to read processed config %s: %w", path, err)
		}
		// 手动标记已加载文件，后续文件走 Merge
		v.SetConfigFile(path)
	} else {
		if err := v.MergeConfig(reader); err != nil {
			return fmt.Errorf("failed to merge processed config %s: %w", path, err)
		}
	}

	return nil
}

// expandEnv 替换字符串中的 ${VAR:default} 占位符
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envPattern.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		// 保留原样，Validate 会识别未展开的占位符
		return match
	})
}

// Validate 校验启动必需的配置项
// 默认 provider 缺少 API Key 时视为启动期致命错误
func (c *Config) Validate() error {
	name := strings.TrimSpace(c.LLM.DefaultProvider)
	if name == "" {
		return fmt.Errorf("llm.default_provider is required")
	}
	p, ok := c.LLM.Providers[name]
	if !ok {
		return fmt.Errorf("llm provider %q not found in config", name)
	}
	key := strings.TrimSpace(p.APIKey)
	if key == "" || envPattern.MatchString(key) {
		return fmt.Errorf("api key for llm provider %q is not set", name)
	}
	if strings.TrimSpace(p.Model) == "" {
		return fmt.Errorf("model for llm provider %q is not set", name)
	}
	if rl := c.Security.RateLimit; rl.Enabled && rl.Backend != "redis" && rl.Backend != "memory" {
		return fmt.Errorf("security.rate_limit.backend must be redis or memory")
	}
	if c.Display.PreviewLines <= 0 {
		return fmt.Errorf("display.preview_lines must be positive")
	}
	return nil
}

// MustLoad 加载配置，失败时 panic
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "dummy-data-api")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	// HTTP 服务器默认值
	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "0s")
	v.SetDefault("server.http.idle_timeout", "120s")
	v.SetDefault("server.http.shutdown_timeout", "30s")

	// Redis 默认值（仅限流使用）
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", 20)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	// LLM 默认值：Gemini 的 OpenAI 兼容端点
	v.SetDefault("llm.default_provider", "gemini")
	v.SetDefault("llm.providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("llm.providers.gemini.model", "gemini-2.0-flash")
	v.SetDefault("llm.providers.gemini.max_tokens", 8192)
	v.SetDefault("llm.providers.gemini.temperature", 0.7)
	v.SetDefault("llm.providers.gemini.timeout", "120s")
	v.SetDefault("llm.providers.gemini.api_key", os.Getenv("GEMINI_API_KEY"))

	// 可观测性默认值
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	// 安全默认值
	v.SetDefault("security.rate_limit.enabled", false)
	v.SetDefault("security.rate_limit.backend", "memory")
	v.SetDefault("security.rate_limit.requests_per_window", 20)
	v.SetDefault("security.rate_limit.window", "1m")
	v.SetDefault("security.rate_limit.key_prefix", "ratelimit:generate")

	// 会话默认值
	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.janitor_interval", "1m")

	// 预览默认值
	v.SetDefault("display.preview_lines", 100)
}
