// Package llm 提供基于 Eino 的大模型客户端
package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"dummy-data-api/internal/config"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// EinoFactory 管理多个 Eino ChatModel 客户端实例
// 所有 provider 都通过 OpenAI 兼容接口接入（Gemini 亦然）
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// DefaultProvider 返回默认 provider 名称
func (f *EinoFactory) DefaultProvider() string {
	return strings.TrimSpace(f.config.DefaultProvider)
}

// Get 获取指定名称的 ChatModel，如果未指定则返回默认客户端
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = f.DefaultProvider()
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}
	if strings.TrimSpace(providerCfg.APIKey) == "" {
		return nil, fmt.Errorf("provider %s has no api key", name)
	}

	chatCfg := &openai.ChatModelConfig{
		APIKey:  providerCfg.APIKey,
		BaseURL: providerCfg.BaseURL,
		Model:   providerCfg.Model,
		Timeout: providerCfg.Timeout,
	}
	if providerCfg.MaxTokens > 0 {
		chatCfg.MaxTokens = ptr(providerCfg.MaxTokens)
	}
	if providerCfg.Temperature > 0 {
		chatCfg.Temperature = ptr(float32(providerCfg.Temperature))
	}

	chatModel, err := openai.NewChatModel(ctx, chatCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
	}

	f.models[name] = chatModel
	return chatModel, nil
}

// Default 返回默认 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}

func ptr[T any](v T) *T {
	return &v
}
