package eino

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyWorkflow llmCtxKey = "llm_workflow"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
)

// WithWorkflowProvider 为本次模型调用标注工作流与 provider，供回调打点使用
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	ctx = context.WithValue(ctx, llmCtxKeyWorkflow, strings.TrimSpace(workflow))
	return context.WithValue(ctx, llmCtxKeyProvider, strings.TrimSpace(provider))
}

func WorkflowFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyWorkflow)
}

func ProviderFromContext(ctx context.Context) string {
	return stringFromContext(ctx, llmCtxKeyProvider)
}

func stringFromContext(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return "unknown"
	}
	s, ok := ctx.Value(key).(string)
	if !ok || s == "" {
		return "unknown"
	}
	return s
}
