package datagen

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"dummy-data-api/internal/domain/entity"
	einoobs "dummy-data-api/internal/observability/eino"
	workflowprompt "dummy-data-api/internal/workflow/prompt"
	apperrors "dummy-data-api/pkg/errors"
	"dummy-data-api/pkg/logger"
	"dummy-data-api/pkg/metrics"
)

const workflowName = "datagen_stream"

// ChatModelFactory 定义应用层对 LLM ChatModel 的最小依赖（port）。
// 由基础设施层提供具体实现（例如 EinoFactory）。
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}

// Streamer 以回调方式逐块交付生成结果
type Streamer interface {
	Generate(ctx context.Context, in *GenerateInput, onChunk func(chunk string)) error
}

// GenerateInput 一次生成请求
type GenerateInput struct {
	Prompt  string
	Format  entity.OutputFormat
	Options entity.GenerationOptions

	// Provider 为空时使用默认 provider
	Provider string
}

// Generator 流式生成客户端
type Generator struct {
	factory ChatModelFactory
	prompts *workflowprompt.Registry
}

// NewGenerator 创建流式生成客户端
func NewGenerator(factory ChatModelFactory) *Generator {
	return &Generator{
		factory: factory,
		prompts: workflowprompt.NewRegistry(),
	}
}

// ValidatePrompt 空白描述在发起任何网络调用前被拒绝
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return apperrors.ErrEmptyPrompt
	}
	return nil
}

// Generate 发起一次流式调用，按到达顺序同步回调每个非空片段。
// 片段不重排、不合并；失败不重试，已交付的片段不回滚。
func (g *Generator) Generate(ctx context.Context, in *GenerateInput, onChunk func(chunk string)) error {
	if g == nil || g.factory == nil {
		return apperrors.ErrServiceUnavailable.WithDetail("llm factory not configured")
	}
	if in == nil {
		return apperrors.ErrInvalidParam.WithDetail("input is nil")
	}
	if err := ValidatePrompt(in.Prompt); err != nil {
		metrics.GenerationTotal.WithLabelValues(string(in.Format), "rejected").Inc()
		return err
	}
	if onChunk == nil {
		onChunk = func(string) {}
	}

	metrics.ActiveGenerations.Inc()
	defer metrics.ActiveGenerations.Dec()

	start := time.Now()
	chunks, size, err := g.stream(ctx, in, onChunk)

	format := string(in.Format)
	metrics.GenerationDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	metrics.GenerationChunks.WithLabelValues(format).Observe(float64(chunks))
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(format, "error").Inc()
		logger.Error(ctx, "dummy data generation failed", err,
			"format", format,
			"chunks", chunks,
			"bytes", size,
		)
		return apperrors.ErrLLMCallFailed.WithError(err)
	}

	metrics.GenerationTotal.WithLabelValues(format, "success").Inc()
	metrics.GeneratedBytes.WithLabelValues(format).Observe(float64(size))
	logger.Info(ctx, "dummy data generated",
		"format", format,
		"chunks", chunks,
		"bytes", size,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (g *Generator) stream(ctx context.Context, in *GenerateInput, onChunk func(string)) (chunks int, size int, err error) {
	ctx = einoobs.WithWorkflowProvider(ctx, workflowName, in.Provider)
	ctx = einocallbacks.InitCallbacks(ctx, &einocallbacks.RunInfo{
		Name:      workflowName,
		Type:      "OpenAI",
		Component: components.ComponentOfChatModel,
	})

	chatModel, err := g.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return 0, 0, err
	}

	msgs, err := g.formatMessages(ctx, in)
	if err != nil {
		return 0, 0, err
	}

	reader, err := chatModel.Stream(ctx, msgs)
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	for {
		msg, recvErr := reader.Recv()
		if errors.Is(recvErr, io.EOF) {
			return chunks, size, nil
		}
		if recvErr != nil {
			return chunks, size, recvErr
		}
		if msg == nil || msg.Content == "" {
			continue
		}
		chunks++
		size += len(msg.Content)
		onChunk(msg.Content)
	}
}

func (g *Generator) formatMessages(ctx context.Context, in *GenerateInput) ([]*schema.Message, error) {
	tpl, err := g.prompts.ChatTemplate(workflowprompt.PromptDataGenV1)
	if err != nil {
		return nil, err
	}
	return tpl.Format(ctx, map[string]any{
		"instruction": CompileInstruction(in.Prompt, in.Format, in.Options),
		"request":     generationRequest,
	})
}
