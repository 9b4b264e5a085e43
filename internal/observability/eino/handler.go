package eino

import (
	"context"
	"errors"
	"io"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dummy-data-api/pkg/metrics"
)

// startTimeKey 在 Context 中记录调用开始时间，OnEnd/OnError 时计算耗时
type startTimeKey struct{}

// modelNameKey 在 Context 中记录 OnStart 时解析到的模型名
type modelNameKey struct{}

// newChatModelCallbackHandler 创建模型调用回调：调用次数、耗时、Token 用量与追踪 Span
func newChatModelCallbackHandler() *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ctx = context.WithValue(ctx, startTimeKey{}, time.Now())

			modelName := modelNameFromInput(input)
			ctx = context.WithValue(ctx, modelNameKey{}, modelName)

			attrs := []attribute.KeyValue{
				attribute.String("eino.workflow", WorkflowFromContext(ctx)),
				attribute.String("llm.provider", ProviderFromContext(ctx)),
				attribute.String("llm.model", modelName),
			}
			if info != nil {
				attrs = append(attrs,
					attribute.String("eino.node_name", info.Name),
					attribute.String("eino.type", info.Type),
				)
			}

			ctx, _ = otel.Tracer("eino").Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
			return ctx
		},

		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			var usage *model.TokenUsage
			if output != nil {
				usage = output.TokenUsage
			}
			recordSuccess(ctx, modelNameFromOutput(ctx, output), usage)
			return ctx
		},

		// 流式调用只会触发 OnEndWithStreamOutput；必须读完并关闭 reader
		OnEndWithStreamOutput: func(ctx context.Context, info *einocb.RunInfo, output *schema.StreamReader[*model.CallbackOutput]) context.Context {
			go func() {
				defer output.Close()

				modelName := modelNameFromContext(ctx)
				var usage *model.TokenUsage
				for {
					chunk, err := output.Recv()
					if errors.Is(err, io.EOF) {
						break
					}
					if err != nil {
						recordError(ctx, modelName, err)
						return
					}
					if chunk == nil {
						continue
					}
					if chunk.TokenUsage != nil {
						usage = chunk.TokenUsage
					}
					if chunk.Config != nil && chunk.Config.Model != "" {
						modelName = chunk.Config.Model
					}
				}
				recordSuccess(ctx, modelName, usage)
			}()
			return ctx
		},

		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			recordError(ctx, modelNameFromContext(ctx), err)
			return ctx
		},
	}
}

func recordSuccess(ctx context.Context, modelName string, usage *model.TokenUsage) {
	workflow := WorkflowFromContext(ctx)
	provider := ProviderFromContext(ctx)

	span := trace.SpanFromContext(ctx)
	if usage != nil {
		metrics.LLMTokensUsed.WithLabelValues(workflow, provider, modelName, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(workflow, provider, modelName, "completion").Add(float64(usage.CompletionTokens))
		span.SetAttributes(
			attribute.Int("llm.prompt_tokens", usage.PromptTokens),
			attribute.Int("llm.completion_tokens", usage.CompletionTokens),
		)
	}

	if d := elapsedSeconds(ctx); d > 0 {
		metrics.LLMCallDuration.WithLabelValues(workflow, provider, modelName).Observe(d)
	}
	// 调用计数放在最后，作为本次打点完成的标志
	metrics.LLMCallTotal.WithLabelValues(workflow, provider, modelName, "success").Inc()
	span.End()
}

func recordError(ctx context.Context, modelName string, err error) {
	workflow := WorkflowFromContext(ctx)
	provider := ProviderFromContext(ctx)

	metrics.LLMCallTotal.WithLabelValues(workflow, provider, modelName, "error").Inc()
	if d := elapsedSeconds(ctx); d > 0 {
		metrics.LLMCallDuration.WithLabelValues(workflow, provider, modelName).Observe(d)
	}

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

// elapsedSeconds 计算从 OnStart 到当前的耗时（秒），无开始时间时返回 0
func elapsedSeconds(ctx context.Context) float64 {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok || start.IsZero() {
		return 0
	}
	return time.Since(start).Seconds()
}

func modelNameFromInput(in *model.CallbackInput) string {
	if in == nil || in.Config == nil {
		return ""
	}
	return in.Config.Model
}

func modelNameFromOutput(ctx context.Context, out *model.CallbackOutput) string {
	if out != nil && out.Config != nil && out.Config.Model != "" {
		return out.Config.Model
	}
	return modelNameFromContext(ctx)
}

func modelNameFromContext(ctx context.Context) string {
	s, _ := ctx.Value(modelNameKey{}).(string)
	return s
}
