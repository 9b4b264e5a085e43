package eino

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"dummy-data-api/pkg/metrics"
)

func TestContextHelpers(t *testing.T) {
	assert.Equal(t, "unknown", WorkflowFromContext(context.Background()))
	assert.Equal(t, "unknown", ProviderFromContext(context.Background()))

	ctx := WithWorkflowProvider(context.Background(), " datagen_stream ", "gemini")
	assert.Equal(t, "datagen_stream", WorkflowFromContext(ctx))
	assert.Equal(t, "gemini", ProviderFromContext(ctx))
}

func TestChatModelHandler_StreamOutputRecordsSuccess(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := WithWorkflowProvider(context.Background(), "test_stream", "fake")
	ctx = h.OnStart(ctx, nil, &model.CallbackInput{Config: &model.Config{Model: "m1"}})

	counter := metrics.LLMCallTotal.WithLabelValues("test_stream", "fake", "m1", "success")
	tokens := metrics.LLMTokensUsed.WithLabelValues("test_stream", "fake", "m1", "completion")
	before := testutil.ToFloat64(counter)
	tokensBefore := testutil.ToFloat64(tokens)

	out := schema.StreamReaderFromArray([]*model.CallbackOutput{
		{},
		{TokenUsage: &model.TokenUsage{PromptTokens: 3, CompletionTokens: 5}},
	})
	h.OnEndWithStreamOutput(ctx, nil, out)

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(counter) == before+1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, tokensBefore+5, testutil.ToFloat64(tokens))
}

func TestChatModelHandler_OnErrorRecordsError(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := WithWorkflowProvider(context.Background(), "test_error", "fake")
	ctx = h.OnStart(ctx, nil, &model.CallbackInput{Config: &model.Config{Model: "m2"}})

	counter := metrics.LLMCallTotal.WithLabelValues("test_error", "fake", "m2", "error")
	before := testutil.ToFloat64(counter)

	h.OnError(ctx, nil, errors.New("quota"))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
