package prompt

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DataGenTemplate(t *testing.T) {
	r := NewRegistry()
	tpl, err := r.ChatTemplate(PromptDataGenV1)
	require.NoError(t, err)

	msgs, err := tpl.Format(context.Background(), map[string]any{
		"instruction": `Output format: JSON. Example {"a":1}`,
		"request":     "Generate now.",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, `Output format: JSON. Example {"a":1}`, msgs[0].Content)
	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, "Generate now.", msgs[1].Content)

	again, err := r.ChatTemplate(PromptDataGenV1)
	require.NoError(t, err)
	assert.Same(t, tpl, again)
}

func TestRegistry_UnknownPrompt(t *testing.T) {
	_, err := NewRegistry().ChatTemplate("nope")
	assert.Error(t, err)
}
