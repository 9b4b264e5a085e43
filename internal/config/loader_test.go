package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
app:
  name: test-app
llm:
  default_provider: gemini
  providers:
    gemini:
      api_key: ${TEST_GEMINI_KEY:}
      model: gemini-2.0-flash
display:
  preview_lines: ${TEST_PREVIEW_LINES:25}
`

func writeConfig(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func TestLoadFrom_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("TEST_GEMINI_KEY", "secret-key")
	dir := writeConfig(t, map[string]string{"config.yaml": testConfigYAML})

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "test-app", cfg.App.Name)
	assert.Equal(t, "secret-key", cfg.LLM.Providers["gemini"].APIKey)
	assert.Equal(t, 25, cfg.Display.PreviewLines)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, "/metrics", cfg.Observability.Metrics.Path)
}

func TestLoadFrom_EnvSpecificFileOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("TEST_GEMINI_KEY", "secret-key")
	dir := writeConfig(t, map[string]string{
		"config.yaml":         testConfigYAML,
		"config.staging.yaml": "display:\n  preview_lines: 7\n",
	})

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Display.PreviewLines)
}

func TestLoadFrom_MissingAPIKeyIsFatal(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("TEST_GEMINI_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	dir := writeConfig(t, map[string]string{"config.yaml": testConfigYAML})

	_, err := LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("EXPAND_SET", "value")
	assert.Equal(t, "a=value", expandEnv("a=${EXPAND_SET}"))
	assert.Equal(t, "b=fallback", expandEnv("b=${EXPAND_UNSET_XYZ:fallback}"))
	assert.Equal(t, "c=", expandEnv("c=${EXPAND_UNSET_XYZ:}"))
	assert.Equal(t, "d=${EXPAND_UNSET_XYZ}", expandEnv("d=${EXPAND_UNSET_XYZ}"))
}

func TestValidate_UnexpandedPlaceholderRejected(t *testing.T) {
	cfg := &Config{
		LLM: LLMConfig{
			DefaultProvider: "gemini",
			Providers: map[string]ProviderConfig{
				"gemini": {APIKey: "${GEMINI_API_KEY}", Model: "m"},
			},
		},
		Display: DisplayConfig{PreviewLines: 10},
	}
	assert.Error(t, cfg.Validate())

	cfg.LLM.Providers["gemini"] = ProviderConfig{APIKey: "k", Model: "m"}
	assert.NoError(t, cfg.Validate())
}
