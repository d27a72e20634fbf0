package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RANTIFY_CONFIG", "")
	t.Setenv("LLM_MAX_PROMPT_TOKENS", "")
	t.Setenv("OPENAI_LLM_MODEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12288, cfg.LLM.MaxPromptTokens)
	assert.Equal(t, 3, cfg.LLM.MaxRetryAttempts)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, time.Minute, cfg.Session.RefreshSkew.Duration)
	assert.Equal(t, 2*time.Minute, cfg.Server.RequestTimeout.Duration)
}

func TestLoadNormalizesProvider(t *testing.T) {
	t.Setenv("RANTIFY_CONFIG", "")
	t.Setenv("LLM_PROVIDER", " Ollama ")
	t.Setenv("REQUEST_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout.Duration)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rantify.toml")
	contents := `
[llm]
provider = "ollama"
model = "llama3"
max_retry_attempts = 5

[session]
refresh_skew = "90s"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	t.Setenv("RANTIFY_CONFIG", path)
	t.Setenv("OPENAI_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("LLM_MAX_RETRY_ATTEMPTS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, 5, cfg.LLM.MaxRetryAttempts)
	assert.Equal(t, 90*time.Second, cfg.Session.RefreshSkew.Duration)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model, "environment wins over the file")
	assert.Equal(t, 12288, cfg.LLM.MaxPromptTokens, "unset keys keep their default")
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("RANTIFY_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	cfg.Session.Secret = "s"
	cfg.Spotify.ClientID = "id"
	cfg.Spotify.ClientSecret = "secret"
	cfg.LLM.OpenAIAPIKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg.LLM.Provider = "bard"
	assert.Error(t, cfg.Validate())

	cfg.LLM.Provider = "Ollama"
	assert.Error(t, cfg.Validate(), "providers are matched after Load normalizes them")

	cfg.LLM.Provider = ProviderOpenAI
	cfg.Server.RequestTimeout.Duration = 0
	assert.ErrorContains(t, cfg.Validate(), "REQUEST_TIMEOUT")
}
