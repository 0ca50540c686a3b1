package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CODECOACH_LLM_PROVIDER", "CODECOACH_OPENAI_API_KEY", "CODECOACH_OPENAI_MODEL",
		"CODECOACH_LLM_TIMEOUT", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
		"OPENROUTER_API_KEY", "PROVIDER_MODEL",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("CODECOACH_LLM_PROVIDER", "openai")
	t.Setenv("CODECOACH_OPENAI_API_KEY", "sk-test")
	t.Setenv("CODECOACH_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("CODECOACH_LLM_TIMEOUT", "10s")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.OpenAI.Model)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestDiscoverConfig(t *testing.T) {
	clearProviderEnv(t)
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "ak")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)

	t.Setenv("OPENAI_API_KEY", "ok")
	t.Setenv("PROVIDER_MODEL", "gpt-4o")
	cfg, ok = DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderGemini
	assert.Error(t, cfg.Validate())

	cfg.Provider = ProviderMock
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "ollama"
	assert.Error(t, cfg.Validate())
}

func TestNewProviderFromEnv(t *testing.T) {
	clearProviderEnv(t)
	_, err := NewProviderFromEnv(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrNotConfigured))

	t.Setenv("CODECOACH_LLM_PROVIDER", "mock")
	p, err := NewProviderFromEnv(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	t.Setenv("CODECOACH_LLM_PROVIDER", "openrouter")
	_, err = NewProviderFromEnv(context.Background(), nil)
	assert.Error(t, err)
}
