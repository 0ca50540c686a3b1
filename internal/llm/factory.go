package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrNotConfigured is returned by NewProviderFromEnv when neither
// CODECOACH_LLM_PROVIDER nor any vendor API key is present.
var ErrNotConfigured = errors.New("no LLM provider configured")

// NewProvider creates a Provider from configuration, wrapped as
// caller -> timeout -> retry -> logging -> base.
// A nil recorder disables event logging.
func NewProvider(ctx context.Context, cfg Config, recorder EventRecorder) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if recorder != nil {
		base = WithLogging(base, cfg.Provider, recorder)
	}
	return WithTimeout(WithRetry(base, cfg.Retry), cfg.Timeout), nil
}

// NewProviderFromEnv resolves configuration from the environment: an
// explicit CODECOACH_LLM_PROVIDER wins, otherwise the vendor keys are checked in order.
func NewProviderFromEnv(ctx context.Context, recorder EventRecorder) (Provider, error) {
	if os.Getenv("CODECOACH_LLM_PROVIDER") != "" {
		return NewProvider(ctx, ConfigFromEnv(), recorder)
	}
	cfg, ok := DiscoverConfig()
	if !ok {
		return nil, ErrNotConfigured
	}
	return NewProvider(ctx, cfg, recorder)
}
