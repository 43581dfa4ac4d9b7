package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/lessonkit/internal/logger"
	"github.com/abhisek/lessonkit/internal/store"
)

// NewProvider creates the configured provider wrapped as
// caller -> retry -> tracing -> logging -> vendor. eventRepo may be nil
// when the request log is disabled.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewDemoProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return Wrap(base, cfg, eventRepo, log), nil
}

// Wrap applies the standard decorators to base.
func Wrap(base Provider, cfg Config, eventRepo store.EventRepo, log *logger.Logger) Provider {
	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	traced := WithTracing(logged, cfg.Provider)
	if cfg.Retry.MaxAttempts <= 1 {
		return traced
	}
	return WithRetry(traced, cfg.Retry)
}
