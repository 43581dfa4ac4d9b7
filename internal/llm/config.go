package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the provider selection and per-provider settings.
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "openrouter", "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// MaxTokens caps every response. Lesson blueprints and the 56-item
	// assessment are long, so the default is generous.
	MaxTokens int

	// Timeout bounds a single generation call, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-sonnet"
}

type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures backoff for transient failures. MaxAttempts of 1
// disables retries.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Anthropic:  AnthropicConfig{Model: "claude-sonnet"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 2 * time.Second,
			MaxWait:     20 * time.Second,
			Multiplier:  2.0,
		},
		MaxTokens: 8192,
		Timeout:   120 * time.Second,
	}
}

// ConfigFromEnv starts from DiscoverConfig (or the defaults) and applies
// the LESSONKIT_* overrides.
func ConfigFromEnv() Config {
	cfg, ok := DiscoverConfig()
	if !ok {
		cfg = DefaultConfig()
	}

	setString(&cfg.Provider, "LESSONKIT_LLM_PROVIDER")

	setString(&cfg.Gemini.APIKey, "LESSONKIT_GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "LESSONKIT_GEMINI_MODEL")
	setString(&cfg.OpenAI.APIKey, "LESSONKIT_OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "LESSONKIT_OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "LESSONKIT_OPENAI_BASE_URL")
	setString(&cfg.Anthropic.APIKey, "LESSONKIT_ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "LESSONKIT_ANTHROPIC_MODEL")
	setString(&cfg.OpenRouter.APIKey, "LESSONKIT_OPENROUTER_API_KEY")
	setString(&cfg.OpenRouter.Model, "LESSONKIT_OPENROUTER_MODEL")

	if n, err := strconv.Atoi(os.Getenv("LESSONKIT_MAX_TOKENS")); err == nil && n > 0 {
		cfg.MaxTokens = n
	}
	if n, err := strconv.Atoi(os.Getenv("LESSONKIT_LLM_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	if d, err := time.ParseDuration(os.Getenv("LESSONKIT_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}

	return cfg
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig reads the standard API key variables and selects the
// first provider whose key is set, in priority order: Gemini, OpenAI,
// Anthropic, OpenRouter. Every key found is kept so the provider can be
// switched later.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")

	for _, p := range []string{"gemini", "openai", "anthropic", "openrouter"} {
		cfg.Provider = p
		if cfg.HasKey() {
			return cfg, true
		}
	}
	return Config{}, false
}

// KeyVar names the variable that supplies the selected provider's key.
func (c Config) KeyVar() string {
	switch c.Provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// HasKey reports whether the selected provider has an API key.
func (c Config) HasKey() bool {
	switch c.Provider {
	case "gemini":
		return c.Gemini.APIKey != ""
	case "openai":
		return c.OpenAI.APIKey != ""
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "openrouter":
		return c.OpenRouter.APIKey != ""
	case "mock":
		return true
	}
	return false
}

// Validate checks the provider name and its key.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "openai", "anthropic", "openrouter", "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if !c.HasKey() {
		return fmt.Errorf("%s is required for the %s provider", c.KeyVar(), c.Provider)
	}
	return nil
}
