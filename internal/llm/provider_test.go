package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage("# Blueprint"), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockText("  items  \n"),
	)

	resp1, err := mock.Generate(context.Background(), UserPrompt("first"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text() != "# Blueprint" || resp1.Usage.InputTokens != 10 || resp1.StopReason != "end" {
		t.Fatalf("unexpected first response: %+v", resp1)
	}

	resp2, err := mock.Generate(context.Background(), UserPrompt("second"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text() != "items" {
		t.Fatalf("Text() = %q, want trimmed %q", resp2.Text(), "items")
	}
	if mock.CallCount() != 2 || mock.Calls[1].Messages[0].Content != "second" {
		t.Fatalf("calls not recorded: %+v", mock.Calls)
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_ConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})
	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestDemoProvider(t *testing.T) {
	demo := NewDemoProvider()
	ctx := WithPurpose(context.Background(), "media")

	resp, err := demo.Generate(ctx, UserPrompt("anything"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resp.Text(); got[:12] != "# Demo media" {
		t.Fatalf("unexpected demo text: %q", got)
	}

	schema := &Schema{Name: "demo-review", Definition: map[string]any{
		"type":     "object",
		"required": []any{"summary", "findings"},
	}}
	req := UserPrompt("review")
	req.Schema = schema
	resp, err = demo.Generate(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateResponse(schema, resp.Content); err != nil {
		t.Fatalf("demo review does not validate: %v", err)
	}
}

func TestResponseTextNil(t *testing.T) {
	var r *Response
	if r.Text() != "" {
		t.Fatal("nil response should have empty text")
	}
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	if id := RunIDFrom(ctx); id != "" {
		t.Fatalf("expected empty run id, got %q", id)
	}

	ctx = WithRunID(WithPurpose(ctx, "fact-check"), "run-9")
	if p := PurposeFrom(ctx); p != "fact-check" {
		t.Fatalf("expected 'fact-check', got %q", p)
	}
	if id := RunIDFrom(ctx); id != "run-9" {
		t.Fatalf("expected 'run-9', got %q", id)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"gemini without key", Config{Provider: "gemini"}, "GEMINI_API_KEY is required for the gemini provider"},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "k"}}, ""},
		{"anthropic without key", Config{Provider: "anthropic"}, "ANTHROPIC_API_KEY is required for the anthropic provider"},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "k"}}, ""},
		{"openrouter without key", Config{Provider: "openrouter"}, "OPENROUTER_API_KEY is required for the openrouter provider"},
		{"mock needs no key", Config{Provider: "mock"}, ""},
		{"unknown provider", Config{Provider: "palm"}, `unknown LLM provider: "palm"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestMockProvider_AddResponseAfterEmpty(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), UserPrompt("x"))
	var unavailable *ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("empty queue error = %v, want ErrProviderUnavailable", err)
	}

	mock.AddResponse(MockText("media list"))
	resp, err := mock.Generate(context.Background(), UserPrompt("y"))
	if err != nil || resp.Text() != "media list" {
		t.Fatalf("Generate() = %v, %v", resp, err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("CallCount() = %d, want 2", mock.CallCount())
	}
}

func clearKeyEnv(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"LESSONKIT_LLM_PROVIDER", "LESSONKIT_MAX_TOKENS", "LESSONKIT_LLM_MAX_ATTEMPTS", "LESSONKIT_LLM_TIMEOUT",
		"LESSONKIT_GEMINI_MODEL"} {
		t.Setenv(k, "")
	}
}

func TestDiscoverConfig_Priority(t *testing.T) {
	clearKeyEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("GEMINI_API_KEY", "g")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g" {
		t.Fatalf("gemini key should win, got %+v", cfg)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("LESSONKIT_GEMINI_MODEL", "gemini-pro")
	t.Setenv("LESSONKIT_MAX_TOKENS", "2048")
	t.Setenv("LESSONKIT_LLM_MAX_ATTEMPTS", "3")
	t.Setenv("LESSONKIT_LLM_TIMEOUT", "45s")

	cfg := ConfigFromEnv()
	if cfg.Provider != "gemini" || cfg.Gemini.Model != "gemini-pro" {
		t.Fatalf("unexpected provider config: %+v", cfg)
	}
	if cfg.MaxTokens != 2048 || cfg.Retry.MaxAttempts != 3 || cfg.Timeout.Seconds() != 45 {
		t.Fatalf("overrides not applied: tokens=%d attempts=%d timeout=%s",
			cfg.MaxTokens, cfg.Retry.MaxAttempts, cfg.Timeout)
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearKeyEnv(t)
	cfg := ConfigFromEnv()
	if cfg.Provider != "gemini" || cfg.HasKey() {
		t.Fatalf("expected keyless gemini default, got %+v", cfg)
	}
	if cfg.Retry.MaxAttempts != 1 {
		t.Fatalf("retries should be off by default, got %d attempts", cfg.Retry.MaxAttempts)
	}
	if cfg.KeyVar() != "GEMINI_API_KEY" {
		t.Fatalf("KeyVar() = %q", cfg.KeyVar())
	}
}

func TestPricing(t *testing.T) {
	c := LookupCost("gemini-2.5-flash")
	if c == nil {
		t.Fatal("expected pricing for the default model")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-2.8) > 1e-9 {
		t.Fatalf("Cost = %v, want 2.8", got)
	}
	if LookupCost("unknown-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
}
