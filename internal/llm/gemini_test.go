package llm

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(reviewLikeSchema())

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 2 || len(schema.Required) != 2 {
		t.Fatalf("unexpected object shape: %+v", schema)
	}
	findings := schema.Properties["findings"]
	if findings.Type != genai.TypeArray || findings.Items.Type != genai.TypeObject {
		t.Fatalf("findings should be an array of objects, got %+v", findings)
	}
	severity := findings.Items.Properties["severity"]
	if severity.Type != genai.TypeString || len(severity.Enum) != 3 {
		t.Fatalf("severity should be a 3-value string enum, got %+v", severity)
	}
}

// reviewLikeSchema mixes []string and []any the way Go literals and decoded
// JSON do.
func reviewLikeSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"findings": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"section":  map[string]any{"type": "string"},
						"severity": map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
					},
				},
			},
		},
		"required":             []any{"summary", "findings"},
		"additionalProperties": false,
	}
}

func TestMapGeminiError(t *testing.T) {
	rl := mapGeminiError(fmt.Errorf("call: %w", genai.APIError{Code: 429, Message: "quota"}))
	var rateErr *ErrRateLimit
	if !errors.As(rl, &rateErr) {
		t.Fatalf("expected ErrRateLimit, got %T", rl)
	}

	other := mapGeminiError(genai.APIError{Code: 500})
	var unavail *ErrProviderUnavailable
	if !errors.As(other, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", other)
	}
}

func TestMapGeminiStopReason(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}},
	}
	if got := mapGeminiStopReason(resp); got != "max_tokens" {
		t.Fatalf("got %q, want max_tokens", got)
	}
	if got := mapGeminiStopReason(&genai.GenerateContentResponse{}); got != "end" {
		t.Fatalf("got %q, want end", got)
	}
}
