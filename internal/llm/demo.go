package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// NewDemoProvider is the provider behind LESSONKIT_LLM_PROVIDER=mock. It
// answers every purpose with small fixed content so the interfaces can be
// exercised without an API key.
func NewDemoProvider() *MockProvider {
	m := NewMockProvider()
	m.Fallback = demoResponse
	return m
}

func demoResponse(ctx context.Context, req Request) MockResponse {
	if req.Schema != nil {
		out, _ := json.Marshal(map[string]any{
			"summary": "Demo review: no live model was called.",
			"findings": []map[string]string{{
				"section":        "Instructional Segment 1",
				"issue":          "Placeholder content",
				"recommendation": "Run with a real provider",
				"severity":       "low",
			}},
		})
		return MockResponse{Content: out}
	}

	purpose := PurposeFrom(ctx)
	text := fmt.Sprintf(`# Demo %s

This **%s** output was produced by the demo provider.

- First point
- Second point

| Item | Notes |
|------|-------|
| 1 | Placeholder |
`, purpose, purpose)
	return MockResponse{
		Content: json.RawMessage(text),
		Usage:   Usage{InputTokens: len(req.Messages), OutputTokens: 42, TotalTokens: 42 + len(req.Messages)},
	}
}
