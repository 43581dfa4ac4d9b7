// Package llm is the boundary to the external text-generation services.
// Vendor adapters implement Provider; decorators add retry, event logging
// and tracing around them.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates content from a prompt.
type Provider interface {
	// Generate sends the request and returns the model output. When the
	// request carries a Schema the output is validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider talks to.
	ModelID() string
}

// Request describes one call to the model.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Lesson generation is single-turn, so
	// this usually holds one user message with the assembled prompt.
	Messages []Message

	// Schema requests structured JSON output when set.
	Schema *Schema

	// MaxTokens caps the response length. Zero leaves it to the provider.
	MaxTokens int

	// Temperature controls randomness. Zero keeps the provider default.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds a single-turn request for prompt.
func UserPrompt(prompt string) Request {
	return Request{Messages: []Message{{Role: RoleUser, Content: prompt}}}
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema, e.g. "review-report".
	Name string

	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is the raw output: validated JSON when a Schema was
	// requested, plain text otherwise.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request.
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Text returns the output as text with surrounding whitespace trimmed.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(string(r.Content))
}

// Usage reports token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
