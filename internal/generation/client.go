// Package generation drives the lesson content stages against a language
// model and keeps their results as explicit values.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/lessonkit/internal/llm"
	"github.com/abhisek/lessonkit/internal/logger"
)

// ClientOptions bound each call.
type ClientOptions struct {
	MaxTokens int
	Timeout   time.Duration
}

// Client sends single prompts to a provider. Failures are returned inside
// the Result, never as panics.
type Client struct {
	provider llm.Provider
	opts     ClientOptions
	log      *logger.Logger
}

func NewClient(provider llm.Provider, opts ClientOptions, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{provider: provider, opts: opts, log: log}
}

// Generate sends prompt as one user message and returns the trimmed text.
func (c *Client) Generate(ctx context.Context, stage Stage, prompt string) Result {
	resp, err := c.call(ctx, stage, c.request(prompt))
	if err != nil {
		return Result{Stage: stage, Err: err}
	}
	return Result{Stage: stage, Content: resp.Text()}
}

// Review asks for a structured review_report and renders it as markdown.
func (c *Client) Review(ctx context.Context, stage Stage, prompt string) Result {
	req := c.request(prompt)
	req.Schema = reviewSchema

	resp, err := c.call(ctx, stage, req)
	if err != nil {
		return Result{Stage: stage, Err: err}
	}

	var report Report
	if err := json.Unmarshal(resp.JSONContent(), &report); err != nil {
		return Result{Stage: stage, Err: fmt.Errorf("decode review report: %w", err)}
	}
	return Result{Stage: stage, Content: report.Markdown(), Report: &report}
}

func (c *Client) request(prompt string) llm.Request {
	req := llm.UserPrompt(prompt)
	req.MaxTokens = c.opts.MaxTokens
	return req
}

func (c *Client) call(ctx context.Context, stage Stage, req llm.Request) (*llm.Response, error) {
	ctx = llm.WithPurpose(ctx, string(stage))
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		c.log.Warn("stage failed", "stage", stage, "error", err)
		return nil, err
	}
	c.log.Debug("stage generated", "stage", stage, "chars", len(resp.Content), "elapsed", time.Since(start))
	return resp, nil
}
