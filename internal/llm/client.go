// Package llm wraps the Ollama transport used for plan synthesis. It
// retries connection failures, surfaces typed errors so callers can tell a
// down server from unusable output, and exposes a health probe.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/taskflow-ai/taskflow/internal/logger"
)

// Options configures the Ollama client.
type Options struct {
	BaseURL     string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
	Timeout     time.Duration
	Retry       RetryPolicy
}

// DefaultOptions matches a local Ollama install with a small model.
func DefaultOptions() Options {
	return Options{
		BaseURL:     "http://localhost:11434",
		Model:       "llama3.2:3b",
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   2000,
		Timeout:     120 * time.Second,
		Retry:       DefaultRetryPolicy(),
	}
}

// Result is one completed generation.
type Result struct {
	Content    string
	TokensUsed int
	Duration   time.Duration
}

// Client talks to an Ollama server through langchaingo.
type Client struct {
	model      llms.Model
	opts       Options
	httpClient *http.Client
}

func NewClient(opts Options) (*Client, error) {
	def := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = def.BaseURL
	}
	if opts.Model == "" {
		opts.Model = def.Model
	}
	if opts.Temperature == 0 {
		opts.Temperature = def.Temperature
	}
	if opts.TopP == 0 {
		opts.TopP = def.TopP
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = def.MaxTokens
	}
	if opts.Timeout == 0 {
		opts.Timeout = def.Timeout
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = def.Retry
	}

	model, err := ollama.New(
		ollama.WithServerURL(opts.BaseURL),
		ollama.WithModel(opts.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &Client{
		model:      model,
		opts:       opts,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.opts.Model }

// Generate sends the prompts to the model and returns its raw text.
// Connection failures are retried per the client's retry policy; whatever
// the model says is returned verbatim for the caller to parse.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (*Result, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	var result *Result
	err := c.opts.Retry.Do(ctx, func(ctx context.Context) error {
		genCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()

		started := time.Now()
		resp, err := c.model.GenerateContent(genCtx, messages,
			llms.WithTemperature(c.opts.Temperature),
			llms.WithTopP(c.opts.TopP),
			llms.WithMaxTokens(c.opts.MaxTokens),
		)
		if err != nil {
			logger.Warn("ollama generation attempt failed: %v", err)
			return c.classify(err)
		}
		if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
			return ErrEmptyResponse
		}

		choice := resp.Choices[0]
		result = &Result{
			Content:  choice.Content,
			Duration: time.Since(started),
		}
		if n, ok := choice.GenerationInfo["TotalTokens"].(int); ok {
			result.TokensUsed = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// classify wraps transport-level failures in ConnectionError so the retry
// policy and HTTP error mapping can recognize them.
func (c *Client) classify(err error) error {
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) {
		return &ConnectionError{URL: c.opts.BaseURL, Err: err}
	}
	return err
}
