package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Request is a single-turn completion request.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int // Zero uses the client's configured limit
}

// Response is the generated text.
type Response struct {
	Text  string
	Model string
}

// Config holds configuration for LLM clients.
type Config struct {
	Provider       string
	APIKey         string
	Model          string
	BaseURL        string // Overrides the provider endpoint; used by tests and proxies
	ClaudeCodePath string
	MaxRetries     int
	RetryDelay     time.Duration
	CacheTTL       time.Duration
	RateLimit      int // Requests per minute
	Temperature    float64
	MaxTokens      int
	Timeout        time.Duration
}

func (c Config) temperature() float64 {
	if c.Temperature == 0 {
		return 0.3
	}
	return c.Temperature
}

func (c Config) maxTokens() int {
	if c.MaxTokens == 0 {
		return 600
	}
	return c.MaxTokens
}

func (c Config) timeout() time.Duration {
	if c.Timeout == 0 {
		return 30 * time.Second
	}
	return c.Timeout
}
