package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/service"
)

// Supported providers.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderClaudeCode = "claudecode"
)

// ManagedClient wraps a provider client with rate limiting, caching and
// retries. It is safe for concurrent use.
type ManagedClient struct {
	client      Client
	cache       *responseCache
	rateLimiter *rateLimiter
	logger      *slog.Logger
	retryOpts   service.RetryOptions
}

// NewClient creates a managed client for the configured provider.
func NewClient(cfg Config, logger *slog.Logger) (*ManagedClient, error) {
	client, err := newProviderClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return Wrap(client, cfg, logger), nil
}

// Wrap adds rate limiting, caching and retries to client.
func Wrap(client Client, cfg Config, logger *slog.Logger) *ManagedClient {
	if logger == nil {
		logger = slog.Default()
	}

	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = time.Second
	}

	return &ManagedClient{
		client:      client,
		cache:       newResponseCache(cfg.CacheTTL),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger.With("component", "llm", "provider", cfg.Provider),
		retryOpts: service.RetryOptions{
			MaxAttempts:  cfg.MaxRetries,
			InitialDelay: retryDelay,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}
}

func newProviderClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	case ProviderClaudeCode:
		return newClaudeCodeClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
}

// Complete returns a cached response when one is fresh, otherwise waits for
// the rate limiter and calls the provider with retries.
func (m *ManagedClient) Complete(ctx context.Context, req Request) (Response, error) {
	key := cacheKey(req)
	if cached, ok := m.cache.get(key); ok {
		m.logger.Debug("LLM cache hit")
		return cached, nil
	}

	var resp Response
	err := common.WithRetry(ctx, func() error {
		if err := m.rateLimiter.wait(ctx); err != nil {
			return common.Permanent(err)
		}
		var callErr error
		resp, callErr = m.client.Complete(ctx, req)
		return callErr
	}, m.retryOpts)
	if err != nil {
		m.logger.Warn("LLM request failed", "error", err)
		return Response{}, err
	}

	m.cache.set(key, resp)
	return resp, nil
}

// Close stops background goroutines.
func (m *ManagedClient) Close() error {
	m.cache.Close()
	m.rateLimiter.Close()
	return nil
}
