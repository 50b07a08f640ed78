package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/llm"
	"github.com/spf13/viper"
)

var defaultModels = map[string]string{
	llm.ProviderOpenAI:     "gpt-4o-mini",
	llm.ProviderAnthropic:  "claude-3-5-haiku-latest",
	llm.ProviderClaudeCode: "sonnet",
}

// LoadLLMConfig reads the llm.* keys. API keys fall back to OPENAI_API_KEY
// and ANTHROPIC_API_KEY.
func LoadLLMConfig(v *viper.Viper) (llm.Config, error) {
	provider := strings.ToLower(v.GetString("llm.provider"))
	if provider == "" {
		provider = llm.ProviderOpenAI
	}

	cfg := llm.Config{
		Provider:       provider,
		Model:          v.GetString("llm.model"),
		BaseURL:        v.GetString("llm.base_url"),
		Temperature:    v.GetFloat64("llm.temperature"),
		MaxTokens:      v.GetInt("llm.max_tokens"),
		MaxRetries:     v.GetInt("llm.max_retries"),
		RetryDelay:     v.GetDuration("llm.retry_delay"),
		CacheTTL:       v.GetDuration("llm.cache_ttl"),
		RateLimit:      v.GetInt("llm.rate_limit"),
		Timeout:        v.GetDuration("llm.timeout"),
		ClaudeCodePath: v.GetString("llm.claude_code_path"),
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 60
	}

	model, ok := defaultModels[provider]
	if !ok {
		return llm.Config{}, fmt.Errorf("%w: unknown llm provider %q", common.ErrInvalidConfig, provider)
	}
	if cfg.Model == "" {
		cfg.Model = model
	}

	switch provider {
	case llm.ProviderOpenAI:
		cfg.APIKey = firstNonEmpty(v.GetString("llm.openai_api_key"), os.Getenv("OPENAI_API_KEY"))
	case llm.ProviderAnthropic:
		cfg.APIKey = firstNonEmpty(v.GetString("llm.anthropic_api_key"), os.Getenv("ANTHROPIC_API_KEY"))
	case llm.ProviderClaudeCode:
		if cfg.ClaudeCodePath == "" {
			cfg.ClaudeCodePath = "claude"
		}
		return cfg, nil
	}

	if cfg.APIKey == "" {
		return llm.Config{}, fmt.Errorf("%w: %s API key not found", common.ErrMissingConfig, provider)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
