// Package llm provides text generation clients used for budget advice.
// It supports OpenAI, Anthropic and the Claude Code CLI, with retry logic,
// rate limiting and response caching layered on top.
package llm
