package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResponseCache(t *testing.T) {
	t.Run("basic operations", func(t *testing.T) {
		cache := newResponseCache(5 * time.Minute)
		defer cache.Close()

		_, found := cache.get("missing")
		assert.False(t, found)

		resp := Response{Text: "Trim dining out by $20/week.", Model: "test"}
		cache.set("key1", resp)

		got, found := cache.get("key1")
		assert.True(t, found)
		assert.Equal(t, resp, got)
		assert.Equal(t, 1, cache.size())
	})

	t.Run("expiration", func(t *testing.T) {
		cache := newResponseCache(20 * time.Millisecond)
		defer cache.Close()

		cache.set("key", Response{Text: "soon stale"})
		time.Sleep(40 * time.Millisecond)

		_, found := cache.get("key")
		assert.False(t, found)

		cache.evictExpired(time.Now())
		assert.Equal(t, 0, cache.size())
	})

	t.Run("default ttl", func(t *testing.T) {
		cache := newResponseCache(0)
		defer cache.Close()
		assert.Equal(t, 15*time.Minute, cache.ttl)
	})
}

func TestCacheKey(t *testing.T) {
	base := Request{System: "sys", Prompt: "prompt", MaxTokens: 100}

	assert.Equal(t, cacheKey(base), cacheKey(base))
	assert.Len(t, cacheKey(base), 64)

	variants := []Request{
		{System: "other", Prompt: "prompt", MaxTokens: 100},
		{System: "sys", Prompt: "other", MaxTokens: 100},
		{System: "sys", Prompt: "prompt", MaxTokens: 200},
		{System: "sysprompt", Prompt: "", MaxTokens: 100},
	}
	for _, v := range variants {
		assert.NotEqual(t, cacheKey(base), cacheKey(v), "%+v", v)
	}
}
