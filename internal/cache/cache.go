// Package cache provides the embedding cache: rebuilding the semantic
// index over a mostly unchanged notebook should not re-call the provider
// for content it has already embedded.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ebarkova/lede/internal/index"
)

// Key generates a cache key from the embedding model and text content.
func Key(model, text string) string {
	hash := sha256.Sum256([]byte(model + "\x00" + text))
	return "lede:emb:v1:" + hex.EncodeToString(hash[:])
}

// EmbeddingCache memoizes embedding vectors by content hash.
type EmbeddingCache struct {
	cache *gocache.Cache
	model string
}

// NewEmbeddingCache creates a cache with the given TTL. Entries for the
// same text under a different model never collide.
func NewEmbeddingCache(model string, ttl time.Duration) *EmbeddingCache {
	return &EmbeddingCache{
		cache: gocache.New(ttl, 2*ttl),
		model: model,
	}
}

// Get retrieves a cached embedding
func (c *EmbeddingCache) Get(text string) ([]float32, bool) {
	if val, found := c.cache.Get(Key(c.model, text)); found {
		return val.([]float32), true
	}
	return nil, false
}

// Set stores an embedding with the default TTL
func (c *EmbeddingCache) Set(text string, vec []float32) {
	c.cache.Set(Key(c.model, text), vec, gocache.DefaultExpiration)
}

// Clear removes all cached embeddings
func (c *EmbeddingCache) Clear() {
	c.cache.Flush()
}

// Wrap returns an EmbedFn that consults the cache before calling through.
// Failures are never cached; only successful non-empty vectors are stored.
func (c *EmbeddingCache) Wrap(embed index.EmbedFn) index.EmbedFn {
	return func(ctx context.Context, text string) ([]float32, error) {
		if vec, ok := c.Get(text); ok {
			return vec, nil
		}
		vec, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}
		if len(vec) > 0 {
			c.Set(text, vec)
		}
		return vec, nil
	}
}
