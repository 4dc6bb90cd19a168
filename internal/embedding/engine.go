package embedding

import (
	"context"
	"sync"
)

// Engine produces dense vector representations of text.
type Engine interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}

// Cache memoizes embeddings by exact text. Classification bursts embed the
// same dish names repeatedly; Clear releases the scratch memory once a
// request has been served.
type Cache struct {
	engine  Engine
	mu      sync.RWMutex
	entries map[string][]float32
}

// NewCache wraps engine with an in-memory memo table.
func NewCache(engine Engine) *Cache {
	return &Cache{engine: engine, entries: make(map[string][]float32)}
}

func (c *Cache) Embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.RLock()
	vec, ok := c.entries[text]
	c.mu.RUnlock()
	if ok {
		return vec, nil
	}

	vec, err := c.engine.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[text] = vec
	c.mu.Unlock()
	return vec, nil
}

func (c *Cache) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	c.mu.RLock()
	for i, text := range texts {
		if vec, ok := c.entries[text]; ok {
			results[i] = vec
		} else {
			missing = append(missing, text)
			missingIdx = append(missingIdx, i)
		}
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return results, nil
	}

	vecs, err := c.engine.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for i, vec := range vecs {
		results[missingIdx[i]] = vec
		c.entries[missing[i]] = vec
	}
	c.mu.Unlock()
	return results, nil
}

// Clear drops all memoized vectors.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string][]float32)
	c.mu.Unlock()
}

// Size reports the number of memoized vectors.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Dimensions() int { return c.engine.Dimensions() }

func (c *Cache) Name() string { return c.engine.Name() }
