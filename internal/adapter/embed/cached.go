package embed

import (
	"context"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"

	"github.com/edustack/concierge/internal/port/embedding"
)

// Cached wraps an embedder with an in-process ristretto cache. Concurrent
// requests for the same text are collapsed into a single backend call.
type Cached struct {
	inner embedding.Embedder
	cache *ristretto.Cache[string, []float32]
	group singleflight.Group
}

// NewCached creates a caching embedder. maxCostBytes bounds the total size
// of cached vectors.
func NewCached(inner embedding.Embedder, maxCostBytes int64) (*Cached, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []float32]{
		NumCounters: maxCostBytes / 100 * 10, // ~10x expected items
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: c}, nil
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.cache.Get(text); ok {
		return vec, nil
	}

	// The flight serves every collapsed caller, so it must not die with
	// whichever caller's context happened to start it.
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(text, func() (any, error) {
		if vec, ok := c.cache.Get(text); ok {
			return vec, nil
		}
		vec, err := c.inner.Embed(flightCtx, text)
		if err != nil {
			return nil, err
		}
		c.cache.Set(text, vec, int64(len(vec)*4))
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

func (c *Cached) Dimension() int { return c.inner.Dimension() }

// Wait blocks until pending cache writes are visible. Used in tests.
func (c *Cached) Wait() { c.cache.Wait() }

// Close releases cache resources.
func (c *Cached) Close() { c.cache.Close() }
