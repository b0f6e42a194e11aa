package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/edustack/concierge/internal/port/embedding"
)

// Dev is a deterministic offline embedder for local development and tests.
// Vectors are derived from an FNV hash of the text and normalized to unit
// length, so identical text always maps to the identical vector.
type Dev struct {
	dim int
}

func NewDev(dim int) *Dev {
	return &Dev{dim: dim}
}

func (d *Dev) Embed(_ context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, embedding.ErrEmptyInput
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, d.dim)
	var norm float64
	for i := range vec {
		// xorshift keeps the sequence cheap and reproducible.
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		v := float32(int64(seed%2000)-1000) / 1000
		vec[i] = v
		norm += float64(v) * float64(v)
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}

func (d *Dev) Dimension() int { return d.dim }
