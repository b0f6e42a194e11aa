// Package embedding defines the text embedding contract.
package embedding

import (
	"context"
	"errors"
)

// ErrEmptyInput is returned when the text to embed is empty.
var ErrEmptyInput = errors.New("embedding: empty input text")

// Embedder turns text into a fixed-size vector. Dimension must match the
// vector store's configured size; the collection init checks this at startup.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
