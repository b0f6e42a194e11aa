// Package embed provides text embedding backends and a caching layer.
package embed

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/edustack/concierge/internal/port/embedding"
)

// OpenAI embeds text through an OpenAI compatible embeddings endpoint.
type OpenAI struct {
	api   *openai.Client
	model string
	dim   int
}

// NewOpenAI creates an embedder for the given model. dim is the expected
// vector size; responses with a different length are rejected.
func NewOpenAI(baseURL, apiKey, model string, dim int) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
		dim:   dim,
	}
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, embedding.ErrEmptyInput
	}

	resp, err := o.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(o.model),
		Input:      []string{text},
		Dimensions: o.dim,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("create embeddings: empty response")
	}

	vec := resp.Data[0].Embedding
	if len(vec) != o.dim {
		return nil, fmt.Errorf("create embeddings: got %d dimensions, want %d", len(vec), o.dim)
	}
	return vec, nil
}

func (o *OpenAI) Dimension() int { return o.dim }
