// Package groq provides a chat completion client for Groq's OpenAI
// compatible API.
package groq

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/edustack/concierge/internal/port/llm"
	"github.com/edustack/concierge/internal/resilience"
)

// Client implements llm.Client against an OpenAI compatible chat
// completions endpoint.
type Client struct {
	api     *openai.Client
	model   string
	breaker *resilience.Breaker
}

// NewClient creates a completion client. baseURL selects the backend, e.g.
// https://api.groq.com/openai/v1.
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// SetBreaker attaches a circuit breaker to all outgoing completion calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Generate sends an optional system message followed by the user prompt.
func (c *Client) Generate(ctx context.Context, prompt, system string, temperature float32, maxTokens int) (string, error) {
	var msgs []llm.Message
	if system != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: prompt})
	return c.GenerateWithHistory(ctx, msgs, temperature, maxTokens)
}

// GenerateWithHistory sends the messages in order and returns the first
// choice's content.
func (c *Client) GenerateWithHistory(ctx context.Context, messages []llm.Message, temperature float32, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	var resp openai.ChatCompletionResponse
	call := func() error {
		var err error
		resp, err = c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return fmt.Errorf("chat completion: %w", err)
		}
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			return "", err
		}
	} else if err := call(); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
