package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edustack/concierge/internal/adapter/embed"
	"github.com/edustack/concierge/internal/adapter/inmem"
	"github.com/edustack/concierge/internal/adapter/otel"
	"github.com/edustack/concierge/internal/domain/agent"
	"github.com/edustack/concierge/internal/domain/memory"
	"github.com/edustack/concierge/internal/port/llm"
	"github.com/edustack/concierge/internal/service"
)

const testDim = 16

var errLLMDown = errors.New("completion backend down")

// fakeLLM answers by matching a substring of the last user message, or
// returns a scripted routing answer for router prompts.
type fakeLLM struct {
	mu sync.Mutex

	routeAnswer string // returned for router prompts
	routeErr    error
	answer      string // returned for everything else
	answerErr   error

	routeCalls int
	chatCalls  int
	lastMsgs   []llm.Message
}

func (f *fakeLLM) Generate(ctx context.Context, prompt, system string, temperature float32, maxTokens int) (string, error) {
	msgs := []llm.Message{}
	if system != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: prompt})
	return f.GenerateWithHistory(ctx, msgs, temperature, maxTokens)
}

func (f *fakeLLM) GenerateWithHistory(_ context.Context, messages []llm.Message, _ float32, _ int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastMsgs = messages

	last := messages[len(messages)-1].Content
	if strings.Contains(last, "Reply with just the agent name") {
		f.routeCalls++
		if f.routeErr != nil {
			return "", f.routeErr
		}
		return f.routeAnswer, nil
	}

	f.chatCalls++
	if f.answerErr != nil {
		return "", f.answerErr
	}
	return f.answer, nil
}

// failingStore rejects every write but serves searches from nothing.
type failingStore struct{}

func (failingStore) EnsureCollection(context.Context) error { return nil }
func (failingStore) Store(context.Context, memory.Record) error {
	return errors.New("store unavailable")
}
func (failingStore) Search(context.Context, []float32, int, string) ([]memory.SearchResult, error) {
	return nil, nil
}

// capturingQueue records published events.
type capturingQueue struct {
	mu       sync.Mutex
	subjects []string
	payloads []any
}

func (q *capturingQueue) Publish(_ context.Context, subject string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.subjects = append(q.subjects, subject)
	q.payloads = append(q.payloads, payload)
	return nil
}

func (q *capturingQueue) IsConnected() bool { return true }
func (q *capturingQueue) Drain() error      { return nil }
func (q *capturingQueue) Close()            {}

func (q *capturingQueue) published(subject string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, s := range q.subjects {
		if s == subject {
			n++
		}
	}
	return n
}

func testMetrics(t *testing.T) *otel.Metrics {
	t.Helper()
	m, err := otel.NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m
}

func testMemoryService(t *testing.T) (*service.MemoryService, *inmem.Store) {
	t.Helper()
	store := inmem.NewStore(testDim)
	mem := service.NewMemoryService(embed.NewDev(testDim), store, testMetrics(t), 5, 2, time.Millisecond)
	return mem, store
}

func testAgent(t *testing.T, role agent.Role, client llm.Client, mem *service.MemoryService) *service.Agent {
	t.Helper()
	identity := agent.DefaultIdentities()[role]
	return service.NewAgent(identity, client, mem, nil, 0.7, 256, 10)
}
