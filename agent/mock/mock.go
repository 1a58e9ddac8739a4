// Package mock provides a scriptable Agent for tests.
package mock

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/tailored-agentic-units/retcon/core/protocol"
	"github.com/tailored-agentic-units/retcon/core/response"
)

// ErrExhausted is returned once every scripted response has been consumed.
var ErrExhausted = errors.New("no more responses configured")

// ChatFunc computes a response for the n-th call (zero-based).
type ChatFunc func(ctx context.Context, n int, messages []protocol.Message) (*response.ChatResponse, error)

// Option configures a MockAgent.
type Option func(*MockAgent)

// WithID sets the agent ID.
func WithID(id string) Option {
	return func(m *MockAgent) { m.id = id }
}

// WithModel sets the reported model name.
func WithModel(model string) Option {
	return func(m *MockAgent) { m.model = model }
}

// WithReplies scripts one plain-text reply per call, in order.
func WithReplies(replies ...string) Option {
	return func(m *MockAgent) {
		m.chat = func(ctx context.Context, n int, messages []protocol.Message) (*response.ChatResponse, error) {
			if n >= len(replies) {
				return nil, ErrExhausted
			}
			return response.NewChatResponse(m.model, replies[n]), nil
		}
	}
}

// WithChatFunc replaces the scripted behavior entirely.
func WithChatFunc(fn ChatFunc) Option {
	return func(m *MockAgent) { m.chat = fn }
}

// MockAgent records every conversation it receives.
type MockAgent struct {
	mu    sync.Mutex
	id    string
	model string
	chat  ChatFunc
	calls [][]protocol.Message
}

// NewMockAgent creates a MockAgent that answers "mock response" unless
// configured otherwise.
func NewMockAgent(opts ...Option) *MockAgent {
	m := &MockAgent{
		id:    "mock-agent",
		model: "mock-model",
	}
	m.chat = func(ctx context.Context, n int, messages []protocol.Message) (*response.ChatResponse, error) {
		return response.NewChatResponse(m.model, "mock response"), nil
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockAgent) ID() string {
	return m.id
}

func (m *MockAgent) Model() string {
	return m.model
}

func (m *MockAgent) Chat(ctx context.Context, messages []protocol.Message) (*response.ChatResponse, error) {
	m.mu.Lock()
	n := len(m.calls)
	m.calls = append(m.calls, slices.Clone(messages))
	m.mu.Unlock()

	return m.chat(ctx, n, messages)
}

// Calls returns the conversations received so far, oldest first.
func (m *MockAgent) Calls() [][]protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}
