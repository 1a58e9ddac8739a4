package session

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/retcon/agent"
	"github.com/tailored-agentic-units/retcon/core/protocol"
	"github.com/tailored-agentic-units/retcon/observability"
	"github.com/tailored-agentic-units/retcon/tokens"
)

// Minimum conversation shapes trimming may not go below: the system message
// plus the pending prompt before the call, plus the reply after it.
const (
	floorPending  = 2
	floorAnswered = 3
)

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithObserver routes window events to o.
func WithObserver(o observability.Observer) WindowOption {
	return func(w *Window) { w.observer = o }
}

// Window feeds a conversation to the completion service one prompt at a time,
// evicting the oldest exchanges to stay within a token budget.
type Window struct {
	session   Session
	agent     agent.Agent
	counter   tokens.Counter
	maxTokens int
	observer  observability.Observer
}

// NewWindow creates a Window over s. maxTokens bounds the whole conversation
// as measured by counter.
func NewWindow(s Session, a agent.Agent, counter tokens.Counter, maxTokens int, opts ...WindowOption) *Window {
	w := &Window{
		session:   s,
		agent:     a,
		counter:   counter,
		maxTokens: maxTokens,
		observer:  observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Session returns the conversation the window manages.
func (w *Window) Session() Session {
	return w.session
}

// Advance appends prompt as a user message, trims the conversation to the
// budget, requests a completion, and appends the sanitized reply as an
// assistant message. The sanitized reply is returned.
//
// Eviction removes the oldest message after the system message. The system
// message and the current exchange are never evicted; when they alone exceed
// the budget the request proceeds over budget.
//
// If the completion fails or panics the unanswered prompt is removed again.
func (w *Window) Advance(ctx context.Context, prompt string) (string, error) {
	w.session.AddMessage(protocol.NewMessage(protocol.RoleUser, prompt))
	answered := false
	defer func() {
		if !answered {
			w.session.DropLast()
		}
	}()

	w.trim(ctx, floorPending)

	resp, err := w.agent.Chat(ctx, w.session.Messages())
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", agent.ErrEmptyResponse
	}

	reply := Sanitize(resp.Content())
	answered = true
	w.session.AddMessage(protocol.NewMessage(protocol.RoleAssistant, reply))
	w.trim(ctx, floorAnswered)

	observability.Emit(ctx, w.observer, EventCompletion, observability.LevelVerbose, "session.Window.Advance", map[string]any{
		"model":        resp.Model,
		"messages":     w.session.Len(),
		"reply_length": len(reply),
	})

	return reply, nil
}

// trim evicts the oldest non-system messages until the conversation fits or
// only floor messages remain.
func (w *Window) trim(ctx context.Context, floor int) {
	evicted := 0
	total := w.counter.CountMessages(w.session.Messages())
	for total > w.maxTokens && w.session.Len() > floor {
		if !w.session.EvictOldest() {
			break
		}
		evicted++
		total = w.counter.CountMessages(w.session.Messages())
	}

	if evicted > 0 {
		observability.Emit(ctx, w.observer, EventEvict, observability.LevelVerbose, "session.Window.trim", map[string]any{
			"evicted": evicted,
			"tokens":  total,
		})
	}

	if total > w.maxTokens {
		observability.Emit(ctx, w.observer, EventBudgetExceeded, observability.LevelWarning, "session.Window.trim", map[string]any{
			"tokens":     total,
			"max_tokens": w.maxTokens,
			"messages":   w.session.Len(),
		})
	}
}
