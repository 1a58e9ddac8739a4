package observability

import (
	"context"
	"sync"
)

// Tally counts events by type. The CLI reads it after a run to report how
// often diffs were truncated or the conversation was trimmed.
type Tally struct {
	mu     sync.Mutex
	counts map[EventType]int
}

func NewTally() *Tally {
	return &Tally{counts: make(map[EventType]int)}
}

func (t *Tally) OnEvent(_ context.Context, event Event) {
	t.mu.Lock()
	t.counts[event.Type]++
	t.mu.Unlock()
}

// Count returns how many events of typ were observed.
func (t *Tally) Count(typ EventType) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[typ]
}
