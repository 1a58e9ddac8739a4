package observability

import "context"

// NoOpObserver discards all events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}

// MultiObserver fans each event out to its observers in order.
type MultiObserver []Observer

// NewMultiObserver drops nil entries so callers can pass optional observers.
func NewMultiObserver(observers ...Observer) MultiObserver {
	var m MultiObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, o := range m {
		o.OnEvent(ctx, event)
	}
}
