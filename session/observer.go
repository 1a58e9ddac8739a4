package session

import "github.com/tailored-agentic-units/retcon/observability"

// Window event types.
const (
	EventEvict          observability.EventType = "session.evict"
	EventBudgetExceeded observability.EventType = "session.budget.exceeded"
	EventCompletion     observability.EventType = "session.completion"
)
