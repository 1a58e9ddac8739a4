package summarize

import "github.com/tailored-agentic-units/retcon/observability"

// EventTruncated reports a diff cut short by the token budget.
const EventTruncated observability.EventType = "summarize.truncated"
