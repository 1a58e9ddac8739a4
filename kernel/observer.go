package kernel

import "github.com/tailored-agentic-units/retcon/observability"

// Kernel event types emitted during a rewrite run.
const (
	EventRunStart        observability.EventType = "kernel.run.start"
	EventRunComplete     observability.EventType = "kernel.run.complete"
	EventCommitStart     observability.EventType = "kernel.commit.start"
	EventCommitRewritten observability.EventType = "kernel.commit.rewritten"
	EventCommitFailed    observability.EventType = "kernel.commit.failed"
	EventWarning         observability.EventType = "kernel.warning"
)
