// Package session holds the conversation carried across commits and the
// window that keeps it inside a token budget.
package session

import (
	"github.com/tailored-agentic-units/retcon/core/protocol"
)

// Session holds an ordered sequence of conversation messages. The first
// message is the system message; it is never evicted.
//
// A Session has a single owner and is not safe for concurrent use.
type Session interface {
	// ID returns the unique session identifier.
	ID() string
	// AddMessage appends a message to the conversation history.
	AddMessage(msg protocol.Message)
	// Messages returns a copy of the conversation history.
	Messages() []protocol.Message
	// Len returns the number of messages, including the system message.
	Len() int
	// EvictOldest removes the oldest message after the system message.
	// Returns false when nothing but the system message remains.
	EvictOldest() bool
	// DropLast removes the most recent message. Returns false when only the
	// system message remains.
	DropLast() bool
}
