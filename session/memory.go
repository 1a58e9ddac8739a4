package session

import (
	"slices"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/retcon/core/protocol"
)

type memorySession struct {
	id       string
	messages []protocol.Message
}

// NewMemorySession creates a Session backed by an in-memory slice, seeded with
// the system message. The session is assigned a unique UUIDv7 identifier.
func NewMemorySession(systemPrompt string) Session {
	return &memorySession{
		id:       uuid.Must(uuid.NewV7()).String(),
		messages: protocol.InitMessages(protocol.RoleSystem, systemPrompt),
	}
}

func (s *memorySession) ID() string {
	return s.id
}

func (s *memorySession) AddMessage(msg protocol.Message) {
	s.messages = append(s.messages, msg)
}

func (s *memorySession) Messages() []protocol.Message {
	return slices.Clone(s.messages)
}

func (s *memorySession) Len() int {
	return len(s.messages)
}

func (s *memorySession) EvictOldest() bool {
	if len(s.messages) <= 1 {
		return false
	}
	s.messages = slices.Delete(s.messages, 1, 2)
	return true
}

func (s *memorySession) DropLast() bool {
	if len(s.messages) <= 1 {
		return false
	}
	s.messages = s.messages[:len(s.messages)-1]
	return true
}
