// Package protocol defines the role-tagged message format exchanged with
// completion services.
package protocol

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether r is one of the roles a conversation may carry.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message represents a single message in a conversation.
//
// Name is optional. When present it is sent to the completion service as the
// participant name and is charged differently by the token accounting scheme.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// NewMessage creates a Message with the given role and content.
//
// Example:
//
//	msg := protocol.NewMessage(protocol.RoleUser, "Hello, world!")
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// InitMessages creates a single-element message slice from a role and content string.
// Convenience wrapper for the common pattern of seeding a conversation with a
// system prompt.
func InitMessages(role Role, content string) []Message {
	return []Message{NewMessage(role, content)}
}
