package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/tailored-agentic-units/retcon/core/protocol"
)

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		name string
		role protocol.Role
		want bool
	}{
		{"system", protocol.RoleSystem, true},
		{"user", protocol.RoleUser, true},
		{"assistant", protocol.RoleAssistant, true},
		{"tool", protocol.Role("tool"), false},
		{"empty", protocol.Role(""), false},
		{"uppercase", protocol.Role("USER"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.IsValid(); got != tt.want {
				t.Errorf("Role(%q).IsValid() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestNewMessage(t *testing.T) {
	msg := protocol.NewMessage(protocol.RoleUser, "Hello")

	if msg.Role != protocol.RoleUser {
		t.Errorf("got role %q, want %q", msg.Role, protocol.RoleUser)
	}
	if msg.Content != "Hello" {
		t.Errorf("got content %q, want %q", msg.Content, "Hello")
	}
	if msg.Name != "" {
		t.Errorf("got name %q, want empty", msg.Name)
	}
}

func TestInitMessages(t *testing.T) {
	msgs := protocol.InitMessages(protocol.RoleSystem, "be concise")

	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Role != protocol.RoleSystem {
		t.Errorf("got role %q, want %q", msgs[0].Role, protocol.RoleSystem)
	}
}

func TestMessage_MarshalJSON_OmitsEmptyName(t *testing.T) {
	data, err := json.Marshal(protocol.NewMessage(protocol.RoleAssistant, "done"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"role":"assistant","content":"done"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestMessage_MarshalJSON_WithName(t *testing.T) {
	msg := protocol.Message{Role: protocol.RoleUser, Content: "hi", Name: "reviewer"}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"role":"user","content":"hi","name":"reviewer"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
