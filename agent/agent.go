// Package agent provides the completion collaborator: an ordered list of
// role-tagged messages goes in, one assistant completion comes out.
package agent

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tailored-agentic-units/retcon/core/config"
	"github.com/tailored-agentic-units/retcon/core/protocol"
	"github.com/tailored-agentic-units/retcon/core/response"
)

// Agent requests chat completions. Implementations sample deterministically
// (temperature 0) and ask for exactly one choice.
type Agent interface {
	// ID returns the agent instance identifier.
	ID() string
	// Model returns the model name requests are sent to.
	Model() string
	// Chat sends messages in order and returns the completion.
	Chat(ctx context.Context, messages []protocol.Message) (*response.ChatResponse, error)
}

// New creates an OpenAI-compatible Agent from configuration. The credential is
// read from the environment variable named by cfg.APIKeyEnv; a missing
// credential is reported as ErrAuthentication.
func New(cfg *config.AgentConfig) (Agent, error) {
	envName := cfg.APIKeyEnv
	if envName == "" {
		envName = config.DefaultAPIKeyEnv
	}

	apiKey := strings.TrimSpace(os.Getenv(envName))
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrAuthentication, envName)
	}

	return NewOpenAI(cfg, apiKey), nil
}
