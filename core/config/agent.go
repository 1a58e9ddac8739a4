// Package config holds configuration shared by the completion subsystems.
package config

const (
	DefaultModel     = "gpt-4o-mini"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
)

// AgentConfig describes how to reach the completion service.
type AgentConfig struct {
	Model     string `json:"model,omitempty" yaml:"model,omitempty" toml:"model,omitempty"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty" toml:"api_key_env,omitempty"` // Environment variable holding the API credential.
}

// DefaultAgentConfig returns an AgentConfig targeting a small, fast chat model.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Model:     DefaultModel,
		APIKeyEnv: DefaultAPIKeyEnv,
	}
}

// Merge applies non-zero values from source into c.
func (c *AgentConfig) Merge(source *AgentConfig) {
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.APIKeyEnv != "" {
		c.APIKeyEnv = source.APIKeyEnv
	}
}
