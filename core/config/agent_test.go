package config_test

import (
	"testing"

	"github.com/tailored-agentic-units/retcon/core/config"
)

func TestDefaultAgentConfig(t *testing.T) {
	cfg := config.DefaultAgentConfig()

	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("got Model %q, want gpt-4o-mini", cfg.Model)
	}
	if cfg.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("got APIKeyEnv %q, want OPENAI_API_KEY", cfg.APIKeyEnv)
	}
	if cfg.BaseURL != "" {
		t.Errorf("got BaseURL %q, want empty", cfg.BaseURL)
	}
}

func TestAgentConfig_Merge(t *testing.T) {
	cfg := config.DefaultAgentConfig()

	cfg.Merge(&config.AgentConfig{
		Model:   "gpt-4o",
		BaseURL: "http://localhost:11434/v1",
	})

	if cfg.Model != "gpt-4o" {
		t.Errorf("got Model %q, want gpt-4o", cfg.Model)
	}
	if cfg.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("got BaseURL %q", cfg.BaseURL)
	}
	if cfg.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("got APIKeyEnv %q, want default preserved", cfg.APIKeyEnv)
	}
}

func TestAgentConfig_Merge_ZeroValuesPreserveDefaults(t *testing.T) {
	cfg := config.DefaultAgentConfig()
	cfg.Merge(&config.AgentConfig{})

	if cfg != config.DefaultAgentConfig() {
		t.Errorf("got %+v, want defaults preserved", cfg)
	}
}
