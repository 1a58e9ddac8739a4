package kernel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tailored-agentic-units/retcon/core/config"
	"github.com/tailored-agentic-units/retcon/memory"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	defaultRepo                  = "."
	defaultMaxConversationTokens = 50000
	defaultMaxDiffTokens         = 4000
)

// Environment variables applied by LoadFromEnv.
const (
	EnvModel                 = "RETCON_MODEL"
	EnvMaxConversationTokens = "RETCON_MAX_CONVERSATION_TOKENS"
	EnvMaxDiffTokens         = "RETCON_MAX_DIFF_TOKENS"
	EnvTokenizer             = "RETCON_TOKENIZER"
)

// Config holds initialization parameters for all kernel subsystems.
// Each subsystem section delegates to that subsystem's config-driven constructor.
type Config struct {
	Repo                  string             `json:"repo,omitempty" yaml:"repo,omitempty" toml:"repo,omitempty"`
	Agent                 config.AgentConfig `json:"agent" yaml:"agent" toml:"agent"`
	Tokenizer             string             `json:"tokenizer,omitempty" yaml:"tokenizer,omitempty" toml:"tokenizer,omitempty"`
	MaxConversationTokens int                `json:"max_conversation_tokens,omitempty" yaml:"max_conversation_tokens,omitempty" toml:"max_conversation_tokens,omitempty"`
	MaxDiffTokens         int                `json:"max_diff_tokens,omitempty" yaml:"max_diff_tokens,omitempty" toml:"max_diff_tokens,omitempty"`
	SystemPrompt          string             `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty" toml:"system_prompt,omitempty"`
	Memory                memory.Config      `json:"memory" yaml:"memory" toml:"memory"`
	DryRun                bool               `json:"dry_run,omitempty" yaml:"dry_run,omitempty" toml:"dry_run,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Repo:                  defaultRepo,
		Agent:                 config.DefaultAgentConfig(),
		MaxConversationTokens: defaultMaxConversationTokens,
		MaxDiffTokens:         defaultMaxDiffTokens,
		SystemPrompt:          DefaultSystemPrompt,
		Memory:                memory.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Agent.Merge(&source.Agent)
	c.Memory.Merge(&source.Memory)

	if source.Repo != "" {
		c.Repo = source.Repo
	}
	if source.Tokenizer != "" {
		c.Tokenizer = source.Tokenizer
	}
	if source.MaxConversationTokens != 0 {
		c.MaxConversationTokens = source.MaxConversationTokens
	}
	if source.MaxDiffTokens != 0 {
		c.MaxDiffTokens = source.MaxDiffTokens
	}
	if source.SystemPrompt != "" {
		c.SystemPrompt = source.SystemPrompt
	}
	if source.DryRun {
		c.DryRun = true
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Agent.Model) == "" {
		return errors.New("agent.model is required")
	}
	if c.MaxConversationTokens < 0 {
		return fmt.Errorf("max_conversation_tokens must be >= 0, got %d", c.MaxConversationTokens)
	}
	if c.MaxDiffTokens < 0 {
		return fmt.Errorf("max_diff_tokens must be >= 0, got %d", c.MaxDiffTokens)
	}
	return nil
}

// LoadFromEnv applies RETCON_* environment overrides.
func (c *Config) LoadFromEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		c.Agent.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTokenizer)); v != "" {
		c.Tokenizer = v
	}
	if err := envInt(EnvMaxConversationTokens, &c.MaxConversationTokens); err != nil {
		return err
	}
	return envInt(EnvMaxDiffTokens, &c.MaxDiffTokens)
}

func envInt(name string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

// LoadConfig reads a config file, merges it with defaults, and returns the
// resulting Config. The format follows the extension: .yaml and .yml are YAML,
// .toml is TOML, anything else is JSON with comments allowed.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	case ".toml":
		err = toml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
