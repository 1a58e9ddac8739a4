package kernel_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tailored-agentic-units/retcon/kernel"
)

func TestDefaultConfig(t *testing.T) {
	cfg := kernel.DefaultConfig()

	if cfg.Repo != "." {
		t.Errorf("got Repo %q, want %q", cfg.Repo, ".")
	}
	if cfg.Agent.Model != "gpt-4o-mini" {
		t.Errorf("got Model %q, want %q", cfg.Agent.Model, "gpt-4o-mini")
	}
	if cfg.MaxConversationTokens != 50000 {
		t.Errorf("got MaxConversationTokens %d, want 50000", cfg.MaxConversationTokens)
	}
	if cfg.MaxDiffTokens != 4000 {
		t.Errorf("got MaxDiffTokens %d, want 4000", cfg.MaxDiffTokens)
	}
	if cfg.SystemPrompt != kernel.DefaultSystemPrompt {
		t.Error("expected default system prompt")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := kernel.DefaultConfig()

	source := &kernel.Config{
		Repo:          "/src/project",
		MaxDiffTokens: 1000,
		SystemPrompt:  "merged prompt",
		Tokenizer:     "o200k_base",
		DryRun:        true,
	}
	source.Agent.Model = "gpt-4.1"

	cfg.Merge(source)

	if cfg.Repo != "/src/project" {
		t.Errorf("got Repo %q, want %q", cfg.Repo, "/src/project")
	}
	if cfg.MaxDiffTokens != 1000 {
		t.Errorf("got MaxDiffTokens %d, want 1000", cfg.MaxDiffTokens)
	}
	if cfg.MaxConversationTokens != 50000 {
		t.Errorf("got MaxConversationTokens %d, want 50000 (preserved)", cfg.MaxConversationTokens)
	}
	if cfg.SystemPrompt != "merged prompt" {
		t.Errorf("got SystemPrompt %q, want %q", cfg.SystemPrompt, "merged prompt")
	}
	if cfg.Tokenizer != "o200k_base" {
		t.Errorf("got Tokenizer %q, want %q", cfg.Tokenizer, "o200k_base")
	}
	if cfg.Agent.Model != "gpt-4.1" {
		t.Errorf("got Model %q, want %q", cfg.Agent.Model, "gpt-4.1")
	}
	if !cfg.DryRun {
		t.Error("expected DryRun to be set")
	}
}

func TestConfig_Merge_ZeroValuesPreserveDefaults(t *testing.T) {
	cfg := kernel.DefaultConfig()
	original := cfg

	cfg.Merge(&kernel.Config{})

	if !reflect.DeepEqual(cfg, original) {
		t.Errorf("got %+v, want defaults preserved", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*kernel.Config)
		wantErr bool
	}{
		{"defaults", func(*kernel.Config) {}, false},
		{"zero budgets", func(c *kernel.Config) { c.MaxDiffTokens = 0; c.MaxConversationTokens = 0 }, false},
		{"empty model", func(c *kernel.Config) { c.Agent.Model = " " }, true},
		{"negative diff budget", func(c *kernel.Config) { c.MaxDiffTokens = -1 }, true},
		{"negative conversation budget", func(c *kernel.Config) { c.MaxConversationTokens = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := kernel.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := kernel.DefaultConfig()
	cfg.MaxDiffTokens = -1

	if _, err := kernel.New(&cfg); err == nil {
		t.Fatal("expected error for invalid config, got nil")
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "jsonc",
			file: "retcon.json",
			content: `{
				// budgets tuned for large monorepos
				"max_diff_tokens": 2500,
				"agent": {"model": "gpt-4.1-mini"},
				"memory": {"path": "/tmp/notes"},
			}`,
		},
		{
			name: "yaml",
			file: "retcon.yaml",
			content: `max_diff_tokens: 2500
agent:
  model: gpt-4.1-mini
memory:
  path: /tmp/notes
`,
		},
		{
			name: "yml",
			file: "retcon.yml",
			content: `max_diff_tokens: 2500
agent: {model: gpt-4.1-mini}
memory: {path: /tmp/notes}
`,
		},
		{
			name: "toml",
			file: "retcon.toml",
			content: `max_diff_tokens = 2500

[agent]
model = "gpt-4.1-mini"

[memory]
path = "/tmp/notes"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := kernel.LoadConfig(writeConfig(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if cfg.MaxDiffTokens != 2500 {
				t.Errorf("got MaxDiffTokens %d, want 2500", cfg.MaxDiffTokens)
			}
			if cfg.MaxConversationTokens != 50000 {
				t.Errorf("got MaxConversationTokens %d, want 50000 (default)", cfg.MaxConversationTokens)
			}
			if cfg.Agent.Model != "gpt-4.1-mini" {
				t.Errorf("got Model %q, want %q", cfg.Agent.Model, "gpt-4.1-mini")
			}
			if cfg.Agent.APIKeyEnv != "OPENAI_API_KEY" {
				t.Errorf("got APIKeyEnv %q, want default", cfg.Agent.APIKeyEnv)
			}
			if cfg.Memory.Path != "/tmp/notes" {
				t.Errorf("got Memory.Path %q, want %q", cfg.Memory.Path, "/tmp/notes")
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := kernel.LoadConfig("/nonexistent/path/config.json")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"bad.json", "{invalid}"},
		{"bad.yaml", "agent: [unclosed"},
		{"bad.toml", "agent = = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			if _, err := kernel.LoadConfig(writeConfig(t, tt.file, tt.content)); err == nil {
				t.Fatal("expected parse error, got nil")
			}
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv(kernel.EnvModel, "gpt-4o")
	t.Setenv(kernel.EnvMaxConversationTokens, "8000")
	t.Setenv(kernel.EnvMaxDiffTokens, "0")
	t.Setenv(kernel.EnvTokenizer, "cl100k_base")

	cfg := kernel.DefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.Agent.Model != "gpt-4o" {
		t.Errorf("got Model %q, want %q", cfg.Agent.Model, "gpt-4o")
	}
	if cfg.MaxConversationTokens != 8000 {
		t.Errorf("got MaxConversationTokens %d, want 8000", cfg.MaxConversationTokens)
	}
	if cfg.MaxDiffTokens != 0 {
		t.Errorf("got MaxDiffTokens %d, want 0", cfg.MaxDiffTokens)
	}
	if cfg.Tokenizer != "cl100k_base" {
		t.Errorf("got Tokenizer %q, want %q", cfg.Tokenizer, "cl100k_base")
	}
}

func TestConfig_LoadFromEnv_InvalidNumber(t *testing.T) {
	t.Setenv(kernel.EnvMaxDiffTokens, "lots")

	cfg := kernel.DefaultConfig()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Fatal("expected error for non-numeric budget, got nil")
	}
}
