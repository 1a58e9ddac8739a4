package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tailored-agentic-units/retcon/kernel"
)

func parse(t *testing.T, args ...string) (*kernel.Config, error) {
	t.Helper()
	var opts options
	flagSet := newFlagSet(&opts)
	if err := flagSet.Parse(args); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return resolveConfig(flagSet, &opts)
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}

	want := kernel.DefaultConfig()
	if !reflect.DeepEqual(*cfg, want) {
		t.Errorf("got %+v, want defaults", *cfg)
	}
}

func TestResolveConfig_Flags(t *testing.T) {
	cfg, err := parse(t,
		"--repo", "/src/project",
		"--model", "gpt-4.1",
		"--max-conversation-tokens", "9000",
		"--max-diff-tokens", "0",
		"--tokenizer", "o200k_base",
		"--system-prompt", "Be terse.",
		"--memory", "/tmp/notes",
		"--dry-run",
	)
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}

	if cfg.Repo != "/src/project" {
		t.Errorf("got Repo %q", cfg.Repo)
	}
	if cfg.Agent.Model != "gpt-4.1" {
		t.Errorf("got Model %q", cfg.Agent.Model)
	}
	if cfg.MaxConversationTokens != 9000 {
		t.Errorf("got MaxConversationTokens %d", cfg.MaxConversationTokens)
	}
	if cfg.MaxDiffTokens != 0 {
		t.Errorf("got MaxDiffTokens %d, want 0", cfg.MaxDiffTokens)
	}
	if cfg.Tokenizer != "o200k_base" {
		t.Errorf("got Tokenizer %q", cfg.Tokenizer)
	}
	if cfg.SystemPrompt != "Be terse." {
		t.Errorf("got SystemPrompt %q", cfg.SystemPrompt)
	}
	if cfg.Memory.Path != "/tmp/notes" {
		t.Errorf("got Memory.Path %q", cfg.Memory.Path)
	}
	if !cfg.DryRun {
		t.Error("expected DryRun")
	}
}

func TestResolveConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retcon.yaml")
	content := "max_diff_tokens: 1000\nmax_conversation_tokens: 2000\nagent:\n  model: from-file\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	t.Setenv(kernel.EnvMaxConversationTokens, "3000")
	t.Setenv(kernel.EnvModel, "from-env")

	cfg, err := parse(t, "--config", path, "--model", "from-flag")
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}

	if cfg.MaxDiffTokens != 1000 {
		t.Errorf("got MaxDiffTokens %d, want 1000 (file)", cfg.MaxDiffTokens)
	}
	if cfg.MaxConversationTokens != 3000 {
		t.Errorf("got MaxConversationTokens %d, want 3000 (env)", cfg.MaxConversationTokens)
	}
	if cfg.Agent.Model != "from-flag" {
		t.Errorf("got Model %q, want from-flag", cfg.Agent.Model)
	}
}

func TestResolveConfig_Invalid(t *testing.T) {
	if _, err := parse(t, "--max-diff-tokens=-3"); err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestRun_UnexpectedArgument(t *testing.T) {
	if err := run([]string{"extra"}); err == nil {
		t.Fatal("expected error for positional argument, got nil")
	}
}
