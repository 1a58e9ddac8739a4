// retcon rewrites the message of every commit in a repository's linear
// history with one generated by a chat-completion model. Each prompt carries
// the commit's changed files and a token-budgeted prefix of its diff; the
// model also sees a sliding window of the messages it already wrote.
//
// Usage:
//
//	retcon [--repo dir] [--model name] [--max-diff-tokens n] [--dry-run]
//
// Configuration is layered: built-in defaults, then --config (JSON with
// comments, YAML, or TOML by extension), then RETCON_* environment variables,
// then explicit flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/pflag"

	"github.com/tailored-agentic-units/retcon/kernel"
	"github.com/tailored-agentic-units/retcon/observability"
	"github.com/tailored-agentic-units/retcon/session"
	"github.com/tailored-agentic-units/retcon/summarize"
	"github.com/tailored-agentic-units/retcon/tokens"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configFile            string
	repo                  string
	model                 string
	tokenizer             string
	systemPrompt          string
	memoryPath            string
	maxConversationTokens int
	maxDiffTokens         int
	dryRun                bool
	verbose               bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	defaults := kernel.DefaultConfig()

	flagSet := pflag.NewFlagSet("retcon", pflag.ContinueOnError)
	flagSet.StringVar(&opts.repo, "repo", defaults.Repo, "path to the git repository")
	flagSet.StringVar(&opts.model, "model", defaults.Agent.Model, "chat model used to write messages")
	flagSet.IntVar(&opts.maxConversationTokens, "max-conversation-tokens", defaults.MaxConversationTokens, "token budget for the whole conversation")
	flagSet.IntVar(&opts.maxDiffTokens, "max-diff-tokens", defaults.MaxDiffTokens, "token budget for one commit's diff")
	flagSet.StringVar(&opts.configFile, "config", "", "config file (.json, .jsonc, .yaml, .yml, or .toml)")
	flagSet.StringVar(&opts.tokenizer, "tokenizer", tokens.AutoProfile, "tokenizer encoding ("+strings.Join(tokens.Profiles(), ", ")+"); "+tokens.AutoProfile+" derives it from the model")
	flagSet.StringVar(&opts.systemPrompt, "system-prompt", "", "replace the built-in system prompt")
	flagSet.StringVar(&opts.memoryPath, "memory", "", "directory of guidance notes appended to the system prompt")
	flagSet.BoolVar(&opts.dryRun, "dry-run", false, "print generated messages without rewriting history")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "debug-level logs on stderr")
	flagSet.BoolP("help", "h", false, "show help")
	return flagSet
}

// resolveConfig layers defaults, the config file, the environment, and the
// flags the user set explicitly.
func resolveConfig(flagSet *pflag.FlagSet, opts *options) (*kernel.Config, error) {
	var cfg *kernel.Config
	if opts.configFile != "" {
		loaded, err := kernel.LoadConfig(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		defaults := kernel.DefaultConfig()
		cfg = &defaults
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if flagSet.Changed("repo") {
		cfg.Repo = opts.repo
	}
	if flagSet.Changed("model") {
		cfg.Agent.Model = opts.model
	}
	if flagSet.Changed("max-conversation-tokens") {
		cfg.MaxConversationTokens = opts.maxConversationTokens
	}
	if flagSet.Changed("max-diff-tokens") {
		cfg.MaxDiffTokens = opts.maxDiffTokens
	}
	if flagSet.Changed("tokenizer") {
		cfg.Tokenizer = opts.tokenizer
	}
	if flagSet.Changed("system-prompt") {
		cfg.SystemPrompt = opts.systemPrompt
	}
	if flagSet.Changed("memory") {
		cfg.Memory.Path = opts.memoryPath
	}
	if flagSet.Changed("dry-run") {
		cfg.DryRun = opts.dryRun
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(args []string) error {
	var opts options
	flagSet := newFlagSet(&opts)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(os.Stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(os.Stderr, flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg, err := resolveConfig(flagSet, &opts)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	tally := observability.NewTally()
	logged := observability.NewSlogObserver(logger).With("repo", cfg.Repo)
	k, err := kernel.New(cfg,
		kernel.WithObserver(observability.NewMultiObserver(logged, tally)),
		kernel.WithOutput(os.Stdout),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := k.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted", "rewritten", result.Rewritten, "failed", result.Failed, "total", result.Total)
		}
		return err
	}

	logger.Info("done",
		"rewritten", result.Rewritten,
		"failed", result.Failed,
		"total", result.Total,
		"truncated_diffs", tally.Count(summarize.EventTruncated),
		"evictions", tally.Count(session.EventEvict),
		"over_budget", tally.Count(session.EventBudgetExceeded),
		"dry_run", cfg.DryRun,
	)
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `retcon rewrites every commit message in a repository's linear history.

Messages are generated by a chat-completion model from each commit's changed
files and diff. History is rewritten in place with git filter-repo; run it on
a fresh clone. The API key is read from OPENAI_API_KEY.

Usage:
  retcon [flags]

Flags:
%s`, flagSet.FlagUsages())
}
