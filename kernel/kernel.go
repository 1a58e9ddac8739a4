// Package kernel implements the rewrite driver: it walks a repository's
// history oldest first and, for each commit, summarizes the diff, asks the
// agent for a message through the conversation window, and rewords the
// commit.
//
// The kernel initializes from configuration via New, creating all subsystems
// internally. Functional options allow test overrides of any subsystem.
//
//	k, err := kernel.New(&cfg)
//	result, err := k.Run(ctx)
package kernel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/tailored-agentic-units/retcon/agent"
	"github.com/tailored-agentic-units/retcon/memory"
	"github.com/tailored-agentic-units/retcon/observability"
	"github.com/tailored-agentic-units/retcon/session"
	"github.com/tailored-agentic-units/retcon/summarize"
	"github.com/tailored-agentic-units/retcon/tokens"
	"github.com/tailored-agentic-units/retcon/vcs"
)

// Separator is printed after every generated message and every failure report.
var Separator = strings.Repeat("-", 80)

// Result holds the outcome of a kernel Run invocation.
type Result struct {
	RunID     string         // Session identifier shared by all run events.
	Total     int            // Commits captured at the start of the run.
	Rewritten int            // Commits whose message was replaced.
	Failed    int            // Commits that hit an error or panic.
	Commits   []CommitRecord // One record per attempted commit, in order.
}

// CommitRecord is the outcome for one history position.
type CommitRecord struct {
	Index     int
	CommitID  string // Identifier as resolved at the start of the iteration.
	Message   string // Generated message, empty if generation failed.
	Truncated bool   // Whether the diff was cut to the budget.
	Rewritten bool
	Err       *CommitError
}

// Option configures a Kernel after config-driven initialization.
// Subsystems supplied by options are not created from configuration.
type Option func(*Kernel)

// WithRepository overrides the config-opened git repository.
func WithRepository(r vcs.Repository) Option {
	return func(k *Kernel) { k.repo = r }
}

// WithAgent overrides the config-created agent.
func WithAgent(a agent.Agent) Option {
	return func(k *Kernel) { k.agent = a }
}

// WithCounter overrides the config-created token accountant.
func WithCounter(c tokens.Counter) Option {
	return func(k *Kernel) { k.counter = c }
}

// WithSession overrides the session created at the start of Run. The session
// must already hold its system message.
func WithSession(s session.Session) Option {
	return func(k *Kernel) { k.session = s }
}

// WithMemoryStore overrides the config-created memory store.
func WithMemoryStore(s memory.Store) Option {
	return func(k *Kernel) { k.store = s }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(k *Kernel) { k.observer = o }
}

// WithOutput redirects generated messages and failure reports from stdout.
func WithOutput(w io.Writer) Option {
	return func(k *Kernel) { k.out = w }
}

// Kernel is the sequential rewrite driver.
type Kernel struct {
	repo     vcs.Repository
	agent    agent.Agent
	counter  tokens.Counter
	session  session.Session
	store    memory.Store
	observer observability.Observer
	out      io.Writer

	maxConversationTokens int
	maxDiffTokens         int
	systemPrompt          string
	dryRun                bool
}

// New creates a Kernel from configuration. Subsystems (repository, agent,
// token accountant, memory) are initialized from their respective config
// sections unless an option already supplied them.
func New(cfg *Config, opts ...Option) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	k := &Kernel{
		maxConversationTokens: cfg.MaxConversationTokens,
		maxDiffTokens:         cfg.MaxDiffTokens,
		systemPrompt:          cfg.SystemPrompt,
		dryRun:                cfg.DryRun,
	}

	for _, opt := range opts {
		opt(k)
	}

	if k.observer == nil {
		k.observer = observability.NewSlogObserver(slog.Default())
	}
	if k.out == nil {
		k.out = os.Stdout
	}

	if k.counter == nil {
		acct, err := tokens.New(tokens.Config{Model: cfg.Agent.Model, Profile: cfg.Tokenizer})
		if err != nil {
			return nil, fmt.Errorf("failed to create token accountant: %w", err)
		}
		k.counter = acct
	}

	if k.store == nil {
		store, err := memory.NewStore(&cfg.Memory)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory store: %w", err)
		}
		k.store = store
	}

	if k.repo == nil {
		git, err := vcs.Open(context.Background(), cfg.Repo, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to open repository: %w", err)
		}
		k.repo = git
	}

	if k.agent == nil {
		a, err := agent.New(&cfg.Agent)
		if err != nil {
			return nil, fmt.Errorf("failed to create agent: %w", err)
		}
		k.agent = a
	}

	return k, nil
}

// Run rewrites every commit reachable from HEAD, oldest first. Only a failure
// to list the initial history, to build the system prompt, or a cancelled
// context ends the run early; per-commit failures are reported and recorded
// in the Result and the run moves on to the next commit.
func (k *Kernel) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	ids, err := k.repo.Commits(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list commits: %w", err)
	}
	result.Total = len(ids)

	if k.session == nil {
		systemContent, err := k.buildSystemContent(ctx)
		if err != nil {
			return result, err
		}
		k.session = session.NewMemorySession(systemContent)
	}
	result.RunID = k.session.ID()

	window := session.NewWindow(k.session, k.agent, k.counter, k.maxConversationTokens,
		session.WithObserver(k.observer),
	)
	summarizer := summarize.New(k.repo, k.counter, k.maxDiffTokens)

	k.preflight(ctx, result.RunID)

	start := map[string]any{
		"run_id":                  result.RunID,
		"commits":                 result.Total,
		"agent_id":                k.agent.ID(),
		"model":                   k.agent.Model(),
		"max_conversation_tokens": k.maxConversationTokens,
		"max_diff_tokens":         k.maxDiffTokens,
		"dry_run":                 k.dryRun,
	}
	if r, ok := k.repo.(rooted); ok {
		start["root"] = r.Root()
	}
	k.emit(ctx, EventRunStart, observability.LevelInfo, "kernel.Run", start)

	for i := range result.Total {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rec := k.rewrite(ctx, window, summarizer, i, result.Total)
		if rec.Err != nil {
			result.Failed++
			fmt.Fprintln(k.out, rec.Err.Error())
			k.out.Write(rec.Err.Stack)
			fmt.Fprintln(k.out, Separator)
			k.emit(ctx, EventCommitFailed, observability.LevelError, "kernel.Run", map[string]any{
				"run_id": result.RunID,
				"index":  i,
				"commit": rec.Err.CommitID,
				"stage":  string(rec.Err.Stage),
				"error":  rec.Err.Err.Error(),
			})
		} else if rec.Rewritten {
			result.Rewritten++
			k.emit(ctx, EventCommitRewritten, observability.LevelVerbose, "kernel.Run", map[string]any{
				"run_id": result.RunID,
				"index":  i,
				"commit": rec.CommitID,
			})
		}
		result.Commits = append(result.Commits, rec)
	}

	k.emit(ctx, EventRunComplete, observability.LevelInfo, "kernel.Run", map[string]any{
		"run_id":    result.RunID,
		"commits":   result.Total,
		"rewritten": result.Rewritten,
		"failed":    result.Failed,
	})

	return result, nil
}

// rewrite performs one iteration. Errors and panics are converted into the
// record's CommitError.
func (k *Kernel) rewrite(ctx context.Context, window *session.Window, summarizer *summarize.Summarizer, i, total int) (rec CommitRecord) {
	rec.Index = i
	stage := StageResolve

	fail := func(err error) CommitRecord {
		rec.Err = &CommitError{
			Index:    i,
			CommitID: rec.CommitID,
			Stage:    stage,
			Err:      err,
			Stack:    debug.Stack(),
		}
		return rec
	}

	defer func() {
		if r := recover(); r != nil {
			rec = fail(fmt.Errorf("panic: %v", r))
		}
	}()

	ids, err := k.repo.Commits(ctx)
	if err != nil {
		return fail(err)
	}
	if len(ids) != total {
		return fail(fmt.Errorf("%w: started with %d commits, found %d", ErrHistoryChanged, total, len(ids)))
	}
	rec.CommitID = ids[i]

	k.emit(ctx, EventCommitStart, observability.LevelVerbose, "kernel.rewrite", map[string]any{
		"index":  i,
		"total":  total,
		"commit": rec.CommitID,
	})

	stage = StageSummarize
	prompt, err := summarizer.Prompt(ctx, rec.CommitID)
	if err != nil {
		return fail(err)
	}
	if prompt.Truncation.Truncated {
		rec.Truncated = true
		k.emit(ctx, summarize.EventTruncated, observability.LevelVerbose, "kernel.rewrite", map[string]any{
			"commit":      rec.CommitID,
			"kept_lines":  prompt.Truncation.KeptLines,
			"total_lines": prompt.Truncation.TotalLines,
		})
	}

	stage = StageGenerate
	message, err := window.Advance(ctx, prompt.Text)
	if err != nil {
		return fail(err)
	}
	rec.Message = message

	fmt.Fprintln(k.out, message)
	fmt.Fprintln(k.out, Separator)

	if k.dryRun {
		return rec
	}

	stage = StageRewrite
	if err := k.repo.Reword(context.WithoutCancel(ctx), rec.CommitID, message); err != nil {
		return fail(err)
	}
	rec.Rewritten = true

	return rec
}

// mergeCounter is implemented by repositories that can report merge commits.
type mergeCounter interface {
	Merges(ctx context.Context) (int, error)
}

// rooted is implemented by repositories bound to a working tree.
type rooted interface {
	Root() string
}

// tokenizerInfo is implemented by counters that resolve a model encoding.
type tokenizerInfo interface {
	Encoding() string
	FellBack() bool
}

func (k *Kernel) preflight(ctx context.Context, runID string) {
	if mc, ok := k.repo.(mergeCounter); ok {
		merges, err := mc.Merges(ctx)
		switch {
		case err != nil:
			k.warn(ctx, runID, "could not count merge commits", map[string]any{"error": err.Error()})
		case merges > 0:
			k.warn(ctx, runID, "history contains merge commits; only linear history is supported",
				map[string]any{"merges": merges})
		}
	}

	if ti, ok := k.counter.(tokenizerInfo); ok && ti.FellBack() {
		k.warn(ctx, runID, "no tokenizer profile for model; using default encoding", map[string]any{
			"model":    k.agent.Model(),
			"encoding": ti.Encoding(),
		})
	}
}

func (k *Kernel) warn(ctx context.Context, runID, msg string, data map[string]any) {
	data["run_id"] = runID
	data["warning"] = msg
	k.emit(ctx, EventWarning, observability.LevelWarning, "kernel.preflight", data)
}

func (k *Kernel) emit(ctx context.Context, typ observability.EventType, level observability.Level, source string, data map[string]any) {
	observability.Emit(ctx, k.observer, typ, level, source, data)
}

func (k *Kernel) buildSystemContent(ctx context.Context) (string, error) {
	guidance, err := memory.Guidance(ctx, k.store)
	if err != nil {
		return "", fmt.Errorf("failed to build system prompt: %w", err)
	}
	if guidance == "" {
		return k.systemPrompt, nil
	}
	return k.systemPrompt + "\n\n" + guidance, nil
}
