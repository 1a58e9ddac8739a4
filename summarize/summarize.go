// Package summarize turns a commit into a bounded prompt: the changed-file
// list plus a prefix of the diff that fits a token budget.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/retcon/tokens"
	"github.com/tailored-agentic-units/retcon/vcs"
)

const promptTemplate = `Here are the changed files:
%s

Here is the diff:
%s

Based on this information, generate an appropriate commit message.`

// Source provides commit snapshots.
type Source interface {
	Show(ctx context.Context, id string) (vcs.Snapshot, error)
}

// Truncation describes how much of a diff survived the budget.
type Truncation struct {
	Truncated  bool
	KeptLines  int
	TotalLines int
}

// Prompt is the bounded description of one commit.
type Prompt struct {
	CommitID   string
	Files      []string
	Diff       string // Kept prefix of the diff, newline-terminated per line.
	Truncation Truncation
	Text       string
}

// Summarizer builds prompts from commit snapshots.
type Summarizer struct {
	source        Source
	counter       tokens.Counter
	maxDiffTokens int
}

// New creates a Summarizer that keeps at most maxDiffTokens of each diff.
func New(source Source, counter tokens.Counter, maxDiffTokens int) *Summarizer {
	return &Summarizer{
		source:        source,
		counter:       counter,
		maxDiffTokens: maxDiffTokens,
	}
}

// Prompt builds the prompt for commit id. Errors from the source propagate
// unchanged.
func (s *Summarizer) Prompt(ctx context.Context, id string) (*Prompt, error) {
	snap, err := s.source.Show(ctx, id)
	if err != nil {
		return nil, err
	}

	diff, trunc := Truncate(snap.Diff, s.counter, s.maxDiffTokens)

	return &Prompt{
		CommitID:   id,
		Files:      snap.Files,
		Diff:       diff,
		Truncation: trunc,
		Text:       Render(snap.Files, diff),
	}, nil
}

// Render fills the prompt template.
func Render(files []string, diff string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(files, "\n"), diff)
}

// Truncate keeps the longest prefix of diff's lines whose running text stays
// within budget. Each candidate line is measured together with everything
// kept so far and its own terminating newline, so the kept text never counts
// above budget. The first line that would exceed the budget ends the walk and
// the result is always a contiguous prefix. If the first line overflows the
// result is empty.
func Truncate(diff string, counter tokens.Counter, budget int) (string, Truncation) {
	lines := strings.Split(diff, "\n")
	trunc := Truncation{TotalLines: len(lines)}

	var kept strings.Builder
	for _, line := range lines {
		if counter.Count(kept.String()+line+"\n") > budget {
			trunc.Truncated = true
			break
		}
		kept.WriteString(line)
		kept.WriteByte('\n')
		trunc.KeptLines++
	}

	return kept.String(), trunc
}
