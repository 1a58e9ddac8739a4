package kernel

import (
	"errors"
	"fmt"
)

// ErrHistoryChanged is returned for a commit when the live history no longer
// has the length captured at the start of the run, so positions cannot be
// aligned.
var ErrHistoryChanged = errors.New("commit history changed during run")

// Stage names the step of a commit rewrite that failed.
type Stage string

const (
	StageResolve   Stage = "resolve"
	StageSummarize Stage = "summarize"
	StageGenerate  Stage = "generate"
	StageRewrite   Stage = "rewrite"
)

// CommitError describes a failed commit. Stack is captured where the failure
// was observed, or at the recover point for panics.
type CommitError struct {
	Index    int
	CommitID string
	Stage    Stage
	Err      error
	Stack    []byte
}

func (e *CommitError) Error() string {
	if e.CommitID == "" {
		return fmt.Sprintf("commit %d: %s: %v", e.Index+1, e.Stage, e.Err)
	}
	return fmt.Sprintf("commit %d (%s): %s: %v", e.Index+1, e.CommitID, e.Stage, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
