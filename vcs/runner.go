package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git commands against a directory and returns raw stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner invokes the system git binary.
type ExecRunner struct{}

// Run executes git with -C dir. On failure the error carries the arguments
// and whatever git wrote to stderr.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "no stderr"
		}
		return "", fmt.Errorf("git %s: %w (%s)", summarizeArgs(args), err, msg)
	}
	return stdout.String(), nil
}

// summarizeArgs keeps error text readable when an argument is a long
// filter-repo callback.
func summarizeArgs(args []string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		if len(arg) > 60 {
			arg = arg[:57] + "..."
		}
		parts[i] = arg
	}
	return strings.Join(parts, " ")
}
