// Package vcs adapts a git repository to the three operations the rewrite
// loop needs: list commits, show one commit, and reword one commit.
package vcs

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Snapshot is a read-only view of one commit.
type Snapshot struct {
	ID    string
	Files []string
	Diff  string
}

// Repository is the version-control surface used by the rewrite loop.
// Identifiers returned by Commits are valid only until the next Reword.
type Repository interface {
	// Commits lists commit identifiers reachable from HEAD, oldest first.
	Commits(ctx context.Context) ([]string, error)
	// Show returns the changed files and full diff of a commit.
	Show(ctx context.Context, id string) (Snapshot, error)
	// Reword replaces the message of a single commit in place.
	Reword(ctx context.Context, id, message string) error
}

// Git implements Repository by shelling out to git and git-filter-repo.
type Git struct {
	root   string
	runner Runner
}

// NewGit returns a Git rooted at root. A nil runner uses ExecRunner.
func NewGit(root string, runner Runner) *Git {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Git{root: root, runner: runner}
}

// Open resolves the work-tree root containing dir and returns a Git for it.
func Open(ctx context.Context, dir string, runner Runner) (*Git, error) {
	if strings.TrimSpace(dir) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}
	g := NewGit(dir, runner)
	out, err := g.runner.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		if strings.Contains(err.Error(), "not a git repository") {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, fmt.Errorf("discover git root: %w", err)
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
	}
	g.root = root
	return g, nil
}

// Root returns the repository root the commands run against.
func (g *Git) Root() string {
	return g.root
}

func (g *Git) Commits(ctx context.Context) ([]string, error) {
	out, err := g.runner.Run(ctx, g.root, "rev-list", "--reverse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	return strings.Fields(out), nil
}

func (g *Git) Show(ctx context.Context, id string) (Snapshot, error) {
	names, err := g.runner.Run(ctx, g.root, "show", "--name-only", "--pretty=format:", id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list changed files of %s: %w", id, err)
	}
	diff, err := g.runner.Run(ctx, g.root, "show", id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("show %s: %w", id, err)
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(names), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}

	return Snapshot{
		ID:    id,
		Files: files,
		Diff:  strings.ToValidUTF8(diff, "\uFFFD"),
	}, nil
}

func (g *Git) Reword(ctx context.Context, id, message string) error {
	_, err := g.runner.Run(ctx, g.root,
		"filter-repo", "--force", "--commit-callback", RewordCallback(id, message))
	if err != nil {
		return fmt.Errorf("reword %s: %w", id, err)
	}
	return nil
}

// Merges counts merge commits reachable from HEAD.
func (g *Git) Merges(ctx context.Context) (int, error) {
	out, err := g.runner.Run(ctx, g.root, "rev-list", "--merges", "--count", "HEAD")
	if err != nil {
		return 0, fmt.Errorf("count merges: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("count merges: %w", err)
	}
	return n, nil
}

// RewordCallback renders the git-filter-repo commit callback that replaces the
// message of the commit whose original id is id.
func RewordCallback(id, message string) string {
	return fmt.Sprintf(`if commit.original_id == b"%s": commit.message = b"%s"`, id, EscapeMessage(message))
}

// EscapeMessage escapes message for embedding in a double-quoted Python bytes
// literal. The message must already be ASCII; bytes literals reject anything
// else.
func EscapeMessage(message string) string {
	return messageEscaper.Replace(message)
}

var messageEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\r", `\r`,
	"\n", `\n`,
)
