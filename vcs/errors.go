package vcs

import "errors"

// ErrNotRepository is returned when the target directory is not inside a git
// work tree.
var ErrNotRepository = errors.New("not a git repository")
