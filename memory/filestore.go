package memory

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FileOption configures a file-backed Store.
type FileOption func(*fileStore)

// WithExtensions restricts notes to files with one of the given extensions,
// compared case-insensitively. With none, every visible file is a note.
func WithExtensions(exts ...string) FileOption {
	return func(s *fileStore) {
		s.exts = s.exts[:0]
		for _, ext := range exts {
			s.exts = append(s.exts, strings.ToLower(ext))
		}
	}
}

// WithMaxBytes rejects notes larger than n bytes. Zero disables the limit.
func WithMaxBytes(n int) FileOption {
	return func(s *fileStore) { s.maxBytes = n }
}

type fileStore struct {
	root     string
	exts     []string
	maxBytes int
}

// NewFileStore creates a Store over the notes directory root. Keys are
// /-separated paths relative to root; hidden files and directories are
// skipped.
func NewFileStore(root string, opts ...FileOption) Store {
	s := &fileStore{root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *fileStore) isNote(name string) bool {
	if len(s.exts) == 0 {
		return true
	}
	return slices.Contains(s.exts, strings.ToLower(filepath.Ext(name)))
}

func (s *fileStore) List(_ context.Context) ([]string, error) {
	var keys []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == s.root {
				return fs.SkipAll
			}
			return err
		}
		if path == s.root {
			return nil
		}

		hidden := strings.HasPrefix(d.Name(), ".")
		switch {
		case d.IsDir() && hidden:
			return filepath.SkipDir
		case d.IsDir(), hidden, !s.isNote(d.Name()):
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	slices.Sort(keys)
	return keys, nil
}

func (s *fileStore) Load(_ context.Context, keys ...string) ([]Entry, error) {
	entries := make([]Entry, 0, len(keys))

	for _, key := range keys {
		if !fs.ValidPath(key) {
			return nil, fmt.Errorf("%w: invalid key %q", ErrLoadFailed, key)
		}
		data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(key)))
		switch {
		case os.IsNotExist(err):
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		case err != nil:
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, key, err)
		case s.maxBytes > 0 && len(data) > s.maxBytes:
			return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, key, len(data), s.maxBytes)
		}
		entries = append(entries, Entry{Key: key, Value: data})
	}

	return entries, nil
}
