package memory

import (
	"fmt"
	"os"
)

const defaultMaxBytes = 16 << 10

// Config selects the guidance notes appended to the system prompt.
type Config struct {
	Path       string   `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`                   // Notes directory; empty disables guidance.
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty" toml:"extensions,omitempty"` // File extensions read as notes.
	MaxBytes   int      `json:"max_bytes,omitempty" yaml:"max_bytes,omitempty" toml:"max_bytes,omitempty"`    // Per-note size limit.
}

// DefaultConfig returns a disabled configuration that reads Markdown and
// plain-text notes of up to 16 KiB once a path is set.
func DefaultConfig() Config {
	return Config{
		Extensions: []string{".md", ".txt"},
		MaxBytes:   defaultMaxBytes,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
	if len(source.Extensions) > 0 {
		c.Extensions = source.Extensions
	}
	if source.MaxBytes != 0 {
		c.MaxBytes = source.MaxBytes
	}
}

// NewStore creates a Store from configuration. It returns a nil Store when
// Path is empty, meaning guidance is disabled. A Path that exists but is not
// a directory is rejected; a missing one yields an empty store.
func NewStore(cfg *Config) (Store, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	info, err := os.Stat(cfg.Path)
	switch {
	case err == nil && !info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, cfg.Path)
	case err != nil && !os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return NewFileStore(cfg.Path,
		WithExtensions(cfg.Extensions...),
		WithMaxBytes(cfg.MaxBytes),
	), nil
}
