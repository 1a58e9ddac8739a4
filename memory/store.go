// Package memory supplies guidance notes that extend the system prompt. Notes
// live under a hierarchical key namespace backed by pluggable storage; a team
// keeps its commit-message conventions there.
package memory

import "context"

// Entry is a key-value pair in the memory namespace. Keys are /-separated
// relative paths and values are raw bytes.
type Entry struct {
	Key   string
	Value []byte
}

// Store reads guidance entries from external storage. Implementations perform
// I/O on each call without caching.
type Store interface {
	// List returns all available keys in lexical order.
	List(ctx context.Context) ([]string, error)
	// Load retrieves entries for the specified keys, in the order given.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
}
