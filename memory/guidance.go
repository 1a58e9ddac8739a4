package memory

import (
	"context"
	"fmt"
	"strings"
)

// Guidance loads every note in key order and joins them with blank lines.
// A nil store or an empty one yields "".
func Guidance(ctx context.Context, store Store) (string, error) {
	if store == nil {
		return "", nil
	}

	keys, err := store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list notes: %w", err)
	}
	if len(keys) == 0 {
		return "", nil
	}

	entries, err := store.Load(ctx, keys...)
	if err != nil {
		return "", fmt.Errorf("load notes: %w", err)
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if note := strings.TrimSpace(string(e.Value)); note != "" {
			parts = append(parts, note)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
