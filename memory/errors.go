package memory

import "errors"

// Sentinel errors for store operations.
var (
	ErrKeyNotFound  = errors.New("note not found")
	ErrLoadFailed   = errors.New("note load failed")
	ErrNotDirectory = errors.New("notes path is not a directory")
	ErrTooLarge     = errors.New("note exceeds size limit")
)
