package agent

import "errors"

// Sentinel errors for completion requests.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrEmptyResponse  = errors.New("completion returned no choices")
	ErrInvalidRole    = errors.New("invalid message role")
)
