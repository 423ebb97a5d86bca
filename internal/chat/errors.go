package chat

import "errors"

// Domain-specific errors for the chat package.
var (
	// ErrNotAccepting is returned by Submit when the lifecycle state gates
	// update acceptance (not yet running, or stopping).
	ErrNotAccepting = errors.New("gateway is not accepting updates")
)
