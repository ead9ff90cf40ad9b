package ledger

import "errors"

// Error taxonomy for ledger operations. Callers classify failures with
// errors.Is; the wrapped message carries the human-readable detail.
var (
	// ErrInvalidInput marks missing or malformed required fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate unique key (user email).
	ErrConflict = errors.New("conflict")
)
