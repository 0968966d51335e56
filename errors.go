package exchange

import "errors"

// Failures are terminal for the user action that triggered them; there is no
// retry anywhere. Callers match with errors.Is and surface a message.
var (
	// ErrValidation rejects an operation before any mutation (non-positive
	// amount or rate, missing currency).
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientFunds rejects a sell whose amount exceeds the net
	// active holdings for the currency.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound signals a void target that is missing or already voided.
	ErrNotFound = errors.New("not found")

	// ErrPermission refuses a restricted operation for a non-privileged actor.
	ErrPermission = errors.New("permission denied")
)
