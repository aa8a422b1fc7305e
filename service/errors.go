package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the payment core. Callers branch on these with
// errors.Is; the wrapped message carries the offending identifier.
var (
	// ErrNotFound indicates an unknown bond or payment event id
	ErrNotFound = errors.New("not found")

	// ErrNoHoldings indicates no positive-share holdings exist for the
	// bond as of the event's date, so there is nothing to allocate
	ErrNoHoldings = errors.New("no positive holdings for bond")

	// ErrAlreadyGenerated indicates generate was called for an event that
	// already has payment records; the caller must recalculate instead
	ErrAlreadyGenerated = errors.New("payment records already generated")

	// ErrConcurrentModification indicates a lock or uniqueness conflict
	// with a concurrent generate/recalculate; safe to retry
	ErrConcurrentModification = errors.New("concurrent modification of payment records")
)

// RowError describes a single rejected row in a statement upload. Row
// errors are collected, not fatal: the remaining rows still apply.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}
