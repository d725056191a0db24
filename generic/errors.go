/*
errors.go - Centralized error types for the reconciler

PURPOSE:
  All error types in one place for consistency and discoverability.
  The attendance package and the stores wrap these errors with context.

ERROR CATEGORIES:
  1. Input errors - Events or roster documents that violate the contract
  2. Invariant errors - One resolved day per worker and date
  3. Store errors - Missing runs

USAGE:
  if errors.Is(err, generic.ErrInvalidEvent) {
      // reject the request with 400
  }

SEE ALSO:
  - attendance/engine.go: Validates events
  - attendance/archive.go: Enforces day uniqueness
  - api/handlers.go: Maps errors to HTTP status
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidEvent is returned when a raw event is missing a timestamp or
	// carries an unknown checkpoint class or direction.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidRoster is returned when a shift roster cannot be built.
	ErrInvalidRoster = errors.New("invalid roster")

	// ErrInvalidRules is returned when tolerance rules are inconsistent.
	ErrInvalidRules = errors.New("invalid tolerance rules")

	// ErrDuplicateDay is returned when two resolved days share a worker and date.
	ErrDuplicateDay = errors.New("duplicate resolved day")

	// ErrRunNotFound is returned when a referenced run doesn't exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidEventError identifies the offending event by its input position.
type InvalidEventError struct {
	Index    int
	WorkerID WorkerID
	Reason   string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid event #%d (worker %q): %s", e.Index, e.WorkerID, e.Reason)
}

func (e *InvalidEventError) Unwrap() error {
	return ErrInvalidEvent
}

// DuplicateDayError provides details about a day uniqueness violation.
type DuplicateDayError struct {
	WorkerID WorkerID
	Date     TimePoint
}

func (e *DuplicateDayError) Error() string {
	return fmt.Sprintf("day already resolved: %s for worker %s", e.Date, e.WorkerID)
}

func (e *DuplicateDayError) Unwrap() error {
	return ErrDuplicateDay
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidEvent) ||
		errors.Is(err, ErrInvalidRoster) ||
		errors.Is(err, ErrInvalidRules) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
