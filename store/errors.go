package store

import "errors"

// Workflow error taxonomy. Every error the store returns wraps one of
// these sentinels so the HTTP layer can map them with errors.Is; all of
// them are recoverable at the caller and surface as a rejected operation
// with a reason.
var (
	// ErrNotFound is a reference to a missing entity.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is an illegal status change.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrLocked is a mutation attempted after the assignment latch.
	ErrLocked = errors.New("assignments locked")

	// ErrInvalidReference is an assignment or result pointing outside
	// its CRF's sample or parameter set, or a CS CRF referencing a
	// quotation that is missing or unapproved.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrOutOfSequence is an exhausted identifier counter. The 3-digit
	// sequence field hard-fails at 999; it never wraps or widens.
	ErrOutOfSequence = errors.New("sequence counter exhausted")

	// ErrInvalidInput is a rejected boundary value, such as a
	// non-positive sample count or an unknown status name.
	ErrInvalidInput = errors.New("invalid input")
)
