package errors

import "errors"

var (
	// requested entity is not found.
	ErrMissing = errors.New("missing")

	// requested entity is found more than expected.
	ErrTooMuch = errors.New("found too much")

	// the request does not satisfy validation. Nothing is written.
	ErrInvalid = errors.New("invalid")

	// the write lost a race against a concurrent writer.
	// The caller may re-read and retry.
	ErrConflict = errors.New("conflict")

	// stored data breaks a domain invariant.
	// Such records are rejected, never coerced into a valid shape.
	ErrConsistencyViolation = errors.New("consistency violation")
)
