package common

import "errors"

// Domain error taxonomy. Services return these (possibly wrapped with
// fmt.Errorf and %w); the handler layer maps them to HTTP statuses with
// errors.Is. Anything outside this set is treated as an infrastructure
// failure and surfaces as a 500.
var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidAssignment = errors.New("invalid assignment")
	ErrNotEligible       = errors.New("not eligible")
	ErrAlreadyReviewed   = errors.New("already reviewed")
)
