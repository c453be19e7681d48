package rides

import "errors"

// Engine errors. Callers match them with errors.Is; every failure returned
// by the usecases wraps exactly one of these or is an unexpected store error.
var (
	ErrNotAuthorized          = errors.New("not authorized")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInsufficientSeats      = errors.New("insufficient seats")
	ErrNotFound               = errors.New("not found")
	ErrAlreadyRated           = errors.New("already rated")
	ErrDuplicateBooking       = errors.New("duplicate active booking")
	ErrNotEligible            = errors.New("not eligible to rate")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrStoreUnavailable       = errors.New("store unavailable")
)
