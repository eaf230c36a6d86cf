package carpool

import "errors"

// Shared failure kinds surfaced by the core services. Handlers match these
// with errors.Is to pick a transport status; domain packages wrap them with
// fmt.Errorf("%w: ...") to add detail without losing the kind.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrValidation        = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrCapacityExceeded  = errors.New("no seats available")
)
