package request

import (
	"fmt"
	"strings"

	"kids-carpool/internal/domain/carpool"
)

// Status is a ride request status as stored in the `ride_requests` table.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

var ErrInvalidStatus = fmt.Errorf("%w: invalid request status", carpool.ErrValidation)

// ParseStatus normalizes (uppercases+trims) and validates a status string.
func ParseStatus(in string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether status is one of the allowed request status constants.
func (status Status) Valid() bool {
	switch status {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the Status.
func (status Status) String() string {
	return string(status)
}

// CanTransitionTo specifies if the status can transition to the next status.
// ACCEPTED is quasi-terminal: it may still be reversed to CANCELLED, which
// frees the reserved seat.
func (status Status) CanTransitionTo(next Status) bool {
	switch status {
	case StatusPending:
		return next == StatusAccepted || next == StatusRejected || next == StatusCancelled

	case StatusAccepted:
		return next == StatusCancelled

	case StatusRejected, StatusCancelled:
		return false

	default:
		return false
	}
}

// Terminal indicates if no further transition is reachable from status.
func (status Status) Terminal() bool {
	return status == StatusRejected || status == StatusCancelled
}
