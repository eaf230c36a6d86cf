package request

import (
	"fmt"
	"strings"
	"time"

	"kids-carpool/internal/domain/carpool"
)

// Request is the domain entity corresponding to the `ride_requests` table:
// one parent asking for one seat on one ride for a specific child.
type Request struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	// References
	RideID      string
	RequesterID string
	ChildID     string

	// Payload
	PickupAddress string

	// State
	Status Status
}

var (
	ErrRideRequired      = fmt.Errorf("%w: ride id is required", carpool.ErrValidation)
	ErrRequesterRequired = fmt.Errorf("%w: requester id is required", carpool.ErrValidation)
	ErrChildRequired     = fmt.Errorf("%w: child id is required", carpool.ErrValidation)
	ErrPickupRequired    = fmt.Errorf("%w: pickup address is required", carpool.ErrValidation)
)

// NewRequest creates a new request in PENDING state.
func NewRequest(rideID, requesterID, childID, pickupAddress string) (*Request, error) {
	if rideID = strings.TrimSpace(rideID); rideID == "" {
		return nil, ErrRideRequired
	}
	if requesterID = strings.TrimSpace(requesterID); requesterID == "" {
		return nil, ErrRequesterRequired
	}
	if childID = strings.TrimSpace(childID); childID == "" {
		return nil, ErrChildRequired
	}
	if pickupAddress = strings.TrimSpace(pickupAddress); pickupAddress == "" {
		return nil, ErrPickupRequired
	}

	now := time.Now().UTC()
	return &Request{
		CreatedAt:     now,
		UpdatedAt:     now,
		RideID:        rideID,
		RequesterID:   requesterID,
		ChildID:       childID,
		PickupAddress: pickupAddress,
		Status:        StatusPending,
	}, nil
}

// Accept transitions PENDING -> ACCEPTED. The caller must have reserved a
// seat on the ride first; the two writes commit as one unit.
func (req *Request) Accept() error {
	return req.transition(StatusAccepted)
}

// Reject transitions PENDING -> REJECTED.
func (req *Request) Reject() error {
	return req.transition(StatusRejected)
}

// Cancel transitions PENDING or ACCEPTED -> CANCELLED.
func (req *Request) Cancel() error {
	return req.transition(StatusCancelled)
}

// Accepted reports whether the request currently holds a seat.
func (req *Request) Accepted() bool { return req.Status == StatusAccepted }

func (req *Request) transition(next Status) error {
	if !req.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: request cannot move %s -> %s", carpool.ErrInvalidTransition, req.Status, next)
	}
	req.Status = next
	req.UpdatedAt = time.Now().UTC()
	return nil
}
