package ride

import (
	"fmt"
	"strings"
	"time"

	"kids-carpool/internal/domain/carpool"
)

// Ride is the domain entity corresponding to the `rides` table.
// AvailableSeats is only ever mutated through ReserveSeat/ReleaseSeat so the
// 0 <= AvailableSeats <= TotalSeats invariant holds at all times.
type Ride struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Actors & references
	DriverID string
	SchoolID string

	// Schedule (opaque strings, as entered by the driver)
	RideDate string
	RideTime string

	// Route
	PickupLocation  string
	DropoffLocation string
	Notes           string

	// Capacity & state
	TotalSeats     int
	AvailableSeats int
	Status         Status
}

var (
	ErrDriverRequired   = fmt.Errorf("%w: driver id is required", carpool.ErrValidation)
	ErrSchoolRequired   = fmt.Errorf("%w: school id is required", carpool.ErrValidation)
	ErrScheduleRequired = fmt.Errorf("%w: ride date and time are required", carpool.ErrValidation)
	ErrRouteRequired    = fmt.Errorf("%w: pickup and dropoff locations are required", carpool.ErrValidation)
	ErrSeatCount        = fmt.Errorf("%w: total seats must be at least 1", carpool.ErrValidation)
	ErrSeatOverflow     = fmt.Errorf("%w: all seats are already free", carpool.ErrInvalidTransition)
)

// NewRide creates a new ride in ACTIVE state with all seats available.
func NewRide(driverID, schoolID, rideDate, rideTime, pickup, dropoff, notes string, totalSeats int) (*Ride, error) {
	if driverID = strings.TrimSpace(driverID); driverID == "" {
		return nil, ErrDriverRequired
	}
	if schoolID = strings.TrimSpace(schoolID); schoolID == "" {
		return nil, ErrSchoolRequired
	}
	if strings.TrimSpace(rideDate) == "" || strings.TrimSpace(rideTime) == "" {
		return nil, ErrScheduleRequired
	}
	if strings.TrimSpace(pickup) == "" || strings.TrimSpace(dropoff) == "" {
		return nil, ErrRouteRequired
	}
	if totalSeats < 1 {
		return nil, ErrSeatCount
	}

	now := time.Now().UTC()
	return &Ride{
		CreatedAt:       now,
		UpdatedAt:       now,
		DriverID:        driverID,
		SchoolID:        schoolID,
		RideDate:        strings.TrimSpace(rideDate),
		RideTime:        strings.TrimSpace(rideTime),
		PickupLocation:  strings.TrimSpace(pickup),
		DropoffLocation: strings.TrimSpace(dropoff),
		Notes:           strings.TrimSpace(notes),
		TotalSeats:      totalSeats,
		AvailableSeats:  totalSeats,
		Status:          StatusActive,
	}, nil
}

// SetStatus transitions the ride status along the allowed table.
func (ride *Ride) SetStatus(next Status) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if !ride.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: ride cannot move %s -> %s", carpool.ErrInvalidTransition, ride.Status, next)
	}
	ride.Status = next
	ride.touch()
	return nil
}

// ReserveSeat takes one seat if the ride is active and a seat is free.
// It reports false instead of failing so the caller decides the outcome.
func (ride *Ride) ReserveSeat() bool {
	if ride.Status != StatusActive || ride.AvailableSeats <= 0 {
		return false
	}
	ride.AvailableSeats--
	ride.touch()
	return true
}

// ReleaseSeat frees one previously reserved seat. The counter never
// exceeds TotalSeats.
func (ride *Ride) ReleaseSeat() error {
	if ride.AvailableSeats >= ride.TotalSeats {
		return ErrSeatOverflow
	}
	ride.AvailableSeats++
	ride.touch()
	return nil
}

// Full reports whether no seat is currently available.
func (ride *Ride) Full() bool { return ride.AvailableSeats <= 0 }

// Validate mirrors the DB constraints on the seat counter.
func (ride *Ride) Validate() error {
	if ride.TotalSeats < 1 {
		return ErrSeatCount
	}
	if ride.AvailableSeats < 0 || ride.AvailableSeats > ride.TotalSeats {
		return fmt.Errorf("%w: available seats %d outside [0, %d]", carpool.ErrValidation, ride.AvailableSeats, ride.TotalSeats)
	}
	if !ride.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (ride *Ride) touch() {
	ride.UpdatedAt = time.Now().UTC()
}
