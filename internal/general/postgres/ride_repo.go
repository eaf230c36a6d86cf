package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/ports"

	"github.com/jackc/pgx/v5"
)

// RideRepo persists rides using pgx and plain SQL.
type RideRepo struct{}

// NewRideRepo constructs a new RideRepo.
func NewRideRepo() ports.RideRepository {
	return &RideRepo{}
}

const rideColumns = `
	id, created_at, updated_at, driver_id, school_id, ride_date, ride_time,
	pickup_location, dropoff_location, notes, total_seats, available_seats, status`

// Create inserts a new ride row with all seats available.
func (repo *RideRepo) Create(ctx context.Context, r *ride.Ride) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO rides (
			driver_id, school_id, ride_date, ride_time,
			pickup_location, dropoff_location, notes,
			total_seats, available_seats, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`,
		r.DriverID,
		r.SchoolID,
		r.RideDate,
		r.RideTime,
		r.PickupLocation,
		r.DropoffLocation,
		r.Notes,
		r.TotalSeats,
		r.AvailableSeats,
		r.Status.String(),
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// GetByID fetches a ride by primary key.
func (repo *RideRepo) GetByID(ctx context.Context, id string) (*ride.Ride, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, id)
	r, err := scanRide(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: ride %s", carpool.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get ride: %w", err)
	}
	return r, nil
}

// ListByDriver returns every ride published by the given driver, newest first.
func (repo *RideRepo) ListByDriver(ctx context.Context, driverID string) ([]*ride.Ride, error) {
	return repo.list(ctx, `SELECT `+rideColumns+` FROM rides WHERE driver_id = $1 ORDER BY created_at DESC`, driverID)
}

// ListBySchool returns rides serving the given school, newest first.
func (repo *RideRepo) ListBySchool(ctx context.Context, schoolID string) ([]*ride.Ride, error) {
	return repo.list(ctx, `SELECT `+rideColumns+` FROM rides WHERE school_id = $1 ORDER BY created_at DESC`, schoolID)
}

// ListByStatus returns rides in the given status, newest first.
func (repo *RideRepo) ListByStatus(ctx context.Context, status ride.Status) ([]*ride.Ride, error) {
	return repo.list(ctx, `SELECT `+rideColumns+` FROM rides WHERE status = $1 ORDER BY created_at DESC`, status.String())
}

// UpdateStatus writes a new status for the ride.
func (repo *RideRepo) UpdateStatus(ctx context.Context, id string, status ride.Status, ts time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE rides SET status = $2, updated_at = $3 WHERE id = $1
	`, id, status.String(), ts)
	if err != nil {
		return fmt.Errorf("update ride status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ride %s", carpool.ErrNotFound, id)
	}
	return nil
}

// TryReserveSeat decrements available_seats in one conditional statement.
// The row-level write lock serializes concurrent reservations on the same
// ride; rides with no free seat (or not ACTIVE) match zero rows and the
// call reports false. The counter can never go negative.
func (repo *RideRepo) TryReserveSeat(ctx context.Context, id string) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET available_seats = available_seats - 1, updated_at = now()
		WHERE id = $1 AND status = 'ACTIVE' AND available_seats > 0
	`, id)
	if err != nil {
		return false, fmt.Errorf("reserve seat: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseSeat increments available_seats in one conditional statement.
// The counter never exceeds total_seats; a no-op release reports false.
func (repo *RideRepo) ReleaseSeat(ctx context.Context, id string) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET available_seats = available_seats + 1, updated_at = now()
		WHERE id = $1 AND available_seats < total_seats
	`, id)
	if err != nil {
		return false, fmt.Errorf("release seat: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ----- helpers -----

func (repo *RideRepo) list(ctx context.Context, query string, arg any) ([]*ride.Ride, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query rides: %w", err)
	}
	defer rows.Close()

	var out []*ride.Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ride: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func scanRide(row pgx.Row) (*ride.Ride, error) {
	var r ride.Ride
	var status string
	err := row.Scan(
		&r.ID, &r.CreatedAt, &r.UpdatedAt, &r.DriverID, &r.SchoolID,
		&r.RideDate, &r.RideTime, &r.PickupLocation, &r.DropoffLocation,
		&r.Notes, &r.TotalSeats, &r.AvailableSeats, &status,
	)
	if err != nil {
		return nil, err
	}
	r.Status = ride.Status(status)
	return &r, nil
}
