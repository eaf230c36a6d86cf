package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/request"
	"kids-carpool/internal/ports"

	"github.com/jackc/pgx/v5"
)

// RequestRepo persists ride requests using pgx and plain SQL.
type RequestRepo struct{}

// NewRequestRepo constructs a new RequestRepo.
func NewRequestRepo() ports.RideRequestRepository {
	return &RequestRepo{}
}

const requestColumns = `
	id, created_at, updated_at, ride_id, requester_id, child_id,
	pickup_address, status`

// Create inserts a new request row in PENDING state.
func (repo *RequestRepo) Create(ctx context.Context, req *request.Request) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO ride_requests (ride_id, requester_id, child_id, pickup_address, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`,
		req.RideID,
		req.RequesterID,
		req.ChildID,
		req.PickupAddress,
		req.Status.String(),
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

// GetByID fetches a request by primary key. The row is locked for the
// remainder of the transaction so the status check and the later status
// write behave as one step under concurrent accepts.
func (repo *RequestRepo) GetByID(ctx context.Context, id string) (*request.Request, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `SELECT `+requestColumns+` FROM ride_requests WHERE id = $1 FOR UPDATE`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: ride request %s", carpool.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get ride request: %w", err)
	}
	return req, nil
}

// ListByRide returns every request targeting the given ride, oldest first.
func (repo *RequestRepo) ListByRide(ctx context.Context, rideID string) ([]*request.Request, error) {
	return repo.list(ctx, `SELECT `+requestColumns+` FROM ride_requests WHERE ride_id = $1 ORDER BY created_at ASC`, rideID)
}

// ListByRequester returns every request made by the given user, newest first.
func (repo *RequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]*request.Request, error) {
	return repo.list(ctx, `SELECT `+requestColumns+` FROM ride_requests WHERE requester_id = $1 ORDER BY created_at DESC`, requesterID)
}

// UpdateStatus writes a new status for the request.
func (repo *RequestRepo) UpdateStatus(ctx context.Context, id string, status request.Status, ts time.Time) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE ride_requests SET status = $2, updated_at = $3 WHERE id = $1
	`, id, status.String(), ts)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ride request %s", carpool.ErrNotFound, id)
	}
	return nil
}

// HasAcceptedRequester reports whether userID holds an ACCEPTED request on
// the given ride.
func (repo *RequestRepo) HasAcceptedRequester(ctx context.Context, rideID, userID string) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM ride_requests
			WHERE ride_id = $1 AND requester_id = $2 AND status = 'ACCEPTED'
		)
	`, rideID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check accepted requester: %w", err)
	}
	return exists, nil
}

// ----- helpers -----

func (repo *RequestRepo) list(ctx context.Context, query string, arg any) ([]*request.Request, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query ride requests: %w", err)
	}
	defer rows.Close()

	var out []*request.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ride request: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func scanRequest(row pgx.Row) (*request.Request, error) {
	var req request.Request
	var status string
	err := row.Scan(
		&req.ID, &req.CreatedAt, &req.UpdatedAt, &req.RideID,
		&req.RequesterID, &req.ChildID, &req.PickupAddress, &status,
	)
	if err != nil {
		return nil, err
	}
	req.Status = request.Status(status)
	return &req, nil
}
