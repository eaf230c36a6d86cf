package service

import (
	"context"
	"fmt"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/request"
)

// Accept moves a PENDING request to ACCEPTED. The seat reservation and the
// status write commit atomically: if the conditional seat update loses (ride
// full or no longer ACTIVE), the whole transaction rolls back and the request
// stays PENDING. Only the ride's driver may accept.
func (service *bookingService) Accept(ctx context.Context, requestID, actorID string) (*request.Request, error) {
	var req *request.Request

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		// row-locked load; concurrent accepts of the same request serialize here
		var err error
		req, err = service.requestRepo.GetByID(txCtx, requestID)
		if err != nil {
			return err
		}

		r, err := service.rideRepo.GetByID(txCtx, req.RideID)
		if err != nil {
			return err
		}
		if r.DriverID != actorID {
			return fmt.Errorf("%w: only the ride owner can accept requests", carpool.ErrUnauthorized)
		}

		// state machine first, seat second: a request already decided must
		// not consume a seat
		if err := req.Accept(); err != nil {
			return err
		}

		won, err := service.catalog.TryReserveSeat(txCtx, req.RideID)
		if err != nil {
			return err
		}
		if !won {
			return fmt.Errorf("%w: ride %s has no free seats", carpool.ErrCapacityExceeded, req.RideID)
		}

		return service.requestRepo.UpdateStatus(txCtx, req.ID, req.Status, req.UpdatedAt)
	})
	if err != nil {
		service.logger.Error(ctx, "request_accept_failed", "Failed to accept ride request", err, map[string]any{
			"request_id": requestID,
			"actor_id":   actorID,
		})
		return nil, err
	}

	service.afterTransition(ctx, req, "request_accepted",
		fmt.Sprintf("Request %s accepted", req.ID))

	return req, nil
}

// Reject moves a PENDING request to REJECTED. No seat was held, so no seat
// moves. Only the ride's driver may reject.
func (service *bookingService) Reject(ctx context.Context, requestID, actorID string) (*request.Request, error) {
	var req *request.Request

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		req, err = service.requestRepo.GetByID(txCtx, requestID)
		if err != nil {
			return err
		}

		r, err := service.rideRepo.GetByID(txCtx, req.RideID)
		if err != nil {
			return err
		}
		if r.DriverID != actorID {
			return fmt.Errorf("%w: only the ride owner can reject requests", carpool.ErrUnauthorized)
		}

		if err := req.Reject(); err != nil {
			return err
		}

		return service.requestRepo.UpdateStatus(txCtx, req.ID, req.Status, req.UpdatedAt)
	})
	if err != nil {
		service.logger.Error(ctx, "request_reject_failed", "Failed to reject ride request", err, map[string]any{
			"request_id": requestID,
			"actor_id":   actorID,
		})
		return nil, err
	}

	service.afterTransition(ctx, req, "request_rejected",
		fmt.Sprintf("Request %s rejected", req.ID))

	return req, nil
}
