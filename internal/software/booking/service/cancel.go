package service

import (
	"context"
	"fmt"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/request"
)

// Cancel withdraws a request. The requester may cancel their own PENDING or
// ACCEPTED request; the ride owner may cancel an ACCEPTED one (kicking the
// booking). Cancelling an ACCEPTED request releases its seat in the same
// transaction. A second cancel fails the state machine and therefore never
// releases a second seat.
func (service *bookingService) Cancel(ctx context.Context, requestID, actorID string) (*request.Request, error) {
	var req *request.Request

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		req, err = service.requestRepo.GetByID(txCtx, requestID)
		if err != nil {
			return err
		}

		if req.RequesterID != actorID {
			r, err := service.rideRepo.GetByID(txCtx, req.RideID)
			if err != nil {
				return err
			}
			if r.DriverID != actorID || !req.Accepted() {
				return fmt.Errorf("%w: only the requester, or the ride owner for an accepted request, can cancel", carpool.ErrUnauthorized)
			}
		}

		wasAccepted := req.Accepted()
		if err := req.Cancel(); err != nil {
			return err
		}

		if err := service.requestRepo.UpdateStatus(txCtx, req.ID, req.Status, req.UpdatedAt); err != nil {
			return err
		}

		if wasAccepted {
			return service.catalog.ReleaseSeat(txCtx, req.RideID)
		}
		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "request_cancel_failed", "Failed to cancel ride request", err, map[string]any{
			"request_id": requestID,
			"actor_id":   actorID,
		})
		return nil, err
	}

	service.afterTransition(ctx, req, "request_cancelled",
		fmt.Sprintf("Request %s cancelled", req.ID))

	return req, nil
}
