package service

import (
	"context"
	"fmt"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/request"
	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/ports"
)

// Submit records a new seat request in PENDING state. Submitting never
// touches the seat count; seats only move on Accept.
func (service *bookingService) Submit(ctx context.Context, requesterID string, in ports.SubmitRequestInput) (*request.Request, error) {
	req, err := request.NewRequest(in.RideID, requesterID, in.ChildID, in.PickupAddress)
	if err != nil {
		return nil, err
	}

	err = service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		r, err := service.rideRepo.GetByID(txCtx, req.RideID)
		if err != nil {
			return err
		}

		if r.Status != ride.StatusActive {
			return fmt.Errorf("%w: ride %s is not accepting requests", carpool.ErrInvalidTransition, r.ID)
		}
		// advisory only: a seat may still free up later, but a request
		// against a full ride is refused at the door
		if r.AvailableSeats == 0 {
			return fmt.Errorf("%w: ride %s is full", carpool.ErrCapacityExceeded, r.ID)
		}
		if r.DriverID == requesterID {
			return fmt.Errorf("%w: drivers cannot request seats on their own ride", carpool.ErrValidation)
		}

		// the child must exist and belong to the requester
		child, err := service.childRepo.GetByID(txCtx, req.ChildID)
		if err != nil {
			return err
		}
		if child.ParentID != requesterID {
			return fmt.Errorf("%w: child %s does not belong to the requester", carpool.ErrUnauthorized, child.ID)
		}

		return service.requestRepo.Create(txCtx, req)
	})
	if err != nil {
		service.logger.Error(ctx, "request_submit_failed", "Failed to submit ride request", err, map[string]any{
			"ride_id":      in.RideID,
			"requester_id": requesterID,
		})
		return nil, err
	}

	service.afterTransition(ctx, req, "request_submitted",
		fmt.Sprintf("Request %s submitted for ride %s", req.ID, req.RideID))

	return req, nil
}
