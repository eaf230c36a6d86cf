package service

import (
	"context"
	"fmt"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/request"
)

// ListByRide returns all requests targeting a ride. Only the ride's driver
// may see them.
func (service *bookingService) ListByRide(ctx context.Context, rideID, actorID string) ([]*request.Request, error) {
	var reqs []*request.Request

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		r, err := service.rideRepo.GetByID(txCtx, rideID)
		if err != nil {
			return err
		}
		if r.DriverID != actorID {
			return fmt.Errorf("%w: only the ride owner can list its requests", carpool.ErrUnauthorized)
		}

		reqs, err = service.requestRepo.ListByRide(txCtx, rideID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// ListByRequester returns all requests a parent has submitted.
func (service *bookingService) ListByRequester(ctx context.Context, requesterID string) ([]*request.Request, error) {
	var reqs []*request.Request

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		reqs, err = service.requestRepo.ListByRequester(txCtx, requesterID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reqs, nil
}
