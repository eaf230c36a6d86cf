package service

import (
	"context"

	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/general/metrics"
)

// TryReserveSeat claims one seat on the ride through a single conditional
// update. It returns false, without error, when the ride is not ACTIVE or no
// seat is free; under concurrent callers at most available_seats of them see
// true. Runs inside the caller's transaction scope.
func (service *catalogService) TryReserveSeat(ctx context.Context, rideID string) (bool, error) {
	won, err := service.rideRepo.TryReserveSeat(ctx, rideID)
	if err != nil {
		return false, err
	}

	if won {
		metrics.SeatReservationsTotal.WithLabelValues("won").Inc()
		service.invalidateSeatListings(ctx, rideID)
	} else {
		metrics.SeatReservationsTotal.WithLabelValues("lost").Inc()
	}
	return won, nil
}

// ReleaseSeat returns one previously reserved seat. The conditional update
// refuses to raise available_seats above total_seats; hitting that guard
// means a release without a matching reservation, which is a bug upstream.
func (service *catalogService) ReleaseSeat(ctx context.Context, rideID string) error {
	released, err := service.rideRepo.ReleaseSeat(ctx, rideID)
	if err != nil {
		return err
	}
	if !released {
		return ride.ErrSeatOverflow
	}
	service.invalidateSeatListings(ctx, rideID)
	return nil
}

// invalidateSeatListings drops the cached listings a seat change stales.
// Listing entries embed AvailableSeats, so every seat mutation invalidates
// like a status change does.
func (service *catalogService) invalidateSeatListings(ctx context.Context, rideID string) {
	r, err := service.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		service.logger.Error(ctx, "listing_invalidate_failed", "Failed to reload ride for cache invalidation", err, map[string]any{
			"ride_id": rideID,
		})
		return
	}
	service.invalidateListings(ctx, r)
}
