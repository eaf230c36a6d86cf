package service

import (
	"context"
	"fmt"
	"time"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/general/contracts"
)

// SetStatus moves a ride through its lifecycle (ACTIVE -> COMPLETED or
// CANCELLED). Only the owning driver may change a ride's status.
func (service *catalogService) SetStatus(ctx context.Context, rideID string, next ride.Status, actorID string) (*ride.Ride, error) {
	var updated *ride.Ride

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		r, err := service.rideRepo.GetByID(txCtx, rideID)
		if err != nil {
			return err
		}

		if r.DriverID != actorID {
			return fmt.Errorf("%w: only the ride owner can change its status", carpool.ErrUnauthorized)
		}

		if err := r.SetStatus(next); err != nil {
			return err
		}

		if err := service.rideRepo.UpdateStatus(txCtx, r.ID, r.Status, r.UpdatedAt); err != nil {
			return err
		}
		updated = r

		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "ride_status_change_failed", "Failed to change ride status", err, map[string]any{
			"ride_id":  rideID,
			"next":     next.String(),
			"actor_id": actorID,
		})
		return nil, err
	}

	service.invalidateListings(ctx, updated)

	if err := service.publishRideStatus(ctx, contracts.RideStatusMessage{
		RideID:    updated.ID,
		DriverID:  updated.DriverID,
		Status:    updated.Status.String(),
		Timestamp: time.Now().UTC(),
		Envelope: contracts.Envelope{
			Producer: "carpool-service",
			SentAt:   time.Now().UTC(),
		},
	}); err != nil {
		service.logger.Error(ctx, "ride_status_publish_failed", "Failed to publish ride status to RabbitMQ", err, map[string]any{
			"ride_id": updated.ID,
		})
	}

	service.logger.Info(ctx, "ride_status_changed",
		fmt.Sprintf("Ride %s is now %s", updated.ID, updated.Status),
		map[string]any{
			"ride_id": updated.ID,
			"status":  updated.Status.String(),
		},
	)

	return updated, nil
}
