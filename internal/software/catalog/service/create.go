package service

import (
	"context"
	"fmt"
	"time"

	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/general/contracts"
	"kids-carpool/internal/ports"
)

// Create publishes a new ride in ACTIVE state with all seats available.
func (service *catalogService) Create(ctx context.Context, driverID string, in ports.CreateRideInput) (*ride.Ride, error) {
	var created *ride.Ride

	err := service.uow.WithinTx(ctx, func(txCtx context.Context) error {
		// the school must exist before a ride can point at it
		if _, err := service.schoolRepo.GetByID(txCtx, in.SchoolID); err != nil {
			return err
		}

		r, err := ride.NewRide(driverID, in.SchoolID, in.RideDate, in.RideTime,
			in.PickupLocation, in.DropoffLocation, in.Notes, in.TotalSeats)
		if err != nil {
			return err
		}

		if err := service.rideRepo.Create(txCtx, r); err != nil {
			return err
		}
		created = r

		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "ride_create_failed", "Failed to create ride", err, map[string]any{
			"driver_id": driverID,
			"school_id": in.SchoolID,
		})
		return nil, err
	}

	service.invalidateListings(ctx, created)

	// fan-out: publish initial ACTIVE status (best-effort, outside tx)
	if err := service.publishRideStatus(ctx, contracts.RideStatusMessage{
		RideID:    created.ID,
		DriverID:  created.DriverID,
		Status:    created.Status.String(),
		Timestamp: time.Now().UTC(),
		Envelope: contracts.Envelope{
			Producer: "carpool-service",
			SentAt:   time.Now().UTC(),
		},
	}); err != nil {
		service.logger.Error(ctx, "ride_status_publish_failed", "Failed to publish ride status to RabbitMQ", err, map[string]any{
			"ride_id": created.ID,
		})
	}

	service.logger.Info(ctx, "ride_created", fmt.Sprintf("Ride %s created", created.ID), map[string]any{
		"ride_id":     created.ID,
		"driver_id":   created.DriverID,
		"school_id":   created.SchoolID,
		"total_seats": created.TotalSeats,
	})

	return created, nil
}
