package service

import (
	"context"
	"encoding/json"
	"strings"

	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/general/contracts"
)

func cacheKeyDriver(driverID string) string    { return "rides:driver:" + driverID }
func cacheKeySchool(schoolID string) string    { return "rides:school:" + schoolID }
func cacheKeyStatus(status ride.Status) string { return "rides:status:" + status.String() }

// invalidateListings drops every cached listing the given ride can appear in.
// Status listings are dropped wholesale since a status change moves the ride
// between two of them.
func (service *catalogService) invalidateListings(ctx context.Context, r *ride.Ride) {
	service.cache.Invalidate(ctx,
		cacheKeyDriver(r.DriverID),
		cacheKeySchool(r.SchoolID),
		cacheKeyStatus(ride.StatusActive),
		cacheKeyStatus(ride.StatusCompleted),
		cacheKeyStatus(ride.StatusCancelled),
	)
}

// publishRideStatus sends a ride status update to the carpool topic exchange
// using routing key ride.status.{status}, e.g., ride.status.cancelled.
func (service *catalogService) publishRideStatus(ctx context.Context, msg contracts.RideStatusMessage) error {
	routingKey := contracts.RouteRideStatusPrefix + strings.ToLower(msg.Status)

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := service.pub.Publish(contracts.ExchangeCarpoolTopic, routingKey, body); err != nil {
		return err
	}

	service.logger.Info(ctx, "ride_status_published", "Published ride status to RabbitMQ", map[string]any{
		"routing_key": routingKey,
	})

	return nil
}
