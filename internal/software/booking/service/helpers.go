package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"kids-carpool/internal/domain/request"
	"kids-carpool/internal/general/contracts"
	"kids-carpool/internal/general/metrics"
)

// afterTransition handles the post-commit fan-out shared by every request
// transition: metrics, the booking status event and a log line. All of it is
// best-effort; the transaction already committed.
func (service *bookingService) afterTransition(ctx context.Context, req *request.Request, event, msg string) {
	metrics.BookingTransitionsTotal.WithLabelValues(req.Status.String()).Inc()

	seats := -1 // unknown when the re-read fails
	if r, err := service.catalog.Get(ctx, req.RideID); err == nil {
		seats = r.AvailableSeats
	}

	if err := service.publishBookingStatus(ctx, contracts.BookingStatusMessage{
		RequestID:      req.ID,
		RideID:         req.RideID,
		RequesterID:    req.RequesterID,
		Status:         req.Status.String(),
		SeatsAvailable: seats,
		Timestamp:      time.Now().UTC(),
		Envelope: contracts.Envelope{
			Producer: "carpool-service",
			SentAt:   time.Now().UTC(),
		},
	}); err != nil {
		service.logger.Error(ctx, "booking_status_publish_failed", "Failed to publish booking status to RabbitMQ", err, map[string]any{
			"request_id": req.ID,
		})
	}

	service.logger.Info(ctx, event, msg, map[string]any{
		"request_id":   req.ID,
		"ride_id":      req.RideID,
		"requester_id": req.RequesterID,
		"status":       req.Status.String(),
	})
}

// publishBookingStatus sends a booking status update to the carpool topic
// exchange using routing key booking.status.{status}, e.g., booking.status.accepted.
func (service *bookingService) publishBookingStatus(ctx context.Context, msg contracts.BookingStatusMessage) error {
	routingKey := contracts.RouteBookingStatusPrefix + strings.ToLower(msg.Status)

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := service.pub.Publish(contracts.ExchangeCarpoolTopic, routingKey, body); err != nil {
		return err
	}

	service.logger.Info(ctx, "booking_status_published", "Published booking status to RabbitMQ", map[string]any{
		"routing_key": routingKey,
	})

	return nil
}
