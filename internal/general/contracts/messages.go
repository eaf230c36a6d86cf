package contracts

import "time"

// Envelope adds cross-cutting headers all messages may carry.
type Envelope struct {
	CorrelationID string    `json:"correlation_id,omitempty"` // correlation for tracing
	Producer      string    `json:"producer,omitempty"`       // producer service name
	SentAt        time.Time `json:"sent_at,omitempty"`        // ISO-8601 send time (UTC)
}

// RideStatusMessage is published after a ride changes status.
// Routing key: "ride.status.{status}" on ExchangeCarpoolTopic.
type RideStatusMessage struct {
	RideID    string    `json:"ride_id"`
	DriverID  string    `json:"driver_id"`
	Status    string    `json:"status"` // ACTIVE|COMPLETED|CANCELLED
	Timestamp time.Time `json:"timestamp"`
	Envelope
}

// BookingStatusMessage is published after a request transition commits.
// Routing key: "booking.status.{status}" on ExchangeCarpoolTopic.
type BookingStatusMessage struct {
	RequestID      string    `json:"request_id"`
	RideID         string    `json:"ride_id"`
	RequesterID    string    `json:"requester_id"`
	Status         string    `json:"status"` // PENDING|ACCEPTED|REJECTED|CANCELLED
	SeatsAvailable int       `json:"seats_available"`
	Timestamp      time.Time `json:"timestamp"`
	Envelope
}

// RatingRecordedMessage is published after a rating row commits.
// Routing key: "rating.recorded" on ExchangeCarpoolTopic.
type RatingRecordedMessage struct {
	RatingID  string    `json:"rating_id"`
	RatedID   string    `json:"rated_id"`
	RideID    string    `json:"ride_id"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
	Envelope
}
