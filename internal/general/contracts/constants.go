package contracts

// Exchanges
const (
	ExchangeCarpoolTopic = "carpool_topic"
)

// Queues
const (
	QueueRideStatus    = "ride_status"
	QueueBookingStatus = "booking_status"
	QueueRatingEvents  = "rating_events"
)

// Routing patterns
const (
	RouteRideStatusPrefix    = "ride.status."    // {status}
	RouteBookingStatusPrefix = "booking.status." // {status}
	RouteRatingRecorded      = "rating.recorded"
)
