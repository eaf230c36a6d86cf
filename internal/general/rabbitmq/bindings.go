package rabbitmq

import (
	"fmt"

	"kids-carpool/internal/general/contracts"

	amqp "github.com/rabbitmq/amqp091-go"
)

func declareTopology(ch *amqp.Channel) error {
	// 1. Exchange
	if err := ch.ExchangeDeclare(contracts.ExchangeCarpoolTopic, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", contracts.ExchangeCarpoolTopic, err)
	}

	// 2. Queues
	queues := []string{
		contracts.QueueRideStatus,
		contracts.QueueBookingStatus,
		contracts.QueueRatingEvents,
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	// 3. Bindings
	bindings := []struct {
		queue      string
		routingKey string
	}{
		{contracts.QueueRideStatus, contracts.RouteRideStatusPrefix + "*"},
		{contracts.QueueBookingStatus, contracts.RouteBookingStatusPrefix + "*"},
		{contracts.QueueRatingEvents, contracts.RouteRatingRecorded},
	}

	for _, b := range bindings {
		if err := ch.QueueBind(b.queue, b.routingKey, contracts.ExchangeCarpoolTopic, false, nil); err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, contracts.ExchangeCarpoolTopic, err)
		}
	}

	return nil
}
