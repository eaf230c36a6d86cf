package ports

// EventPublisher abstracts the message broker's publish side.
// Implemented by rabbitmq.MQPublisher.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}
