package queue

import (
	"photointake/shared/config"
	sharedqueue "photointake/shared/queue"
)

// Connection is an alias to the shared RabbitMQ connection.
type Connection = sharedqueue.Connection

// Publisher is an alias to the shared publisher implementation.
type Publisher = sharedqueue.Publisher

// NewConnection creates a new RabbitMQ connection using the shared implementation.
func NewConnection(cfg config.RabbitMQConfig) (*Connection, error) {
	return sharedqueue.NewConnection(cfg)
}

// NewPublisher creates a new publisher using the shared implementation.
var NewPublisher = sharedqueue.NewPublisher
