package outbox

import (
	"time"
)

// Message represents a closure notification waiting to be published to
// RabbitMQ, with retry bookkeeping for the outbox worker.
type Message struct {
	ID           int64
	MessageID    string
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}
