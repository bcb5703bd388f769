package ioutboxrepo

import (
	"context"
	"time"

	"github.com/roomtab/webhook-svc/internal/service/models/outbox"
)

// IOutboxRepository is an interface for the notification outbox repository.
type IOutboxRepository interface {
	Insert(ctx context.Context, msg outbox.Message) error
	GetPendingMessages(ctx context.Context, limit int) ([]outbox.Message, error)
	Delete(ctx context.Context, id int64) error
	UpdateRetry(ctx context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error
}
