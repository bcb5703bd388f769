package iorderrepo

import (
	"context"
	"time"

	"github.com/roomtab/webhook-svc/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	CompleteBySession(ctx context.Context, sessionID string, updatedAt time.Time) (int64, error)
	QueryBySession(ctx context.Context, sessionID string) ([]order.Order, error)
}
