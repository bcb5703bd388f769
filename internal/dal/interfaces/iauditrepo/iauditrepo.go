package iauditrepo

import (
	"context"

	"github.com/roomtab/webhook-svc/internal/service/models/audit"
)

// IAuditRepository is an interface for the append-only audit repository.
type IAuditRepository interface {
	InsertTransaction(ctx context.Context, rec audit.TransactionRecord) error
	InsertWebhook(ctx context.Context, rec audit.WebhookRecord) error
}
