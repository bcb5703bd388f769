package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/roomtab/webhook-svc/internal/dal/postgres"
	"github.com/roomtab/webhook-svc/internal/service/models/audit"
)

// AuditRepository implements the append-only audit repository for
// PostgreSQL. Rows are inserted once per accepted event and never updated.
type AuditRepository struct {
	conn postgres.Querier
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(conn postgres.Querier) *AuditRepository {
	return &AuditRepository{
		conn: conn,
	}
}

// InsertTransaction records an order/payment event with its derived
// correlation fields.
func (r *AuditRepository) InsertTransaction(ctx context.Context, rec audit.TransactionRecord) error {
	query, args, err := sq.Insert("transaction_audits").
		Columns(
			"transaction_id",
			"provider_order_id",
			"catalog_item_id",
			"location_id",
			"amount_cents",
			"currency",
			"order_session_id",
			"room_number",
			"payload",
			"created_at",
		).
		Values(
			rec.TransactionID,
			rec.ProviderOrderID,
			rec.CatalogItemID,
			rec.LocationID,
			rec.AmountCents,
			rec.Currency,
			rec.OrderSessionID,
			rec.RoomNumber,
			rec.Payload,
			rec.CreatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert transaction audit: %w", err)
	}

	return nil
}

// InsertWebhook records any other accepted event type verbatim.
func (r *AuditRepository) InsertWebhook(ctx context.Context, rec audit.WebhookRecord) error {
	query, args, err := sq.Insert("webhook_audits").
		Columns(
			"event_type",
			"provider_order_id",
			"location_id",
			"payload",
			"created_at",
		).
		Values(
			rec.EventType,
			rec.ProviderOrderID,
			rec.LocationID,
			rec.Payload,
			rec.CreatedAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert webhook audit: %w", err)
	}

	return nil
}
