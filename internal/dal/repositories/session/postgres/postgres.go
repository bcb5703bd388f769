package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/roomtab/webhook-svc/internal/dal/postgres"
	"github.com/roomtab/webhook-svc/internal/service/models/session"
)

var sessionColumns = []string{
	"id",
	"room_number",
	"COALESCE(catalog_item_id, '')",
	"COALESCE(catalog_variation_id, '')",
	"COALESCE(provider_order_id, '')",
	"is_active",
	"status",
	"created_at",
	"closed_at",
}

// SessionRepository implements the session repository for PostgreSQL.
type SessionRepository struct {
	conn postgres.Querier
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(conn postgres.Querier) *SessionRepository {
	return &SessionRepository{
		conn: conn,
	}
}

// GetByID retrieves a session by its id. Returns nil when no session
// exists.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	query, args, err := sq.Select(sessionColumns...).
		From("order_sessions").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var s session.Session
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&s.ID,
		&s.RoomNumber,
		&s.CatalogItemID,
		&s.CatalogVariationID,
		&s.ProviderOrderID,
		&s.IsActive,
		&s.Status,
		&s.CreatedAt,
		&s.ClosedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &s, nil
}

// QueryActive retrieves sessions based on filter criteria.
func (r *SessionRepository) QueryActive(
	ctx context.Context,
	filter *session.QuerySessionsModel,
) ([]session.Session, error) {
	builder := sq.Select(sessionColumns...).
		From("order_sessions").
		PlaceholderFormat(sq.Dollar)

	if filter.ActiveOnly {
		builder = builder.Where(sq.Eq{"is_active": true})
	}
	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.CatalogRefs) > 0 {
		builder = builder.Where(sq.Or{
			sq.Eq{"catalog_item_id": filter.CatalogRefs},
			sq.Eq{"catalog_variation_id": filter.CatalogRefs},
		})
	}
	if filter.RoomNumber != "" {
		builder = builder.Where(sq.Eq{"room_number": filter.RoomNumber})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var result []session.Session
	for rows.Next() {
		var s session.Session
		err := rows.Scan(
			&s.ID,
			&s.RoomNumber,
			&s.CatalogItemID,
			&s.CatalogVariationID,
			&s.ProviderOrderID,
			&s.IsActive,
			&s.Status,
			&s.CreatedAt,
			&s.ClosedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Close performs the idempotent close transition: one conditional update
// guarded on the session still being active. The guard and the transition
// are a single statement so concurrent dispatches for the same session
// race safely; the loser sees no row and gets (nil, nil).
func (r *SessionRepository) Close(
	ctx context.Context,
	id string,
	closedAt time.Time,
) (*session.Session, error) {
	query, args, err := sq.Update("order_sessions").
		Set("status", session.StatusCompleted).
		Set("is_active", false).
		Set("closed_at", closedAt).
		Where(sq.Eq{"id": id, "is_active": true}).
		Suffix("RETURNING id, room_number, COALESCE(catalog_item_id, ''), COALESCE(catalog_variation_id, ''), COALESCE(provider_order_id, ''), is_active, status, created_at, closed_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	var s session.Session
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&s.ID,
		&s.RoomNumber,
		&s.CatalogItemID,
		&s.CatalogVariationID,
		&s.ProviderOrderID,
		&s.IsActive,
		&s.Status,
		&s.CreatedAt,
		&s.ClosedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to close session: %w", err)
	}

	return &s, nil
}
