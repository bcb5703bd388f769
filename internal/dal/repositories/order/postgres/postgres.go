package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/roomtab/webhook-svc/internal/dal/postgres"
	"github.com/roomtab/webhook-svc/internal/service/models/order"
)

// OrderRepository implements the order repository for PostgreSQL.
type OrderRepository struct {
	conn postgres.Querier
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(conn postgres.Querier) *OrderRepository {
	return &OrderRepository{
		conn: conn,
	}
}

// CompleteBySession transitions every still-open order of a session to
// Completed. Returns the number of orders updated.
func (r *OrderRepository) CompleteBySession(
	ctx context.Context,
	sessionID string,
	updatedAt time.Time,
) (int64, error) {
	query, args, err := sq.Update("orders").
		Set("status", order.StatusCompleted).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"order_session_id": sessionID, "status": order.StatusOpen}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to complete orders: %w", err)
	}

	return tag.RowsAffected(), nil
}

// QueryBySession retrieves all orders belonging to a session.
func (r *OrderRepository) QueryBySession(
	ctx context.Context,
	sessionID string,
) ([]order.Order, error) {
	query, args, err := sq.Select(
		"id",
		"order_session_id",
		"status",
		"created_at",
		"updated_at",
	).
		From("orders").
		Where(sq.Eq{"order_session_id": sessionID}).
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var o order.Order
		err := rows.Scan(
			&o.ID,
			&o.OrderSessionID,
			&o.Status,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
