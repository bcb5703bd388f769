package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/roomtab/webhook-svc/internal/dal/postgres"
	"github.com/roomtab/webhook-svc/internal/service/models/roomlink"
)

// RoomLinkRepository implements the room link repository for PostgreSQL.
type RoomLinkRepository struct {
	conn postgres.Querier
}

// NewRoomLinkRepository creates a new room link repository.
func NewRoomLinkRepository(conn postgres.Querier) *RoomLinkRepository {
	return &RoomLinkRepository{
		conn: conn,
	}
}

// DeactivateBySession deactivates every active room link of a session and
// returns the links that were deactivated, so the caller can notify the
// linked messenger users.
func (r *RoomLinkRepository) DeactivateBySession(
	ctx context.Context,
	sessionID string,
) ([]roomlink.RoomLink, error) {
	query, args, err := sq.Update("room_links").
		Set("is_active", false).
		Where(sq.Eq{"order_session_id": sessionID, "is_active": true}).
		Suffix("RETURNING id, order_session_id, messenger_user_id, is_active, created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate room links: %w", err)
	}
	defer rows.Close()

	var result []roomlink.RoomLink
	for rows.Next() {
		var link roomlink.RoomLink
		err := rows.Scan(
			&link.ID,
			&link.OrderSessionID,
			&link.MessengerUserID,
			&link.IsActive,
			&link.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room link: %w", err)
		}
		result = append(result, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
