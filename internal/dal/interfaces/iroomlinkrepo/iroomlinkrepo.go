package iroomlinkrepo

import (
	"context"

	"github.com/roomtab/webhook-svc/internal/service/models/roomlink"
)

// IRoomLinkRepository is an interface for the room link postgres repository.
type IRoomLinkRepository interface {
	DeactivateBySession(ctx context.Context, sessionID string) ([]roomlink.RoomLink, error)
}
