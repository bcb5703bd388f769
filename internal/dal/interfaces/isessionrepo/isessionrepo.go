package isessionrepo

import (
	"context"
	"time"

	"github.com/roomtab/webhook-svc/internal/service/models/session"
)

// ISessionRepository is an interface for the session postgres repository.
type ISessionRepository interface {
	GetByID(ctx context.Context, id string) (*session.Session, error)
	QueryActive(ctx context.Context, filter *session.QuerySessionsModel) ([]session.Session, error)
	Close(ctx context.Context, id string, closedAt time.Time) (*session.Session, error)
}
