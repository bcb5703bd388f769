package reconcilersvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/roomtab/webhook-svc/internal/service/models/outbox"
	"github.com/roomtab/webhook-svc/internal/service/models/roomlink"
	"github.com/spf13/viper"
)

// closedNotification is the message published for every room link when its
// session closes.
type closedNotification struct {
	SessionID       string    `json:"sessionId"`
	RoomNumber      string    `json:"roomNumber"`
	MessengerUserID string    `json:"messengerUserId"`
	ClosedAt        time.Time `json:"closedAt"`
}

// CloseSession applies the close transition exactly once. The guard lives
// inside the conditional UPDATE, so however many duplicate or concurrent
// events trigger this, one caller wins and the rest observe a no-op. The
// row transitions, order completion, room link deactivation and
// notification enqueueing commit together; the provider-side catalog
// disable runs after commit and its failure is only logged, because the
// session must not stay open on account of a collaborator outage.
func (s *ReconcilerService) CloseSession(ctx context.Context, sessionID string) error {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin close transaction: %w", err)
	}

	now := time.Now()

	sess, err := work.SessionRepository().Close(ctx, sessionID, now)
	if err != nil {
		_ = work.Rollback(ctx)

		return fmt.Errorf("failed to close session %s: %w", sessionID, err)
	}
	if sess == nil {
		_ = work.Rollback(ctx)
		slog.Info("Session already closed, ignoring duplicate trigger", "session_id", sessionID)

		return nil
	}

	if _, err := work.OrderRepository().CompleteBySession(ctx, sessionID, now); err != nil {
		_ = work.Rollback(ctx)

		return fmt.Errorf("failed to complete orders for session %s: %w", sessionID, err)
	}

	links, err := work.RoomLinkRepository().DeactivateBySession(ctx, sessionID)
	if err != nil {
		_ = work.Rollback(ctx)

		return fmt.Errorf("failed to deactivate room links for session %s: %w", sessionID, err)
	}

	for _, link := range links {
		msg, err := s.notificationMessage(sess.RoomNumber, link, now)
		if err != nil {
			_ = work.Rollback(ctx)

			return fmt.Errorf("failed to build closure notification: %w", err)
		}
		if err := work.OutboxRepository().Insert(ctx, msg); err != nil {
			_ = work.Rollback(ctx)

			return fmt.Errorf("failed to enqueue closure notification: %w", err)
		}
	}

	if err := work.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit close transaction: %w", err)
	}

	slog.Info("Session closed",
		"session_id", sessionID,
		"room_number", sess.RoomNumber,
		"notified_links", len(links),
	)

	if sess.CatalogItemID != "" {
		if err := s.provider.DisableCatalogItem(ctx, sess.CatalogItemID); err != nil {
			slog.Error("Failed to disable provider catalog item",
				"session_id", sessionID,
				"catalog_item_id", sess.CatalogItemID,
				"error", err,
			)
		}
	}

	return nil
}

func (s *ReconcilerService) notificationMessage(
	roomNumber string,
	link roomlink.RoomLink,
	closedAt time.Time,
) (outbox.Message, error) {
	payload, err := json.Marshal(closedNotification{
		SessionID:       link.OrderSessionID,
		RoomNumber:      roomNumber,
		MessengerUserID: link.MessengerUserID,
		ClosedAt:        closedAt,
	})
	if err != nil {
		return outbox.Message{}, err
	}

	queue := viper.GetString("rabbitmq.notifications.queue")
	if queue == "" {
		queue = "tab.session.closed"
	}

	maxRetries := viper.GetInt("rabbitmq.notifications.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	now := time.Now()

	return outbox.Message{
		MessageID:   uuid.NewString(),
		QueueName:   queue,
		RoutingKey:  queue,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}, nil
}
