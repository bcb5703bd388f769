package reconcilersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roomtab/webhook-svc/internal/resolver"
	"github.com/roomtab/webhook-svc/internal/service/models/audit"
	"github.com/roomtab/webhook-svc/internal/service/models/event"
)

// HandleOrderEvent processes order.created / order.updated deliveries.
// The event is always audit-recorded; the session closes only when the
// order reached a terminal state on the provider side.
func (s *ReconcilerService) HandleOrderEvent(ctx context.Context, env *event.Envelope) error {
	ord, err := event.NormalizeOrder(env.Data.Object)
	if err != nil {
		return fmt.Errorf("failed to normalize order event: %w", err)
	}

	// Some event versions carry only the order id. Read the full order
	// back from the provider; the webhook can arrive before the order is
	// queryable, so a miss is not fatal.
	if ord.ID != "" && len(ord.LineItems) == 0 && len(ord.Metadata) == 0 {
		full, err := s.provider.RetrieveOrder(ctx, ord.ID)
		if err != nil {
			slog.Warn("Order not yet readable from provider", "order_id", ord.ID, "error", err)
		} else {
			ord = full
		}
	}

	match := s.resolve(ctx, ord, env.Type)
	s.recordTransaction(ctx, env, ord, env.EventID, orderAmount(ord), orderCurrency(ord), match)

	if match == nil {
		return fmt.Errorf("order %s: %w", ord.ID, resolver.ErrUnresolved)
	}
	if !ord.Completed() {
		return nil
	}

	return s.CloseSession(ctx, match.SessionID)
}

// HandlePaymentEvent processes payment.created deliveries. A payment
// against a session's catalog item settles the tab, so a resolved payment
// always implies closure.
func (s *ReconcilerService) HandlePaymentEvent(ctx context.Context, env *event.Envelope) error {
	pay, err := event.NormalizePayment(env.Data.Object)
	if err != nil {
		return fmt.Errorf("failed to normalize payment event: %w", err)
	}

	if pay.OrderID == "" {
		s.recordTransaction(ctx, env, &event.Order{LocationID: pay.LocationID}, pay.ID, pay.AmountCents, pay.Currency, nil)

		return fmt.Errorf("payment %s: %w", pay.ID, ErrNoOrderReference)
	}

	ord, err := s.provider.RetrieveOrder(ctx, pay.OrderID)
	if err != nil {
		s.recordTransaction(ctx, env, &event.Order{ID: pay.OrderID, LocationID: pay.LocationID}, pay.ID, pay.AmountCents, pay.Currency, nil)

		return fmt.Errorf("failed to retrieve order %s for payment %s: %w", pay.OrderID, pay.ID, err)
	}

	match := s.resolve(ctx, ord, env.Type)
	s.recordTransaction(ctx, env, ord, pay.ID, pay.AmountCents, pay.Currency, match)

	if match == nil {
		return fmt.Errorf("payment %s: %w", pay.ID, resolver.ErrUnresolved)
	}

	return s.CloseSession(ctx, match.SessionID)
}

// HandleCatalogEvent throttles the downstream full-catalog refresh. The
// provider emits one event per modified item, so the debouncer blocks this
// dispatch until the minimum spacing is satisfied.
func (s *ReconcilerService) HandleCatalogEvent(ctx context.Context, env *event.Envelope) error {
	s.recordWebhook(ctx, env)

	if err := s.debouncer.Wait(ctx); err != nil {
		return fmt.Errorf("catalog refresh debounce interrupted: %w", err)
	}
	if err := s.catalog.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh catalog: %w", err)
	}

	return nil
}

// HandleInventoryEvent records inventory changes for the audit trail.
func (s *ReconcilerService) HandleInventoryEvent(ctx context.Context, env *event.Envelope) error {
	s.recordWebhook(ctx, env)

	return nil
}

// HandleUnknownEvent is the forward-compatible default: unrecognized event
// types are audited and otherwise ignored.
func (s *ReconcilerService) HandleUnknownEvent(ctx context.Context, env *event.Envelope) error {
	slog.Info("Ignoring unrecognized event type", "event_type", env.Type)
	s.recordWebhook(ctx, env)

	return nil
}

// resolve runs the cascade and logs an unresolved order loudly enough for
// manual reconciliation: it is a real order that cannot be attributed.
func (s *ReconcilerService) resolve(ctx context.Context, ord *event.Order, eventType string) *resolver.Match {
	match, err := s.resolver.Resolve(ctx, ord)
	if err != nil {
		slog.Error("Order could not be attributed to a session",
			"event_type", eventType,
			"order_id", ord.ID,
			"reference", ord.Reference,
			"error", err,
		)

		return nil
	}

	// Best effort: fill in the room number for the audit record when the
	// winning tier did not learn it.
	if match.RoomNumber == "" {
		if sess, err := s.sessionRepo.GetByID(ctx, match.SessionID); err == nil && sess != nil {
			match.RoomNumber = sess.RoomNumber
		}
	}

	return match
}

// recordTransaction writes the transaction-shaped audit row. Audit
// persistence never fails the dispatch: losing a row beats triggering a
// provider redelivery storm.
func (s *ReconcilerService) recordTransaction(
	ctx context.Context,
	env *event.Envelope,
	ord *event.Order,
	transactionID string,
	amountCents int64,
	currency string,
	match *resolver.Match,
) {
	rec := audit.TransactionRecord{
		TransactionID:   transactionID,
		ProviderOrderID: ord.ID,
		LocationID:      ord.LocationID,
		AmountCents:     amountCents,
		Currency:        currency,
		Payload:         env.Raw,
		CreatedAt:       time.Now(),
	}
	if refs := ord.CatalogRefs(); len(refs) > 0 {
		rec.CatalogItemID = refs[0]
	}
	if match != nil {
		rec.OrderSessionID = match.SessionID
		rec.RoomNumber = match.RoomNumber
	}

	if err := s.auditRepo.InsertTransaction(ctx, rec); err != nil {
		slog.Error("Failed to persist transaction audit record",
			"event_type", env.Type,
			"order_id", ord.ID,
			"error", err,
		)
	}
}

// recordWebhook writes the generic audit row for non-transaction events.
func (s *ReconcilerService) recordWebhook(ctx context.Context, env *event.Envelope) {
	ord, err := event.NormalizeOrder(env.Data.Object)
	if err != nil {
		ord = &event.Order{}
	}

	rec := audit.WebhookRecord{
		EventType:       env.Type,
		ProviderOrderID: ord.ID,
		LocationID:      ord.LocationID,
		Payload:         env.Raw,
		CreatedAt:       time.Now(),
	}

	if err := s.auditRepo.InsertWebhook(ctx, rec); err != nil {
		slog.Error("Failed to persist webhook audit record", "event_type", env.Type, "error", err)
	}
}

func orderAmount(ord *event.Order) int64 {
	var total int64
	for _, item := range ord.LineItems {
		total += item.AmountCents
	}

	return total
}

func orderCurrency(ord *event.Order) string {
	for _, item := range ord.LineItems {
		if item.Currency != "" {
			return item.Currency
		}
	}

	return ""
}
