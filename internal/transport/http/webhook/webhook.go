package webhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/roomtab/webhook-svc/internal/service/models/event"
)

// SignatureHeader carries the provider's HMAC digest of the raw body.
const SignatureHeader = "X-Provider-Hmacsha256-Signature"

// verifier checks the delivery signature against the raw body.
type verifier interface {
	Verify(body []byte, header string) bool
}

// service is an interface for the service layer: one handler per event
// type the engine recognizes.
type service interface {
	HandleOrderEvent(ctx context.Context, env *event.Envelope) error
	HandlePaymentEvent(ctx context.Context, env *event.Envelope) error
	HandleCatalogEvent(ctx context.Context, env *event.Envelope) error
	HandleInventoryEvent(ctx context.Context, env *event.Envelope) error
	HandleUnknownEvent(ctx context.Context, env *event.Envelope) error
}

// Handle is the webhook dispatcher: verify signature, parse the envelope,
// route to exactly one per-type handler. Once a delivery is authenticated
// and parsed the response is always 200 — handler failures are logged, not
// surfaced, so a local outage cannot turn into a provider retry storm.
func Handle(w http.ResponseWriter, r *http.Request, verifier verifier, service service) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		slog.Error("Error reading webhook body", "error", err)

		return
	}

	if !verifier.Verify(body, r.Header.Get(SignatureHeader)) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		slog.Warn("Rejected webhook with invalid signature",
			"remote_addr", r.RemoteAddr,
			"body_bytes", len(body),
		)

		return
	}

	env, err := event.ParseEnvelope(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error parsing webhook envelope", "error", err)

		return
	}

	var handlerErr error
	switch env.Type {
	case event.TypeOrderCreated, event.TypeOrderUpdated:
		handlerErr = service.HandleOrderEvent(r.Context(), env)
	case event.TypePaymentCreated:
		handlerErr = service.HandlePaymentEvent(r.Context(), env)
	case event.TypeCatalogUpdated:
		handlerErr = service.HandleCatalogEvent(r.Context(), env)
	case event.TypeInventoryUpdated:
		handlerErr = service.HandleInventoryEvent(r.Context(), env)
	default:
		handlerErr = service.HandleUnknownEvent(r.Context(), env)
	}

	if handlerErr != nil {
		slog.Error("Webhook handler failed",
			"event_type", env.Type,
			"event_id", env.EventID,
			"error", handlerErr,
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"success":true}`))
}
