package resolver

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/roomtab/webhook-svc/internal/service/models/event"
	"github.com/roomtab/webhook-svc/internal/service/models/session"
)

// ErrUnresolved is returned when every tier of the cascade fails to map an
// event to a session. The event is still audit-recorded by the caller; the
// log entry is what prompts manual reconciliation.
var ErrUnresolved = errors.New("order could not be resolved to a session")

// MetadataSessionKey is the metadata field the ordering front end attaches
// to every provider order it creates. The provider round-trips metadata
// untouched, so its presence is authoritative.
const MetadataSessionKey = "session_id"

// itemNamePattern matches the correlation token embedded in generated
// catalog item names: <prefix>#<room>-<21-digit session id>.
var itemNamePattern = regexp.MustCompile(`#(\d+)-(\d{21})$`)

// SessionStore is the subset of the session repository the cascade needs.
type SessionStore interface {
	QueryActive(ctx context.Context, filter *session.QuerySessionsModel) ([]session.Session, error)
}

// Match is a successful resolution: the session id, the room number when a
// tier learned it, and the name of the tier that won.
type Match struct {
	SessionID  string
	RoomNumber string
	Tier       string
}

// Strategy is one tier of the cascade: a pure function from a normalized
// order to an optional match. Tiers are evaluated in slice order and the
// first match wins.
type Strategy struct {
	Name    string
	Resolve func(ctx context.Context, ord *event.Order) (*Match, error)
}

// Resolver maps a normalized provider order to exactly one internal
// session via a strict-priority strategy cascade.
type Resolver struct {
	strategies []Strategy
}

// New creates a Resolver with the standard four tiers, most authoritative
// first.
func New(store SessionStore) *Resolver {
	return &Resolver{
		strategies: []Strategy{
			{Name: "metadata", Resolve: resolveByMetadata},
			{Name: "catalog_ref", Resolve: resolveByCatalogRefs(store)},
			{Name: "item_name", Resolve: resolveByItemName},
			{Name: "room_reference", Resolve: resolveByRoomReference(store)},
		},
	}
}

// Resolve runs the cascade. Later tiers are not consulted once a tier
// produces a match. Tier errors are logged and treated as "no match" so a
// store outage in one tier cannot mask a lower-tier hit.
func (r *Resolver) Resolve(ctx context.Context, ord *event.Order) (*Match, error) {
	for _, strategy := range r.strategies {
		match, err := strategy.Resolve(ctx, ord)
		if err != nil {
			slog.Error("Resolution tier failed", "tier", strategy.Name, "order_id", ord.ID, "error", err)
			continue
		}
		if match != nil {
			match.Tier = strategy.Name

			return match, nil
		}
	}

	return nil, ErrUnresolved
}

// resolveByMetadata returns the session id the application itself attached
// to the order, verbatim.
func resolveByMetadata(_ context.Context, ord *event.Order) (*Match, error) {
	if id, ok := ord.Metadata[MetadataSessionKey]; ok && id != "" {
		return &Match{SessionID: id}, nil
	}

	return nil, nil
}

// resolveByCatalogRefs looks for exactly one active session whose stored
// catalog item or variation id matches any catalog reference on the
// order's line items.
func resolveByCatalogRefs(store SessionStore) func(context.Context, *event.Order) (*Match, error) {
	return func(ctx context.Context, ord *event.Order) (*Match, error) {
		refs := ord.CatalogRefs()
		if len(refs) == 0 {
			return nil, nil
		}

		sessions, err := store.QueryActive(ctx, &session.QuerySessionsModel{
			CatalogRefs: refs,
			ActiveOnly:  true,
		})
		if err != nil {
			return nil, err
		}
		if len(sessions) != 1 {
			return nil, nil
		}

		return &Match{SessionID: sessions[0].ID, RoomNumber: sessions[0].RoomNumber}, nil
	}
}

// resolveByItemName parses the correlation token out of line item display
// names. This is the last-resort channel for orders whose catalog item was
// deleted before the webhook's read-back happened.
func resolveByItemName(_ context.Context, ord *event.Order) (*Match, error) {
	for _, item := range ord.LineItems {
		groups := itemNamePattern.FindStringSubmatch(item.Name)
		if groups == nil {
			continue
		}

		return &Match{RoomNumber: groups[1], SessionID: groups[2]}, nil
	}

	return nil, nil
}

// resolveByRoomReference treats the order's free-text reference as a room
// number. It only matches when exactly one active session exists for that
// room; zero or several means the tier refuses to guess. Several active
// sessions for one room also violates the per-room invariant, which is
// worth surfacing on its own.
func resolveByRoomReference(store SessionStore) func(context.Context, *event.Order) (*Match, error) {
	return func(ctx context.Context, ord *event.Order) (*Match, error) {
		room := ord.Reference
		if room == "" {
			room = ord.ReferenceID
		}
		if room == "" {
			return nil, nil
		}

		sessions, err := store.QueryActive(ctx, &session.QuerySessionsModel{
			RoomNumber: room,
			ActiveOnly: true,
		})
		if err != nil {
			return nil, err
		}
		if len(sessions) > 1 {
			slog.Warn("Multiple active sessions for one room", "room_number", room, "count", len(sessions))

			return nil, nil
		}
		if len(sessions) == 0 {
			return nil, nil
		}

		return &Match{SessionID: sessions[0].ID, RoomNumber: room}, nil
	}
}
