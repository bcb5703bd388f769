package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/roomtab/webhook-svc/internal/service/models/event"
	"github.com/roomtab/webhook-svc/internal/service/models/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionStore struct {
	sessions []session.Session
	err      error
}

func (f *fakeSessionStore) QueryActive(
	_ context.Context,
	filter *session.QuerySessionsModel,
) ([]session.Session, error) {
	if f.err != nil {
		return nil, f.err
	}

	var result []session.Session
	for _, s := range f.sessions {
		if filter.ActiveOnly && !s.IsActive {
			continue
		}
		if filter.RoomNumber != "" && s.RoomNumber != filter.RoomNumber {
			continue
		}
		if len(filter.CatalogRefs) > 0 && !matchesRefs(s, filter.CatalogRefs) {
			continue
		}
		result = append(result, s)
	}

	return result, nil
}

func matchesRefs(s session.Session, refs []string) bool {
	for _, ref := range refs {
		if s.CatalogItemID == ref || s.CatalogVariationID == ref {
			return true
		}
	}

	return false
}

func TestResolver_MetadataTierWins(t *testing.T) {
	// The order carries both a metadata session id and a conflicting
	// catalog reference; tier 1 must win.
	store := &fakeSessionStore{sessions: []session.Session{
		{ID: "other-session", CatalogItemID: "cat-1", RoomNumber: "101", IsActive: true},
	}}
	r := New(store)

	match, err := r.Resolve(context.Background(), &event.Order{
		ID:       "o-1",
		Metadata: map[string]string{MetadataSessionKey: "123456789012345678901"},
		LineItems: []event.LineItem{
			{Name: "latte", CatalogObjectID: "cat-1"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901", match.SessionID)
	assert.Equal(t, "metadata", match.Tier)
}

func TestResolver_CatalogRefTier(t *testing.T) {
	t.Run("single match resolves", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []session.Session{
			{ID: "s-1", CatalogItemID: "cat-1", RoomNumber: "305", IsActive: true},
		}}
		r := New(store)

		match, err := r.Resolve(context.Background(), &event.Order{
			LineItems: []event.LineItem{{Name: "latte", CatalogObjectID: "cat-1"}},
		})

		require.NoError(t, err)
		assert.Equal(t, "s-1", match.SessionID)
		assert.Equal(t, "305", match.RoomNumber)
		assert.Equal(t, "catalog_ref", match.Tier)
	})

	t.Run("variation id also matches", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []session.Session{
			{ID: "s-1", CatalogVariationID: "var-1", IsActive: true},
		}}
		r := New(store)

		match, err := r.Resolve(context.Background(), &event.Order{
			LineItems: []event.LineItem{{CatalogObjectID: "var-1"}},
		})

		require.NoError(t, err)
		assert.Equal(t, "s-1", match.SessionID)
	})

	t.Run("ambiguous match falls through", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []session.Session{
			{ID: "s-1", CatalogItemID: "cat-1", IsActive: true},
			{ID: "s-2", CatalogVariationID: "cat-1", IsActive: true},
		}}
		r := New(store)

		_, err := r.Resolve(context.Background(), &event.Order{
			LineItems: []event.LineItem{{CatalogObjectID: "cat-1"}},
		})

		assert.ErrorIs(t, err, ErrUnresolved)
	})

	t.Run("inactive sessions are ignored", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []session.Session{
			{ID: "s-1", CatalogItemID: "cat-1", IsActive: false},
		}}
		r := New(store)

		_, err := r.Resolve(context.Background(), &event.Order{
			LineItems: []event.LineItem{{CatalogObjectID: "cat-1"}},
		})

		assert.ErrorIs(t, err, ErrUnresolved)
	})
}

func TestResolver_ItemNameTier(t *testing.T) {
	r := New(&fakeSessionStore{})

	match, err := r.Resolve(context.Background(), &event.Order{
		LineItems: []event.LineItem{
			{Name: "espresso"},
			{Name: "fg#305-123456789012345678901"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901", match.SessionID)
	assert.Equal(t, "305", match.RoomNumber)
	assert.Equal(t, "item_name", match.Tier)
}

func TestResolver_ItemNameTier_RejectsShortToken(t *testing.T) {
	r := New(&fakeSessionStore{})

	_, err := r.Resolve(context.Background(), &event.Order{
		LineItems: []event.LineItem{{Name: "fg#305-12345"}},
	})

	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestResolver_RoomReferenceTier(t *testing.T) {
	t.Run("exactly one active session", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []session.Session{
			{ID: "s-1", RoomNumber: "305", IsActive: true},
		}}
		r := New(store)

		match, err := r.Resolve(context.Background(), &event.Order{Reference: "305"})

		require.NoError(t, err)
		assert.Equal(t, "s-1", match.SessionID)
		assert.Equal(t, "room_reference", match.Tier)
	})

	t.Run("ambiguous room refuses to guess", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []session.Session{
			{ID: "s-1", RoomNumber: "305", IsActive: true},
			{ID: "s-2", RoomNumber: "305", IsActive: true},
		}}
		r := New(store)

		_, err := r.Resolve(context.Background(), &event.Order{Reference: "305"})

		assert.ErrorIs(t, err, ErrUnresolved)
	})

	t.Run("falls back to reference id", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []session.Session{
			{ID: "s-1", RoomNumber: "41", IsActive: true},
		}}
		r := New(store)

		match, err := r.Resolve(context.Background(), &event.Order{ReferenceID: "41"})

		require.NoError(t, err)
		assert.Equal(t, "s-1", match.SessionID)
	})
}

func TestResolver_Unresolved(t *testing.T) {
	r := New(&fakeSessionStore{})

	_, err := r.Resolve(context.Background(), &event.Order{ID: "o-1"})

	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestResolver_TierErrorDoesNotMaskLowerTier(t *testing.T) {
	// Store failures break tiers 2 and 4, but tier 3 still resolves from
	// the item name alone.
	store := &fakeSessionStore{err: errors.New("store down")}
	r := New(store)

	match, err := r.Resolve(context.Background(), &event.Order{
		LineItems: []event.LineItem{
			{Name: "fg#12-123456789012345678901", CatalogObjectID: "cat-1"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "item_name", match.Tier)
	assert.Equal(t, "123456789012345678901", match.SessionID)
}
