package reconcilersvc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/roomtab/webhook-svc/internal/dal/interfaces/iorderrepo"
	"github.com/roomtab/webhook-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/roomtab/webhook-svc/internal/dal/interfaces/iroomlinkrepo"
	"github.com/roomtab/webhook-svc/internal/dal/interfaces/isessionrepo"
	"github.com/roomtab/webhook-svc/internal/service/models/audit"
	"github.com/roomtab/webhook-svc/internal/service/models/event"
	"github.com/roomtab/webhook-svc/internal/service/models/order"
	"github.com/roomtab/webhook-svc/internal/service/models/outbox"
	"github.com/roomtab/webhook-svc/internal/service/models/roomlink"
	"github.com/roomtab/webhook-svc/internal/service/models/session"
)

var (
	errAuditDown        = errors.New("audit store unavailable")
	errOrderNotReadable = errors.New("order not readable yet")
)

type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  map[string]*session.Session
	closeWins int
}

func newFakeSessionRepo(sessions ...*session.Session) *fakeSessionRepo {
	m := make(map[string]*session.Session, len(sessions))
	for _, s := range sessions {
		m[s.ID] = s
	}

	return &fakeSessionRepo{sessions: m}
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s

	return &copied, nil
}

func (f *fakeSessionRepo) QueryActive(
	_ context.Context,
	filter *session.QuerySessionsModel,
) ([]session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []session.Session
	for _, s := range f.sessions {
		if filter.ActiveOnly && !s.IsActive {
			continue
		}
		if filter.RoomNumber != "" && s.RoomNumber != filter.RoomNumber {
			continue
		}
		if len(filter.CatalogRefs) > 0 {
			matched := false
			for _, ref := range filter.CatalogRefs {
				if s.CatalogItemID == ref || s.CatalogVariationID == ref {
					matched = true
				}
			}
			if !matched {
				continue
			}
		}
		result = append(result, *s)
	}

	return result, nil
}

// Close mirrors the conditional single-row update: the guard and the
// transition happen under one lock, so concurrent callers race the same
// way they do against the database.
func (f *fakeSessionRepo) Close(
	_ context.Context,
	id string,
	closedAt time.Time,
) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[id]
	if !ok || !s.IsActive {
		return nil, nil
	}

	s.IsActive = false
	s.Status = session.StatusCompleted
	s.ClosedAt = &closedAt
	f.closeWins++

	copied := *s

	return &copied, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*order.Order
}

func (f *fakeOrderRepo) CompleteBySession(
	_ context.Context,
	sessionID string,
	updatedAt time.Time,
) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, o := range f.orders {
		if o.OrderSessionID == sessionID && o.Status == order.StatusOpen {
			o.Status = order.StatusCompleted
			o.UpdatedAt = updatedAt
			n++
		}
	}

	return n, nil
}

func (f *fakeOrderRepo) QueryBySession(_ context.Context, sessionID string) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []order.Order
	for _, o := range f.orders {
		if o.OrderSessionID == sessionID {
			result = append(result, *o)
		}
	}

	return result, nil
}

type fakeRoomLinkRepo struct {
	mu    sync.Mutex
	links []*roomlink.RoomLink
}

func (f *fakeRoomLinkRepo) DeactivateBySession(
	_ context.Context,
	sessionID string,
) ([]roomlink.RoomLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []roomlink.RoomLink
	for _, link := range f.links {
		if link.OrderSessionID == sessionID && link.IsActive {
			link.IsActive = false
			result = append(result, *link)
		}
	}

	return result, nil
}

type fakeAuditRepo struct {
	mu           sync.Mutex
	transactions []audit.TransactionRecord
	webhooks     []audit.WebhookRecord
	failInsert   bool
}

func (f *fakeAuditRepo) InsertTransaction(_ context.Context, rec audit.TransactionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failInsert {
		return errAuditDown
	}
	f.transactions = append(f.transactions, rec)

	return nil
}

func (f *fakeAuditRepo) InsertWebhook(_ context.Context, rec audit.WebhookRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failInsert {
		return errAuditDown
	}
	f.webhooks = append(f.webhooks, rec)

	return nil
}

type fakeOutboxRepo struct {
	mu       sync.Mutex
	messages []outbox.Message
}

func (f *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.messages = append(f.messages, msg)

	return nil
}

func (f *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]outbox.Message(nil), f.messages...), nil
}

func (f *fakeOutboxRepo) Delete(_ context.Context, _ int64) error { return nil }

func (f *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

type fakeUOW struct {
	sessionRepo  *fakeSessionRepo
	orderRepo    *fakeOrderRepo
	roomLinkRepo *fakeRoomLinkRepo
	outboxRepo   *fakeOutboxRepo

	mu         sync.Mutex
	begun      int
	committed  int
	rolledBack int
}

func (f *fakeUOW) Begin(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.begun++

	return nil
}

func (f *fakeUOW) Commit(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed++

	return nil
}

func (f *fakeUOW) Rollback(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rolledBack++

	return nil
}

func (f *fakeUOW) SessionRepository() isessionrepo.ISessionRepository { return f.sessionRepo }

func (f *fakeUOW) OrderRepository() iorderrepo.IOrderRepository { return f.orderRepo }

func (f *fakeUOW) RoomLinkRepository() iroomlinkrepo.IRoomLinkRepository { return f.roomLinkRepo }

func (f *fakeUOW) OutboxRepository() ioutboxrepo.IOutboxRepository { return f.outboxRepo }

type fakeProvider struct {
	mu          sync.Mutex
	orders      map[string]*event.Order
	retrieveErr error
	disabled    []string
}

func (f *fakeProvider) RetrieveOrder(_ context.Context, orderID string) (*event.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	ord, ok := f.orders[orderID]
	if !ok {
		return nil, errOrderNotReadable
	}

	return ord, nil
}

func (f *fakeProvider) DisableCatalogItem(_ context.Context, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.disabled = append(f.disabled, itemID)

	return nil
}

type fakeCatalog struct {
	mu        sync.Mutex
	refreshes int
}

func (f *fakeCatalog) Refresh(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.refreshes++

	return nil
}
