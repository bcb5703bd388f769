package reconcilersvc

import (
	"context"
	"errors"

	"github.com/roomtab/webhook-svc/internal/dal/interfaces/iauditrepo"
	"github.com/roomtab/webhook-svc/internal/dal/interfaces/iorderrepo"
	"github.com/roomtab/webhook-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/roomtab/webhook-svc/internal/dal/interfaces/iroomlinkrepo"
	"github.com/roomtab/webhook-svc/internal/dal/interfaces/isessionrepo"
	"github.com/roomtab/webhook-svc/internal/dal/postgres"
	"github.com/roomtab/webhook-svc/internal/dal/uow"
	"github.com/roomtab/webhook-svc/internal/debounce"
	"github.com/roomtab/webhook-svc/internal/provider"
	"github.com/roomtab/webhook-svc/internal/resolver"
	"github.com/roomtab/webhook-svc/internal/service/models/event"
)

// ErrNoOrderReference marks a payment event that carries no order id at
// all, so there is nothing to resolve against.
var ErrNoOrderReference = errors.New("payment event carries no order reference")

// sessionResolver maps a normalized order to a session.
type sessionResolver interface {
	Resolve(ctx context.Context, ord *event.Order) (*resolver.Match, error)
}

// unitOfWork groups the repositories that take part in the close
// transition under one transaction.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	SessionRepository() isessionrepo.ISessionRepository
	OrderRepository() iorderrepo.IOrderRepository
	RoomLinkRepository() iroomlinkrepo.IRoomLinkRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// ReconcilerService reconciles provider webhook events against order
// sessions: it audits every accepted event, resolves order/payment events
// to a session, and drives the idempotent close transition.
type ReconcilerService struct {
	pgClient    *postgres.Client
	sessionRepo isessionrepo.ISessionRepository
	auditRepo   iauditrepo.IAuditRepository
	provider    provider.API
	catalog     provider.CatalogRefresher
	resolver    sessionResolver
	debouncer   *debounce.Debouncer
	newUOW      func() unitOfWork
}

// option is a function that configures the ReconcilerService.
type option func(*ReconcilerService)

// MustNewReconcilerService creates a new ReconcilerService.
func MustNewReconcilerService(opts ...option) *ReconcilerService {
	s := &ReconcilerService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.newUOW == nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the ReconcilerService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *ReconcilerService) {
		s.pgClient = pgClient
	}
}

// WithSessionRepository sets the session repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSessionRepository(repo isessionrepo.ISessionRepository) option {
	return func(s *ReconcilerService) {
		s.sessionRepo = repo
	}
}

// WithAuditRepository sets the audit repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(repo iauditrepo.IAuditRepository) option {
	return func(s *ReconcilerService) {
		s.auditRepo = repo
	}
}

// WithProviderClient sets the payment-provider API client.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProviderClient(api provider.API) option {
	return func(s *ReconcilerService) {
		s.provider = api
	}
}

// WithCatalogRefresher sets the Product service catalog refresher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalogRefresher(catalog provider.CatalogRefresher) option {
	return func(s *ReconcilerService) {
		s.catalog = catalog
	}
}

// WithResolver sets the session resolver.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithResolver(r sessionResolver) option {
	return func(s *ReconcilerService) {
		s.resolver = r
	}
}

// WithDebouncer sets the catalog-sync debouncer.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDebouncer(d *debounce.Debouncer) option {
	return func(s *ReconcilerService) {
		s.debouncer = d
	}
}

// WithUnitOfWorkFactory overrides transaction creation, used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *ReconcilerService) {
		s.newUOW = factory
	}
}
