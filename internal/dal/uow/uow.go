package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/roomtab/webhook-svc/internal/dal/interfaces/iorderrepo"
	"github.com/roomtab/webhook-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/roomtab/webhook-svc/internal/dal/interfaces/iroomlinkrepo"
	"github.com/roomtab/webhook-svc/internal/dal/interfaces/isessionrepo"
	"github.com/roomtab/webhook-svc/internal/dal/postgres"
	orderrepo "github.com/roomtab/webhook-svc/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/roomtab/webhook-svc/internal/dal/repositories/outbox/postgres"
	roomlinkrepo "github.com/roomtab/webhook-svc/internal/dal/repositories/roomlink/postgres"
	sessionrepo "github.com/roomtab/webhook-svc/internal/dal/repositories/session/postgres"
)

type unitOfWork struct {
	client       *postgres.Client
	tx           pgx.Tx
	sessionRepo  isessionrepo.ISessionRepository
	orderRepo    iorderrepo.IOrderRepository
	roomLinkRepo iroomlinkrepo.IRoomLinkRepository
	outboxRepo   ioutboxrepo.IOutboxRepository
}

func (u *unitOfWork) SessionRepository() isessionrepo.ISessionRepository {
	return u.sessionRepo
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) RoomLinkRepository() iroomlinkrepo.IRoomLinkRepository {
	return u.roomLinkRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	pool := client.Pool()

	return &unitOfWork{
		client:       client,
		sessionRepo:  sessionrepo.NewSessionRepository(pool),
		orderRepo:    orderrepo.NewOrderRepository(pool),
		roomLinkRepo: roomlinkrepo.NewRoomLinkRepository(pool),
		outboxRepo:   outboxrepo.NewOutboxRepository(pool),
	}
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.sessionRepo = sessionrepo.NewSessionRepository(tx)
	u.orderRepo = orderrepo.NewOrderRepository(tx)
	u.roomLinkRepo = roomlinkrepo.NewRoomLinkRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Rollback(ctx)
}
