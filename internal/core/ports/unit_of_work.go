package ports

import (
	"context"
)

// UnitOfWorkFactory creates a UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Client code owns the
// lifecycle: Begin, then Commit, with a deferred Rollback that is a no-op
// after a successful Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Repositories bound to the transaction started by Begin, or to the plain
	// connection when no transaction is active.
	OrderRepository() OrderRepository
	LedgerRepository() LedgerRepository
	TimelineRepository() TimelineRepository
	RefundSagaRepository() RefundSagaRepository
}
