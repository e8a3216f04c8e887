// Package commands contains business operations that modify system state.
// Every command follows the same pattern: a validated command value, a
// handler with Handle(ctx, cmd), and a unit of work around persistence.
package commands

import (
	"context"

	"orderledger/internal/core/ports"
)

// Unit of Work interfaces give each handler exactly the repositories it needs.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	LedgerRepoFactory interface {
		LedgerRepository() ports.LedgerRepository
	}

	TimelineRepoFactory interface {
		TimelineRepository() ports.TimelineRepository
	}

	RefundSagaRepoFactory interface {
		RefundSagaRepository() ports.RefundSagaRepository
	}

	// OrderUoW covers operations that change an order and record it on the timeline.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		TimelineRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// LedgerUoW covers appends to the insurance fund.
	LedgerUoW interface {
		TxManager
		LedgerRepoFactory
	}

	LedgerUoWFactory interface {
		Create() LedgerUoW
	}

	// UoW spans every aggregate. Used by the refund flow, which coordinates
	// orders, the fund, the timeline and refund sagas.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil {
	//       return err
	//   }
	//   defer func() { _ = uow.Rollback(ctx) }()
	//
	//   o, err := uow.OrderRepository().Get(ctx, orderID)
	//   // ... mutate, then append to uow.TimelineRepository()
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		LedgerRepoFactory
		TimelineRepoFactory
		RefundSagaRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
