package commands

import (
	"errors"
	"time"

	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrReconcileRefundSagasCommandIsNotConstructed = errors.New(
	"ReconcileRefundSagasCommand must be created via NewReconcileRefundSagasCommand constructor",
)

// ReconcileRefundSagasCommand settles refund sagas left pending or debited,
// for example by a crash between the withdrawal and the order update. Sagas
// touched within staleAfter are assumed to still be in progress.
type ReconcileRefundSagasCommand struct {
	staleAfter time.Duration
	limit      int

	guard guard.ConstructorGuard
}

func NewReconcileRefundSagasCommand(staleAfter time.Duration, limit int) (ReconcileRefundSagasCommand, error) {
	if staleAfter < 0 {
		return ReconcileRefundSagasCommand{}, errs.NewValidationError("stale_after", "must not be negative")
	}
	if limit <= 0 {
		return ReconcileRefundSagasCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "∞")
	}
	return ReconcileRefundSagasCommand{
		staleAfter: staleAfter,
		limit:      limit,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileRefundSagasCommand) Validate() error {
	return c.guard.Validate(ErrReconcileRefundSagasCommandIsNotConstructed)
}

func (c ReconcileRefundSagasCommand) StaleAfter() time.Duration { return c.staleAfter }
func (c ReconcileRefundSagasCommand) Limit() int                { return c.limit }
