package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/services"
	"orderledger/internal/core/ports"
)

// AccrueOrderContributionsCommandHandler turns completed orders into fund
// contributions using the ContributionPolicy. The existence check runs inside
// the tenant lane, so an order never contributes twice even when two passes
// overlap.
type AccrueOrderContributionsCommandHandler struct {
	uowFactory OrderUoWFactory
	ledger     *Ledger
	policy     services.ContributionPolicy
	logger     *slog.Logger
}

func NewAccrueOrderContributionsCommandHandler(
	uowFactory OrderUoWFactory,
	ledger *Ledger,
	policy services.ContributionPolicy,
	logger *slog.Logger,
) AccrueOrderContributionsCommandHandler {
	return AccrueOrderContributionsCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
		policy:     policy,
		logger:     logger.With("component", "contribution_accrual"),
	}
}

// Handle returns the number of contributions written.
func (h AccrueOrderContributionsCommandHandler) Handle(ctx context.Context, cmd AccrueOrderContributionsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	orders, err := h.uowFactory.Create().OrderRepository().ListCompletedWithoutContribution(ctx, cmd.Limit())
	if err != nil {
		return 0, err
	}

	accrued := 0
	for _, o := range orders {
		tx, err := h.ledger.write(ctx, o.TenantID(), h.accrual(o))
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to accrue order contribution",
				"order_id", o.ID().String(), "tenant_id", o.TenantID().String(), "error", err)
			if ctx.Err() != nil {
				return accrued, ctx.Err()
			}
			continue
		}
		if tx != nil {
			accrued++
		}
	}

	return accrued, nil
}

func (h AccrueOrderContributionsCommandHandler) accrual(o *order.Order) linkBuilder {
	return func(ctx context.Context, repo ports.LedgerRepository, previous *fund.Transaction, now time.Time) (*fund.Transaction, error) {
		exists, err := repo.HasOrderContribution(ctx, o.ID())
		if err != nil || exists {
			return nil, err
		}
		tx, err := h.policy.Accrue(o, previous, now)
		if errors.Is(err, services.ErrNothingToAccrue) {
			return nil, nil //nolint:nilnil // order too small to contribute
		}
		return tx, err
	}
}
