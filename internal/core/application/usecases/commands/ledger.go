package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/ports"
)

// DefaultMinimumBalance is the fund balance below which writes log a warning.
var DefaultMinimumBalance, _ = kernel.MoneyFromInt(5_000_000)

// linkBuilder produces the next transaction of a tenant chain from its current
// tail. It runs inside the tenant lane and the unit of work, so repo reads are
// consistent with the append that follows. Returning a nil transaction means
// there is nothing to write.
type linkBuilder func(ctx context.Context, repo ports.LedgerRepository, previous *fund.Transaction, now time.Time) (*fund.Transaction, error)

// Ledger appends to tenant insurance funds. All writers of the process share
// it, which gives every tenant a single serialized write lane.
//
// Example:
//
//	ledger := commands.NewLedger(uowFactory, lanes, commands.DefaultMinimumBalance, logger)
//	tx, err := ledger.Withdraw(ctx, tenantID, amount, "Refund for ORD-1", refundRequestID, &orderID)
//	if errors.Is(err, errs.ErrInsufficientFunds) {
//	    // nothing was written
//	}
type Ledger struct {
	uowFactory     LedgerUoWFactory
	lanes          *Lanes
	minimumBalance kernel.Money
	logger         *slog.Logger
}

func NewLedger(uowFactory LedgerUoWFactory, lanes *Lanes, minimumBalance kernel.Money, logger *slog.Logger) *Ledger {
	return &Ledger{
		uowFactory:     uowFactory,
		lanes:          lanes,
		minimumBalance: minimumBalance,
		logger:         logger.With("component", "insurance_fund_ledger"),
	}
}

// Contribute appends a contribution. orderID may be nil.
func (l *Ledger) Contribute(ctx context.Context, tenantID kernel.UUID, amount kernel.Money, description string, orderID *kernel.UUID) (*fund.Transaction, error) {
	return l.write(ctx, tenantID, func(_ context.Context, _ ports.LedgerRepository, previous *fund.Transaction, now time.Time) (*fund.Transaction, error) {
		return fund.NewContribution(previous, fund.Entry{
			TenantID:    tenantID,
			Amount:      amount,
			Description: description,
			OrderID:     orderID,
		}, now)
	})
}

// Withdraw appends a withdrawal for a refund request. It fails with an
// InsufficientFundsError, writing nothing, when amount exceeds the balance.
func (l *Ledger) Withdraw(
	ctx context.Context,
	tenantID kernel.UUID,
	amount kernel.Money,
	description string,
	refundRequestID kernel.UUID,
	orderID *kernel.UUID,
) (*fund.Transaction, error) {
	return l.write(ctx, tenantID, func(_ context.Context, _ ports.LedgerRepository, previous *fund.Transaction, now time.Time) (*fund.Transaction, error) {
		return fund.NewWithdrawal(previous, fund.Entry{
			TenantID:        tenantID,
			Amount:          amount,
			Description:     description,
			OrderID:         orderID,
			RefundRequestID: &refundRequestID,
		}, now)
	})
}

// Restore gives back whatever is still withdrawn for refundRequestID, that is
// the sum of its withdrawals minus the sum of contributions already carrying
// it. It returns nil when nothing is outstanding, so calling it again after a
// successful restore never writes a second record.
func (l *Ledger) Restore(ctx context.Context, tenantID, refundRequestID kernel.UUID, orderID *kernel.UUID) (*fund.Transaction, error) {
	return l.write(ctx, tenantID, func(ctx context.Context, repo ports.LedgerRepository, previous *fund.Transaction, now time.Time) (*fund.Transaction, error) {
		withdrawn, restored, err := repo.RefundRequestTotals(ctx, tenantID, refundRequestID)
		if err != nil {
			return nil, err
		}
		outstanding, err := withdrawn.Sub(restored)
		if err != nil || outstanding.IsZero() {
			return nil, nil //nolint:nilnil // nothing outstanding
		}

		return fund.NewContribution(previous, fund.Entry{
			TenantID:        tenantID,
			Amount:          outstanding,
			Description:     fmt.Sprintf("Refund rollback for %s", refundRequestID),
			OrderID:         orderID,
			RefundRequestID: &refundRequestID,
		}, now)
	})
}

// write runs build in the tenant lane. Once the lane is held the write no
// longer observes ctx cancellation: it either commits or fails on its own.
func (l *Ledger) write(ctx context.Context, tenantID kernel.UUID, build linkBuilder) (*fund.Transaction, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	release, err := l.lanes.lockTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx = context.WithoutCancel(ctx)

	uow := l.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.LedgerRepository()
	previous, err := repo.Last(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	tx, err := build(ctx, repo, previous, time.Now())
	if err != nil || tx == nil {
		return nil, err
	}

	if err = repo.Append(ctx, tx); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "insurance fund transaction recorded",
		"tenant_id", tenantID.String(),
		"transaction_id", tx.ID().String(),
		"type", tx.Type().String(),
		"amount", tx.Amount().String(),
		"balance_after", tx.BalanceAfter().String(),
	)
	if tx.BalanceAfter().LessThan(l.minimumBalance) {
		l.logger.WarnContext(ctx, "insurance fund balance below threshold",
			"tenant_id", tenantID.String(),
			"current_balance", tx.BalanceAfter().String(),
			"threshold", l.minimumBalance.String(),
		)
	}

	return tx, nil
}
