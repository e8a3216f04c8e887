package commands

import (
	"context"
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/keylock"
)

// DefaultLedgerLockTimeout bounds how long a fund write waits for its tenant lane.
const DefaultLedgerLockTimeout = 5 * time.Second

// Lanes serializes writers in-process. Orders and refund requests are
// non-queuing: a second writer fails fast with a ConflictError. Tenant fund
// writes queue for at most the ledger timeout and then fail with a
// LockTimeoutError.
//
// One Lanes value must be shared by every handler of the process.
type Lanes struct {
	orders        *keylock.Registry
	refunds       *keylock.Registry
	tenants       *keylock.Registry
	ledgerTimeout time.Duration
}

func NewLanes(ledgerTimeout time.Duration) *Lanes {
	if ledgerTimeout <= 0 {
		ledgerTimeout = DefaultLedgerLockTimeout
	}
	return &Lanes{
		orders:        keylock.NewRegistry(),
		refunds:       keylock.NewRegistry(),
		tenants:       keylock.NewRegistry(),
		ledgerTimeout: ledgerTimeout,
	}
}

func (l *Lanes) lockOrder(orderID kernel.UUID) (func(), error) {
	release, ok := l.orders.TryAcquire(orderID.String())
	if !ok {
		return nil, errs.NewConflictError("order", orderID.String(), "another operation on this order is in flight")
	}
	return release, nil
}

func (l *Lanes) lockRefund(refundRequestID kernel.UUID) (func(), error) {
	release, ok := l.refunds.TryAcquire(refundRequestID.String())
	if !ok {
		return nil, errs.NewConflictError("refund_request", refundRequestID.String(), "this refund request is already being processed")
	}
	return release, nil
}

// lockTenant returns ctx's error unchanged when the caller gave up first.
func (l *Lanes) lockTenant(ctx context.Context, tenantID kernel.UUID) (func(), error) {
	release, err := l.tenants.Acquire(ctx, tenantID.String(), l.ledgerTimeout)
	if errors.Is(err, keylock.ErrTimeout) {
		return nil, errs.NewLockTimeoutError("insurance_fund", tenantID.String(), l.ledgerTimeout)
	}
	if err != nil {
		return nil, err
	}
	return release, nil
}
