package ports

import (
	"context"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
)

// LedgerRepository is the append-only store of insurance fund transactions.
type LedgerRepository interface {
	// Append stores tx. A sequence already taken for the tenant is reported
	// as a ConflictError and nothing is written.
	Append(ctx context.Context, tx *fund.Transaction) error

	// Last returns the tenant's most recent transaction, or nil when the
	// tenant has none.
	Last(ctx context.Context, tenantID kernel.UUID) (*fund.Transaction, error)

	// RefundRequestTotals sums what was withdrawn for a refund request and
	// what was contributed back for it.
	RefundRequestTotals(ctx context.Context, tenantID, refundRequestID kernel.UUID) (withdrawn, restored kernel.Money, err error)

	// HasOrderContribution reports whether an accrual contribution for the
	// order exists. Refund compensations carrying the order id do not count.
	HasOrderContribution(ctx context.Context, orderID kernel.UUID) (bool, error)
}
