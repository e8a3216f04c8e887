package queries

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrGetFundBalanceQueryIsNotConstructed = errors.New(
	"GetFundBalanceQuery must be created via NewGetFundBalanceQuery constructor",
)

type GetFundBalanceQuery struct {
	tenantID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewGetFundBalanceQuery(tenantID kernel.UUID) (GetFundBalanceQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return GetFundBalanceQuery{}, errs.NewValueIsRequiredErrorWithCause("tenant_id", err)
	}
	return GetFundBalanceQuery{tenantID: tenantID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetFundBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetFundBalanceQueryIsNotConstructed)
}

func (q GetFundBalanceQuery) TenantID() kernel.UUID { return q.tenantID }

// GetFundBalanceQueryResponse reports a zero balance and no last transaction
// for a tenant that never used its fund.
type GetFundBalanceQueryResponse struct {
	TenantID          kernel.UUID
	Balance           kernel.Money
	TransactionCount  int64
	LastTransactionAt *time.Time
}
