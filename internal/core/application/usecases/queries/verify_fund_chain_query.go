package queries

import (
	"errors"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrVerifyFundChainQueryIsNotConstructed = errors.New(
	"VerifyFundChainQuery must be created via NewVerifyFundChainQuery constructor",
)

// VerifyFundChainQuery re-checks every record of a tenant's fund log.
type VerifyFundChainQuery struct {
	tenantID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewVerifyFundChainQuery(tenantID kernel.UUID) (VerifyFundChainQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return VerifyFundChainQuery{}, errs.NewValueIsRequiredErrorWithCause("tenant_id", err)
	}
	return VerifyFundChainQuery{tenantID: tenantID, guard: guard.NewConstructorGuard()}, nil
}

func (q VerifyFundChainQuery) Validate() error {
	return q.guard.Validate(ErrVerifyFundChainQueryIsNotConstructed)
}

func (q VerifyFundChainQuery) TenantID() kernel.UUID { return q.tenantID }

// VerifyFundChainQueryResponse compares the recomputed balance with the stored
// one. BalanceMatches is only meaningful for a valid chain.
type VerifyFundChainQueryResponse struct {
	TenantID       kernel.UUID
	Report         fund.ChainReport
	StoredBalance  kernel.Money
	BalanceMatches bool
}
