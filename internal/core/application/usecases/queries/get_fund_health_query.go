package queries

import (
	"errors"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

var ErrGetFundHealthQueryIsNotConstructed = errors.New(
	"GetFundHealthQuery must be created via NewGetFundHealthQuery constructor",
)

type GetFundHealthQuery struct {
	tenantID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewGetFundHealthQuery(tenantID kernel.UUID) (GetFundHealthQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return GetFundHealthQuery{}, errs.NewValueIsRequiredErrorWithCause("tenant_id", err)
	}
	return GetFundHealthQuery{tenantID: tenantID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetFundHealthQuery) Validate() error {
	return q.guard.Validate(ErrGetFundHealthQueryIsNotConstructed)
}

func (q GetFundHealthQuery) TenantID() kernel.UUID { return q.tenantID }
