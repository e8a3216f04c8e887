package queries

import (
	"errors"
	"fmt"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

// MaxProjectionPeriods caps the horizon of one projection.
const MaxProjectionPeriods = 36

var ErrProjectFundBalanceQueryIsNotConstructed = errors.New(
	"ProjectFundBalanceQuery must be created via NewProjectFundBalanceQuery constructor",
)

// ProjectFundBalanceQuery rolls a tenant's current balance forward over
// caller-supplied expectations of order volume and refunds.
type ProjectFundBalanceQuery struct {
	tenantID kernel.UUID
	inputs   []fund.ProjectionInput
	guard    guard.ConstructorGuard
}

func NewProjectFundBalanceQuery(tenantID kernel.UUID, inputs []fund.ProjectionInput) (ProjectFundBalanceQuery, error) {
	var problems []error
	if err := tenantID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("tenant_id", err))
	}
	if len(inputs) == 0 || len(inputs) > MaxProjectionPeriods {
		problems = append(problems, errs.NewValueIsOutOfRangeError("periods", len(inputs), 1, MaxProjectionPeriods))
	}
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("periods[%d]", i), err))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return ProjectFundBalanceQuery{}, err
	}

	return ProjectFundBalanceQuery{
		tenantID: tenantID,
		inputs:   append([]fund.ProjectionInput(nil), inputs...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q ProjectFundBalanceQuery) Validate() error {
	return q.guard.Validate(ErrProjectFundBalanceQueryIsNotConstructed)
}

func (q ProjectFundBalanceQuery) TenantID() kernel.UUID { return q.tenantID }

func (q ProjectFundBalanceQuery) Inputs() []fund.ProjectionInput {
	return append([]fund.ProjectionInput(nil), q.inputs...)
}
