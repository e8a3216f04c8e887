package services

import (
	"errors"
	"fmt"
	"time"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultContributionRate is the share of a completed order's total that goes
// into the tenant's insurance fund.
var DefaultContributionRate = decimal.RequireFromString("0.025")

// ErrNothingToAccrue is returned when the order total rounds to a zero contribution.
var ErrNothingToAccrue = errors.New("contribution rounds to zero")

// ContributionPolicy decides how much a completed order contributes to the
// insurance fund and builds the matching ledger entry.
//
// Business rules:
//   - Only Completed orders contribute
//   - The contribution is total × rate, rounded to cents
//   - The entry is linked to the order so it is never accrued twice
//
// Example usage:
//
//	policy, _ := services.NewContributionPolicy(services.DefaultContributionRate)
//	tx, err := policy.Accrue(completedOrder, lastTx, time.Now())
//	if errors.Is(err, services.ErrNothingToAccrue) {
//	    return nil
//	}
type ContributionPolicy struct {
	rate decimal.Decimal
}

// NewContributionPolicy accepts a rate in (0, 1].
func NewContributionPolicy(rate decimal.Decimal) (ContributionPolicy, error) {
	if !rate.IsPositive() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return ContributionPolicy{}, errs.NewValueIsOutOfRangeError("contribution_rate", rate.String(), "0 (exclusive)", "1")
	}
	return ContributionPolicy{rate: rate}, nil
}

func (p ContributionPolicy) Rate() decimal.Decimal {
	return p.rate
}

// ContributionFor returns the amount o contributes once completed.
func (p ContributionPolicy) ContributionFor(o *order.Order) (kernel.Money, error) {
	if err := o.Validate(); err != nil {
		return kernel.Money{}, err
	}
	return o.Total().MulRate(p.rate)
}

// Accrue builds the contribution of a completed order on top of previous, the
// last transaction of the order's tenant (nil for an empty fund).
func (p ContributionPolicy) Accrue(o *order.Order, previous *fund.Transaction, now time.Time) (*fund.Transaction, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != order.Completed {
		return nil, errs.NewValidationError("order",
			fmt.Sprintf("only completed orders contribute, order %s is %s", o.Number(), o.Status()))
	}

	amount, err := p.ContributionFor(o)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, ErrNothingToAccrue
	}

	orderID := o.ID()
	return fund.NewContribution(previous, fund.Entry{
		TenantID:    o.TenantID(),
		Amount:      amount,
		Description: fmt.Sprintf("Insurance fund contribution from order %s", o.Number()),
		OrderID:     &orderID,
	}, now)
}
