package fund

import (
	"errors"
	"strings"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type RiskLevel string

const (
	RiskNormal RiskLevel = "normal"
	RiskHigh   RiskLevel = "high"
)

// ProjectionInput describes the expected activity of one future period.
type ProjectionInput struct {
	Period            string
	ExpectedOrders    int
	AverageOrderValue kernel.Money
	ExpectedRefunds   kernel.Money
}

func (in ProjectionInput) Validate() error {
	var problems []error
	if strings.TrimSpace(in.Period) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("period"))
	}
	if in.ExpectedOrders < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("expected_orders", in.ExpectedOrders, 0, "∞"))
	}
	return errors.Join(problems...)
}

type ProjectionStep struct {
	Period                string
	StartingBalance       decimal.Decimal
	ExpectedContributions kernel.Money
	ExpectedWithdrawals   kernel.Money
	ProjectedBalance      decimal.Decimal
	RiskLevel             RiskLevel
}

// Project rolls the balance forward period by period. Projected balances may
// go negative; they are estimates, not ledger entries.
func Project(balance kernel.Money, rate decimal.Decimal, minimum kernel.Money, inputs []ProjectionInput) []ProjectionStep {
	running := balance.Decimal()
	steps := make([]ProjectionStep, 0, len(inputs))

	for _, in := range inputs {
		volume := in.AverageOrderValue.Decimal().Mul(decimal.NewFromInt(int64(in.ExpectedOrders)))
		contributions, err := kernel.NewMoney(volume.Mul(rate))
		if err != nil {
			contributions = kernel.ZeroMoney()
		}

		step := ProjectionStep{
			Period:                in.Period,
			StartingBalance:       running,
			ExpectedContributions: contributions,
			ExpectedWithdrawals:   in.ExpectedRefunds,
			RiskLevel:             RiskNormal,
		}
		running = running.Add(contributions.Decimal()).Sub(in.ExpectedRefunds.Decimal())
		step.ProjectedBalance = running
		if running.LessThan(minimum.Decimal()) {
			step.RiskLevel = RiskHigh
		}
		steps = append(steps, step)
	}

	return steps
}
