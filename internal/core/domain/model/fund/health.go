package fund

import (
	"orderledger/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// BurnRateWindowMonths is the look-back window used to estimate monthly burn.
const BurnRateWindowMonths = 6

type HealthStatus string

const (
	Healthy  HealthStatus = "healthy"
	Caution  HealthStatus = "caution"
	Warning  HealthStatus = "warning"
	Critical HealthStatus = "critical"
)

type Health struct {
	Status               HealthStatus
	CurrentBalance       kernel.Money
	MinimumBalance       kernel.Money
	MonthlyBurnRate      kernel.Money
	MonthsUntilDepletion *decimal.Decimal
	ContributionRatio    *decimal.Decimal
	Recommendations      []string
}

// AssessHealth grades the fund from its balance and the last
// BurnRateWindowMonths of activity (window).
//
//   - critical: balance below minimum
//   - warning: depleted within 6 months at the current burn rate
//   - caution: depleted within 12 months
//   - healthy: otherwise
func AssessHealth(balance kernel.Money, window Analytics, minimum kernel.Money) Health {
	h := Health{
		Status:          Healthy,
		CurrentBalance:  balance,
		MinimumBalance:  minimum,
		MonthlyBurnRate: kernel.ZeroMoney(),
	}

	if burn, err := kernel.NewMoney(window.TotalWithdrawals.Decimal().Div(decimal.NewFromInt(BurnRateWindowMonths))); err == nil {
		h.MonthlyBurnRate = burn
	}
	if !h.MonthlyBurnRate.IsZero() {
		months := balance.Decimal().Div(h.MonthlyBurnRate.Decimal()).Round(2)
		h.MonthsUntilDepletion = &months
	}
	if !window.TotalWithdrawals.IsZero() {
		ratio := window.TotalContributions.Decimal().Div(window.TotalWithdrawals.Decimal()).Round(2)
		h.ContributionRatio = &ratio
	}

	switch {
	case balance.LessThan(minimum):
		h.Status = Critical
	case h.MonthsUntilDepletion != nil && h.MonthsUntilDepletion.LessThan(decimal.NewFromInt(6)):
		h.Status = Warning
	case h.MonthsUntilDepletion != nil && h.MonthsUntilDepletion.LessThan(decimal.NewFromInt(12)):
		h.Status = Caution
	default:
	}

	h.Recommendations = recommendations(h.Status, window)
	return h
}

func recommendations(status HealthStatus, window Analytics) []string {
	switch status {
	case Critical:
		return []string{
			"Immediate action required: Fund balance below minimum threshold",
			"Consider increasing contribution rate temporarily",
			"Review recent withdrawals for any unusual patterns",
		}
	case Warning:
		return []string{
			"Monitor fund closely - depletion risk within 6 months",
			"Consider adjusting contribution rate",
			"Review refund policies to reduce unnecessary withdrawals",
		}
	case Caution:
		return []string{
			"Fund is stable but trending downward",
			"Consider optimizing vendor quality to reduce quality-related refunds",
		}
	default:
		recs := []string{"Fund is in good health"}
		doubled := window.TotalWithdrawals.Add(window.TotalWithdrawals)
		if window.TotalContributions.GreaterThan(doubled) {
			recs = append(recs, "Consider reducing contribution rate to optimize cash flow")
		}
		return recs
	}
}
