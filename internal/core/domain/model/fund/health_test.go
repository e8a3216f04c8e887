package fund_test

import (
	"testing"

	"orderledger/internal/core/domain/model/fund"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(t *testing.T, contributions, withdrawals int64) fund.Analytics {
	t.Helper()
	return fund.Analytics{
		TotalContributions: money(t, contributions),
		TotalWithdrawals:   money(t, withdrawals),
	}
}

func TestAssessHealth(t *testing.T) {
	minimum := money(t, 5_000_000)

	t.Run("critical below the minimum balance", func(t *testing.T) {
		h := fund.AssessHealth(money(t, 1_000_000), window(t, 0, 0), minimum)

		assert.Equal(t, fund.Critical, h.Status)
		assert.Len(t, h.Recommendations, 3)
		assert.Nil(t, h.MonthsUntilDepletion)
	})

	t.Run("warning when depleted within six months", func(t *testing.T) {
		// burn 1.2M/month, balance 6M: 5 months
		h := fund.AssessHealth(money(t, 6_000_000), window(t, 0, 7_200_000), minimum)

		assert.Equal(t, fund.Warning, h.Status)
		assert.Equal(t, "1200000.00", h.MonthlyBurnRate.String())
		require.NotNil(t, h.MonthsUntilDepletion)
		assert.True(t, h.MonthsUntilDepletion.Equal(decimal.NewFromInt(5)))
	})

	t.Run("caution when depleted within a year", func(t *testing.T) {
		h := fund.AssessHealth(money(t, 6_000_000), window(t, 6_000_000, 4_000_000), minimum)

		assert.Equal(t, fund.Caution, h.Status)
		require.NotNil(t, h.ContributionRatio)
		assert.Equal(t, "1.50", h.ContributionRatio.StringFixed(2))
	})

	t.Run("healthy with surplus suggests lower contribution rate", func(t *testing.T) {
		h := fund.AssessHealth(money(t, 50_000_000), window(t, 10_000_000, 1_000_000), minimum)

		assert.Equal(t, fund.Healthy, h.Status)
		assert.Equal(t, []string{
			"Fund is in good health",
			"Consider reducing contribution rate to optimize cash flow",
		}, h.Recommendations)
	})
}

func TestProject(t *testing.T) {
	steps := fund.Project(money(t, 6_000_000), decimal.RequireFromString("0.025"), money(t, 5_000_000),
		[]fund.ProjectionInput{
			{Period: "2024-06", ExpectedOrders: 10, AverageOrderValue: money(t, 2_000_000), ExpectedRefunds: money(t, 0)},
			{Period: "2024-07", ExpectedOrders: 0, AverageOrderValue: money(t, 0), ExpectedRefunds: money(t, 3_000_000)},
		})

	require.Len(t, steps, 2)
	assert.Equal(t, "500000.00", steps[0].ExpectedContributions.String())
	assert.True(t, steps[0].ProjectedBalance.Equal(decimal.NewFromInt(6_500_000)))
	assert.Equal(t, fund.RiskNormal, steps[0].RiskLevel)
	assert.True(t, steps[1].StartingBalance.Equal(decimal.NewFromInt(6_500_000)))
	assert.True(t, steps[1].ProjectedBalance.Equal(decimal.NewFromInt(3_500_000)))
	assert.Equal(t, fund.RiskHigh, steps[1].RiskLevel)
}
