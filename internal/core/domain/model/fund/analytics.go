package fund

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MonthLayout formats the month key of a trend bucket.
const MonthLayout = "2006-01"

var hundred = decimal.NewFromInt(100)

// Period is an inclusive time window.
type Period struct {
	From time.Time
	To   time.Time
}

func NewPeriod(from, to time.Time) (Period, error) {
	if from.IsZero() || to.IsZero() {
		return Period{}, errs.NewValueIsRequiredError("period")
	}
	if to.Before(from) {
		return Period{}, errs.NewValidationErrorWithCause("period", "to is before from", errors.New(to.Format(time.RFC3339)))
	}
	return Period{From: from.UTC(), To: to.UTC()}, nil
}

// LastMonths is the window of the previous n months ending at now.
func LastMonths(now time.Time, n int) Period {
	return Period{From: now.UTC().AddDate(0, -n, 0), To: now.UTC()}
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}

type MonthlyTrend struct {
	Month            string
	Contributions    kernel.Money
	Withdrawals      kernel.Money
	NetChange        decimal.Decimal
	TransactionCount int
}

// Analytics aggregates the fund log over a Period.
type Analytics struct {
	Period                  Period
	CurrentBalance          kernel.Money
	TotalContributions      kernel.Money
	TotalWithdrawals        kernel.Money
	NetChange               decimal.Decimal
	TransactionCount        int
	ContributionCount       int
	WithdrawalCount         int
	AverageContribution     kernel.Money
	AverageWithdrawalAmount kernel.Money
	LargestWithdrawal       kernel.Money
	UtilizationRate         decimal.Decimal
	MonthlyTrend            []MonthlyTrend
}

// Summarize aggregates the transactions of txs that fall inside period.
// Every calendar month touched by the period gets a trend bucket, empty or not.
//
// UtilizationRate is withdrawals over contributions as a percentage, clamped to
// [0, 100] and zero when nothing was contributed.
func Summarize(txs []*Transaction, currentBalance kernel.Money, period Period) Analytics {
	a := Analytics{
		Period:                  period,
		CurrentBalance:          currentBalance,
		TotalContributions:      kernel.ZeroMoney(),
		TotalWithdrawals:        kernel.ZeroMoney(),
		AverageContribution:     kernel.ZeroMoney(),
		AverageWithdrawalAmount: kernel.ZeroMoney(),
		LargestWithdrawal:       kernel.ZeroMoney(),
		UtilizationRate:         decimal.Zero,
	}

	buckets := monthBuckets(period)
	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[b.Month] = i
	}

	for _, tx := range txs {
		if !period.Contains(tx.createdAt) {
			continue
		}
		a.TransactionCount++
		bucket := &buckets[index[tx.createdAt.UTC().Format(MonthLayout)]]
		bucket.TransactionCount++

		switch tx.txType {
		case Contribution:
			a.ContributionCount++
			a.TotalContributions = a.TotalContributions.Add(tx.amount)
			bucket.Contributions = bucket.Contributions.Add(tx.amount)
			bucket.NetChange = bucket.NetChange.Add(tx.amount.Decimal())
		case Withdrawal:
			a.WithdrawalCount++
			a.TotalWithdrawals = a.TotalWithdrawals.Add(tx.amount)
			bucket.Withdrawals = bucket.Withdrawals.Add(tx.amount)
			bucket.NetChange = bucket.NetChange.Sub(tx.amount.Decimal())
			if tx.amount.GreaterThan(a.LargestWithdrawal) {
				a.LargestWithdrawal = tx.amount
			}
		default:
		}
	}

	a.NetChange = a.TotalContributions.Decimal().Sub(a.TotalWithdrawals.Decimal())
	a.AverageContribution = average(a.TotalContributions, a.ContributionCount)
	a.AverageWithdrawalAmount = average(a.TotalWithdrawals, a.WithdrawalCount)
	a.UtilizationRate = UtilizationRate(a.TotalContributions, a.TotalWithdrawals)
	a.MonthlyTrend = buckets

	return a
}

// UtilizationRate returns withdrawals / contributions × 100, clamped to
// [0, 100] and rounded to two places. It is zero when contributions are zero.
func UtilizationRate(contributions, withdrawals kernel.Money) decimal.Decimal {
	if contributions.IsZero() {
		return decimal.Zero
	}
	rate := withdrawals.Decimal().Div(contributions.Decimal()).Mul(hundred)
	if rate.GreaterThan(hundred) {
		rate = hundred
	}
	return rate.Round(2)
}

func average(total kernel.Money, count int) kernel.Money {
	if count == 0 {
		return kernel.ZeroMoney()
	}
	avg, err := kernel.NewMoney(total.Decimal().Div(decimal.NewFromInt(int64(count))))
	if err != nil {
		return kernel.ZeroMoney()
	}
	return avg
}

func monthBuckets(period Period) []MonthlyTrend {
	start := time.Date(period.From.Year(), period.From.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(period.To.Year(), period.To.Month(), 1, 0, 0, 0, 0, time.UTC)

	var buckets []MonthlyTrend
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		buckets = append(buckets, MonthlyTrend{
			Month:         m.Format(MonthLayout),
			Contributions: kernel.ZeroMoney(),
			Withdrawals:   kernel.ZeroMoney(),
			NetChange:     decimal.Zero,
		})
	}
	return buckets
}
