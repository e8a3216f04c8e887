package queries

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/pkg/errs"
	"orderledger/internal/pkg/guard"
)

// DefaultAnalyticsMonths is the window used when no range is given.
const DefaultAnalyticsMonths = 12

var ErrGetFundAnalyticsQueryIsNotConstructed = errors.New(
	"GetFundAnalyticsQuery must be created via NewGetFundAnalyticsQuery constructor",
)

// GetFundAnalyticsQuery summarizes a tenant's fund over a period.
//
// A zero to means now; a zero from means DefaultAnalyticsMonths before to.
//
// Example:
//
//	query, _ := queries.NewGetFundAnalyticsQuery(tenantID, time.Time{}, time.Time{}, time.Now())
//	analytics, err := handler.Handle(ctx, query)
//	fmt.Println(analytics.UtilizationRate) // e.g. 30
type GetFundAnalyticsQuery struct {
	tenantID kernel.UUID
	period   fund.Period
	guard    guard.ConstructorGuard
}

func NewGetFundAnalyticsQuery(tenantID kernel.UUID, from, to, now time.Time) (GetFundAnalyticsQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return GetFundAnalyticsQuery{}, errs.NewValueIsRequiredErrorWithCause("tenant_id", err)
	}

	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.AddDate(0, -DefaultAnalyticsMonths, 0)
	}
	period, err := fund.NewPeriod(from, to)
	if err != nil {
		return GetFundAnalyticsQuery{}, err
	}

	return GetFundAnalyticsQuery{tenantID: tenantID, period: period, guard: guard.NewConstructorGuard()}, nil
}

func (q GetFundAnalyticsQuery) Validate() error {
	return q.guard.Validate(ErrGetFundAnalyticsQueryIsNotConstructed)
}

func (q GetFundAnalyticsQuery) TenantID() kernel.UUID { return q.tenantID }
func (q GetFundAnalyticsQuery) Period() fund.Period   { return q.period }
