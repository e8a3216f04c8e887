package queries

import (
	"context"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProjectFundBalanceQueryResponse struct {
	TenantID         kernel.UUID
	CurrentBalance   kernel.Money
	ContributionRate decimal.Decimal
	MinimumBalance   kernel.Money
	Steps            []fund.ProjectionStep
}

// ProjectFundBalanceQueryHandler projects with the same contribution rate the
// accrual job applies to completed orders.
type ProjectFundBalanceQueryHandler struct {
	db      *gorm.DB
	policy  services.ContributionPolicy
	minimum kernel.Money
}

func NewProjectFundBalanceQueryHandler(db *gorm.DB, policy services.ContributionPolicy, minimum kernel.Money) ProjectFundBalanceQueryHandler {
	return ProjectFundBalanceQueryHandler{db: db, policy: policy, minimum: minimum}
}

func (h ProjectFundBalanceQueryHandler) Handle(ctx context.Context, query ProjectFundBalanceQuery) (*ProjectFundBalanceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tail, err := loadTail(h.db.WithContext(ctx), query.TenantID())
	if err != nil {
		return nil, err
	}
	balance, err := tail.balance()
	if err != nil {
		return nil, err
	}

	return &ProjectFundBalanceQueryResponse{
		TenantID:         query.TenantID(),
		CurrentBalance:   balance,
		ContributionRate: h.policy.Rate(),
		MinimumBalance:   h.minimum,
		Steps:            fund.Project(balance, h.policy.Rate(), h.minimum, query.Inputs()),
	}, nil
}
