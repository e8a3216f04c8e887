package queries

import (
	"context"

	"orderledger/internal/core/domain/model/fund"

	"gorm.io/gorm"
)

type GetFundAnalyticsQueryHandler struct {
	db *gorm.DB
}

func NewGetFundAnalyticsQueryHandler(db *gorm.DB) GetFundAnalyticsQueryHandler {
	return GetFundAnalyticsQueryHandler{db: db}
}

// Handle reads the current balance and the records of the period from one
// snapshot, so a concurrent write never shows up in one and not the other.
func (h GetFundAnalyticsQueryHandler) Handle(ctx context.Context, query GetFundAnalyticsQuery) (*fund.Analytics, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var analytics fund.Analytics
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tail, err := loadTail(tx, query.TenantID())
		if err != nil {
			return err
		}
		balance, err := tail.balance()
		if err != nil {
			return err
		}

		period := query.Period()
		txs, err := loadTransactions(tx, query.TenantID(), &period)
		if err != nil {
			return err
		}

		analytics = fund.Summarize(txs, balance, period)
		return nil
	}, readOnlySnapshot())
	if err != nil {
		return nil, err
	}

	return &analytics, nil
}
