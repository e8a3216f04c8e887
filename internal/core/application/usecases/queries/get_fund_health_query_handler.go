package queries

import (
	"context"
	"time"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GetFundHealthQueryHandler grades a fund against the configured minimum
// balance using the last fund.BurnRateWindowMonths of activity.
type GetFundHealthQueryHandler struct {
	db      *gorm.DB
	minimum kernel.Money
	now     func() time.Time
}

func NewGetFundHealthQueryHandler(db *gorm.DB, minimum kernel.Money) GetFundHealthQueryHandler {
	return GetFundHealthQueryHandler{db: db, minimum: minimum, now: time.Now}
}

func (h GetFundHealthQueryHandler) Handle(ctx context.Context, query GetFundHealthQuery) (*fund.Health, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var health fund.Health
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tail, err := loadTail(tx, query.TenantID())
		if err != nil {
			return err
		}
		balance, err := tail.balance()
		if err != nil {
			return err
		}

		window := fund.LastMonths(h.now(), fund.BurnRateWindowMonths)
		txs, err := loadTransactions(tx, query.TenantID(), &window)
		if err != nil {
			return err
		}

		health = fund.AssessHealth(balance, fund.Summarize(txs, balance, window), h.minimum)
		return nil
	}, readOnlySnapshot())
	if err != nil {
		return nil, err
	}

	return &health, nil
}
