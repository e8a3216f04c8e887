package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetFundBalanceQueryHandler struct {
	db *gorm.DB
}

func NewGetFundBalanceQueryHandler(db *gorm.DB) GetFundBalanceQueryHandler {
	return GetFundBalanceQueryHandler{db: db}
}

// Handle reads the balance from the last record of the chain in a single
// statement.
func (h GetFundBalanceQueryHandler) Handle(ctx context.Context, query GetFundBalanceQuery) (*GetFundBalanceQueryResponse, error) {
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

	resp := &GetFundBalanceQueryResponse{TenantID: query.TenantID(), Balance: balance}
	if tail != nil {
		at := tail.CreatedAt.UTC()
		resp.TransactionCount = tail.Sequence
		resp.LastTransactionAt = &at
	}
	return resp, nil
}
