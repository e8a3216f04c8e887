package queries

import (
	"context"

	"orderledger/internal/core/domain/model/fund"

	"gorm.io/gorm"
)

type VerifyFundChainQueryHandler struct {
	db *gorm.DB
}

func NewVerifyFundChainQueryHandler(db *gorm.DB) VerifyFundChainQueryHandler {
	return VerifyFundChainQueryHandler{db: db}
}

func (h VerifyFundChainQueryHandler) Handle(ctx context.Context, query VerifyFundChainQuery) (*VerifyFundChainQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	resp := &VerifyFundChainQueryResponse{TenantID: query.TenantID()}
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chain, err := loadTransactions(tx, query.TenantID(), nil)
		if err != nil {
			return err
		}

		tail, err := loadTail(tx, query.TenantID())
		if err != nil {
			return err
		}
		if resp.StoredBalance, err = tail.balance(); err != nil {
			return err
		}

		resp.Report = fund.VerifyChain(chain)
		resp.BalanceMatches = resp.Report.Valid && resp.Report.Balance.IsEqual(resp.StoredBalance)
		return nil
	}, readOnlySnapshot())
	if err != nil {
		return nil, err
	}

	return resp, nil
}
