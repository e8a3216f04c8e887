package queries

import (
	"context"

	"orderledger/internal/adapters/out/postgres/fundrepo"
	"orderledger/internal/core/domain/model/fund"

	"gorm.io/gorm"
)

type ListFundTransactionsQueryHandler struct {
	db *gorm.DB
}

func NewListFundTransactionsQueryHandler(db *gorm.DB) ListFundTransactionsQueryHandler {
	return ListFundTransactionsQueryHandler{db: db}
}

func (h ListFundTransactionsQueryHandler) Handle(ctx context.Context, query ListFundTransactionsQuery) (*ListFundTransactionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	resp := &ListFundTransactionsQueryResponse{Transactions: make([]*fund.Transaction, 0), Page: query.Page()}
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx.Model(&fundrepo.TransactionDTO{}).Where("tenant_id = ?", query.TenantID().Bytes())
		if t := query.Type(); t != nil {
			scope = scope.Where("type = ?", t.String())
		}
		if from := query.From(); from != nil {
			scope = scope.Where("created_at >= ?", *from)
		}
		if to := query.To(); to != nil {
			scope = scope.Where("created_at <= ?", *to)
		}

		if err := scope.Session(&gorm.Session{}).Count(&resp.Total).Error; err != nil {
			return err
		}

		var dtos []fundrepo.TransactionDTO
		err := scope.
			Order("sequence DESC").
			Limit(query.Page().Limit).
			Offset(query.Page().Offset).
			Find(&dtos).Error
		if err != nil {
			return err
		}

		txs, err := toTransactions(dtos)
		if err != nil {
			return err
		}
		resp.Transactions = txs
		return nil
	}, readOnlySnapshot())
	if err != nil {
		return nil, err
	}

	return resp, nil
}
