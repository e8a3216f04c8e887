// Package fundrepo persists the insurance fund log in insurance_fund_transactions.
package fundrepo

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// uniqueSequenceIndex keeps each tenant chain linear across processes.
const uniqueSequenceIndex = "idx_fund_tenant_sequence"

type TransactionDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_fund_tenant_sequence,priority:1;index:idx_fund_tenant_created,priority:1"`
	Sequence        int64           `gorm:"not null;uniqueIndex:idx_fund_tenant_sequence,priority:2"`
	Type            string          `gorm:"type:varchar(16);not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	BalanceBefore   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Description     string          `gorm:"type:text;not null"`
	OrderID         *uuid.UUID      `gorm:"type:uuid;index"`
	RefundRequestID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime:false;index:idx_fund_tenant_created,priority:2"`
}

func (TransactionDTO) TableName() string {
	return "insurance_fund_transactions"
}

func fromDomain(tx *fund.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:              tx.ID().Bytes(),
		TenantID:        tx.TenantID().Bytes(),
		Sequence:        tx.Sequence(),
		Type:            tx.Type().String(),
		Amount:          tx.Amount().Decimal(),
		BalanceBefore:   tx.BalanceBefore().Decimal(),
		BalanceAfter:    tx.BalanceAfter().Decimal(),
		Description:     tx.Description(),
		OrderID:         optionalRaw(tx.OrderID()),
		RefundRequestID: optionalRaw(tx.RefundRequestID()),
		CreatedAt:       tx.CreatedAt(),
	}
}

// ToDomain rehydrates a stored row. Exported for the query side, which loads
// rows with raw SQL and reuses the fund analytics.
func ToDomain(dto TransactionDTO) (*fund.Transaction, error) {
	id, idErr := kernel.UUIDFromBytes(dto.ID[:])
	tenantID, tenantErr := kernel.UUIDFromBytes(dto.TenantID[:])
	txType, typeErr := fund.ParseTransactionType(dto.Type)
	amount, amountErr := kernel.NewMoney(dto.Amount)
	before, beforeErr := kernel.NewMoney(dto.BalanceBefore)
	after, afterErr := kernel.NewMoney(dto.BalanceAfter)
	orderID, orderErr := optionalID(dto.OrderID)
	refundRequestID, refundErr := optionalID(dto.RefundRequestID)
	if err := errors.Join(idErr, tenantErr, typeErr, amountErr, beforeErr, afterErr, orderErr, refundErr); err != nil {
		return nil, err
	}

	return fund.RestoreTransaction(fund.Snapshot{
		ID:              id,
		TenantID:        tenantID,
		Sequence:        dto.Sequence,
		Type:            txType,
		Amount:          amount,
		BalanceBefore:   before,
		BalanceAfter:    after,
		Description:     dto.Description,
		OrderID:         orderID,
		RefundRequestID: refundRequestID,
		CreatedAt:       dto.CreatedAt,
	})
}

func optionalRaw(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // column is nullable
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
