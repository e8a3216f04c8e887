// Package refundsagarepo persists refund sagas, one row per refund request.
package refundsagarepo

import (
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/refund"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SagaDTO struct {
	RefundRequestID  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID         uuid.UUID       `gorm:"type:uuid;not null"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount           decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	State            string          `gorm:"type:varchar(32);not null;index:idx_refund_sagas_state_updated,priority:1"`
	Attempts         int             `gorm:"not null"`
	WithdrawalTxID   *uuid.UUID      `gorm:"type:uuid"`
	CompensationTxID *uuid.UUID      `gorm:"type:uuid"`
	LastError        string          `gorm:"type:text"`
	Actor            string          `gorm:"type:varchar(128)"`
	Notes            string          `gorm:"type:text"`
	CreatedAt        time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt        time.Time       `gorm:"not null;autoUpdateTime:false;index:idx_refund_sagas_state_updated,priority:2"`
}

func (SagaDTO) TableName() string {
	return "refund_sagas"
}

func fromDomain(s *refund.Saga) SagaDTO {
	return SagaDTO{
		RefundRequestID:  s.RefundRequestID().Bytes(),
		TenantID:         s.TenantID().Bytes(),
		OrderID:          s.OrderID().Bytes(),
		Amount:           s.Amount().Decimal(),
		State:            s.State().String(),
		Attempts:         s.Attempts(),
		WithdrawalTxID:   optionalRaw(s.WithdrawalTxID()),
		CompensationTxID: optionalRaw(s.CompensationTxID()),
		LastError:        s.LastError(),
		Actor:            s.Actor(),
		Notes:            s.Notes(),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
	}
}

func toDomain(dto SagaDTO) (*refund.Saga, error) {
	rid, ridErr := kernel.UUIDFromBytes(dto.RefundRequestID[:])
	tenantID, tenantErr := kernel.UUIDFromBytes(dto.TenantID[:])
	orderID, orderErr := kernel.UUIDFromBytes(dto.OrderID[:])
	amount, amountErr := kernel.NewMoney(dto.Amount)
	state, stateErr := refund.ParseState(dto.State)
	withdrawal, withdrawalErr := optionalID(dto.WithdrawalTxID)
	compensation, compensationErr := optionalID(dto.CompensationTxID)
	if err := errors.Join(ridErr, tenantErr, orderErr, amountErr, stateErr, withdrawalErr, compensationErr); err != nil {
		return nil, err
	}

	return refund.RestoreSaga(refund.Snapshot{
		RefundRequestID:  rid,
		TenantID:         tenantID,
		OrderID:          orderID,
		Amount:           amount,
		State:            state,
		Attempts:         dto.Attempts,
		WithdrawalTxID:   withdrawal,
		CompensationTxID: compensation,
		LastError:        dto.LastError,
		Actor:            dto.Actor,
		Notes:            dto.Notes,
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
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
