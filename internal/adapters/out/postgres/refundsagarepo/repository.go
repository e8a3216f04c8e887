package refundsagarepo

import (
	"context"
	"errors"
	"time"

	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/refund"
	"orderledger/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRefundSagaRepository implements ports.RefundSagaRepository.
type GormRefundSagaRepository struct {
	db *gorm.DB
}

func NewGormRefundSagaRepository(db *gorm.DB) *GormRefundSagaRepository {
	return &GormRefundSagaRepository{db: db}
}

func (r *GormRefundSagaRepository) Get(ctx context.Context, refundRequestID kernel.UUID) (*refund.Saga, error) {
	if err := refundRequestID.Validate(); err != nil {
		return nil, err
	}

	var dto SagaDTO
	if err := r.db.WithContext(ctx).First(&dto, "refund_request_id = ?", refundRequestID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("refund_request", refundRequestID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Save upserts the saga keyed by its refund request id.
func (r *GormRefundSagaRepository) Save(ctx context.Context, saga *refund.Saga) error {
	if err := saga.Validate(); err != nil {
		return err
	}

	dto := fromDomain(saga)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "refund_request_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"state", "attempts", "withdrawal_tx_id", "compensation_tx_id",
			"last_error", "actor", "notes", "updated_at",
		}),
	}).Create(&dto).Error
}

func (r *GormRefundSagaRepository) ListStale(ctx context.Context, states []refund.State, before time.Time, limit int) ([]*refund.Saga, error) {
	names := make([]string, 0, len(states))
	for _, s := range states {
		names = append(names, s.String())
	}

	var dtos []SagaDTO
	err := r.db.WithContext(ctx).
		Where("state IN ? AND updated_at < ?", names, before).
		Order("updated_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	sagas := make([]*refund.Saga, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		sagas = append(sagas, s)
	}
	return sagas, nil
}
