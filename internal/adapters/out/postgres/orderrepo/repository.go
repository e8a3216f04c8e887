package orderrepo

import (
	"context"
	"errors"
	"time"

	"orderledger/internal/adapters/out/postgres/pgerr"
	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order. A taken order number is a ConflictError.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, uniqueNumberIndex) {
			return errs.NewConflictErrorWithCause("order", aggregate.Number(), "order number already exists for tenant", err)
		}
		return err
	}

	return nil
}

// Update writes the mutable columns of an order, guarded by the version it was
// loaded with.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.PersistedVersion()).
		Updates(map[string]any{
			"status":            dto.Status,
			"payment_status":    dto.PaymentStatus,
			"shipping_ref":      dto.ShippingRef,
			"vendor_ref":        dto.VendorRef,
			"quotation_amount":  dto.Quotation,
			"status_entered_at": dto.StatusEnteredAt,
			"sla_breached_at":   dto.SLABreachedAt,
			"sla_escalations":   dto.SLAEscalations,
			"updated_at":        dto.UpdatedAt,
			"version":           dto.Version,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewConflictError("order", aggregate.ID().String(), "order was modified concurrently")
	}

	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return ToDomain(dto)
}

// ListCompletedWithoutContribution returns completed orders that no accrual
// contribution references yet, oldest completion first.
func (r *GormOrderRepository) ListCompletedWithoutContribution(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", order.Completed.String()).
		Where(`NOT EXISTS (
			SELECT 1 FROM insurance_fund_transactions t
			WHERE t.order_id = orders.id AND t.type = ? AND t.refund_request_id IS NULL
		)`, fund.Contribution.String()).
		Order("updated_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// ListSLADue returns orders waiting in status since enteredBefore or longer
// that still have an SLA breach or escalation to report.
func (r *GormOrderRepository) ListSLADue(
	ctx context.Context,
	status order.Status,
	enteredBefore time.Time,
	escalations, limit int,
) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND status_entered_at <= ?", status.String(), enteredBefore).
		Where("(sla_breached_at IS NULL OR sla_escalations < ?)", escalations).
		Order("status_entered_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := ToDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
