package queries

import (
	"context"

	"orderledger/internal/adapters/out/postgres/orderrepo"
	"orderledger/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle counts the matching orders and returns the requested page of them.
// Both statements run in one read-only transaction so that Total agrees with
// the page.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (*ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	resp := &ListOrdersQueryResponse{Orders: make([]*order.Order, 0), Page: query.Page()}
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx.Model(&orderrepo.OrderDTO{})
		if id := query.TenantID(); id != nil {
			scope = scope.Where("tenant_id = ?", id.Bytes())
		}
		if status := query.Status(); status != nil {
			scope = scope.Where("status = ?", status.String())
		}
		if payment := query.PaymentStatus(); payment != nil {
			scope = scope.Where("payment_status = ?", payment.String())
		}

		if err := scope.Session(&gorm.Session{}).Count(&resp.Total).Error; err != nil {
			return err
		}

		var dtos []orderrepo.OrderDTO
		err := scope.
			Order("created_at DESC, id").
			Limit(query.Page().Limit).
			Offset(query.Page().Offset).
			Find(&dtos).Error
		if err != nil {
			return err
		}

		for _, dto := range dtos {
			o, err := orderrepo.ToDomain(dto)
			if err != nil {
				return err
			}
			resp.Orders = append(resp.Orders, o)
		}
		return nil
	}, readOnlySnapshot())
	if err != nil {
		return nil, err
	}

	return resp, nil
}
