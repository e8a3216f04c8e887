package queries

import (
	"context"
	"errors"

	"orderledger/internal/adapters/out/postgres/orderrepo"
	"orderledger/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError for an unknown order.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var dto orderrepo.OrderDTO
	err := h.db.WithContext(ctx).
		Where("id = ?", query.OrderID().Bytes()).
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return nil, err
	}

	o, err := orderrepo.ToDomain(dto)
	if err != nil {
		return nil, err
	}

	return &GetOrderQueryResponse{
		Order:                o,
		AvailableTransitions: o.AvailableTransitions(),
	}, nil
}
