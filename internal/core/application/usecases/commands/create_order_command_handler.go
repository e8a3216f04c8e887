package commands

import (
	"context"
	"time"

	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/timeline"
)

// CreateOrderCommandHandler persists a new order together with its
// order_created timeline event.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	o, err := order.NewOrder(cmd.OrderID(), cmd.TenantID(), cmd.Number(), cmd.Items(),
		cmd.ShippingCost(), cmd.CustomerRef(), cmd.ShippingRef(), now)
	if err != nil {
		return nil, err
	}

	event, err := timeline.NewEvent(o.ID(), timeline.OrderCreated, o.Status().String(), cmd.Actor(), "", map[string]string{
		"order_number": o.Number(),
		"total":        o.Total().String(),
	}, now)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.TimelineRepository().Append(ctx, event); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
