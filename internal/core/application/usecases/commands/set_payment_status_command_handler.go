package commands

import (
	"context"
	"time"

	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/timeline"
)

// SetPaymentStatusCommandHandler applies a gateway-reported payment status in
// the same lane as status transitions.
type SetPaymentStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	lanes      *Lanes
}

func NewSetPaymentStatusCommandHandler(uowFactory OrderUoWFactory, lanes *Lanes) SetPaymentStatusCommandHandler {
	return SetPaymentStatusCommandHandler{
		uowFactory: uowFactory,
		lanes:      lanes,
	}
}

func (h SetPaymentStatusCommandHandler) Handle(ctx context.Context, cmd SetPaymentStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	release, err := h.lanes.lockOrder(cmd.OrderID())
	if err != nil {
		return nil, err
	}
	defer release()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	previous := o.PaymentStatus()
	if err = o.SetPaymentStatus(cmd.Status(), now); err != nil {
		return nil, err
	}

	event, err := timeline.NewEvent(o.ID(), timeline.PaymentStatusChanged, o.Status().String(), cmd.Actor(), cmd.Notes(),
		map[string]string{
			"previous_payment_status":  previous.String(),
			timeline.MetaPaymentStatus: o.PaymentStatus().String(),
		}, now)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
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
