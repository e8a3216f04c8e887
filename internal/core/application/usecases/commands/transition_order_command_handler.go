package commands

import (
	"context"
	"strings"
	"time"

	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/timeline"
)

// TransitionOrderCommandHandler is the order state machine entry point.
//
// A transition runs in the order's lane, so a concurrent transition, payment
// update or refund of the same order fails with a ConflictError instead of
// queueing. The status change and its timeline event are committed together;
// a rejected transition writes nothing.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	lanes      *Lanes
}

func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory, lanes *Lanes) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		lanes:      lanes,
	}
}

func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
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
	previous := o.Status()
	previousPayment := o.PaymentStatus()
	if err = o.Transition(cmd.Target(), cmd.Input(), now); err != nil {
		return nil, err
	}

	meta := map[string]string{timeline.MetaPreviousStatus: previous.String()}
	if o.PaymentStatus() != previousPayment {
		meta[timeline.MetaPaymentStatus] = o.PaymentStatus().String()
	}
	switch o.Status() {
	case order.VendorNegotiation:
		meta["vendor_ref"] = o.VendorRef()
	case order.CustomerQuotation:
		meta["quotation_amount"] = o.Quotation().String()
	case order.Shipped:
		meta["tracking_ref"] = o.ShippingRef()
	case order.Cancelled:
		meta["cancellation_reason"] = strings.TrimSpace(cmd.Input().Reason)
	default:
	}
	event, err := timeline.NewEvent(o.ID(), timeline.StatusChanged, o.Status().String(), cmd.Actor(), cmd.Notes(), meta, now)
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
