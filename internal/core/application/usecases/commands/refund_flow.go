package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderledger/internal/core/domain/model/fund"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/refund"
	"orderledger/internal/core/domain/model/timeline"
	"orderledger/internal/pkg/errs"
)

// errRefundInterrupted is the cause recorded when an in-flight saga is
// settled by recovery rather than by the request that started it.
var errRefundInterrupted = errors.New("refund interrupted before the order was refunded")

// refundFlow holds the saga steps shared by RequestRefundCommandHandler and
// ReconcileRefundSagasCommandHandler.
type refundFlow struct {
	uowFactory UoWFactory
	ledger     *Ledger
	lanes      *Lanes
	logger     *slog.Logger
}

// loadSaga returns nil when the refund request has never been seen.
func (f refundFlow) loadSaga(ctx context.Context, refundRequestID kernel.UUID) (*refund.Saga, error) {
	saga, err := f.uowFactory.Create().RefundSagaRepository().Get(ctx, refundRequestID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil //nolint:nilnil // unknown refund request
	}
	return saga, err
}

func (f refundFlow) inUoW(ctx context.Context, fn func(uow UoW) error) error {
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// fail closes a pending saga whose withdrawal was rejected and records the
// failed attempt on the order timeline. The order itself is not touched.
func (f refundFlow) fail(ctx context.Context, saga *refund.Saga, o *order.Order, cause error) error {
	now := time.Now()
	if err := saga.MarkFailed(cause.Error(), now); err != nil {
		return err
	}

	event, err := timeline.NewEvent(o.ID(), timeline.RefundFailed, o.Status().String(), saga.Actor(),
		fmt.Sprintf("Refund attempt failed: %v", cause),
		map[string]string{
			timeline.MetaRefundRequestID: saga.RefundRequestID().String(),
			timeline.MetaAmount:          saga.Amount().String(),
			timeline.MetaErrorKind:       string(errs.KindOf(cause)),
		}, now)
	if err != nil {
		return err
	}

	return f.inUoW(ctx, func(uow UoW) error {
		if err := uow.RefundSagaRepository().Save(ctx, saga); err != nil {
			return err
		}
		return uow.TimelineRepository().Append(ctx, event)
	})
}

// refundOrder performs the Refunded transition for a debited saga. The order
// update, its timeline event and the saga's completion commit together.
func (f refundFlow) refundOrder(ctx context.Context, saga *refund.Saga, withdrawal *fund.Transaction) (*order.Order, error) {
	release, err := f.lanes.lockOrder(saga.OrderID())
	if err != nil {
		return nil, err
	}
	defer release()

	debited := *saga
	var refunded *order.Order
	err = f.inUoW(ctx, func(uow UoW) error {
		o, err := uow.OrderRepository().Get(ctx, saga.OrderID())
		if err != nil {
			return err
		}

		now := time.Now()
		previous := o.Status()
		if err = o.Refund(now); err != nil {
			return err
		}

		event, err := timeline.NewEvent(o.ID(), timeline.RefundCompleted, o.Status().String(), saga.Actor(), saga.Notes(),
			map[string]string{
				timeline.MetaTransactionID:   withdrawal.ID().String(),
				timeline.MetaRefundRequestID: saga.RefundRequestID().String(),
				timeline.MetaAmount:          saga.Amount().String(),
				timeline.MetaPreviousStatus:  previous.String(),
			}, now)
		if err != nil {
			return err
		}
		if err = saga.MarkOrderRefunded(now); err != nil {
			return err
		}

		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}
		if err = uow.TimelineRepository().Append(ctx, event); err != nil {
			return err
		}
		if err = uow.RefundSagaRepository().Save(ctx, saga); err != nil {
			return err
		}

		refunded = o
		return nil
	})
	if err != nil {
		*saga = debited
		return nil, err
	}

	return refunded, nil
}

// compensate gives the saga's outstanding withdrawal back to the fund and
// closes the saga as compensated. It is safe to repeat: Ledger.Restore only
// writes while something is still outstanding for the refund request.
func (f refundFlow) compensate(ctx context.Context, saga *refund.Saga, cause error) error {
	orderID := saga.OrderID()
	restore, err := f.ledger.Restore(ctx, saga.TenantID(), saga.RefundRequestID(), &orderID)
	if err != nil {
		saga.RecordError(fmt.Sprintf("compensation failed: %v (after: %v)", err, cause), time.Now())
		if saveErr := f.saveSaga(ctx, saga); saveErr != nil {
			f.logger.ErrorContext(ctx, "failed to record compensation error on refund saga",
				"refund_request_id", saga.RefundRequestID().String(), "error", saveErr)
		}
		return err
	}

	now := time.Now()
	if restore == nil && saga.State() == refund.Pending {
		// nothing was ever debited
		if err = saga.MarkFailed(cause.Error(), now); err != nil {
			return err
		}
		return f.saveSaga(ctx, saga)
	}

	meta := map[string]string{
		timeline.MetaRefundRequestID: saga.RefundRequestID().String(),
		timeline.MetaAmount:          saga.Amount().String(),
		timeline.MetaErrorKind:       string(errs.KindOf(cause)),
	}
	if restore != nil {
		id := restore.ID()
		if err = saga.MarkCompensated(&id, cause.Error(), now); err != nil {
			return err
		}
		meta[timeline.MetaTransactionID] = id.String()
	} else if err = saga.MarkCompensated(nil, cause.Error(), now); err != nil {
		return err
	}

	err = f.inUoW(ctx, func(uow UoW) error {
		status := "unknown"
		if o, getErr := uow.OrderRepository().Get(ctx, saga.OrderID()); getErr == nil {
			status = o.Status().String()
		}
		event, err := timeline.NewEvent(saga.OrderID(), timeline.RefundCompensated, status, saga.Actor(),
			fmt.Sprintf("Refund rolled back: %v", cause), meta, now)
		if err != nil {
			return err
		}
		if err = uow.RefundSagaRepository().Save(ctx, saga); err != nil {
			return err
		}
		return uow.TimelineRepository().Append(ctx, event)
	})
	if err != nil {
		return err
	}

	f.logger.WarnContext(ctx, "refund compensated",
		"refund_request_id", saga.RefundRequestID().String(),
		"order_id", saga.OrderID().String(),
		"cause", cause.Error(),
	)
	return nil
}

// settle drives an in-flight saga to a final state: completed when the order
// already reached Refunded, compensated otherwise.
func (f refundFlow) settle(ctx context.Context, saga *refund.Saga) error {
	uow := f.uowFactory.Create()
	o, err := uow.OrderRepository().Get(ctx, saga.OrderID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	if o != nil && o.Status() == order.Refunded {
		if err = saga.MarkOrderRefunded(time.Now()); err != nil {
			return err
		}
		return f.saveSaga(ctx, saga)
	}

	return f.compensate(ctx, saga, errRefundInterrupted)
}

func (f refundFlow) saveSaga(ctx context.Context, saga *refund.Saga) error {
	return f.inUoW(ctx, func(uow UoW) error {
		return uow.RefundSagaRepository().Save(ctx, saga)
	})
}
