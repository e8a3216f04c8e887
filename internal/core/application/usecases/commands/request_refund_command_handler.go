package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/refund"
	"orderledger/internal/pkg/errs"
)

// RequestRefundCommandHandler is the refund orchestrator, the only path that
// moves an order into Refunded.
//
// Steps, each recorded on the refund saga:
//  1. the order must be non-terminal and paid
//  2. the fund is debited; a rejected withdrawal leaves the order untouched and
//     records a refund_failed timeline event
//  3. the order is refunded; if that fails the withdrawal is given back with a
//     "Refund rollback for <id>" contribution and the original error returned
//  4. the refund_completed timeline event links order, transaction and request
//
// Example:
//
//	cmd, _ := commands.NewRequestRefundCommand(orderID, refundRequestID, amount, "ops@tenant", "damaged in transit")
//	o, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInsufficientFunds):
//	    // order still in its previous status, nothing debited
//	case errors.Is(err, errs.ErrConflict):
//	    // raced with another writer; fund already restored
//	}
type RequestRefundCommandHandler struct {
	flow refundFlow
}

func NewRequestRefundCommandHandler(uowFactory UoWFactory, ledger *Ledger, lanes *Lanes, logger *slog.Logger) RequestRefundCommandHandler {
	return RequestRefundCommandHandler{
		flow: refundFlow{
			uowFactory: uowFactory,
			ledger:     ledger,
			lanes:      lanes,
			logger:     logger.With("component", "refund_orchestrator"),
		},
	}
}

func (h RequestRefundCommandHandler) Handle(ctx context.Context, cmd RequestRefundCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	release, err := h.flow.lanes.lockRefund(cmd.RefundRequestID())
	if err != nil {
		return nil, err
	}
	defer release()

	saga, err := h.flow.loadSaga(ctx, cmd.RefundRequestID())
	if err != nil {
		return nil, err
	}

	orders := h.flow.uowFactory.Create().OrderRepository()
	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if saga == nil {
		saga, err = refund.NewSaga(cmd.RefundRequestID(), o.TenantID(), o.ID(), cmd.Amount(), cmd.Actor(), cmd.Notes(), now)
		if err != nil {
			return nil, err
		}
	} else {
		if err = saga.Matches(cmd.OrderID(), cmd.Amount()); err != nil {
			return nil, err
		}
		if saga.State().InFlight() {
			if err = h.flow.settle(ctx, saga); err != nil {
				return nil, err
			}
		}
		if saga.State() == refund.OrderRefunded {
			return o, nil
		}
		if err = saga.Retry(cmd.Actor(), cmd.Notes(), now); err != nil {
			return nil, err
		}
	}

	if err = o.CheckRefundable(); err != nil {
		return nil, err
	}
	if err = h.flow.saveSaga(ctx, saga); err != nil {
		return nil, err
	}

	orderID := o.ID()
	withdrawal, err := h.flow.ledger.Withdraw(ctx, o.TenantID(), cmd.Amount(),
		fmt.Sprintf("Refund for order %s (request %s)", o.Number(), cmd.RefundRequestID()),
		cmd.RefundRequestID(), &orderID)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Dropped before the tenant lane was held, so nothing was debited.
		// The pending saga is closed by the next retry or by reconciliation.
		return nil, err
	}
	if errs.KindOf(err) == errs.KindInternal {
		// The outcome of the append is unknown; leave the saga pending so
		// recovery can settle it from the ledger.
		saga.RecordError(err.Error(), time.Now())
		if saveErr := h.flow.saveSaga(context.WithoutCancel(ctx), saga); saveErr != nil {
			h.flow.logger.ErrorContext(ctx, "failed to record refund error",
				"refund_request_id", cmd.RefundRequestID().String(), "error", saveErr)
		}
		return nil, err
	}
	if err != nil {
		if failErr := h.flow.fail(context.WithoutCancel(ctx), saga, o, err); failErr != nil {
			h.flow.logger.ErrorContext(ctx, "failed to record refund failure",
				"refund_request_id", cmd.RefundRequestID().String(), "error", failErr)
		}
		return nil, err
	}

	// The fund is debited: from here on the saga must reach a final state
	// regardless of the caller going away.
	ctx = context.WithoutCancel(ctx)

	if err = saga.MarkLedgerDebited(withdrawal.ID(), time.Now()); err != nil {
		return nil, err
	}
	if err = h.flow.saveSaga(ctx, saga); err != nil {
		return nil, h.rollback(ctx, saga, err)
	}

	refunded, err := h.flow.refundOrder(ctx, saga, withdrawal)
	if err != nil {
		return nil, h.rollback(ctx, saga, err)
	}

	h.flow.logger.InfoContext(ctx, "order refunded",
		"order_id", refunded.ID().String(),
		"refund_request_id", cmd.RefundRequestID().String(),
		"transaction_id", withdrawal.ID().String(),
		"amount", cmd.Amount().String(),
	)
	return refunded, nil
}

// rollback compensates after a failed step and returns cause, joined with the
// compensation error when the fund could not be restored yet. The saga then
// stays debited for the reconciliation job.
func (h RequestRefundCommandHandler) rollback(ctx context.Context, saga *refund.Saga, cause error) error {
	if err := h.flow.compensate(ctx, saga, cause); err != nil {
		return fmt.Errorf("%w; compensation pending: %w", cause, err)
	}
	return cause
}
