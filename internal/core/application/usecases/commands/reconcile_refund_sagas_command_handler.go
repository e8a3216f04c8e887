package commands

import (
	"context"
	"log/slog"
	"time"

	"orderledger/internal/core/domain/model/refund"
)

// ReconcileResult counts what a reconciliation pass did.
type ReconcileResult struct {
	Examined  int
	Completed int
	Settled   int
	Skipped   int
	Failed    int
}

// ReconcileRefundSagasCommandHandler repairs in-flight refund sagas. A saga
// whose refund request lane is busy is skipped; it belongs to a live request.
type ReconcileRefundSagasCommandHandler struct {
	flow refundFlow
}

func NewReconcileRefundSagasCommandHandler(uowFactory UoWFactory, ledger *Ledger, lanes *Lanes, logger *slog.Logger) ReconcileRefundSagasCommandHandler {
	return ReconcileRefundSagasCommandHandler{
		flow: refundFlow{
			uowFactory: uowFactory,
			ledger:     ledger,
			lanes:      lanes,
			logger:     logger.With("component", "refund_reconciler"),
		},
	}
}

func (h ReconcileRefundSagasCommandHandler) Handle(ctx context.Context, cmd ReconcileRefundSagasCommand) (ReconcileResult, error) {
	var result ReconcileResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	stale, err := h.flow.uowFactory.Create().RefundSagaRepository().ListStale(ctx,
		[]refund.State{refund.Pending, refund.LedgerDebited},
		time.Now().Add(-cmd.StaleAfter()),
		cmd.Limit(),
	)
	if err != nil {
		return result, err
	}

	for _, saga := range stale {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Examined++

		release, lockErr := h.flow.lanes.lockRefund(saga.RefundRequestID())
		if lockErr != nil {
			result.Skipped++
			continue
		}

		if settleErr := h.flow.settle(ctx, saga); settleErr != nil {
			result.Failed++
			h.flow.logger.ErrorContext(ctx, "failed to settle refund saga",
				"refund_request_id", saga.RefundRequestID().String(),
				"state", saga.State().String(),
				"error", settleErr,
			)
		} else if saga.State() == refund.OrderRefunded {
			result.Completed++
		} else {
			result.Settled++
		}
		release()
	}

	if result.Examined > 0 {
		h.flow.logger.InfoContext(ctx, "refund sagas reconciled",
			"examined", result.Examined,
			"completed", result.Completed,
			"settled", result.Settled,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}
	return result, nil
}
