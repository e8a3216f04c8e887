package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderledger/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// RefundReconciler settles refund sagas left in flight.
type RefundReconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcileRefundSagasCommand) (commands.ReconcileResult, error)
}

// RefundReconciliationJob periodically settles refund sagas that stopped
// between the fund withdrawal and the order update.
type RefundReconciliationJob struct {
	handler    RefundReconciler
	spec       string
	staleAfter time.Duration
	limit      int
	cron       *cron.Cron
	logger     *slog.Logger
}

func NewRefundReconciliationJob(
	handler RefundReconciler,
	spec string,
	staleAfter time.Duration,
	limit int,
	logger *slog.Logger,
) *RefundReconciliationJob {
	return &RefundReconciliationJob{
		handler:    handler,
		spec:       spec,
		staleAfter: staleAfter,
		limit:      limit,
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:     logger.With("component", "refund_reconciliation_job"),
	}
}

// Start schedules the job on its cron spec (with seconds).
func (j *RefundReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Refund reconciliation job started", "schedule", j.spec)
	return nil
}

// Run performs a single reconciliation pass.
func (j *RefundReconciliationJob) Run(ctx context.Context) {
	cmd, err := commands.NewReconcileRefundSagasCommand(j.staleAfter, j.limit)
	if err != nil {
		j.logger.ErrorContext(ctx, "Refund reconciliation misconfigured", "error", err)
		return
	}

	// The handler logs the pass summary.
	if _, err = j.handler.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Refund reconciliation job failed", "error", err)
	}
}

// Stop unschedules the job and waits for a running pass to finish.
func (j *RefundReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Refund reconciliation job stopped")
}
