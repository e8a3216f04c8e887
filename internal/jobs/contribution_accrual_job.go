package jobs

import (
	"context"
	"log/slog"

	"orderledger/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ContributionAccruer books fund contributions for completed orders.
type ContributionAccruer interface {
	Handle(ctx context.Context, cmd commands.AccrueOrderContributionsCommand) (int, error)
}

// ContributionAccrualJob periodically credits each tenant fund with the
// contribution of its newly completed orders.
type ContributionAccrualJob struct {
	handler ContributionAccruer
	spec    string
	limit   int
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewContributionAccrualJob(handler ContributionAccruer, spec string, limit int, logger *slog.Logger) *ContributionAccrualJob {
	return &ContributionAccrualJob{
		handler: handler,
		spec:    spec,
		limit:   limit,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "contribution_accrual_job"),
	}
}

func (j *ContributionAccrualJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Contribution accrual job started", "schedule", j.spec)
	return nil
}

// Run accrues one batch.
func (j *ContributionAccrualJob) Run(ctx context.Context) {
	cmd, err := commands.NewAccrueOrderContributionsCommand(j.limit)
	if err != nil {
		j.logger.ErrorContext(ctx, "Contribution accrual misconfigured", "error", err)
		return
	}

	accrued, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Contribution accrual job failed", "error", err)
		return
	}
	if accrued > 0 {
		j.logger.InfoContext(ctx, "Order contributions accrued", "count", accrued)
	}
}

func (j *ContributionAccrualJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Contribution accrual job stopped")
}
