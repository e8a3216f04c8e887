package jobs

import (
	"context"
	"log/slog"

	"orderledger/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SLAChecker records SLA breaches and escalations of waiting orders.
type SLAChecker interface {
	Handle(ctx context.Context, cmd commands.CheckOrderSLACommand) (int, error)
}

// SLAMonitorJob periodically checks orders against the SLA of their status.
type SLAMonitorJob struct {
	handler SLAChecker
	spec    string
	limit   int
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewSLAMonitorJob(handler SLAChecker, spec string, limit int, logger *slog.Logger) *SLAMonitorJob {
	return &SLAMonitorJob{
		handler: handler,
		spec:    spec,
		limit:   limit,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "sla_monitor_job"),
	}
}

func (j *SLAMonitorJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("SLA monitor job started", "schedule", j.spec)
	return nil
}

// Run checks one batch per monitored status.
func (j *SLAMonitorJob) Run(ctx context.Context) {
	cmd, err := commands.NewCheckOrderSLACommand(j.limit)
	if err != nil {
		j.logger.ErrorContext(ctx, "SLA monitor misconfigured", "error", err)
		return
	}

	if _, err = j.handler.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "SLA monitor job failed", "error", err)
	}
}

func (j *SLAMonitorJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("SLA monitor job stopped")
}
