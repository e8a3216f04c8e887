package jobs

import (
	"fmt"
)

// scheduledJob is a cron-driven job with a blocking Stop.
type scheduledJob interface {
	Start() error
	Stop()
}

// JobManager starts and stops every scheduled job of the service.
type JobManager struct {
	refundReconciliationJob *RefundReconciliationJob
	contributionAccrualJob  *ContributionAccrualJob
	slaMonitorJob           *SLAMonitorJob
}

func NewJobManager(
	refundReconciliationJob *RefundReconciliationJob,
	contributionAccrualJob *ContributionAccrualJob,
	slaMonitorJob *SLAMonitorJob,
) *JobManager {
	return &JobManager{
		refundReconciliationJob: refundReconciliationJob,
		contributionAccrualJob:  contributionAccrualJob,
		slaMonitorJob:           slaMonitorJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start; jobs already started are stopped.
func (jm *JobManager) StartAll() error {
	jobs := []struct {
		name string
		job  scheduledJob
	}{
		{"refund reconciliation job", jm.refundReconciliationJob},
		{"contribution accrual job", jm.contributionAccrualJob},
		{"SLA monitor job", jm.slaMonitorJob},
	}

	for i, j := range jobs {
		if err := j.job.Start(); err != nil {
			for k := i - 1; k >= 0; k-- {
				jobs[k].job.Stop()
			}
			return fmt.Errorf("failed to start %s: %w", j.name, err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running passes.
func (jm *JobManager) StopAll() {
	jm.slaMonitorJob.Stop()
	jm.contributionAccrualJob.Stop()
	jm.refundReconciliationJob.Stop()
}
