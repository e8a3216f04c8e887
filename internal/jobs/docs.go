// Package jobs provides scheduled background tasks for the order ledger.
//
// Jobs are cron-based (github.com/robfig/cron/v3, with a seconds field) and
// skip a tick while the previous pass is still running.
//
// # Available Jobs
//
// 1. RefundReconciliationJob - settles refund sagas stuck between the fund
// withdrawal and the order update, restoring the fund when the order can no
// longer be refunded
// 2. ContributionAccrualJob - books the insurance fund contribution of
// completed orders
// 3. SLAMonitorJob - records SLA breaches and escalations of orders waiting
// too long in a status
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewRefundReconciliationJob(reconcileHandler, "*/30 * * * * *", 2*time.Minute, 100, logger),
//		jobs.NewContributionAccrualJob(accrueHandler, "0 */5 * * * *", 200, logger),
//		jobs.NewSLAMonitorJob(slaHandler, "0 * * * * *", 100, logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed pass is logged and retried on the next tick. Failed job starts
// stop any already running jobs.
package jobs
