// Package jobs provides scheduled background tasks for the laboratory workflow
// service.
//
// Jobs are cron-based and use github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. SLAMonitorJob - Runs on SLA_SWEEP_SCHEDULE (default "@every 5m") and raises
// a step_overdue alert for every pending or in-progress step past its due date
//
// # Usage
//
// The process starts its jobs through a JobManager:
//
//	manager := jobs.NewJobManager(
//		jobs.NewSLAMonitorJob(&checkOverdueStepsHandler, m, cfg.SLASweepSchedule, logger),
//	)
//
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Error Handling
//
// - A failing sweep is logged and retried on the next tick
// - Per-step escalation failures are counted in the sweep report and metrics
// - A sweep still running when the next tick fires is skipped
// - If a job fails to start, the jobs already started are stopped
package jobs
