package jobs

import (
	"context"
	"time"

	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultSLASchedule runs the sweep every five minutes.
const DefaultSLASchedule = "@every 5m"

// OverdueStepsSweeper runs one SLA sweep.
type OverdueStepsSweeper interface {
	Handle(ctx context.Context, cmd commands.CheckOverdueStepsCommand) (commands.SweepReport, error)
}

// SLAMonitorJob periodically escalates workflow steps that passed their due
// date. A sweep that is still running when the next tick fires is skipped.
type SLAMonitorJob struct {
	sweeper  OverdueStepsSweeper
	metrics  *metrics.Metrics
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   zerolog.Logger
}

// NewSLAMonitorJob creates the job. schedule accepts standard five-field cron
// expressions and descriptors such as "@every 1m"; an empty schedule means
// DefaultSLASchedule.
func NewSLAMonitorJob(
	sweeper OverdueStepsSweeper,
	m *metrics.Metrics,
	schedule string,
	logger zerolog.Logger,
) *SLAMonitorJob {
	if schedule == "" {
		schedule = DefaultSLASchedule
	}
	logger = logger.With().Str("component", "sla_monitor_job").Logger()
	cronLogger := zerologCronLogger{logger: logger}

	return &SLAMonitorJob{
		sweeper:  sweeper,
		metrics:  m,
		schedule: schedule,
		timeout:  time.Minute,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
	}
}

func (j *SLAMonitorJob) Name() string {
	return "sla_monitor"
}

// Start schedules the sweep. An invalid schedule is reported here.
func (j *SLAMonitorJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		_, _ = j.RunOnce(ctx)
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info().Str("schedule", j.schedule).Msg("SLA monitor job started")
	return nil
}

// Stop unschedules the sweep and waits for a running one to finish.
func (j *SLAMonitorJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info().Msg("SLA monitor job stopped")
}

// RunOnce performs a single sweep and records its outcome.
func (j *SLAMonitorJob) RunOnce(ctx context.Context) (commands.SweepReport, error) {
	start := time.Now()

	report, err := j.sweeper.Handle(ctx, commands.NewCheckOverdueStepsCommand())
	if err != nil {
		j.metrics.ObserveSweepFailure(time.Since(start))
		j.logger.Error().Err(err).Msg("SLA sweep failed")
		return report, err
	}

	j.metrics.ObserveSweep(time.Since(start), report.Overdue, report.Failed)

	evt := j.logger.Debug()
	if report.Overdue > 0 {
		evt = j.logger.Info()
	}
	evt.
		Int("overdue", report.Overdue).
		Int("escalated", report.Escalated).
		Int("failed", report.Failed).
		Msg("SLA sweep finished")

	return report, nil
}

// zerologCronLogger adapts zerolog to cron.Logger.
type zerologCronLogger struct {
	logger zerolog.Logger
}

func (l zerologCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l zerologCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
