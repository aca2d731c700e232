package jobs_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"labflow/internal/adapters/out/memory"
	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/core/ports"
	"labflow/internal/jobs"
	"labflow/internal/pkg/clock"
	"labflow/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) Handle(ctx context.Context, cmd commands.CheckOverdueStepsCommand) (commands.SweepReport, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.SweepReport), args.Error(1)
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []ports.Alert
}

func (n *recordingNotifier) Notify(_ context.Context, alert ports.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return nil
}

func TestSLAMonitorJob_RunOnceRecordsMetrics(t *testing.T) {
	sweeper := new(MockSweeper)
	sweeper.On("Handle", mock.Anything, mock.Anything).
		Return(commands.SweepReport{Overdue: 3, Escalated: 2, Failed: 1}, nil).Once()
	m := metrics.New()
	job := jobs.NewSLAMonitorJob(sweeper, m, "", zerolog.Nop())

	report, err := job.RunOnce(t.Context())

	require.NoError(t, err)
	assert.Equal(t, commands.SweepReport{Overdue: 3, Escalated: 2, Failed: 1}, report)
	sweeper.AssertExpectations(t)

	expected := `
# HELP labflow_sla_overdue_steps Overdue workflow steps found by the last sweep.
# TYPE labflow_sla_overdue_steps gauge
labflow_sla_overdue_steps 3
# HELP labflow_sla_escalation_failures_total Overdue steps whose alert could not be raised.
# TYPE labflow_sla_escalation_failures_total counter
labflow_sla_escalation_failures_total 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"labflow_sla_overdue_steps", "labflow_sla_escalation_failures_total"))
}

func TestSLAMonitorJob_RunOnceReturnsSweepError(t *testing.T) {
	sweeper := new(MockSweeper)
	sweeper.On("Handle", mock.Anything, mock.Anything).
		Return(commands.SweepReport{}, errors.New("connection refused")).Once()
	m := metrics.New()
	job := jobs.NewSLAMonitorJob(sweeper, m, "", zerolog.Nop())

	_, err := job.RunOnce(t.Context())

	require.EqualError(t, err, "connection refused")
	expected := `
# HELP labflow_sla_escalation_failures_total Overdue steps whose alert could not be raised.
# TYPE labflow_sla_escalation_failures_total counter
labflow_sla_escalation_failures_total 0
# HELP labflow_sla_sweep_failures_total SLA sweeps that failed before any step was checked.
# TYPE labflow_sla_sweep_failures_total counter
labflow_sla_sweep_failures_total 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"labflow_sla_escalation_failures_total", "labflow_sla_sweep_failures_total"))

	assert.Equal(t, uint64(1), sweepSamples(t, m))
}

func TestSLAMonitorJob_StartRejectsInvalidSchedule(t *testing.T) {
	job := jobs.NewSLAMonitorJob(new(MockSweeper), metrics.New(), "every now and then", zerolog.Nop())

	assert.Error(t, job.Start())
}

func TestSLAMonitorJob_RunsOnSchedule(t *testing.T) {
	ran := make(chan struct{}, 1)
	sweeper := new(MockSweeper)
	sweeper.On("Handle", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case ran <- struct{}{}:
			default:
			}
		}).
		Return(commands.SweepReport{}, nil)
	job := jobs.NewSLAMonitorJob(sweeper, metrics.New(), "@every 1s", zerolog.Nop())

	require.NoError(t, job.Start())
	defer job.Stop()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep did not run")
	}
}

func TestSLAMonitorJob_EscalatesOverdueSteps(t *testing.T) {
	ctx := t.Context()
	t0 := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())

	createHandler := commands.NewCreateOrderCommandHandler(factory, clock.Fixed(t0))
	createCmd, err := commands.NewCreateOrderCommand("patient-1", "dr-who", order.Stat, "")
	require.NoError(t, err)
	created, err := createHandler.Handle(ctx, createCmd)
	require.NoError(t, err)

	routeHandler := commands.NewTriggerAutomationCommandHandler(factory, clock.Fixed(t0))
	routeCmd, err := commands.NewTriggerAutomationCommand(created.ID(), workflow.SampleCollection, workflow.PriorityRouting{})
	require.NoError(t, err)
	_, err = routeHandler.Handle(ctx, routeCmd)
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	sweep := commands.NewCheckOverdueStepsCommandHandler(factory, notifier, clock.Fixed(t0.Add(time.Hour)), zerolog.Nop())
	job := jobs.NewSLAMonitorJob(&sweep, metrics.New(), "", zerolog.Nop())

	report, err := job.RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, commands.SweepReport{Overdue: workflow.StepCount, Escalated: workflow.StepCount}, report)
	require.Len(t, notifier.alerts, workflow.StepCount)
	for _, alert := range notifier.alerts {
		assert.Equal(t, ports.AlertStepOverdue, alert.Kind)
		assert.Equal(t, created.Number().String(), alert.Subject)
		assert.Equal(t, "stat", alert.Details["priority"])
	}
}

func sweepSamples(t *testing.T, m *metrics.Metrics) uint64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "labflow_sla_sweep_duration_seconds" {
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	t.Fatal("sweep duration histogram not registered")
	return 0
}
