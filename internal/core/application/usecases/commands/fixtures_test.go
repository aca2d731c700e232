package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"labflow/internal/adapters/out/memory"
	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/result"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/core/domain/services"
	"labflow/internal/core/ports"
	"labflow/internal/pkg/errs"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []ports.Alert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, alert ports.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *recordingNotifier) Alerts() []ports.Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]ports.Alert, len(n.alerts))
	copy(out, n.alerts)
	return out
}

type stubCatalog map[string]result.TestDefinition

func (c stubCatalog) Get(_ context.Context, id string) (result.TestDefinition, error) {
	def, ok := c[id]
	if !ok {
		return result.TestDefinition{}, errs.NewObjectNotFoundError("test definition", id)
	}
	return def, nil
}

// engine wires every handler to one in-memory store.
type engine struct {
	factory  *memory.UnitOfWorkFactory
	clock    *testClock
	notifier *recordingNotifier

	create     commands.CreateOrderCommandHandler
	collect    commands.CollectSampleCommandHandler
	process    commands.StartProcessingCommandHandler
	complete   commands.CompleteOrderCommandHandler
	cancel     commands.CancelOrderCommandHandler
	startStep  commands.StartStepCommandHandler
	finishStep commands.CompleteStepCommandHandler
	automate   commands.TriggerAutomationCommandHandler
	record     commands.RecordResultCommandHandler
	update     commands.UpdateResultCommandHandler
	verify     commands.VerifyResultCommandHandler
	sweep      commands.CheckOverdueStepsCommandHandler
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	clk := &testClock{now: t0}
	notifier := &recordingNotifier{}
	catalog := stubCatalog{
		"WBC": {ID: "WBC", Name: "White blood cells", Unit: "x10^9/L", Ranges: []result.ReferenceRange{{Min: 4.0, Max: 10.0}}},
		"CRP": {ID: "CRP", Name: "C-reactive protein", Unit: "mg/L"},
	}
	evaluator := services.NewReferenceRangeEvaluator(nil)
	logger := zerolog.Nop()

	return &engine{
		factory:    factory,
		clock:      clk,
		notifier:   notifier,
		create:     commands.NewCreateOrderCommandHandler(factory, clk),
		collect:    commands.NewCollectSampleCommandHandler(factory, clk),
		process:    commands.NewStartProcessingCommandHandler(factory, clk),
		complete:   commands.NewCompleteOrderCommandHandler(factory, clk),
		cancel:     commands.NewCancelOrderCommandHandler(factory, notifier, clk, logger),
		startStep:  commands.NewStartStepCommandHandler(factory, clk),
		finishStep: commands.NewCompleteStepCommandHandler(factory, clk),
		automate:   commands.NewTriggerAutomationCommandHandler(factory, clk),
		record:     commands.NewRecordResultCommandHandler(factory, catalog, evaluator, notifier, clk, logger),
		update:     commands.NewUpdateResultCommandHandler(factory, catalog, evaluator, notifier, clk, logger),
		verify:     commands.NewVerifyResultCommandHandler(factory, clk),
		sweep:      commands.NewCheckOverdueStepsCommandHandler(factory, notifier, clk, logger),
	}
}

func (e *engine) createOrder(t *testing.T, p order.Priority) *order.LabOrder {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand("PAT-001", "DR-042", p, "")
	require.NoError(t, err)
	o, err := e.create.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return o
}

func (e *engine) collectSample(t *testing.T, id kernel.UUID) error {
	t.Helper()
	cmd, err := commands.NewCollectSampleCommand(id, "nurse-1", "left arm")
	require.NoError(t, err)
	_, err = e.collect.Handle(t.Context(), cmd)
	return err
}

func (e *engine) startProcessing(t *testing.T, id kernel.UUID) error {
	t.Helper()
	cmd, err := commands.NewStartProcessingCommand(id)
	require.NoError(t, err)
	_, err = e.process.Handle(t.Context(), cmd)
	return err
}

func (e *engine) completeOrder(t *testing.T, id kernel.UUID) error {
	t.Helper()
	cmd, err := commands.NewCompleteOrderCommand(id, "tech-7", "")
	require.NoError(t, err)
	_, err = e.complete.Handle(t.Context(), cmd)
	return err
}

func (e *engine) completeStep(t *testing.T, id kernel.UUID, st workflow.StepType) error {
	t.Helper()
	cmd, err := commands.NewCompleteStepCommand(id, st, "tech-7", "", nil)
	require.NoError(t, err)
	_, err = e.finishStep.Handle(t.Context(), cmd)
	return err
}

func (e *engine) loadOrder(t *testing.T, id kernel.UUID) *order.LabOrder {
	t.Helper()
	o, err := e.factory.Create().OrderRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return o
}

func (e *engine) stepStatuses(t *testing.T, id kernel.UUID) map[workflow.StepType]workflow.StepStatus {
	t.Helper()
	wf, err := e.factory.Create().WorkflowRepository().Get(t.Context(), id)
	require.NoError(t, err)
	out := make(map[workflow.StepType]workflow.StepStatus)
	for _, s := range wf.Steps() {
		out[s.Type()] = s.Status()
	}
	return out
}
