package workflow_test

import (
	"testing"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func newWorkflow(t *testing.T) *workflow.Workflow {
	t.Helper()
	wf, err := workflow.NewWorkflow(kernel.NewUUID())
	require.NoError(t, err)
	return wf
}

func statuses(wf *workflow.Workflow) map[workflow.StepType]workflow.StepStatus {
	out := make(map[workflow.StepType]workflow.StepStatus)
	for _, s := range wf.Steps() {
		out[s.Type()] = s.Status()
	}
	return out
}

func completeThrough(t *testing.T, wf *workflow.Workflow, last workflow.StepType) {
	t.Helper()
	for _, st := range workflow.StepTypes() {
		if st > last {
			return
		}
		_, err := wf.CompleteStep(st, "", nil, t0)
		require.NoError(t, err, st.String())
	}
}

func TestNewWorkflow(t *testing.T) {
	t.Run("should seed six pending steps sequenced 1..6", func(t *testing.T) {
		orderID := kernel.NewUUID()

		wf, err := workflow.NewWorkflow(orderID)

		require.NoError(t, err)
		steps := wf.Steps()
		require.Len(t, steps, workflow.StepCount)
		for i, s := range steps {
			assert.Equal(t, i+1, s.Sequence())
			assert.Equal(t, workflow.StepTypes()[i], s.Type())
			assert.Equal(t, workflow.StepPending, s.Status())
			assert.True(t, orderID.IsEqual(s.OrderID()))
			assert.Nil(t, s.DueDate())
			assert.True(t, s.IsChanged())
		}
	})

	t.Run("should reject zero order id", func(t *testing.T) {
		_, err := workflow.NewWorkflow(kernel.UUID{})
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestRestoreWorkflow(t *testing.T) {
	t.Run("should sort steps by sequence", func(t *testing.T) {
		wf := newWorkflow(t)
		steps := wf.Steps()
		shuffled := []*workflow.Step{steps[5], steps[2], steps[0], steps[4], steps[1], steps[3]}

		restored, err := workflow.RestoreWorkflow(wf.OrderID(), shuffled)

		require.NoError(t, err)
		for i, s := range restored.Steps() {
			assert.Equal(t, i+1, s.Sequence())
		}
	})

	t.Run("should reject missing or duplicated steps", func(t *testing.T) {
		wf := newWorkflow(t)
		steps := wf.Steps()

		_, err := workflow.RestoreWorkflow(wf.OrderID(), steps[:5])
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

		dup := []*workflow.Step{steps[0], steps[0], steps[2], steps[3], steps[4], steps[5]}
		_, err = workflow.RestoreWorkflow(wf.OrderID(), dup)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject steps of another order", func(t *testing.T) {
		wf := newWorkflow(t)

		_, err := workflow.RestoreWorkflow(kernel.NewUUID(), wf.Steps())

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject snapshot with wrong sequence", func(t *testing.T) {
		snap := newWorkflow(t).Steps()[0].Snapshot()
		snap.Sequence = 4

		_, err := workflow.RestoreStep(snap)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestWorkflow_StartStep(t *testing.T) {
	wf := newWorkflow(t)

	step, err := wf.StartStep(workflow.SampleCollection, "nurse-1", t0)

	require.NoError(t, err)
	assert.Equal(t, workflow.StepInProgress, step.Status())
	assert.Equal(t, "nurse-1", step.Assignee())
	require.NotNil(t, step.StartedAt())
	assert.Equal(t, t0, *step.StartedAt())

	_, err = wf.StartStep(workflow.SampleCollection, "nurse-2", t0)
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
}

func TestWorkflow_StartStep_Eligibility(t *testing.T) {
	t.Run("should reject a step whose predecessors are open", func(t *testing.T) {
		wf := newWorkflow(t)

		_, err := wf.StartStep(workflow.Testing, "tech-1", t0)

		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		assert.Contains(t, err.Error(), "sample_collection")
		assert.Equal(t, workflow.StepPending, statuses(wf)[workflow.Testing])
	})

	t.Run("should let parallel-capable steps overlap", func(t *testing.T) {
		wf := newWorkflow(t)
		completeThrough(t, wf, workflow.SampleCollection)

		_, err := wf.StartStep(workflow.SamplePreparation, "tech-1", t0)
		require.NoError(t, err)
		_, err = wf.StartStep(workflow.Testing, "tech-2", t0)
		require.NoError(t, err)

		assert.Equal(t, workflow.StepInProgress, statuses(wf)[workflow.Testing])
	})

	t.Run("should hold quality control until testing completes", func(t *testing.T) {
		wf := newWorkflow(t)
		completeThrough(t, wf, workflow.SamplePreparation)

		_, err := wf.StartStep(workflow.QualityControl, "qc-1", t0)
		require.ErrorIs(t, err, errs.ErrInvalidStateTransition)

		_, err = wf.CompleteStep(workflow.Testing, "", nil, t0)
		require.NoError(t, err)
		_, err = wf.StartStep(workflow.QualityControl, "qc-1", t0)
		require.NoError(t, err)
	})
}

func TestWorkflow_CompleteStep(t *testing.T) {
	t.Run("should complete in order and record payload", func(t *testing.T) {
		wf := newWorkflow(t)
		_, err := wf.StartStep(workflow.SampleCollection, "nurse-1", t0)
		require.NoError(t, err)

		step, err := wf.CompleteStep(workflow.SampleCollection, "tube A", map[string]any{"tubes": 2}, t0.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, workflow.StepCompleted, step.Status())
		assert.Equal(t, "tube A", step.Notes())
		assert.Equal(t, map[string]any{"tubes": 2}, step.Payload())
		require.NotNil(t, step.CompletedAt())
		assert.Equal(t, t0.Add(time.Minute), *step.CompletedAt())
	})

	t.Run("should not auto-start next step", func(t *testing.T) {
		wf := newWorkflow(t)

		_, err := wf.CompleteStep(workflow.SampleCollection, "", nil, t0)

		require.NoError(t, err)
		assert.Equal(t, workflow.StepPending, statuses(wf)[workflow.SamplePreparation])
	})

	t.Run("should fail on completed step", func(t *testing.T) {
		wf := newWorkflow(t)
		completeThrough(t, wf, workflow.SampleCollection)

		_, err := wf.CompleteStep(workflow.SampleCollection, "", nil, t0)

		assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})

	t.Run("should reject skipping steps", func(t *testing.T) {
		wf := newWorkflow(t)

		_, err := wf.CompleteStep(workflow.QualityControl, "", nil, t0)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "sample_collection")
		assert.Equal(t, workflow.StepPending, statuses(wf)[workflow.QualityControl])
	})

	t.Run("should allow testing before preparation", func(t *testing.T) {
		wf := newWorkflow(t)
		completeThrough(t, wf, workflow.SampleCollection)

		_, err := wf.CompleteStep(workflow.Testing, "", nil, t0)

		require.NoError(t, err)
		assert.Equal(t, workflow.StepPending, statuses(wf)[workflow.SamplePreparation])
	})

	t.Run("should require preparation before quality control", func(t *testing.T) {
		wf := newWorkflow(t)
		completeThrough(t, wf, workflow.SampleCollection)
		_, err := wf.CompleteStep(workflow.Testing, "", nil, t0)
		require.NoError(t, err)

		_, err = wf.CompleteStep(workflow.QualityControl, "", nil, t0)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should fail on cancelled step", func(t *testing.T) {
		wf := newWorkflow(t)
		require.NoError(t, wf.CancelRemaining())

		_, err := wf.CompleteStep(workflow.SampleCollection, "", nil, t0)

		assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})
}

func TestWorkflow_RecordCollectionAndBeginTesting(t *testing.T) {
	wf := newWorkflow(t)

	require.NoError(t, wf.RecordCollection("nurse-1", "ok", t0))
	require.NoError(t, wf.RecordCollection("nurse-2", "again", t0))
	require.NoError(t, wf.BeginTesting(t0))
	require.NoError(t, wf.BeginTesting(t0))

	s := statuses(wf)
	assert.Equal(t, workflow.StepCompleted, s[workflow.SampleCollection])
	assert.Equal(t, workflow.StepInProgress, s[workflow.Testing])
	assert.Equal(t, workflow.StepPending, s[workflow.SamplePreparation])
	assert.True(t, wf.IsCollectionCompleted())

	collection, err := wf.Step(workflow.SampleCollection)
	require.NoError(t, err)
	assert.Equal(t, "nurse-1", collection.Assignee())
	assert.Equal(t, "ok", collection.Notes())
}

func TestWorkflow_CompleteAll(t *testing.T) {
	wf := newWorkflow(t)
	require.NoError(t, wf.RecordCollection("n", "", t0))
	require.NoError(t, wf.BeginTesting(t0))

	require.NoError(t, wf.CompleteAll(t0.Add(time.Hour)))

	assert.True(t, wf.IsCompleted())
	for _, s := range wf.Steps() {
		assert.Equal(t, workflow.StepCompleted, s.Status())
		require.NotNil(t, s.CompletedAt())
	}
}

func TestWorkflow_CancelRemaining(t *testing.T) {
	wf := newWorkflow(t)
	completeThrough(t, wf, workflow.SamplePreparation)
	_, err := wf.StartStep(workflow.Testing, "tech", t0)
	require.NoError(t, err)

	require.NoError(t, wf.CancelRemaining())

	s := statuses(wf)
	assert.Equal(t, workflow.StepCompleted, s[workflow.SampleCollection])
	assert.Equal(t, workflow.StepCompleted, s[workflow.SamplePreparation])
	for _, st := range []workflow.StepType{workflow.Testing, workflow.QualityControl, workflow.ResultVerification, workflow.Reporting} {
		assert.Equal(t, workflow.StepCancelled, s[st], st.String())
	}
	assert.False(t, wf.IsCompleted())
}

func TestWorkflow_IsCompletedIffAllSixCompleted(t *testing.T) {
	wf := newWorkflow(t)
	for _, st := range workflow.StepTypes() {
		assert.False(t, wf.IsCompleted())
		_, err := wf.CompleteStep(st, "", nil, t0)
		require.NoError(t, err)
	}
	assert.True(t, wf.IsCompleted())
}

func TestWorkflow_Progress(t *testing.T) {
	wf := newWorkflow(t)

	p := wf.Progress()
	assert.Equal(t, 6, p.TotalSteps)
	assert.Equal(t, 0, p.CompletedSteps)
	assert.InDelta(t, 0.0, p.Percentage, 0.001)
	assert.Equal(t, workflow.CurrentStepCompleted, p.CurrentStep)

	completeThrough(t, wf, workflow.SamplePreparation)
	_, err := wf.StartStep(workflow.Testing, "tech", t0)
	require.NoError(t, err)

	p = wf.Progress()
	assert.Equal(t, 2, p.CompletedSteps)
	assert.InDelta(t, 33.33, p.Percentage, 0.001)
	assert.Equal(t, "testing", p.CurrentStep)

	require.NoError(t, wf.CompleteAll(t0))
	p = wf.Progress()
	assert.Equal(t, 6, p.CompletedSteps)
	assert.InDelta(t, 100.0, p.Percentage, 0.001)
	assert.Equal(t, "Completed", p.CurrentStep)
}

func TestWorkflow_ApplyAutomation(t *testing.T) {
	t.Run("auto_advance completes pending step", func(t *testing.T) {
		wf := newWorkflow(t)

		err := wf.ApplyAutomation(workflow.AutoAdvance{}, workflow.SampleCollection, order.Routine, t0)

		require.NoError(t, err)
		assert.Equal(t, workflow.StepCompleted, statuses(wf)[workflow.SampleCollection])
		assert.Equal(t, workflow.StepPending, statuses(wf)[workflow.SamplePreparation])
	})

	t.Run("auto_advance ignores non-pending step", func(t *testing.T) {
		wf := newWorkflow(t)
		_, err := wf.StartStep(workflow.SampleCollection, "n", t0)
		require.NoError(t, err)

		err = wf.ApplyAutomation(workflow.AutoAdvance{}, workflow.SampleCollection, order.Routine, t0)

		require.NoError(t, err)
		assert.Equal(t, workflow.StepInProgress, statuses(wf)[workflow.SampleCollection])
	})

	t.Run("auto_advance respects sequencing", func(t *testing.T) {
		wf := newWorkflow(t)

		err := wf.ApplyAutomation(workflow.AutoAdvance{}, workflow.Reporting, order.Routine, t0)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("parallel_processing starts preparation and testing only", func(t *testing.T) {
		wf := newWorkflow(t)
		before := statuses(wf)

		err := wf.ApplyAutomation(workflow.ParallelProcessing{}, workflow.Testing, order.Routine, t0)

		require.NoError(t, err)
		after := statuses(wf)
		assert.Equal(t, workflow.StepInProgress, after[workflow.SamplePreparation])
		assert.Equal(t, workflow.StepInProgress, after[workflow.Testing])
		for _, st := range []workflow.StepType{workflow.SampleCollection, workflow.QualityControl, workflow.ResultVerification, workflow.Reporting} {
			assert.Equal(t, before[st], after[st], st.String())
		}
	})

	t.Run("priority_routing sets due dates from order priority", func(t *testing.T) {
		tests := []struct {
			priority order.Priority
			offset   time.Duration
		}{
			{order.Stat, 30 * time.Minute},
			{order.Urgent, 2 * time.Hour},
		}
		for _, tt := range tests {
			wf := newWorkflow(t)
			completeThrough(t, wf, workflow.SampleCollection)

			err := wf.ApplyAutomation(workflow.PriorityRouting{}, workflow.Testing, tt.priority, t0)

			require.NoError(t, err)
			for _, s := range wf.Steps() {
				if s.Status() == workflow.StepCompleted {
					assert.Nil(t, s.DueDate())
					continue
				}
				require.NotNil(t, s.DueDate())
				assert.Equal(t, t0.Add(tt.offset), *s.DueDate())
			}
		}
	})

	t.Run("priority_routing leaves routine due dates unchanged", func(t *testing.T) {
		wf := newWorkflow(t)

		require.NoError(t, wf.ApplyAutomation(workflow.PriorityRouting{}, workflow.Testing, order.Routine, t0))

		for _, s := range wf.Steps() {
			assert.Nil(t, s.DueDate())
		}
	})

	t.Run("priority_routing honours override", func(t *testing.T) {
		wf := newWorkflow(t)

		err := wf.ApplyAutomation(workflow.PriorityRouting{Priority: order.Stat}, workflow.Testing, order.Routine, t0)

		require.NoError(t, err)
		for _, s := range wf.Steps() {
			require.NotNil(t, s.DueDate())
			assert.Equal(t, t0.Add(30*time.Minute), *s.DueDate())
		}
	})

	t.Run("should reject nil rule and unknown step", func(t *testing.T) {
		wf := newWorkflow(t)

		assert.ErrorIs(t, wf.ApplyAutomation(nil, workflow.Testing, order.Routine, t0), errs.ErrValueIsRequired)
		assert.ErrorIs(t, wf.ApplyAutomation(workflow.AutoAdvance{}, workflow.StepType(9), order.Routine, t0), errs.ErrValueIsInvalid)
	})
}

func TestWorkflow_OverdueSteps(t *testing.T) {
	wf := newWorkflow(t)
	require.NoError(t, wf.ApplyAutomation(workflow.PriorityRouting{}, workflow.Testing, order.Stat, t0))

	assert.Empty(t, wf.OverdueSteps(t0.Add(29*time.Minute)))
	assert.Len(t, wf.OverdueSteps(t0.Add(31*time.Minute)), workflow.StepCount)

	_, err := wf.CompleteStep(workflow.SampleCollection, "", nil, t0)
	require.NoError(t, err)
	overdue := wf.OverdueSteps(t0.Add(31 * time.Minute))
	assert.Len(t, overdue, workflow.StepCount-1)
	for _, s := range overdue {
		assert.NotEqual(t, workflow.SampleCollection, s.Type())
	}

	require.NoError(t, wf.CancelRemaining())
	assert.Empty(t, wf.OverdueSteps(t0.Add(31*time.Minute)))
}

func TestStep_SnapshotRoundTrip(t *testing.T) {
	wf := newWorkflow(t)
	step, err := wf.CompleteStep(workflow.SampleCollection, "n", map[string]any{"k": "v"}, t0)
	require.NoError(t, err)
	step.MarkPersisted(2)

	restored, err := workflow.RestoreStep(step.Snapshot())

	require.NoError(t, err)
	assert.Equal(t, step.Snapshot(), restored.Snapshot())
	assert.False(t, restored.IsChanged())
	assert.Equal(t, 2, restored.Version())
}

func TestWorkflow_ChangedSteps(t *testing.T) {
	wf := newWorkflow(t)
	for _, s := range wf.Steps() {
		s.MarkPersisted(s.Version())
	}
	assert.Empty(t, wf.ChangedSteps())

	_, err := wf.StartStep(workflow.SampleCollection, "n", t0)
	require.NoError(t, err)

	changed := wf.ChangedSteps()
	require.Len(t, changed, 1)
	assert.Equal(t, workflow.SampleCollection, changed[0].Type())
}
