package order_test

import (
	"testing"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, p order.Priority) *order.LabOrder {
	t.Helper()
	number, err := order.NewNumber(created, 1)
	require.NoError(t, err)
	o, err := order.NewLabOrder(kernel.NewUUID(), number, "PAT-001", "DR-042", p, "fasting", created)
	require.NoError(t, err)
	return o
}

func TestNewLabOrder(t *testing.T) {
	t.Run("should create pending order with expected completion", func(t *testing.T) {
		tests := map[order.Priority]time.Duration{
			order.Routine: 24 * time.Hour,
			order.Urgent:  6 * time.Hour,
			order.Stat:    2 * time.Hour,
		}
		for p, d := range tests {
			o := newOrder(t, p)

			assert.Equal(t, order.Pending, o.Status())
			assert.Equal(t, created.Add(d), o.ExpectedCompletionAt(), p.String())
			assert.Equal(t, "LAB-20260504-0001", o.Number().String())
			assert.Equal(t, 1, o.Version())
			assert.Nil(t, o.CompletedAt())
			assert.Nil(t, o.CancelledAt())
			require.NoError(t, o.Validate())
		}
	})

	t.Run("should join all validation errors", func(t *testing.T) {
		_, err := order.NewLabOrder(kernel.UUID{}, order.Number{}, " ", "", order.UnknownPriority, "", created)

		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "patient reference")
		assert.Contains(t, err.Error(), "physician reference")
		assert.Contains(t, err.Error(), "order number")
	})
}

func TestLabOrder_Validate(t *testing.T) {
	var nilOrder *order.LabOrder
	assert.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
	assert.ErrorIs(t, (&order.LabOrder{}).Validate(), order.ErrOrderIsNotConstructed)
}

func TestLabOrder_Lifecycle(t *testing.T) {
	o := newOrder(t, order.Urgent)

	require.NoError(t, o.CollectSample("nurse-1", "left arm", created.Add(time.Minute)))
	assert.Equal(t, order.Collected, o.Status())
	require.NotNil(t, o.CollectedAt())
	assert.Equal(t, created.Add(time.Minute), *o.CollectedAt())
	assert.Equal(t, "nurse-1", o.CollectedBy())

	require.NoError(t, o.StartProcessing(created.Add(2*time.Minute)))
	assert.Equal(t, order.Processing, o.Status())

	require.NoError(t, o.Complete("tech-7", "ok", created.Add(time.Hour)))
	assert.Equal(t, order.Completed, o.Status())
	require.NotNil(t, o.CompletedAt())
	assert.Equal(t, "tech-7", o.CompletedBy())

	err := o.Cancel("too late", "admin", created.Add(2*time.Hour))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	assert.Equal(t, order.Completed, o.Status())
	assert.Nil(t, o.CancelledAt())
}

func TestLabOrder_Cancel(t *testing.T) {
	t.Run("should require reason", func(t *testing.T) {
		o := newOrder(t, order.Routine)

		err := o.Cancel("  ", "admin", created)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should record reason and time", func(t *testing.T) {
		o := newOrder(t, order.Routine)

		require.NoError(t, o.Cancel("patient left", "admin", created.Add(time.Hour)))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, "patient left", o.CancellationReason())
		assert.Equal(t, "admin", o.CancelledBy())
		require.NotNil(t, o.CancelledAt())
		assert.Nil(t, o.CompletedAt())
	})

	t.Run("should reject second cancellation", func(t *testing.T) {
		o := newOrder(t, order.Routine)
		require.NoError(t, o.Cancel("x", "admin", created))

		err := o.Cancel("y", "admin", created)

		assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
		assert.Equal(t, "x", o.CancellationReason())
	})
}

func TestLabOrder_CannotSkipStages(t *testing.T) {
	o := newOrder(t, order.Stat)

	assert.ErrorIs(t, o.StartProcessing(created), errs.ErrInvalidStateTransition)
	assert.ErrorIs(t, o.Complete("x", "", created), errs.ErrInvalidStateTransition)
	assert.Equal(t, order.Pending, o.Status())
}

func TestLabOrder_SyncWithWorkflow(t *testing.T) {
	t.Run("should collect pending order when collection step completed", func(t *testing.T) {
		o := newOrder(t, order.Routine)

		changed := o.SyncWithWorkflow(true, false, "nurse", created.Add(time.Minute))

		assert.True(t, changed)
		assert.Equal(t, order.Collected, o.Status())
		require.NotNil(t, o.CollectedAt())
	})

	t.Run("should complete order when workflow completed", func(t *testing.T) {
		o := newOrder(t, order.Routine)
		require.NoError(t, o.CollectSample("n", "", created))

		changed := o.SyncWithWorkflow(true, true, "tech", created.Add(time.Hour))

		assert.True(t, changed)
		assert.Equal(t, order.Completed, o.Status())
		require.NotNil(t, o.CompletedAt())
	})

	t.Run("should not touch terminal order", func(t *testing.T) {
		o := newOrder(t, order.Routine)
		require.NoError(t, o.Cancel("r", "a", created))

		assert.False(t, o.SyncWithWorkflow(true, true, "tech", created))
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("should report no change when nothing to reconcile", func(t *testing.T) {
		o := newOrder(t, order.Routine)
		require.NoError(t, o.CollectSample("n", "", created))

		assert.False(t, o.SyncWithWorkflow(true, false, "tech", created))
	})
}

func TestLabOrder_SnapshotRoundTrip(t *testing.T) {
	o := newOrder(t, order.Stat)
	require.NoError(t, o.CollectSample("n", "notes", created))
	o.MarkPersisted(3)

	restored, err := order.RestoreLabOrder(o.Snapshot())

	require.NoError(t, err)
	assert.True(t, o.IsEqual(restored))
	assert.Equal(t, o.Snapshot(), restored.Snapshot())
	assert.Equal(t, 3, restored.Version())
}

func TestRestoreLabOrder_RejectsInvalidState(t *testing.T) {
	s := newOrder(t, order.Routine).Snapshot()
	s.Status = order.Status(9)
	s.Number = "bogus"

	_, err := order.RestoreLabOrder(s)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestLabOrder_IsOverdue(t *testing.T) {
	o := newOrder(t, order.Stat)

	assert.False(t, o.IsOverdue(created.Add(time.Hour)))
	assert.True(t, o.IsOverdue(created.Add(3*time.Hour)))

	require.NoError(t, o.Cancel("r", "a", created))
	assert.False(t, o.IsOverdue(created.Add(3*time.Hour)))
}
