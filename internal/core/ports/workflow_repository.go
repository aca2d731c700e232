package ports

import (
	"context"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/workflow"
)

// WorkflowRepository persists the workflow steps of orders.
type WorkflowRepository interface {
	// Add inserts all six steps of a new workflow in one batch.
	Add(ctx context.Context, wf *workflow.Workflow) error

	// Update saves the steps changed since the workflow was loaded. Each step
	// is version-checked; a stale step yields a ConcurrencyConflictError.
	Update(ctx context.Context, wf *workflow.Workflow) error

	// Get loads the workflow of an order, steps ordered by sequence.
	Get(ctx context.Context, orderID kernel.UUID) (*workflow.Workflow, error)

	// GetOverdueSteps returns pending or in-progress steps whose due date is before now.
	GetOverdueSteps(ctx context.Context, now time.Time) ([]*workflow.Step, error)
}
