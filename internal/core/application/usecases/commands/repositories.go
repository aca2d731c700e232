// Package commands holds the state-changing lab operations. Each operation is
// a command built by its constructor and a handler that validates it, runs
// inside one unit of work and commits. Alerts are sent only after commit.
package commands

import (
	"context"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/core/ports"

	"github.com/rs/zerolog"
)

type (
	// UoW is the transaction a handler runs in.
	UoW = ports.UnitOfWork

	UoWFactory = ports.UnitOfWorkFactory
)

// loadOrderWorkflow reads an order and its workflow inside uow.
func loadOrderWorkflow(ctx context.Context, uow UoW, orderID kernel.UUID) (*order.LabOrder, *workflow.Workflow, error) {
	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	wf, err := uow.WorkflowRepository().Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return o, wf, nil
}

// saveOrderWorkflow persists the order (when changed) and the changed steps.
func saveOrderWorkflow(ctx context.Context, uow UoW, o *order.LabOrder, orderChanged bool, wf *workflow.Workflow) error {
	if orderChanged {
		if err := uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}
	}
	return uow.WorkflowRepository().Update(ctx, wf)
}

// notify delivers an alert after commit. Delivery failures never undo the
// committed change, so they are logged.
func notify(ctx context.Context, notifier ports.AlertNotifier, logger zerolog.Logger, alert ports.Alert) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, alert); err != nil {
		logger.Warn().Err(err).
			Str("alert_kind", string(alert.Kind)).
			Str("order_id", alert.OrderID.String()).
			Msg("failed to deliver alert")
	}
}
