package commands

import (
	"context"

	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/pkg/clock"
)

// TriggerAutomationCommandHandler applies an automation rule and reconciles
// the order status with the resulting workflow.
type TriggerAutomationCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewTriggerAutomationCommandHandler(uowFactory UoWFactory, clk clock.Clock) TriggerAutomationCommandHandler {
	return TriggerAutomationCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h *TriggerAutomationCommandHandler) Handle(
	ctx context.Context,
	cmd TriggerAutomationCommand,
) (*workflow.Workflow, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, wf, err := loadOrderWorkflow(ctx, uow, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.EnsureActive("automate"); err != nil {
		return nil, err
	}

	if err = wf.ApplyAutomation(cmd.Rule(), cmd.StepType(), o.Priority(), now); err != nil {
		return nil, err
	}

	changed := o.SyncWithWorkflow(wf.IsCollectionCompleted(), wf.IsCompleted(), "automation:"+cmd.Rule().Name(), now)
	if err = saveOrderWorkflow(ctx, uow, o, changed, wf); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return wf, nil
}
