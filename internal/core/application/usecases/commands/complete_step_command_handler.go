package commands

import (
	"context"

	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/pkg/clock"
)

// CompleteStepCommandHandler completes a step and reconciles the order status:
// a completed collection step collects a PENDING order, and the last step
// completes the order.
type CompleteStepCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewCompleteStepCommandHandler(uowFactory UoWFactory, clk clock.Clock) CompleteStepCommandHandler {
	return CompleteStepCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h *CompleteStepCommandHandler) Handle(ctx context.Context, cmd CompleteStepCommand) (*workflow.Step, error) {
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
	if err = o.EnsureActive("complete step of"); err != nil {
		return nil, err
	}

	step, err := wf.CompleteStep(cmd.StepType(), cmd.Notes(), cmd.Data(), now)
	if err != nil {
		return nil, err
	}

	changed := o.SyncWithWorkflow(wf.IsCollectionCompleted(), wf.IsCompleted(), cmd.CompletedBy(), now)
	if err = saveOrderWorkflow(ctx, uow, o, changed, wf); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return step, nil
}
