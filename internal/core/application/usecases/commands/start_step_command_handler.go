package commands

import (
	"context"

	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/pkg/clock"
)

// StartStepCommandHandler starts a step of a non-terminal order.
type StartStepCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewStartStepCommandHandler(uowFactory UoWFactory, clk clock.Clock) StartStepCommandHandler {
	return StartStepCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h *StartStepCommandHandler) Handle(ctx context.Context, cmd StartStepCommand) (*workflow.Step, error) {
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
	if err = o.EnsureActive("start step of"); err != nil {
		return nil, err
	}

	step, err := wf.StartStep(cmd.StepType(), cmd.Assignee(), now)
	if err != nil {
		return nil, err
	}

	if err = saveOrderWorkflow(ctx, uow, o, false, wf); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return step, nil
}
