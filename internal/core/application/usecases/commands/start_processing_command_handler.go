package commands

import (
	"context"

	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/clock"
)

// StartProcessingCommandHandler moves a COLLECTED order to PROCESSING and puts
// the testing step in progress.
type StartProcessingCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewStartProcessingCommandHandler(uowFactory UoWFactory, clk clock.Clock) StartProcessingCommandHandler {
	return StartProcessingCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h *StartProcessingCommandHandler) Handle(ctx context.Context, cmd StartProcessingCommand) (*order.LabOrder, error) {
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

	if err = o.StartProcessing(now); err != nil {
		return nil, err
	}
	if err = wf.BeginTesting(now); err != nil {
		return nil, err
	}

	if err = saveOrderWorkflow(ctx, uow, o, true, wf); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
