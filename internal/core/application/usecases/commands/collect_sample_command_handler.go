package commands

import (
	"context"

	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/clock"
)

// CollectSampleCommandHandler moves a PENDING order to COLLECTED and completes
// its sample_collection step.
type CollectSampleCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewCollectSampleCommandHandler(uowFactory UoWFactory, clk clock.Clock) CollectSampleCommandHandler {
	return CollectSampleCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h *CollectSampleCommandHandler) Handle(ctx context.Context, cmd CollectSampleCommand) (*order.LabOrder, error) {
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

	if err = o.CollectSample(cmd.CollectedBy(), cmd.Notes(), now); err != nil {
		return nil, err
	}
	if err = wf.RecordCollection(cmd.CollectedBy(), cmd.Notes(), now); err != nil {
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
