package commands

import (
	"context"

	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/result"
	"labflow/internal/pkg/clock"
)

// CompleteOrderCommandHandler moves a PROCESSING order to COMPLETED, forces the
// remaining steps to completed and reports every verified result.
type CompleteOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewCompleteOrderCommandHandler(uowFactory UoWFactory, clk clock.Clock) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (*order.LabOrder, error) {
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

	if err = o.Complete(cmd.CompletedBy(), cmd.Notes(), now); err != nil {
		return nil, err
	}
	if err = wf.CompleteAll(now); err != nil {
		return nil, err
	}

	if err = saveOrderWorkflow(ctx, uow, o, true, wf); err != nil {
		return nil, err
	}

	resultRepo := uow.ResultRepository()
	results, err := resultRepo.GetByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Status() != result.Verified {
			continue
		}
		if err = r.Report(now); err != nil {
			return nil, err
		}
		if err = resultRepo.Update(ctx, r); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
