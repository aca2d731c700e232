package commands

import (
	"context"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/core/domain/services"
	"labflow/internal/pkg/clock"
)

// CreateOrderCommandHandler allocates an order number, stores the PENDING order
// and seeds its six workflow steps in one transaction.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewCreateOrderCommandHandler(uowFactory UoWFactory, clk clock.Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.LabOrder, error) {
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

	number, err := services.NewOrderNumbering(uow.OrderNumberSequence()).Next(ctx, now)
	if err != nil {
		return nil, err
	}

	created, err := order.NewLabOrder(
		kernel.NewUUID(),
		number,
		cmd.PatientRef(),
		cmd.PhysicianRef(),
		cmd.Priority(),
		cmd.ClinicalNotes(),
		now,
	)
	if err != nil {
		return nil, err
	}

	wf, err := workflow.NewWorkflow(created.ID())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}
	if err = uow.WorkflowRepository().Add(ctx, wf); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}
