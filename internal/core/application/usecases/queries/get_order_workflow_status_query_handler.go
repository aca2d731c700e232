package queries

import (
	"context"

	"labflow/internal/pkg/clock"
)

type GetOrderWorkflowStatusQueryHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewGetOrderWorkflowStatusQueryHandler(uowFactory UoWFactory, clk clock.Clock) GetOrderWorkflowStatusQueryHandler {
	return GetOrderWorkflowStatusQueryHandler{uowFactory: uowFactory, clock: clk}
}

// Handle returns ObjectNotFoundError when the order does not exist.
func (h GetOrderWorkflowStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrderWorkflowStatusQuery,
) (GetOrderWorkflowStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderWorkflowStatusQueryResponse{}, err
	}

	uow := h.uowFactory.Create()

	o, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderWorkflowStatusQueryResponse{}, err
	}
	wf, err := uow.WorkflowRepository().Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderWorkflowStatusQueryResponse{}, err
	}

	progress := wf.Progress()
	return GetOrderWorkflowStatusQueryResponse{
		OrderID:        o.ID(),
		OrderStatus:    o.Status().String(),
		TotalSteps:     progress.TotalSteps,
		CompletedSteps: progress.CompletedSteps,
		Percentage:     progress.Percentage,
		CurrentStep:    progress.CurrentStep,
		Steps:          NewStepViews(wf, h.clock.Now()),
	}, nil
}
