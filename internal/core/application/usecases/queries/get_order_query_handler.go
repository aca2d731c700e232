package queries

import (
	"context"

	"labflow/internal/pkg/clock"
)

type GetOrderQueryHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewGetOrderQueryHandler(uowFactory UoWFactory, clk clock.Clock) GetOrderQueryHandler {
	return GetOrderQueryHandler{uowFactory: uowFactory, clock: clk}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	now := h.clock.Now()
	uow := h.uowFactory.Create()

	o, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	wf, err := uow.WorkflowRepository().Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	results, err := uow.ResultRepository().GetByOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp := GetOrderQueryResponse{
		Order:   NewOrderView(o, now),
		Steps:   NewStepViews(wf, now),
		Results: make([]ResultView, 0, len(results)),
	}
	for _, r := range results {
		resp.Results = append(resp.Results, NewResultView(r))
	}
	return resp, nil
}
