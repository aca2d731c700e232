package queries

import (
	"context"

	"labflow/internal/pkg/clock"
)

// GetActiveOrdersQueryHandler reads non-terminal orders through the order
// repository. Overdue marks orders past their expected completion time.
type GetActiveOrdersQueryHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewGetActiveOrdersQueryHandler(uowFactory UoWFactory, clk clock.Clock) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{uowFactory: uowFactory, clock: clk}
}

func (h GetActiveOrdersQueryHandler) Handle(ctx context.Context, query GetActiveOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	orders, err := h.uowFactory.Create().OrderRepository().GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o, now))
	}
	return views, nil
}
