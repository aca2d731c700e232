package queries

import (
	"errors"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/guard"
)

var (
	ErrGetOrderWorkflowStatusQueryIsNotConstructed = errors.New(
		"GetOrderWorkflowStatusQuery must be created via NewGetOrderWorkflowStatusQuery constructor",
	)
)

// GetOrderWorkflowStatusQuery reports the progress of an order's workflow.
//
// Example:
//
//	query, err := NewGetOrderWorkflowStatusQuery(orderID)
//	status, err := handler.Handle(ctx, query)
//	fmt.Printf("%d/%d steps, current: %s\n",
//	    status.CompletedSteps, status.TotalSteps, status.CurrentStep)
type GetOrderWorkflowStatusQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderWorkflowStatusQuery(orderID kernel.UUID) (GetOrderWorkflowStatusQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderWorkflowStatusQuery{}, err
	}
	return GetOrderWorkflowStatusQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderWorkflowStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderWorkflowStatusQueryIsNotConstructed)
}

func (q GetOrderWorkflowStatusQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderWorkflowStatusQueryResponse carries the progress summary and the
// six steps ordered by sequence. Percentage is rounded to two decimals and
// CurrentStep is "Completed" when no step is in progress.
type GetOrderWorkflowStatusQueryResponse struct {
	OrderID        kernel.UUID
	OrderStatus    string
	TotalSteps     int
	CompletedSteps int
	Percentage     float64
	CurrentStep    string
	Steps          []StepView
}
