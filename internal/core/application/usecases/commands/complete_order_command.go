package commands

import (
	"errors"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/guard"
)

var ErrCompleteOrderCommandIsNotConstructed = errors.New(
	"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
)

// CompleteOrderCommand finishes a processing order.
type CompleteOrderCommand struct {
	orderID     kernel.UUID
	completedBy string
	notes       string

	guard guard.ConstructorGuard
}

func NewCompleteOrderCommand(orderID kernel.UUID, completedBy, notes string) (CompleteOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CompleteOrderCommand{}, err
	}

	return CompleteOrderCommand{
		orderID:     orderID,
		completedBy: completedBy,
		notes:       notes,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}

func (c CompleteOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c CompleteOrderCommand) CompletedBy() string  { return c.completedBy }
func (c CompleteOrderCommand) Notes() string        { return c.notes }
