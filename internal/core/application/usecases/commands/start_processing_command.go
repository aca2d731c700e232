package commands

import (
	"errors"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/guard"
)

var ErrStartProcessingCommandIsNotConstructed = errors.New(
	"StartProcessingCommand must be created via NewStartProcessingCommand constructor",
)

// StartProcessingCommand moves a collected specimen into the lab.
type StartProcessingCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewStartProcessingCommand(orderID kernel.UUID) (StartProcessingCommand, error) {
	if err := orderID.Validate(); err != nil {
		return StartProcessingCommand{}, err
	}

	return StartProcessingCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c StartProcessingCommand) Validate() error {
	return c.guard.Validate(ErrStartProcessingCommandIsNotConstructed)
}

func (c StartProcessingCommand) OrderID() kernel.UUID { return c.orderID }
