package commands

import (
	"errors"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/guard"
)

var ErrCollectSampleCommandIsNotConstructed = errors.New(
	"CollectSampleCommand must be created via NewCollectSampleCommand constructor",
)

// CollectSampleCommand records that the specimen of an order was drawn.
type CollectSampleCommand struct {
	orderID     kernel.UUID
	collectedBy string
	notes       string

	guard guard.ConstructorGuard
}

func NewCollectSampleCommand(orderID kernel.UUID, collectedBy, notes string) (CollectSampleCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CollectSampleCommand{}, err
	}

	return CollectSampleCommand{
		orderID:     orderID,
		collectedBy: collectedBy,
		notes:       notes,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CollectSampleCommand) Validate() error {
	return c.guard.Validate(ErrCollectSampleCommandIsNotConstructed)
}

func (c CollectSampleCommand) OrderID() kernel.UUID { return c.orderID }
func (c CollectSampleCommand) CollectedBy() string  { return c.collectedBy }
func (c CollectSampleCommand) Notes() string        { return c.notes }
