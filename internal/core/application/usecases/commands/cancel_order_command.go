package commands

import (
	"errors"
	"strings"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
	"labflow/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand stops a non-terminal order. A reason is mandatory.
type CancelOrderCommand struct {
	orderID     kernel.UUID
	reason      string
	cancelledBy string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.UUID, reason, cancelledBy string) (CancelOrderCommand, error) {
	var err error
	err = errors.Join(err, orderID.Validate())
	if strings.TrimSpace(reason) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("reason"))
	}
	if err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderID:     orderID,
		reason:      reason,
		cancelledBy: cancelledBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c CancelOrderCommand) Reason() string       { return c.reason }
func (c CancelOrderCommand) CancelledBy() string  { return c.cancelledBy }
