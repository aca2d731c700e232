package commands

import (
	"errors"
	"strings"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/result"
	"labflow/internal/pkg/errs"
	"labflow/internal/pkg/guard"
)

var ErrRecordResultCommandIsNotConstructed = errors.New(
	"RecordResultCommand must be created via NewRecordResultCommand constructor",
)

// RecordResultCommand stores a measured value for a test of an order.
type RecordResultCommand struct {
	orderID     kernel.UUID
	testRef     string
	value       string
	unit        string
	subject     result.Subject
	performedBy string

	guard guard.ConstructorGuard
}

func NewRecordResultCommand(
	orderID kernel.UUID,
	testRef string,
	value string,
	unit string,
	subject result.Subject,
	performedBy string,
) (RecordResultCommand, error) {
	err := orderID.Validate()
	if strings.TrimSpace(testRef) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("testRef"))
	}
	if strings.TrimSpace(value) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("value"))
	}
	if err != nil {
		return RecordResultCommand{}, err
	}

	return RecordResultCommand{
		orderID:     orderID,
		testRef:     strings.TrimSpace(testRef),
		value:       value,
		unit:        unit,
		subject:     subject,
		performedBy: performedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RecordResultCommand) Validate() error {
	return c.guard.Validate(ErrRecordResultCommandIsNotConstructed)
}

func (c RecordResultCommand) OrderID() kernel.UUID    { return c.orderID }
func (c RecordResultCommand) TestRef() string         { return c.testRef }
func (c RecordResultCommand) Value() string           { return c.value }
func (c RecordResultCommand) Unit() string            { return c.unit }
func (c RecordResultCommand) Subject() result.Subject { return c.subject }
func (c RecordResultCommand) PerformedBy() string     { return c.performedBy }
