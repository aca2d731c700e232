package commands

import (
	"errors"
	"strings"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/result"
	"labflow/internal/pkg/errs"
	"labflow/internal/pkg/guard"
)

var ErrUpdateResultCommandIsNotConstructed = errors.New(
	"UpdateResultCommand must be created via NewUpdateResultCommand constructor",
)

// UpdateResultCommand replaces the value of an editable result. A nil subject
// keeps the current one.
type UpdateResultCommand struct {
	resultID kernel.UUID
	value    string
	unit     string
	subject  *result.Subject

	guard guard.ConstructorGuard
}

func NewUpdateResultCommand(
	resultID kernel.UUID,
	value string,
	unit string,
	subject *result.Subject,
) (UpdateResultCommand, error) {
	err := resultID.Validate()
	if strings.TrimSpace(value) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("value"))
	}
	if err != nil {
		return UpdateResultCommand{}, err
	}

	cmd := UpdateResultCommand{
		resultID: resultID,
		value:    value,
		unit:     unit,
		guard:    guard.NewConstructorGuard(),
	}
	if subject != nil {
		s := *subject
		cmd.subject = &s
	}
	return cmd, nil
}

func (c UpdateResultCommand) Validate() error {
	return c.guard.Validate(ErrUpdateResultCommandIsNotConstructed)
}

func (c UpdateResultCommand) ResultID() kernel.UUID    { return c.resultID }
func (c UpdateResultCommand) Value() string            { return c.value }
func (c UpdateResultCommand) Unit() string             { return c.unit }
func (c UpdateResultCommand) Subject() *result.Subject { return c.subject }
