package commands

import (
	"errors"

	"labflow/internal/pkg/guard"
)

// CheckOverdueStepsCommand triggers one SLA sweep over all open workflow steps.
//
// Example:
//
//	cmd := NewCheckOverdueStepsCommand()
//	report, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    logger.Error().Err(err).Msg("sla sweep failed")
//	}
type CheckOverdueStepsCommand struct {
	guard guard.ConstructorGuard
}

var ErrCheckOverdueStepsCommandIsNotConstructed = errors.New(
	"CheckOverdueStepsCommand must be created via NewCheckOverdueStepsCommand constructor",
)

func NewCheckOverdueStepsCommand() CheckOverdueStepsCommand {
	return CheckOverdueStepsCommand{guard: guard.NewConstructorGuard()}
}

func (c CheckOverdueStepsCommand) Validate() error {
	return c.guard.Validate(ErrCheckOverdueStepsCommandIsNotConstructed)
}
