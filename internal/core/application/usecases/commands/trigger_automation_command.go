package commands

import (
	"errors"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/pkg/errs"
	"labflow/internal/pkg/guard"
)

var ErrTriggerAutomationCommandIsNotConstructed = errors.New(
	"TriggerAutomationCommand must be created via NewTriggerAutomationCommand constructor",
)

// TriggerAutomationCommand applies an automation rule to an order's workflow.
//
// Example:
//
//	rule, err := workflow.ParseAutomationRule("parallel_processing")
//	if err != nil {
//	    return err
//	}
//	cmd, err := NewTriggerAutomationCommand(orderID, workflow.Testing, rule)
type TriggerAutomationCommand struct {
	orderID  kernel.UUID
	stepType workflow.StepType
	rule     workflow.AutomationRule

	guard guard.ConstructorGuard
}

func NewTriggerAutomationCommand(
	orderID kernel.UUID,
	stepType workflow.StepType,
	rule workflow.AutomationRule,
) (TriggerAutomationCommand, error) {
	err := errors.Join(orderID.Validate(), stepType.Validate())
	if rule == nil {
		err = errors.Join(err, errs.NewValueIsRequiredError("rule"))
	}
	if err != nil {
		return TriggerAutomationCommand{}, err
	}

	return TriggerAutomationCommand{
		orderID:  orderID,
		stepType: stepType,
		rule:     rule,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c TriggerAutomationCommand) Validate() error {
	return c.guard.Validate(ErrTriggerAutomationCommandIsNotConstructed)
}

func (c TriggerAutomationCommand) OrderID() kernel.UUID          { return c.orderID }
func (c TriggerAutomationCommand) StepType() workflow.StepType   { return c.stepType }
func (c TriggerAutomationCommand) Rule() workflow.AutomationRule { return c.rule }
