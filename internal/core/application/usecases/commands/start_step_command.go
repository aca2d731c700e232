package commands

import (
	"errors"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/pkg/guard"
)

var ErrStartStepCommandIsNotConstructed = errors.New(
	"StartStepCommand must be created via NewStartStepCommand constructor",
)

// StartStepCommand puts a pending workflow step in progress.
type StartStepCommand struct {
	orderID  kernel.UUID
	stepType workflow.StepType
	assignee string

	guard guard.ConstructorGuard
}

func NewStartStepCommand(orderID kernel.UUID, stepType workflow.StepType, assignee string) (StartStepCommand, error) {
	if err := errors.Join(orderID.Validate(), stepType.Validate()); err != nil {
		return StartStepCommand{}, err
	}

	return StartStepCommand{
		orderID:  orderID,
		stepType: stepType,
		assignee: assignee,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c StartStepCommand) Validate() error {
	return c.guard.Validate(ErrStartStepCommandIsNotConstructed)
}

func (c StartStepCommand) OrderID() kernel.UUID        { return c.orderID }
func (c StartStepCommand) StepType() workflow.StepType { return c.stepType }
func (c StartStepCommand) Assignee() string            { return c.assignee }
