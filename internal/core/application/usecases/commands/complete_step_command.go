package commands

import (
	"errors"
	"maps"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/pkg/guard"
)

var ErrCompleteStepCommandIsNotConstructed = errors.New(
	"CompleteStepCommand must be created via NewCompleteStepCommand constructor",
)

// CompleteStepCommand completes a workflow step with optional notes and payload.
type CompleteStepCommand struct {
	orderID     kernel.UUID
	stepType    workflow.StepType
	completedBy string
	notes       string
	data        map[string]any

	guard guard.ConstructorGuard
}

func NewCompleteStepCommand(
	orderID kernel.UUID,
	stepType workflow.StepType,
	completedBy string,
	notes string,
	data map[string]any,
) (CompleteStepCommand, error) {
	if err := errors.Join(orderID.Validate(), stepType.Validate()); err != nil {
		return CompleteStepCommand{}, err
	}

	return CompleteStepCommand{
		orderID:     orderID,
		stepType:    stepType,
		completedBy: completedBy,
		notes:       notes,
		data:        maps.Clone(data),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteStepCommand) Validate() error {
	return c.guard.Validate(ErrCompleteStepCommandIsNotConstructed)
}

func (c CompleteStepCommand) OrderID() kernel.UUID        { return c.orderID }
func (c CompleteStepCommand) StepType() workflow.StepType { return c.stepType }
func (c CompleteStepCommand) CompletedBy() string         { return c.completedBy }
func (c CompleteStepCommand) Notes() string               { return c.notes }
func (c CompleteStepCommand) Data() map[string]any        { return maps.Clone(c.data) }
