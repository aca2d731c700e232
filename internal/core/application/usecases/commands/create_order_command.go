package commands

import (
	"errors"
	"strings"

	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/errs"
	"labflow/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new lab order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("PAT-001", "DR-042", order.Stat, "fasting sample")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct {
	patientRef    string
	physicianRef  string
	priority      order.Priority
	clinicalNotes string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates that both references are present and the
// priority is known.
func NewCreateOrderCommand(
	patientRef, physicianRef string,
	priority order.Priority,
	clinicalNotes string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		patientRef:    strings.TrimSpace(patientRef),
		physicianRef:  strings.TrimSpace(physicianRef),
		priority:      priority,
		clinicalNotes: clinicalNotes,
		guard:         guard.NewConstructorGuard(),
	}

	var err error
	if cmd.patientRef == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("patientRef"))
	}
	if cmd.physicianRef == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("physicianRef"))
	}
	err = errors.Join(err, priority.Validate())
	if err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) PatientRef() string       { return c.patientRef }
func (c CreateOrderCommand) PhysicianRef() string     { return c.physicianRef }
func (c CreateOrderCommand) Priority() order.Priority { return c.priority }
func (c CreateOrderCommand) ClinicalNotes() string    { return c.clinicalNotes }
