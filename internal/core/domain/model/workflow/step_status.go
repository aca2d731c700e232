package workflow

import (
	"fmt"

	"labflow/internal/pkg/errs"
)

// StepStatus is the state of a single workflow step.
//
//	pending ──> in_progress ──> completed
//	   │  ^          │
//	   │  └ blocked  │
//	   └─────────────┴──> cancelled
type StepStatus int

const (
	UnknownStepStatus StepStatus = iota
	StepPending
	StepInProgress
	StepCompleted
	StepBlocked
	StepCancelled
)

var stepStatusNames = map[StepStatus]string{
	StepPending:    "pending",
	StepInProgress: "in_progress",
	StepCompleted:  "completed",
	StepBlocked:    "blocked",
	StepCancelled:  "cancelled",
}

func ParseStepStatus(s string) (StepStatus, error) {
	for st, name := range stepStatusNames {
		if name == s {
			return st, nil
		}
	}
	return UnknownStepStatus, errs.NewValueIsInvalidErrorWithCause("step status", fmt.Errorf("%q is not a step status", s))
}

func (s StepStatus) String() string {
	if name, ok := stepStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s StepStatus) Validate() error {
	if _, ok := stepStatusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("step status", fmt.Errorf("%d is not a valid step status", s))
	}
	return nil
}

// IsTerminal reports whether the step is completed or cancelled.
func (s StepStatus) IsTerminal() bool {
	return s == StepCompleted || s == StepCancelled
}

// IsOpen reports whether the step is being waited on (pending or in progress).
// Only open steps can become overdue.
func (s StepStatus) IsOpen() bool {
	return s == StepPending || s == StepInProgress
}

func (s StepStatus) start() (StepStatus, error) {
	if s != StepPending {
		return 0, errs.NewInvalidStateTransitionError("workflow step", s.String(), "start")
	}
	return StepInProgress, nil
}

func (s StepStatus) complete() (StepStatus, error) {
	if !s.IsOpen() {
		return 0, errs.NewInvalidStateTransitionError("workflow step", s.String(), "complete")
	}
	return StepCompleted, nil
}

func (s StepStatus) cancel() (StepStatus, error) {
	if s.IsTerminal() {
		return 0, errs.NewInvalidStateTransitionError("workflow step", s.String(), "cancel")
	}
	return StepCancelled, nil
}
