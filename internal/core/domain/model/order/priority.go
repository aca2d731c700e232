package order

import (
	"fmt"
	"strings"
	"time"

	"labflow/internal/pkg/errs"
)

// Priority drives the expected turnaround of an order and the SLA deadlines
// assigned to its workflow steps.
type Priority int

const (
	UnknownPriority Priority = iota
	Routine
	Urgent
	Stat
)

func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		Routine: "routine",
		Urgent:  "urgent",
		Stat:    "stat",
	}
}

// ParsePriority accepts "routine", "urgent" or "stat" (case-insensitive).
func ParsePriority(s string) (Priority, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for p, str := range getPriorityStrings() {
		if str == needle {
			return p, nil
		}
	}
	return UnknownPriority, errs.NewValueIsInvalidErrorWithCause(
		"priority", fmt.Errorf("%q is not one of routine, urgent, stat", s))
}

func (p Priority) String() string {
	if str, ok := getPriorityStrings()[p]; ok {
		return str
	}
	return "unknown"
}

func (p Priority) Validate() error {
	if _, ok := getPriorityStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

// Turnaround is the delay between order creation and its expected completion:
// stat 2h, urgent 6h, routine 24h.
func (p Priority) Turnaround() time.Duration {
	switch p {
	case Stat:
		return 2 * time.Hour
	case Urgent:
		return 6 * time.Hour
	case Routine, UnknownPriority:
		return 24 * time.Hour
	}
	return 24 * time.Hour
}

// StepDeadline returns the due-date offset applied to open workflow steps by
// priority routing. Routine orders keep their current due dates (ok == false).
func (p Priority) StepDeadline() (time.Duration, bool) {
	switch p {
	case Stat:
		return 30 * time.Minute, true
	case Urgent:
		return 2 * time.Hour, true
	case Routine, UnknownPriority:
		return 0, false
	}
	return 0, false
}
