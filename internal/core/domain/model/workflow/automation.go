package workflow

import (
	"fmt"

	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/errs"
)

// AutomationRule is the closed set of automation shortcuts. The unexported
// marker method keeps the set sealed to this package.
type AutomationRule interface {
	Name() string
	isAutomationRule()
}

// AutoAdvance completes the named step if it is pending and activates the next one.
type AutoAdvance struct{}

// ParallelProcessing starts every pending parallel-capable step at once.
type ParallelProcessing struct{}

// PriorityRouting recomputes due dates of open steps from a priority:
// stat now+30m, urgent now+2h, routine unchanged. A zero Priority means the
// order's own priority.
type PriorityRouting struct {
	Priority order.Priority
}

func (AutoAdvance) Name() string        { return "auto_advance" }
func (ParallelProcessing) Name() string { return "parallel_processing" }
func (PriorityRouting) Name() string    { return "priority_routing" }

func (AutoAdvance) isAutomationRule()        {}
func (ParallelProcessing) isAutomationRule() {}
func (PriorityRouting) isAutomationRule()    {}

// ParseAutomationRule maps a rule name to its rule. Unknown names are rejected.
func ParseAutomationRule(name string) (AutomationRule, error) {
	switch name {
	case "auto_advance":
		return AutoAdvance{}, nil
	case "parallel_processing":
		return ParallelProcessing{}, nil
	case "priority_routing":
		return PriorityRouting{}, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("automation rule", fmt.Errorf("unknown rule %q", name))
	}
}
