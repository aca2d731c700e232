package workflow

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/errs"
)

// CurrentStepCompleted is reported by Progress when no step is in progress.
const CurrentStepCompleted = "Completed"

// Workflow owns the six steps of one lab order and enforces their sequencing.
//
// Workflow follows these invariants:
//   - Exactly six steps, one per StepType, with sequences 1..6
//   - A step is completed only after every earlier step is completed; earlier
//     parallel-capable steps may still be open when the completed step is
//     parallel-capable itself
//   - Step statuses only advance forward, except for cancellation
type Workflow struct {
	orderID kernel.UUID
	steps   []*Step
}

// NewWorkflow seeds the six canonical steps in pending status.
func NewWorkflow(orderID kernel.UUID) (*Workflow, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	steps := make([]*Step, 0, StepCount)
	for _, t := range StepTypes() {
		steps = append(steps, newStep(orderID, t))
	}
	return &Workflow{orderID: orderID, steps: steps}, nil
}

// RestoreWorkflow rebuilds a workflow from its persisted steps, in any order.
func RestoreWorkflow(orderID kernel.UUID, steps []*Step) (*Workflow, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if len(steps) != StepCount {
		return nil, errs.NewValueIsInvalidErrorWithCause("workflow",
			fmt.Errorf("order %s has %d steps, want %d", orderID, len(steps), StepCount))
	}

	sorted := make([]*Step, len(steps))
	copy(sorted, steps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Sequence() < sorted[j].Sequence() })

	for i, s := range sorted {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if !s.orderID.IsEqual(orderID) {
			return nil, errs.NewValueIsInvalidErrorWithCause("workflow",
				fmt.Errorf("step %s belongs to order %s", s.id, s.orderID))
		}
		if s.Sequence() != i+1 {
			return nil, errs.NewValueIsInvalidErrorWithCause("workflow",
				fmt.Errorf("order %s is missing step with sequence %d", orderID, i+1))
		}
	}

	return &Workflow{orderID: orderID, steps: sorted}, nil
}

func (w *Workflow) OrderID() kernel.UUID {
	return w.orderID
}

// Steps returns the steps ordered by sequence.
func (w *Workflow) Steps() []*Step {
	out := make([]*Step, len(w.steps))
	copy(out, w.steps)
	return out
}

// Step returns the step of the given type.
func (w *Workflow) Step(t StepType) (*Step, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return w.steps[t.Sequence()-1], nil
}

// ChangedSteps returns the steps mutated since the workflow was loaded or saved.
func (w *Workflow) ChangedSteps() []*Step {
	var out []*Step
	for _, s := range w.steps {
		if s.changed {
			out = append(out, s)
		}
	}
	return out
}

// StartStep moves a pending step to in_progress. A step is eligible only once
// every earlier step is completed; parallel-capable steps may overlap each
// other. Starting an ineligible step is an InvalidStateTransitionError.
func (w *Workflow) StartStep(t StepType, assignee string, now time.Time) (*Step, error) {
	step, err := w.Step(t)
	if err != nil {
		return nil, err
	}
	if step.status == StepPending {
		if blocker := w.firstBlocker(step); blocker != nil {
			return nil, errs.NewInvalidStateTransitionError(
				fmt.Sprintf("%s while %s is", step.stepType, blocker.stepType), blocker.status.String(), "start")
		}
	}
	if err = step.start(assignee, now); err != nil {
		return nil, err
	}
	return step, nil
}

// CompleteStep completes a pending or in-progress step and activates the next one.
func (w *Workflow) CompleteStep(t StepType, notes string, data map[string]any, now time.Time) (*Step, error) {
	step, err := w.Step(t)
	if err != nil {
		return nil, err
	}
	if !step.status.IsOpen() {
		return nil, errs.NewInvalidStateTransitionError("workflow step", step.status.String(), "complete")
	}
	if err = w.checkSequence(step); err != nil {
		return nil, err
	}
	if err = step.complete(notes, data, now); err != nil {
		return nil, err
	}

	w.activateAfter(step)
	return step, nil
}

// RecordCollection completes the sample collection step unless it already is.
func (w *Workflow) RecordCollection(collectedBy, notes string, now time.Time) error {
	step := w.steps[SampleCollection.Sequence()-1]
	if step.status == StepCompleted {
		return nil
	}
	if step.assignee == "" {
		step.assignee = collectedBy
	}
	if err := step.complete(notes, nil, now); err != nil {
		return err
	}
	w.activateAfter(step)
	return nil
}

// BeginTesting moves the testing step to in_progress when it is still pending.
func (w *Workflow) BeginTesting(now time.Time) error {
	step := w.steps[Testing.Sequence()-1]
	if step.status != StepPending {
		return nil
	}
	return step.start("", now)
}

// CompleteAll forces every open or blocked step to completed.
func (w *Workflow) CompleteAll(now time.Time) error {
	var err error
	for _, s := range w.steps {
		if s.status.IsTerminal() {
			continue
		}
		if s.status == StepBlocked {
			s.activate()
		}
		err = errors.Join(err, s.complete("", nil, now))
	}
	return err
}

// CancelRemaining cancels every step that is not completed yet.
func (w *Workflow) CancelRemaining() error {
	var err error
	for _, s := range w.steps {
		if s.status.IsTerminal() {
			continue
		}
		err = errors.Join(err, s.cancel())
	}
	return err
}

// IsCompleted reports whether all six steps are completed.
func (w *Workflow) IsCompleted() bool {
	for _, s := range w.steps {
		if s.status != StepCompleted {
			return false
		}
	}
	return true
}

// IsCollectionCompleted reports whether the sample collection step is completed.
func (w *Workflow) IsCollectionCompleted() bool {
	return w.steps[SampleCollection.Sequence()-1].status == StepCompleted
}

// Progress summarises the workflow for status queries.
type Progress struct {
	TotalSteps     int
	CompletedSteps int
	Percentage     float64
	CurrentStep    string
}

// Progress reports completed steps, percentage rounded to two decimals, and the
// first in-progress step name, or "Completed" when no step is in progress.
func (w *Workflow) Progress() Progress {
	completed := 0
	current := ""
	for _, s := range w.steps {
		switch s.status {
		case StepCompleted:
			completed++
		case StepInProgress:
			if current == "" {
				current = s.stepType.String()
			}
		case UnknownStepStatus, StepPending, StepBlocked, StepCancelled:
		}
	}
	if current == "" {
		current = CurrentStepCompleted
	}

	pct := float64(completed) * 100 / float64(StepCount)
	return Progress{
		TotalSteps:     StepCount,
		CompletedSteps: completed,
		Percentage:     math.Round(pct*100) / 100,
		CurrentStep:    current,
	}
}

// OverdueSteps returns open steps whose due date is before now.
func (w *Workflow) OverdueSteps(now time.Time) []*Step {
	var out []*Step
	for _, s := range w.steps {
		if s.IsOverdue(now) {
			out = append(out, s)
		}
	}
	return out
}

// ApplyAutomation executes an automation rule against the workflow. priority is
// the owning order's priority, used by PriorityRouting unless the rule overrides it.
func (w *Workflow) ApplyAutomation(rule AutomationRule, t StepType, priority order.Priority, now time.Time) error {
	if rule == nil {
		return errs.NewValueIsRequiredError("automation rule")
	}
	if err := t.Validate(); err != nil {
		return err
	}

	switch r := rule.(type) {
	case AutoAdvance:
		return w.autoAdvance(t, now)
	case ParallelProcessing:
		return w.parallelProcessing(now)
	case PriorityRouting:
		p := priority
		if r.Priority != order.UnknownPriority {
			p = r.Priority
		}
		return w.priorityRouting(p, now)
	default:
		return errs.NewValueIsInvalidErrorWithCause("automation rule", fmt.Errorf("unsupported rule %T", rule))
	}
}

func (w *Workflow) autoAdvance(t StepType, now time.Time) error {
	step := w.steps[t.Sequence()-1]
	if step.status != StepPending {
		return nil
	}
	_, err := w.CompleteStep(t, "", nil, now)
	return err
}

func (w *Workflow) parallelProcessing(now time.Time) error {
	for _, s := range w.steps {
		if s.stepType.IsParallelCapable() && s.status == StepPending {
			if err := s.start("", now); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Workflow) priorityRouting(p order.Priority, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	deadline, ok := p.StepDeadline()
	if !ok {
		return nil
	}
	for _, s := range w.steps {
		if !s.status.IsTerminal() {
			s.setDueDate(now.Add(deadline))
		}
	}
	return nil
}

func (w *Workflow) checkSequence(target *Step) error {
	prev := w.firstBlocker(target)
	if prev == nil {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("step sequence",
		fmt.Errorf("cannot complete %s before %s (status %s)", target.stepType, prev.stepType, prev.status))
}

// firstBlocker returns the earliest step that must complete before target,
// or nil when target is eligible.
func (w *Workflow) firstBlocker(target *Step) *Step {
	for _, prev := range w.steps[:target.Sequence()-1] {
		if prev.status == StepCompleted {
			continue
		}
		if prev.stepType.IsParallelCapable() && target.stepType.IsParallelCapable() {
			continue
		}
		return prev
	}
	return nil
}

func (w *Workflow) activateAfter(step *Step) {
	next := step.Sequence()
	if next < len(w.steps) {
		w.steps[next].activate()
	}
}
