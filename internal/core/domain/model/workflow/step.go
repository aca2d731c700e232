package workflow

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
)

var ErrStepIsNotConstructed = errors.New("Step must be created via NewWorkflow or RestoreStep")

// Step is one processing stage of a lab order. Steps are created as a batch by
// NewWorkflow and only mutated through the owning Workflow.
type Step struct {
	id       kernel.UUID
	orderID  kernel.UUID
	stepType StepType
	status   StepStatus

	assignee    string
	startedAt   *time.Time
	completedAt *time.Time
	dueDate     *time.Time
	payload     map[string]any
	notes       string

	version int
	changed bool

	isConstructed bool
}

// StepSnapshot is the flat, persistence-friendly state of a Step.
type StepSnapshot struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	Type        StepType
	Status      StepStatus
	Sequence    int
	Assignee    string
	StartedAt   *time.Time
	CompletedAt *time.Time
	DueDate     *time.Time
	Payload     map[string]any
	Notes       string
	Version     int
}

func newStep(orderID kernel.UUID, t StepType) *Step {
	return &Step{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		stepType:      t,
		status:        StepPending,
		version:       1,
		changed:       true,
		isConstructed: true,
	}
}

// RestoreStep rebuilds a step from persisted state. The stored sequence must
// match the canonical position of the step type.
func RestoreStep(s StepSnapshot) (*Step, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.Type.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if s.Sequence != s.Type.Sequence() {
		return nil, errs.NewValueIsInvalidErrorWithCause("step sequence",
			fmt.Errorf("%s must have sequence %d, got %d", s.Type, s.Type.Sequence(), s.Sequence))
	}

	return &Step{
		id:            s.ID,
		orderID:       s.OrderID,
		stepType:      s.Type,
		status:        s.Status,
		assignee:      s.Assignee,
		startedAt:     copyTime(s.StartedAt),
		completedAt:   copyTime(s.CompletedAt),
		dueDate:       copyTime(s.DueDate),
		payload:       maps.Clone(s.Payload),
		notes:         s.Notes,
		version:       s.Version,
		isConstructed: true,
	}, nil
}

func (s *Step) Snapshot() StepSnapshot {
	return StepSnapshot{
		ID:          s.id,
		OrderID:     s.orderID,
		Type:        s.stepType,
		Status:      s.status,
		Sequence:    s.stepType.Sequence(),
		Assignee:    s.assignee,
		StartedAt:   copyTime(s.startedAt),
		CompletedAt: copyTime(s.completedAt),
		DueDate:     copyTime(s.dueDate),
		Payload:     maps.Clone(s.payload),
		Notes:       s.notes,
		Version:     s.version,
	}
}

func (s *Step) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStepIsNotConstructed
	}
	return nil
}

// ID returns the step's unique identifier.
func (s *Step) ID() kernel.UUID {
	return s.id
}

// OrderID returns the identifier of the owning order.
func (s *Step) OrderID() kernel.UUID {
	return s.orderID
}

// Type returns which of the six processing stages this step is.
func (s *Step) Type() StepType {
	return s.stepType
}

// Sequence returns the 1-based position of the step, derived from its type.
func (s *Step) Sequence() int {
	return s.stepType.Sequence()
}

// Status returns the current step status.
func (s *Step) Status() StepStatus {
	return s.status
}

// Assignee returns who started or completed the step, or an empty string.
func (s *Step) Assignee() string {
	return s.assignee
}

// StartedAt returns when the step moved to in_progress.
// Returns nil for a step that was never started.
func (s *Step) StartedAt() *time.Time {
	return copyTime(s.startedAt)
}

// CompletedAt returns when the step was completed.
// Returns nil unless the status is completed.
func (s *Step) CompletedAt() *time.Time {
	return copyTime(s.completedAt)
}

// DueDate returns the SLA deadline of the step.
// Returns nil when no deadline applies; only priority routing sets one.
func (s *Step) DueDate() *time.Time {
	return copyTime(s.dueDate)
}

// Payload returns a copy of the data recorded on completion.
func (s *Step) Payload() map[string]any {
	return maps.Clone(s.payload)
}

// Notes returns the notes recorded on completion.
func (s *Step) Notes() string {
	return s.notes
}

// Version returns the stored row version used for optimistic concurrency.
func (s *Step) Version() int {
	return s.version
}

// IsChanged reports whether the step changed since it was loaded or last
// persisted.
func (s *Step) IsChanged() bool {
	return s.changed
}

// MarkPersisted clears the change flag and records the stored version.
func (s *Step) MarkPersisted(version int) {
	s.version = version
	s.changed = false
}

// IsOverdue reports whether the step is open and its due date has passed.
func (s *Step) IsOverdue(now time.Time) bool {
	return s.status.IsOpen() && s.dueDate != nil && s.dueDate.Before(now)
}

func (s *Step) start(assignee string, now time.Time) error {
	newStatus, err := s.status.start()
	if err != nil {
		return err
	}

	t := now.UTC()
	s.status = newStatus
	s.startedAt = &t
	if assignee != "" {
		s.assignee = assignee
	}
	s.changed = true
	return nil
}

func (s *Step) complete(notes string, data map[string]any, now time.Time) error {
	newStatus, err := s.status.complete()
	if err != nil {
		return err
	}

	t := now.UTC()
	s.status = newStatus
	s.completedAt = &t
	if s.startedAt == nil {
		s.startedAt = &t
	}
	if notes != "" {
		s.notes = notes
	}
	if data != nil {
		s.payload = maps.Clone(data)
	}
	s.changed = true
	return nil
}

func (s *Step) cancel() error {
	newStatus, err := s.status.cancel()
	if err != nil {
		return err
	}
	s.status = newStatus
	s.changed = true
	return nil
}

// activate makes a blocked step eligible for start again. Pending steps are
// left untouched and nothing is auto-started.
func (s *Step) activate() {
	if s.status == StepBlocked {
		s.status = StepPending
		s.changed = true
	}
}

func (s *Step) setDueDate(due time.Time) {
	t := due.UTC()
	s.dueDate = &t
	s.changed = true
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
