// Package queries contains read-only operations over orders, workflows and
// results. Queries never open a transaction and never change state.
package queries

import (
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/result"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/core/ports"
)

// UoWFactory creates the unit of work the handlers read through.
type UoWFactory = ports.UnitOfWorkFactory

// OrderView is the read model of a lab order.
type OrderView struct {
	ID                   kernel.UUID
	Number               string
	PatientRef           string
	PhysicianRef         string
	Priority             string
	Status               string
	ClinicalNotes        string
	CreatedAt            time.Time
	ExpectedCompletionAt time.Time
	CollectedAt          *time.Time
	CollectedBy          string
	CollectionNotes      string
	ProcessingStartedAt  *time.Time
	CompletedAt          *time.Time
	CompletedBy          string
	CompletionNotes      string
	CancelledAt          *time.Time
	CancelledBy          string
	CancellationReason   string
	Overdue              bool
	Version              int
}

// StepView is the read model of a workflow step.
type StepView struct {
	ID          kernel.UUID
	Type        string
	Sequence    int
	Status      string
	Assignee    string
	StartedAt   *time.Time
	CompletedAt *time.Time
	DueDate     *time.Time
	Overdue     bool
	Notes       string
	Payload     map[string]any
	Version     int
}

// ResultView is the read model of a lab result.
type ResultView struct {
	ID             kernel.UUID
	TestRef        string
	Value          string
	Unit           string
	Status         string
	ReferenceRange string
	IsAbnormal     *bool
	Interpretation string
	PerformedBy    string
	PerformedAt    time.Time
	VerifiedBy     string
	VerifiedAt     *time.Time
	ReportedAt     *time.Time
	Version        int
}

// NewOrderView maps o to its read model.
func NewOrderView(o *order.LabOrder, now time.Time) OrderView {
	return OrderView{
		ID:                   o.ID(),
		Number:               o.Number().String(),
		PatientRef:           o.PatientRef(),
		PhysicianRef:         o.PhysicianRef(),
		Priority:             o.Priority().String(),
		Status:               o.Status().String(),
		ClinicalNotes:        o.ClinicalNotes(),
		CreatedAt:            o.CreatedAt(),
		ExpectedCompletionAt: o.ExpectedCompletionAt(),
		CollectedAt:          o.CollectedAt(),
		CollectedBy:          o.CollectedBy(),
		CollectionNotes:      o.CollectionNotes(),
		ProcessingStartedAt:  o.ProcessingStartedAt(),
		CompletedAt:          o.CompletedAt(),
		CompletedBy:          o.CompletedBy(),
		CompletionNotes:      o.CompletionNotes(),
		CancelledAt:          o.CancelledAt(),
		CancelledBy:          o.CancelledBy(),
		CancellationReason:   o.CancellationReason(),
		Overdue:              o.IsOverdue(now),
		Version:              o.Version(),
	}
}

// NewStepViews maps every step of wf in sequence order.
func NewStepViews(wf *workflow.Workflow, now time.Time) []StepView {
	steps := wf.Steps()
	views := make([]StepView, 0, len(steps))
	for _, s := range steps {
		views = append(views, NewStepView(s, now))
	}
	return views
}

func NewStepView(s *workflow.Step, now time.Time) StepView {
	return StepView{
		ID:          s.ID(),
		Type:        s.Type().String(),
		Sequence:    s.Sequence(),
		Status:      s.Status().String(),
		Assignee:    s.Assignee(),
		StartedAt:   s.StartedAt(),
		CompletedAt: s.CompletedAt(),
		DueDate:     s.DueDate(),
		Overdue:     s.IsOverdue(now),
		Notes:       s.Notes(),
		Payload:     s.Payload(),
		Version:     s.Version(),
	}
}

func NewResultView(r *result.LabResult) ResultView {
	interp := r.Interpretation()
	return ResultView{
		ID:             r.ID(),
		TestRef:        r.TestRef(),
		Value:          r.Value(),
		Unit:           r.Unit(),
		Status:         r.Status().String(),
		ReferenceRange: interp.ReferenceRange,
		IsAbnormal:     interp.IsAbnormal,
		Interpretation: interp.Text,
		PerformedBy:    r.PerformedBy(),
		PerformedAt:    r.PerformedAt(),
		VerifiedBy:     r.VerifiedBy(),
		VerifiedAt:     r.VerifiedAt(),
		ReportedAt:     r.ReportedAt(),
		Version:        r.Version(),
	}
}
