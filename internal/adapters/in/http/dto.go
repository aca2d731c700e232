package http

import (
	"time"

	"labflow/internal/core/application/usecases/queries"

	"github.com/google/uuid"
)

// Error is the body of every non-2xx API response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type NewOrder struct {
	PatientRef    string `json:"patientRef"`
	PhysicianRef  string `json:"physicianRef"`
	Priority      string `json:"priority"`
	ClinicalNotes string `json:"clinicalNotes"`
}

type CollectSample struct {
	Notes string `json:"notes"`
}

type CompleteOrder struct {
	Notes string `json:"notes"`
}

type CancelOrder struct {
	Reason string `json:"reason"`
}

type StartStep struct {
	Assignee string `json:"assignee"`
}

type CompleteStep struct {
	Notes string         `json:"notes"`
	Data  map[string]any `json:"data"`
}

type TriggerAutomation struct {
	Rule     string `json:"rule"`
	Priority string `json:"priority"`
}

type RecordResult struct {
	TestRef  string `json:"testRef"`
	Value    string `json:"value"`
	Unit     string `json:"unit"`
	AgeGroup string `json:"ageGroup"`
	Gender   string `json:"gender"`
}

type UpdateResult struct {
	Value    string `json:"value"`
	Unit     string `json:"unit"`
	AgeGroup string `json:"ageGroup"`
	Gender   string `json:"gender"`
}

type Order struct {
	ID                   uuid.UUID  `json:"id"`
	OrderNumber          string     `json:"orderNumber"`
	PatientRef           string     `json:"patientRef"`
	PhysicianRef         string     `json:"physicianRef"`
	Priority             string     `json:"priority"`
	Status               string     `json:"status"`
	ClinicalNotes        string     `json:"clinicalNotes,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	ExpectedCompletionAt time.Time  `json:"expectedCompletionAt"`
	CollectedAt          *time.Time `json:"collectedAt,omitempty"`
	CollectedBy          string     `json:"collectedBy,omitempty"`
	CollectionNotes      string     `json:"collectionNotes,omitempty"`
	ProcessingStartedAt  *time.Time `json:"processingStartedAt,omitempty"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
	CompletedBy          string     `json:"completedBy,omitempty"`
	CompletionNotes      string     `json:"completionNotes,omitempty"`
	CancelledAt          *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy          string     `json:"cancelledBy,omitempty"`
	CancellationReason   string     `json:"cancellationReason,omitempty"`
	Overdue              bool       `json:"overdue"`
	Version              int        `json:"version"`
}

type Step struct {
	ID          uuid.UUID      `json:"id"`
	StepType    string         `json:"stepType"`
	Sequence    int            `json:"sequence"`
	Status      string         `json:"status"`
	Assignee    string         `json:"assignee,omitempty"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Overdue     bool           `json:"overdue"`
	Notes       string         `json:"notes,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
	Version     int            `json:"version"`
}

type Result struct {
	ID             uuid.UUID  `json:"id"`
	TestRef        string     `json:"testRef"`
	Value          string     `json:"value"`
	Unit           string     `json:"unit,omitempty"`
	Status         string     `json:"status"`
	ReferenceRange string     `json:"referenceRange,omitempty"`
	IsAbnormal     *bool      `json:"isAbnormal"`
	Interpretation string     `json:"interpretation,omitempty"`
	PerformedBy    string     `json:"performedBy,omitempty"`
	PerformedAt    time.Time  `json:"performedAt"`
	VerifiedBy     string     `json:"verifiedBy,omitempty"`
	VerifiedAt     *time.Time `json:"verifiedAt,omitempty"`
	ReportedAt     *time.Time `json:"reportedAt,omitempty"`
	Version        int        `json:"version"`
}

type OrderDetails struct {
	Order   Order    `json:"order"`
	Steps   []Step   `json:"steps"`
	Results []Result `json:"results"`
}

type WorkflowStatus struct {
	OrderID        uuid.UUID `json:"orderId"`
	OrderStatus    string    `json:"orderStatus"`
	TotalSteps     int       `json:"totalSteps"`
	CompletedSteps int       `json:"completedSteps"`
	Percentage     float64   `json:"percentage"`
	CurrentStep    string    `json:"currentStep"`
	Steps          []Step    `json:"steps"`
}

func toOrder(v queries.OrderView) Order {
	return Order{
		ID:                   v.ID.Bytes(),
		OrderNumber:          v.Number,
		PatientRef:           v.PatientRef,
		PhysicianRef:         v.PhysicianRef,
		Priority:             v.Priority,
		Status:               v.Status,
		ClinicalNotes:        v.ClinicalNotes,
		CreatedAt:            v.CreatedAt,
		ExpectedCompletionAt: v.ExpectedCompletionAt,
		CollectedAt:          v.CollectedAt,
		CollectedBy:          v.CollectedBy,
		CollectionNotes:      v.CollectionNotes,
		ProcessingStartedAt:  v.ProcessingStartedAt,
		CompletedAt:          v.CompletedAt,
		CompletedBy:          v.CompletedBy,
		CompletionNotes:      v.CompletionNotes,
		CancelledAt:          v.CancelledAt,
		CancelledBy:          v.CancelledBy,
		CancellationReason:   v.CancellationReason,
		Overdue:              v.Overdue,
		Version:              v.Version,
	}
}

func toStep(v queries.StepView) Step {
	return Step{
		ID:          v.ID.Bytes(),
		StepType:    v.Type,
		Sequence:    v.Sequence,
		Status:      v.Status,
		Assignee:    v.Assignee,
		StartedAt:   v.StartedAt,
		CompletedAt: v.CompletedAt,
		DueDate:     v.DueDate,
		Overdue:     v.Overdue,
		Notes:       v.Notes,
		Payload:     v.Payload,
		Version:     v.Version,
	}
}

func toSteps(views []queries.StepView) []Step {
	steps := make([]Step, len(views))
	for i, v := range views {
		steps[i] = toStep(v)
	}
	return steps
}

func toResult(v queries.ResultView) Result {
	return Result{
		ID:             v.ID.Bytes(),
		TestRef:        v.TestRef,
		Value:          v.Value,
		Unit:           v.Unit,
		Status:         v.Status,
		ReferenceRange: v.ReferenceRange,
		IsAbnormal:     v.IsAbnormal,
		Interpretation: v.Interpretation,
		PerformedBy:    v.PerformedBy,
		PerformedAt:    v.PerformedAt,
		VerifiedBy:     v.VerifiedBy,
		VerifiedAt:     v.VerifiedAt,
		ReportedAt:     v.ReportedAt,
		Version:        v.Version,
	}
}

func toWorkflowStatus(r queries.GetOrderWorkflowStatusQueryResponse) WorkflowStatus {
	return WorkflowStatus{
		OrderID:        r.OrderID.Bytes(),
		OrderStatus:    r.OrderStatus,
		TotalSteps:     r.TotalSteps,
		CompletedSteps: r.CompletedSteps,
		Percentage:     r.Percentage,
		CurrentStep:    r.CurrentStep,
		Steps:          toSteps(r.Steps),
	}
}
