package order

import (
	"errors"
	"strings"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when a LabOrder instance was not created through
	// NewLabOrder or RestoreLabOrder.
	ErrOrderIsNotConstructed = errors.New("LabOrder must be created via NewLabOrder constructor")
)

// LabOrder is the aggregate root for a clinical laboratory order. It owns the order
// lifecycle (PENDING -> COLLECTED -> PROCESSING -> COMPLETED, or CANCELLED from any
// non-terminal status) and the audit data recorded at each transition.
//
// LabOrder follows these invariants:
//   - Must have a valid unique identifier and order number
//   - Patient and physician references are required
//   - ExpectedCompletionAt = CreatedAt + priority turnaround
//   - Terminal orders (COMPLETED, CANCELLED) never change again
//   - CompletedAt is set only when status is COMPLETED,
//     CancelledAt and CancellationReason only when CANCELLED
type LabOrder struct {
	id           kernel.UUID
	number       Number
	patientRef   string
	physicianRef string
	priority     Priority
	status       Status

	clinicalNotes string

	createdAt            time.Time
	expectedCompletionAt time.Time

	collectedAt     *time.Time
	collectedBy     string
	collectionNotes string

	processingStartedAt *time.Time

	completedAt     *time.Time
	completedBy     string
	completionNotes string

	cancelledAt        *time.Time
	cancelledBy        string
	cancellationReason string

	// version is the optimistic-concurrency token; 1 for a fresh order
	version int

	isConstructed bool
}

// NewLabOrder creates a PENDING order.
//
// Example:
//
//	number, _ := order.NewNumber(now, 1)
//	o, err := order.NewLabOrder(kernel.NewUUID(), number, "PAT-1", "DR-9", order.Stat, "fasting", now)
func NewLabOrder(
	id kernel.UUID,
	number Number,
	patientRef string,
	physicianRef string,
	priority Priority,
	clinicalNotes string,
	now time.Time,
) (*LabOrder, error) {
	o := &LabOrder{
		status:        Pending,
		clinicalNotes: clinicalNotes,
		createdAt:     now.UTC(),
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setPatientRef(patientRef),
		o.setPhysicianRef(physicianRef),
		o.setPriority(priority),
	); err != nil {
		return nil, err
	}

	o.expectedCompletionAt = o.createdAt.Add(priority.Turnaround())
	return o, nil
}

// Snapshot is the flat, persistence-friendly state of a LabOrder.
type Snapshot struct {
	ID                   kernel.UUID
	Number               string
	PatientRef           string
	PhysicianRef         string
	Priority             Priority
	Status               Status
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
	Version              int
}

// RestoreLabOrder rebuilds an order from persisted state.
func RestoreLabOrder(s Snapshot) (*LabOrder, error) {
	number, err := ParseNumber(s.Number)
	if err != nil {
		return nil, err
	}

	o := &LabOrder{
		status:               s.Status,
		clinicalNotes:        s.ClinicalNotes,
		createdAt:            s.CreatedAt,
		expectedCompletionAt: s.ExpectedCompletionAt,
		collectedAt:          s.CollectedAt,
		collectedBy:          s.CollectedBy,
		collectionNotes:      s.CollectionNotes,
		processingStartedAt:  s.ProcessingStartedAt,
		completedAt:          s.CompletedAt,
		completedBy:          s.CompletedBy,
		completionNotes:      s.CompletionNotes,
		cancelledAt:          s.CancelledAt,
		cancelledBy:          s.CancelledBy,
		cancellationReason:   s.CancellationReason,
		version:              s.Version,
		isConstructed:        true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(number),
		o.setPatientRef(s.PatientRef),
		o.setPhysicianRef(s.PhysicianRef),
		o.setPriority(s.Priority),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot exports the order state. Time pointers are copied.
func (o *LabOrder) Snapshot() Snapshot {
	return Snapshot{
		ID:                   o.id,
		Number:               o.number.String(),
		PatientRef:           o.patientRef,
		PhysicianRef:         o.physicianRef,
		Priority:             o.priority,
		Status:               o.status,
		ClinicalNotes:        o.clinicalNotes,
		CreatedAt:            o.createdAt,
		ExpectedCompletionAt: o.expectedCompletionAt,
		CollectedAt:          copyTime(o.collectedAt),
		CollectedBy:          o.collectedBy,
		CollectionNotes:      o.collectionNotes,
		ProcessingStartedAt:  copyTime(o.processingStartedAt),
		CompletedAt:          copyTime(o.completedAt),
		CompletedBy:          o.completedBy,
		CompletionNotes:      o.completionNotes,
		CancelledAt:          copyTime(o.cancelledAt),
		CancelledBy:          o.cancelledBy,
		CancellationReason:   o.cancellationReason,
		Version:              o.version,
	}
}

// Validate checks that the order was built by NewLabOrder or RestoreLabOrder.
//
// Returns:
//   - nil for a constructed order
//   - ErrOrderIsNotConstructed for a nil pointer or a struct literal
//
// Repositories call it before every write.
func (o *LabOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identity. Two snapshots of the same order at
// different versions are equal.
//
// Returns:
//   - true if both orders have the same ID
//   - false if other is nil or the IDs differ
func (o *LabOrder) IsEqual(other *LabOrder) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *LabOrder) ID() kernel.UUID {
	return o.id
}

// Number returns the human-readable order number, LAB-YYYYMMDD-NNNN.
func (o *LabOrder) Number() Number {
	return o.number
}

// PatientRef returns the opaque reference of the patient. It is never
// resolved by the engine.
func (o *LabOrder) PatientRef() string {
	return o.patientRef
}

// PhysicianRef returns the opaque reference of the ordering physician.
func (o *LabOrder) PhysicianRef() string {
	return o.physicianRef
}

// Priority returns the order priority, which fixes the turnaround time and
// the step deadlines applied by priority routing.
func (o *LabOrder) Priority() Priority {
	return o.priority
}

// Status returns the current lifecycle status of the order.
func (o *LabOrder) Status() Status {
	return o.status
}

// ClinicalNotes returns the free-text notes given at creation.
func (o *LabOrder) ClinicalNotes() string {
	return o.clinicalNotes
}

// CreatedAt returns when the order was registered.
func (o *LabOrder) CreatedAt() time.Time {
	return o.createdAt
}

// ExpectedCompletionAt returns the creation time plus the turnaround of the
// order priority.
func (o *LabOrder) ExpectedCompletionAt() time.Time {
	return o.expectedCompletionAt
}

// CollectedAt returns when the sample was collected.
// Returns nil while the order is PENDING.
func (o *LabOrder) CollectedAt() *time.Time {
	return copyTime(o.collectedAt)
}

// CollectedBy returns who collected the sample, or an empty string.
func (o *LabOrder) CollectedBy() string {
	return o.collectedBy
}

// CollectionNotes returns the notes recorded with the collection.
func (o *LabOrder) CollectionNotes() string {
	return o.collectionNotes
}

// ProcessingStartedAt returns when processing started.
// Returns nil until the order reaches PROCESSING.
func (o *LabOrder) ProcessingStartedAt() *time.Time {
	return copyTime(o.processingStartedAt)
}

// CompletedAt returns when the order was completed.
// Returns nil unless the status is COMPLETED.
func (o *LabOrder) CompletedAt() *time.Time {
	return copyTime(o.completedAt)
}

// CompletedBy returns who completed the order. When the order completed
// because its last workflow step did, it is the actor of that step.
func (o *LabOrder) CompletedBy() string {
	return o.completedBy
}

// CompletionNotes returns the notes recorded on completion.
func (o *LabOrder) CompletionNotes() string {
	return o.completionNotes
}

// CancelledAt returns when the order was cancelled.
// Returns nil unless the status is CANCELLED.
func (o *LabOrder) CancelledAt() *time.Time {
	return copyTime(o.cancelledAt)
}

// CancelledBy returns who cancelled the order.
func (o *LabOrder) CancelledBy() string {
	return o.cancelledBy
}

// CancellationReason returns the reason given on cancellation.
func (o *LabOrder) CancellationReason() string {
	return o.cancellationReason
}

// Version returns the stored row version used for optimistic concurrency.
// A new order has version 1.
func (o *LabOrder) Version() int {
	return o.version
}

// MarkPersisted records the version stored by the repository.
func (o *LabOrder) MarkPersisted(version int) {
	o.version = version
}

// EnsureActive fails with an InvalidStateTransitionError when the order is
// terminal. action describes the attempted operation for the error message.
func (o *LabOrder) EnsureActive(action string) error {
	if o.status.IsTerminal() {
		return errs.NewInvalidStateTransitionError("order", o.status.String(), action)
	}
	return nil
}

// CollectSample records specimen collection: PENDING -> COLLECTED.
func (o *LabOrder) CollectSample(collectedBy, notes string, now time.Time) error {
	newStatus, err := o.status.Collect()
	if err != nil {
		return err
	}

	o.markCollected(newStatus, collectedBy, notes, now)
	return nil
}

// StartProcessing moves a collected specimen into the lab: COLLECTED -> PROCESSING.
func (o *LabOrder) StartProcessing(now time.Time) error {
	newStatus, err := o.status.StartProcessing()
	if err != nil {
		return err
	}

	t := now.UTC()
	o.status = newStatus
	o.processingStartedAt = &t
	return nil
}

// Complete finishes the order: PROCESSING -> COMPLETED.
func (o *LabOrder) Complete(completedBy, notes string, now time.Time) error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.markCompleted(newStatus, completedBy, notes, now)
	return nil
}

// Cancel stops a non-terminal order. The reason is mandatory.
func (o *LabOrder) Cancel(reason, cancelledBy string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("cancellation reason")
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	t := now.UTC()
	o.status = newStatus
	o.cancelledAt = &t
	o.cancelledBy = cancelledBy
	o.cancellationReason = reason
	return nil
}

// SyncWithWorkflow reconciles the order status after direct step operations.
// A completed sample collection step moves a PENDING order to COLLECTED, and a
// fully completed workflow moves any non-terminal order to COMPLETED.
// It reports whether the order changed.
func (o *LabOrder) SyncWithWorkflow(collectionCompleted, workflowCompleted bool, actor string, now time.Time) bool {
	if o.status.IsTerminal() {
		return false
	}

	changed := false
	if collectionCompleted && o.status == Pending {
		o.markCollected(Collected, actor, "", now)
		changed = true
	}
	if workflowCompleted {
		o.markCompleted(Completed, actor, "", now)
		changed = true
	}
	return changed
}

// IsOverdue reports whether a non-terminal order is past its expected completion.
func (o *LabOrder) IsOverdue(now time.Time) bool {
	return !o.status.IsTerminal() && now.After(o.expectedCompletionAt)
}

func (o *LabOrder) markCollected(status Status, by, notes string, now time.Time) {
	t := now.UTC()
	o.status = status
	o.collectedAt = &t
	o.collectedBy = by
	o.collectionNotes = notes
}

func (o *LabOrder) markCompleted(status Status, by, notes string, now time.Time) {
	t := now.UTC()
	o.status = status
	o.completedAt = &t
	o.completedBy = by
	o.completionNotes = notes
}

func (o *LabOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *LabOrder) setNumber(n Number) error {
	if n.IsZero() {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = n
	return nil
}

func (o *LabOrder) setPatientRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return errs.NewValueIsRequiredError("patient reference")
	}
	o.patientRef = ref
	return nil
}

func (o *LabOrder) setPhysicianRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return errs.NewValueIsRequiredError("physician reference")
	}
	o.physicianRef = ref
	return nil
}

func (o *LabOrder) setPriority(p Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.priority = p
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
