package result

import (
	"errors"
	"strings"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
)

var ErrResultIsNotConstructed = errors.New("LabResult must be created via NewLabResult constructor")

// LabResult is one measured value of an order. Its interpretation is derived
// from the value and the test definition's reference ranges.
type LabResult struct {
	id      kernel.UUID
	orderID kernel.UUID
	testRef string
	value   string
	unit    string
	subject Subject
	status  Status
	interp  Interpretation

	performedBy string
	performedAt time.Time
	verifiedBy  string
	verifiedAt  *time.Time
	reportedAt  *time.Time

	version       int
	isConstructed bool
}

// NewLabResult records a measured value in status completed.
func NewLabResult(
	id kernel.UUID,
	orderID kernel.UUID,
	testRef string,
	value string,
	unit string,
	subject Subject,
	performedBy string,
	now time.Time,
) (*LabResult, error) {
	var err error
	err = errors.Join(err, id.Validate(), orderID.Validate())
	if strings.TrimSpace(testRef) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("test reference"))
	}
	if strings.TrimSpace(value) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("result value"))
	}
	if err != nil {
		return nil, err
	}

	return &LabResult{
		id:            id,
		orderID:       orderID,
		testRef:       testRef,
		value:         value,
		unit:          unit,
		subject:       subject,
		status:        Completed,
		performedBy:   performedBy,
		performedAt:   now.UTC(),
		version:       1,
		isConstructed: true,
	}, nil
}

// Snapshot is the flat, persistence-friendly state of a LabResult.
type Snapshot struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	TestRef        string
	Value          string
	Unit           string
	Subject        Subject
	Status         Status
	Interpretation Interpretation
	PerformedBy    string
	PerformedAt    time.Time
	VerifiedBy     string
	VerifiedAt     *time.Time
	ReportedAt     *time.Time
	Version        int
}

func RestoreLabResult(s Snapshot) (*LabResult, error) {
	if err := errors.Join(s.ID.Validate(), s.OrderID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}

	return &LabResult{
		id:            s.ID,
		orderID:       s.OrderID,
		testRef:       s.TestRef,
		value:         s.Value,
		unit:          s.Unit,
		subject:       s.Subject,
		status:        s.Status,
		interp:        copyInterpretation(s.Interpretation),
		performedBy:   s.PerformedBy,
		performedAt:   s.PerformedAt,
		verifiedBy:    s.VerifiedBy,
		verifiedAt:    copyTime(s.VerifiedAt),
		reportedAt:    copyTime(s.ReportedAt),
		version:       s.Version,
		isConstructed: true,
	}, nil
}

func (r *LabResult) Snapshot() Snapshot {
	return Snapshot{
		ID:             r.id,
		OrderID:        r.orderID,
		TestRef:        r.testRef,
		Value:          r.value,
		Unit:           r.unit,
		Subject:        r.subject,
		Status:         r.status,
		Interpretation: copyInterpretation(r.interp),
		PerformedBy:    r.performedBy,
		PerformedAt:    r.performedAt,
		VerifiedBy:     r.verifiedBy,
		VerifiedAt:     copyTime(r.verifiedAt),
		ReportedAt:     copyTime(r.reportedAt),
		Version:        r.version,
	}
}

func (r *LabResult) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrResultIsNotConstructed
	}
	return nil
}

// ID returns the result's unique identifier.
func (r *LabResult) ID() kernel.UUID {
	return r.id
}

// OrderID returns the identifier of the order the result belongs to.
func (r *LabResult) OrderID() kernel.UUID {
	return r.orderID
}

// TestRef returns the test catalog identifier, such as "GLU".
func (r *LabResult) TestRef() string {
	return r.testRef
}

// Value returns the raw measured value. It may be non-numeric.
func (r *LabResult) Value() string {
	return r.value
}

// Unit returns the unit the value was reported in.
func (r *LabResult) Unit() string {
	return r.unit
}

// Subject returns the patient attributes used to select a reference range.
func (r *LabResult) Subject() Subject {
	return r.subject
}

// Status returns the current result status.
func (r *LabResult) Status() Status {
	return r.status
}

// Interpretation returns a copy of the derived range text, abnormal flag
// and interpretation text. It is zero when no range applied.
func (r *LabResult) Interpretation() Interpretation {
	return copyInterpretation(r.interp)
}

// PerformedBy returns who recorded the value.
func (r *LabResult) PerformedBy() string {
	return r.performedBy
}

// PerformedAt returns when the value was recorded or last updated.
func (r *LabResult) PerformedAt() time.Time {
	return r.performedAt
}

// VerifiedBy returns who verified the result, or an empty string.
func (r *LabResult) VerifiedBy() string {
	return r.verifiedBy
}

// VerifiedAt returns when the result was verified.
// Returns nil until verification.
func (r *LabResult) VerifiedAt() *time.Time {
	return copyTime(r.verifiedAt)
}

// ReportedAt returns when the result was reported with its order.
// Returns nil until the order completes.
func (r *LabResult) ReportedAt() *time.Time {
	return copyTime(r.reportedAt)
}

// Version returns the stored row version used for optimistic concurrency.
func (r *LabResult) Version() int {
	return r.version
}

// IsAbnormal reports whether the current interpretation flags the value.
func (r *LabResult) IsAbnormal() bool {
	return r.interp.IsAbnormal != nil && *r.interp.IsAbnormal
}

func (r *LabResult) MarkPersisted(version int) {
	r.version = version
}

// UpdateValue replaces the measured value while the result is still editable.
// An empty unit keeps the current one.
func (r *LabResult) UpdateValue(value, unit string) error {
	if !r.status.IsEditable() {
		return errs.NewInvalidStateTransitionError("result", r.status.String(), "update")
	}
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError("result value")
	}
	r.value = value
	if unit != "" {
		r.unit = unit
	}
	return nil
}

// ChangeSubject replaces the subject used for range applicability.
func (r *LabResult) ChangeSubject(subject Subject) error {
	if !r.status.IsEditable() {
		return errs.NewInvalidStateTransitionError("result", r.status.String(), "update")
	}
	r.subject = subject
	return nil
}

// ApplyInterpretation stores the derived interpretation.
func (r *LabResult) ApplyInterpretation(i Interpretation) {
	r.interp = copyInterpretation(i)
}

// Verify signs off a completed result.
func (r *LabResult) Verify(verifiedBy string, now time.Time) error {
	if strings.TrimSpace(verifiedBy) == "" {
		return errs.NewValueIsRequiredError("verifier")
	}
	newStatus, err := r.status.verify()
	if err != nil {
		return err
	}
	t := now.UTC()
	r.status = newStatus
	r.verifiedBy = verifiedBy
	r.verifiedAt = &t
	return nil
}

// Report marks a verified result as released with the order report.
func (r *LabResult) Report(now time.Time) error {
	newStatus, err := r.status.report()
	if err != nil {
		return err
	}
	t := now.UTC()
	r.status = newStatus
	r.reportedAt = &t
	return nil
}

func copyInterpretation(i Interpretation) Interpretation {
	if i.IsAbnormal != nil {
		v := *i.IsAbnormal
		i.IsAbnormal = &v
	}
	return i
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
