// Package resultrepo persists lab results in the lab_results table.
package resultrepo

import (
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/result"

	"github.com/google/uuid"
)

// ResultDTO is the row shape of lab_results. The subject and the derived
// interpretation are flattened into columns.
type ResultDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index:idx_lab_results_order,priority:1"`
	TestRef         string    `gorm:"not null"`
	Value           string    `gorm:"not null;default:''"`
	Unit            string    `gorm:"not null;default:''"`
	SubjectAgeGroup string    `gorm:"not null;default:''"`
	SubjectGender   string    `gorm:"not null;default:''"`
	Status          int       `gorm:"type:smallint;not null"`
	ReferenceRange  string    `gorm:"not null;default:''"`
	IsAbnormal      *bool
	Interpretation  string    `gorm:"not null;default:''"`
	PerformedBy     string    `gorm:"not null"`
	PerformedAt     time.Time `gorm:"not null;index:idx_lab_results_order,priority:2"`
	VerifiedBy      string    `gorm:"not null;default:''"`
	VerifiedAt      *time.Time
	ReportedAt      *time.Time
	Version         int `gorm:"not null;default:1"`
}

func (ResultDTO) TableName() string {
	return "lab_results"
}

func fromDomain(r *result.LabResult) ResultDTO {
	s := r.Snapshot()
	return ResultDTO{
		ID:              s.ID.Bytes(),
		OrderID:         s.OrderID.Bytes(),
		TestRef:         s.TestRef,
		Value:           s.Value,
		Unit:            s.Unit,
		SubjectAgeGroup: s.Subject.AgeGroup,
		SubjectGender:   s.Subject.Gender,
		Status:          int(s.Status),
		ReferenceRange:  s.Interpretation.ReferenceRange,
		IsAbnormal:      s.Interpretation.IsAbnormal,
		Interpretation:  s.Interpretation.Text,
		PerformedBy:     s.PerformedBy,
		PerformedAt:     s.PerformedAt,
		VerifiedBy:      s.VerifiedBy,
		VerifiedAt:      s.VerifiedAt,
		ReportedAt:      s.ReportedAt,
		Version:         s.Version,
	}
}

func toDomain(dto ResultDTO) (*result.LabResult, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return result.RestoreLabResult(result.Snapshot{
		ID:      id,
		OrderID: orderID,
		TestRef: dto.TestRef,
		Value:   dto.Value,
		Unit:    dto.Unit,
		Subject: result.Subject{AgeGroup: dto.SubjectAgeGroup, Gender: dto.SubjectGender},
		Status:  result.Status(dto.Status),
		Interpretation: result.Interpretation{
			ReferenceRange: dto.ReferenceRange,
			IsAbnormal:     dto.IsAbnormal,
			Text:           dto.Interpretation,
		},
		PerformedBy: dto.PerformedBy,
		PerformedAt: dto.PerformedAt.UTC(),
		VerifiedBy:  dto.VerifiedBy,
		VerifiedAt:  utc(dto.VerifiedAt),
		ReportedAt:  utc(dto.ReportedAt),
		Version:     dto.Version,
	})
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
