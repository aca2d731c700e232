// Package orderrepo persists the LabOrder aggregate in the lab_orders table.
package orderrepo

import (
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row shape of lab_orders. Enumerations are stored as
// their integer values.
type OrderDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number               string    `gorm:"column:order_number;type:varchar(32);uniqueIndex:uq_lab_orders_number;not null"`
	PatientRef           string    `gorm:"not null"`
	PhysicianRef         string    `gorm:"not null"`
	Priority             int       `gorm:"type:smallint;not null"`
	Status               int       `gorm:"type:smallint;not null;index:idx_lab_orders_status_created,priority:1"`
	ClinicalNotes        string    `gorm:"not null;default:''"`
	CreatedAt            time.Time `gorm:"not null;autoCreateTime:false;index:idx_lab_orders_status_created,priority:2"`
	ExpectedCompletionAt time.Time `gorm:"not null"`
	CollectedAt          *time.Time
	CollectedBy          string `gorm:"not null;default:''"`
	CollectionNotes      string `gorm:"not null;default:''"`
	ProcessingStartedAt  *time.Time
	CompletedAt          *time.Time
	CompletedBy          string `gorm:"not null;default:''"`
	CompletionNotes      string `gorm:"not null;default:''"`
	CancelledAt          *time.Time
	CancelledBy          string `gorm:"not null;default:''"`
	CancellationReason   string `gorm:"not null;default:''"`
	Version              int    `gorm:"not null;default:1"`
}

func (OrderDTO) TableName() string {
	return "lab_orders"
}

func fromDomain(o *order.LabOrder) OrderDTO {
	s := o.Snapshot()
	return OrderDTO{
		ID:                   s.ID.Bytes(),
		Number:               s.Number,
		PatientRef:           s.PatientRef,
		PhysicianRef:         s.PhysicianRef,
		Priority:             int(s.Priority),
		Status:               int(s.Status),
		ClinicalNotes:        s.ClinicalNotes,
		CreatedAt:            s.CreatedAt,
		ExpectedCompletionAt: s.ExpectedCompletionAt,
		CollectedAt:          s.CollectedAt,
		CollectedBy:          s.CollectedBy,
		CollectionNotes:      s.CollectionNotes,
		ProcessingStartedAt:  s.ProcessingStartedAt,
		CompletedAt:          s.CompletedAt,
		CompletedBy:          s.CompletedBy,
		CompletionNotes:      s.CompletionNotes,
		CancelledAt:          s.CancelledAt,
		CancelledBy:          s.CancelledBy,
		CancellationReason:   s.CancellationReason,
		Version:              s.Version,
	}
}

func toDomain(dto OrderDTO) (*order.LabOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreLabOrder(order.Snapshot{
		ID:                   id,
		Number:               dto.Number,
		PatientRef:           dto.PatientRef,
		PhysicianRef:         dto.PhysicianRef,
		Priority:             order.Priority(dto.Priority),
		Status:               order.Status(dto.Status),
		ClinicalNotes:        dto.ClinicalNotes,
		CreatedAt:            dto.CreatedAt.UTC(),
		ExpectedCompletionAt: dto.ExpectedCompletionAt.UTC(),
		CollectedAt:          utc(dto.CollectedAt),
		CollectedBy:          dto.CollectedBy,
		CollectionNotes:      dto.CollectionNotes,
		ProcessingStartedAt:  utc(dto.ProcessingStartedAt),
		CompletedAt:          utc(dto.CompletedAt),
		CompletedBy:          dto.CompletedBy,
		CompletionNotes:      dto.CompletionNotes,
		CancelledAt:          utc(dto.CancelledAt),
		CancelledBy:          dto.CancelledBy,
		CancellationReason:   dto.CancellationReason,
		Version:              dto.Version,
	})
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
