// Package steprepo persists workflow steps in the workflow_steps table. The
// free-form step payload is stored as a jsonb column.
package steprepo

import (
	"encoding/json"
	"fmt"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/workflow"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StepDTO is the row shape of workflow_steps.
type StepDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_workflow_steps_order_sequence,priority:1"`
	StepType    int       `gorm:"type:smallint;not null"`
	Sequence    int       `gorm:"type:smallint;not null;uniqueIndex:uq_workflow_steps_order_sequence,priority:2"`
	Status      int       `gorm:"type:smallint;not null"`
	Assignee    string    `gorm:"not null;default:''"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	DueDate     *time.Time     `gorm:"index"`
	Payload     datatypes.JSON `gorm:"type:jsonb"`
	Notes       string         `gorm:"not null;default:''"`
	Version     int            `gorm:"not null;default:1"`
}

func (StepDTO) TableName() string {
	return "workflow_steps"
}

func fromDomain(s *workflow.Step) (StepDTO, error) {
	snap := s.Snapshot()

	var payload datatypes.JSON
	if snap.Payload != nil {
		raw, err := json.Marshal(snap.Payload)
		if err != nil {
			return StepDTO{}, fmt.Errorf("failed to encode payload of step %s: %w", snap.ID, err)
		}
		payload = raw
	}

	return StepDTO{
		ID:          snap.ID.Bytes(),
		OrderID:     snap.OrderID.Bytes(),
		StepType:    int(snap.Type),
		Sequence:    snap.Sequence,
		Status:      int(snap.Status),
		Assignee:    snap.Assignee,
		StartedAt:   snap.StartedAt,
		CompletedAt: snap.CompletedAt,
		DueDate:     snap.DueDate,
		Payload:     payload,
		Notes:       snap.Notes,
		Version:     snap.Version,
	}, nil
}

func toDomain(dto StepDTO) (*workflow.Step, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if len(dto.Payload) > 0 {
		if err = json.Unmarshal(dto.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload of step %s: %w", id, err)
		}
	}

	return workflow.RestoreStep(workflow.StepSnapshot{
		ID:          id,
		OrderID:     orderID,
		Type:        workflow.StepType(dto.StepType),
		Status:      workflow.StepStatus(dto.Status),
		Sequence:    dto.Sequence,
		Assignee:    dto.Assignee,
		StartedAt:   utc(dto.StartedAt),
		CompletedAt: utc(dto.CompletedAt),
		DueDate:     utc(dto.DueDate),
		Payload:     payload,
		Notes:       dto.Notes,
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
