// Package sequencerepo implements the per-day order number counter on the
// order_number_sequences table.
package sequencerepo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SequenceDTO is the row shape of order_number_sequences.
type SequenceDTO struct {
	Day       time.Time `gorm:"type:date;primaryKey"`
	LastValue int64     `gorm:"not null"`
}

func (SequenceDTO) TableName() string {
	return "order_number_sequences"
}

const nextSQL = `
	INSERT INTO order_number_sequences (day, last_value)
	VALUES (?, 1)
	ON CONFLICT (day) DO UPDATE
		SET last_value = order_number_sequences.last_value + 1
	RETURNING last_value`

// GormOrderNumberSequence implements ports.OrderNumberSequence with an
// atomic upsert, so concurrent transactions never receive the same value.
type GormOrderNumberSequence struct {
	db *gorm.DB
}

func NewGormOrderNumberSequence(db *gorm.DB) *GormOrderNumberSequence {
	return &GormOrderNumberSequence{db: db}
}

func (s *GormOrderNumberSequence) Next(ctx context.Context, day time.Time) (int64, error) {
	var next int64
	key := day.UTC().Format(time.DateOnly)
	if err := s.db.WithContext(ctx).Raw(nextSQL, key).Scan(&next).Error; err != nil {
		return 0, fmt.Errorf("failed to advance sequence for %s: %w", key, err)
	}
	return next, nil
}
