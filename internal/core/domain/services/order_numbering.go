package services

import (
	"context"
	"fmt"
	"time"

	"labflow/internal/core/domain/model/order"
)

// DailySequence hands out strictly increasing values per UTC day, starting at 1.
type DailySequence interface {
	Next(ctx context.Context, day time.Time) (int64, error)
}

// OrderNumbering allocates order numbers. Uniqueness relies on the sequence
// being atomic.
type OrderNumbering struct {
	sequence DailySequence
}

func NewOrderNumbering(sequence DailySequence) OrderNumbering {
	return OrderNumbering{sequence: sequence}
}

// Next returns the next number for the day of now.
func (n OrderNumbering) Next(ctx context.Context, now time.Time) (order.Number, error) {
	day := now.UTC().Truncate(24 * time.Hour)
	seq, err := n.sequence.Next(ctx, day)
	if err != nil {
		return order.Number{}, fmt.Errorf("failed to allocate order number: %w", err)
	}
	return order.NewNumber(day, seq)
}
