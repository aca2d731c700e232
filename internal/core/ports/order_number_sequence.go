package ports

import (
	"context"
	"time"
)

// OrderNumberSequence is an atomic per-day counter used for order numbers.
// The first value of each day is 1.
type OrderNumberSequence interface {
	Next(ctx context.Context, day time.Time) (int64, error)
}
