package ports

import (
	"context"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/result"
)

// ResultRepository persists lab results.
type ResultRepository interface {
	Add(ctx context.Context, aggregate *result.LabResult) error
	Update(ctx context.Context, aggregate *result.LabResult) error
	Get(ctx context.Context, id kernel.UUID) (*result.LabResult, error)

	// GetByOrder returns the results of an order, oldest first.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*result.LabResult, error)
}
