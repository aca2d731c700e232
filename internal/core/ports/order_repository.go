// Package ports defines the contracts between the application core and its
// adapters: repositories, the unit of work, the order number sequence, the
// test catalog and the alert channel.
package ports

import (
	"context"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for lab orders.
type OrderRepository interface {
	// Add persists a new order. The order number must be unique.
	Add(ctx context.Context, aggregate *order.LabOrder) error

	// Update persists changes to an existing order. It fails with a
	// ConcurrencyConflictError when the stored version differs from the
	// aggregate's version, and records the new version on success.
	Update(ctx context.Context, aggregate *order.LabOrder) error

	// Get retrieves an order by identifier, or an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.LabOrder, error)

	// GetAllActive returns every non-terminal order, oldest first.
	GetAllActive(ctx context.Context) ([]*order.LabOrder, error)
}
