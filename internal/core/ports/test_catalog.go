package ports

import (
	"context"

	"labflow/internal/core/domain/model/result"
)

// TestCatalog resolves test definitions. Definitions are read-only to the engine.
type TestCatalog interface {
	// Get returns the definition with the given id, or an ObjectNotFoundError.
	Get(ctx context.Context, id string) (result.TestDefinition, error)
}
