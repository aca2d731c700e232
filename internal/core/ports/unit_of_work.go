package ports

import (
	"context"
)

// UnitOfWorkFactory hands out one UnitOfWork per command or query.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of a lab operation.
// Repositories obtained from it use the transaction started by Begin; without
// Begin they read and write outside any transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit fails when no transaction is active.
	Commit(ctx context.Context) error

	// Rollback fails when no transaction is active. Handlers defer it right
	// after Begin and ignore its error once Commit has succeeded.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	WorkflowRepository() WorkflowRepository
	ResultRepository() ResultRepository
	OrderNumberSequence() OrderNumberSequence
}
