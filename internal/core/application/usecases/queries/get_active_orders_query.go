package queries

import (
	"errors"

	"labflow/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery lists every order that is not COMPLETED or CANCELLED,
// oldest first. It is the work list of the laboratory.
//
// Example:
//
//	query := NewGetActiveOrdersQuery()
//	orders, err := handler.Handle(ctx, query)
//	for _, o := range orders {
//	    if o.Overdue {
//	        fmt.Printf("%s (%s) is past its turnaround\n", o.Number, o.Priority)
//	    }
//	}
type GetActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetActiveOrdersQuery() GetActiveOrdersQuery {
	return GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}
