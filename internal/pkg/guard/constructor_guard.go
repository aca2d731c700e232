// Package guard provides ConstructorGuard, a marker embedded in value objects,
// commands and queries so that zero values are rejected by Validate.
package guard

import "errors"

// ErrDefaultConstructorGuard is what Validate reports for a zero guard when
// the caller passes no error of its own, so a missing constructor call is
// never silently accepted.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built by its constructor.
//
// Commands, queries and value objects in this module keep their fields
// private and expose a NewX function that validates the input. A struct
// literal such as CollectSampleCommand{} bypasses that validation. Embedding
// a ConstructorGuard makes such a literal detectable: only NewConstructorGuard
// sets the internal flag, so the zero value fails Validate.
//
// Handlers call Validate on every command before opening a unit of work, so
// an unconstructed command never reaches a repository.
//
// Example:
//
//	var ErrCollectSampleCommandIsNotConstructed = errors.New(
//	    "collect sample command must be created via NewCollectSampleCommand")
//
//	type CollectSampleCommand struct {
//	    orderID     kernel.UUID
//	    collectedBy string
//	    notes       string
//	    guard       guard.ConstructorGuard
//	}
//
//	func NewCollectSampleCommand(orderID kernel.UUID, collectedBy, notes string) (CollectSampleCommand, error) {
//	    if err := orderID.Validate(); err != nil {
//	        return CollectSampleCommand{}, err
//	    }
//	    return CollectSampleCommand{
//	        orderID:     orderID,
//	        collectedBy: collectedBy,
//	        notes:       notes,
//	        guard:       guard.NewConstructorGuard(),
//	    }, nil
//	}
//
//	func (c CollectSampleCommand) Validate() error {
//	    return c.guard.Validate(ErrCollectSampleCommandIsNotConstructed)
//	}
//
// The guard is a single bool and is safe to copy.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed. Call it only from
// the constructor of the embedding type.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate reports whether the embedding value came from its constructor.
//
// Parameters:
//   - validationError: the error to report for a zero guard; nil selects
//     ErrDefaultConstructorGuard
//
// Returns:
//   - nil if the guard was created by NewConstructorGuard
//   - validationError (or ErrDefaultConstructorGuard) otherwise
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
