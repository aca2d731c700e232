// Package errs defines the error kinds shared by the domain, the use cases and
// the adapters. Every type unwraps to a package sentinel, so callers branch with
// errors.Is and read details with errors.As:
//
//	ObjectNotFoundError          ErrObjectNotFound          order, step, result or test definition missing
//	ValueIsInvalidError          ErrValueIsInvalid          malformed input
//	ValueIsRequiredError         ErrValueIsRequired         missing input
//	ValueIsOutOfRangeError       ErrValueIsOutOfRange       input outside its bounds
//	InvalidStateTransitionError  ErrInvalidStateTransition  transition not allowed from the current status
//	ConcurrencyConflictError     ErrConcurrencyConflict     row changed between read and write
//
// Messages never contain line breaks.
package errs
