// Package kernel provides the shared domain primitives of the laboratory
// workflow engine.
//
// The package includes:
//   - UUID: a value object for identifiers of orders, workflow steps and results
//
// Primitives are immutable and safe for concurrent use.
package kernel
