// Package order provides the LabOrder aggregate root and its value objects.
//
// The package includes:
//   - LabOrder: identity, patient and physician references, priority and lifecycle audit data
//   - Status: the order state machine (PENDING -> COLLECTED -> PROCESSING -> COMPLETED, CANCELLED)
//   - Priority: routine, urgent and stat, with their turnaround and step deadlines
//   - Number: the LAB-YYYYMMDD-NNNN order number
//
// Key business rules:
//   - Expected completion is creation time plus 24h (routine), 6h (urgent) or 2h (stat)
//   - Only non-terminal orders can be cancelled, and a reason is required
//   - COMPLETED and CANCELLED orders are immutable
package order
