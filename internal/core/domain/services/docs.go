// Package services provides domain services that don't naturally belong to a
// single aggregate.
//
// The package includes:
//   - ReferenceRangeEvaluator: derives a result's abnormal flag and interpretation
//     from a test definition's reference ranges
//   - OrderNumbering: allocates LAB-YYYYMMDD-NNNN order numbers from a daily sequence
package services
