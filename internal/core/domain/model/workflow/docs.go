// Package workflow implements the six-step processing workflow of a lab order.
//
// Every order owns exactly six steps, sequenced 1..6:
// sample_collection, sample_preparation, testing, quality_control,
// result_verification and reporting. Steps advance pending -> in_progress ->
// completed, or are cancelled together with their order.
//
// Sample preparation and testing are parallel-capable: they may run at the
// same time, either through the parallel_processing automation rule or when
// processing starts the testing step directly.
package workflow
