// Package pool provides a generic bounded worker pool with two profiles:
// a CPU-bound batch map sized to hardware parallelism, and an I/O-bound
// fan-out with a caller-chosen concurrency width.
//
// Both profiles return results in input order regardless of completion
// order, isolate per-item failures, and fall back to full sequential
// execution when the underlying pool cannot be started.
package pool
