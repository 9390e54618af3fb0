// Package operations orchestrates the processing pipeline as an ordered
// sequence of steps (clean, correct, validate) over a shared run State.
// Each run gets a unique id, per-step status and timing, and a typed
// PipelineError taxonomy for failures. Steps run strictly sequentially;
// any parallelism lives inside the steps themselves.
package operations
