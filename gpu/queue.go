// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu

// QueueType distinguishes an all-purpose queue from a compute-only one.
type QueueType int

// Queue types.
const (
	QAllPurpose QueueType = iota
	QComputeOnly
)

// CompletionHandler is invoked once, on a runtime-owned goroutine, after
// the work it was attached to finishes. Handlers never run on the
// caller's goroutine and must not block indefinitely: a hung handler
// only delays the backend's own retire worker, not the submitting
// thread (spec §4.4, §5).
type CompletionHandler func(err error)

// Queue is a FIFO execution stream bound to exactly one device.
// Operations submitted to one queue have no ordering relation to any
// other queue unless a Fence joins them (spec §3, §5).
type Queue interface {
	Labeled

	// Device returns the device this queue is bound to.
	Device() *Device

	// Type returns whether this is an all-purpose or compute-only
	// queue.
	Type() QueueType

	// Finish blocks until all submitted work completes.
	Finish() error

	// Flush flushes pending submissions without blocking.
	Flush() error

	// Execute is a blocking launch: Execute(nil args...) forwards to
	// ExecuteWithParameters and only returns once the launch
	// completes.
	Execute(fn *FunctionEntry, global, local [3]uint32, args []Arg) error

	// ExecuteWithHandler is a non-blocking launch: handler runs once
	// the launched work completes.
	ExecuteWithHandler(fn *FunctionEntry, global, local [3]uint32, args []Arg, handler CompletionHandler) error

	// ExecuteCooperative is identical to Execute but requires
	// Device.CooperativeKernelSupport; the single launch may span all
	// groups concurrently.
	ExecuteCooperative(fn *FunctionEntry, global, local [3]uint32, args []Arg) error

	// ExecuteCooperativeWithHandler is the non-blocking counterpart of
	// ExecuteCooperative.
	ExecuteCooperativeWithHandler(fn *FunctionEntry, global, local [3]uint32, args []Arg, handler CompletionHandler) error

	// ExecuteWithParameters is the single choke point every other
	// Execute* variant forwards through (spec §6 "Supplemented
	// Features": the original's kernel_execute_forwarder).
	ExecuteWithParameters(p *LaunchParams) error

	// ExecuteIndirect submits the slice [cmdOffset, cmdOffset+cmdCount)
	// of a completed indirect command pipeline. cmdCount == ^uint32(0)
	// means "to the end".
	ExecuteIndirect(pipeline *IndirectCommandPipeline, p *LaunchParams, cmdOffset, cmdCount uint32) error
}
