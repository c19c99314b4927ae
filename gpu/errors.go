// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu

import "errors"

// Sentinel errors for the error-kind taxonomy of spec §7. None of these
// cross the public API as panics or exceptions: every fallible call
// returns one of them (optionally wrapped with %w for additional
// context) and leaves the runtime in the state it was in before the
// call. Apart from the backend-open and device-selection messages that
// context.go writes with the standard log package, the returned error is
// the only report of a failure.
var (
	// ErrInvalidArgument means a size, offset, arity or type did not
	// satisfy a method's contract (e.g. offset+size > buffer size, a
	// nil memory object, an argument-pack/function-entry arity
	// mismatch).
	ErrInvalidArgument = errors.New("gpu: invalid argument")

	// ErrUnsupported means the requested feature is not provided by
	// the device or backend (cooperative launch without
	// CooperativeKernelSupport, an image format the backend cannot
	// represent, a backend stub that only implements enumeration).
	ErrUnsupported = errors.New("gpu: unsupported")

	// ErrResourceExhausted means a host or device allocation failed.
	ErrResourceExhausted = errors.New("gpu: resource exhausted")

	// ErrBackendInternal wraps a backend-reported driver failure.
	ErrBackendInternal = errors.New("gpu: backend internal error")

	// ErrInvariantViolation is returned when a programming invariant
	// is broken: a buffer or image mapped again while still mapped,
	// or (only while Debug is set) a launch argument whose encoded
	// size disagrees with its ArgInfo (see EncodedSize).
	ErrInvariantViolation = errors.New("gpu: invariant violation")

	// ErrNoDevice means a context could not enumerate any device.
	ErrNoDevice = errors.New("gpu: no suitable device found")

	// ErrFatal means the backend is in an unrecoverable state; every
	// object created from the owning Context must be destroyed and
	// the Context closed before the backend can be reopened.
	ErrFatal = errors.New("gpu: fatal backend error")
)

// Debug controls whether the argument-size verification on every launch
// is performed. Production builds may set this to false to skip that
// bookkeeping; the mapping checks run whatever its value. It defaults to true
// because every testable property in spec §8 assumes debug checks are
// active.
var Debug = true
