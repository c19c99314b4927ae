// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu

// Buffer is a linear, fixed-size device memory object (spec §4.2).
//
//	write(B, src, s, o); read(B, dst, s, o) implies dst[0:s] == src[0:s]
//
// for every o, s with o+s <= B.Size() (spec §8 P1).
type Buffer interface {
	Labeled
	Destroyer

	// Size returns the buffer's size in bytes, fixed at creation.
	Size() int64

	// Flags returns the creation-time memory flags.
	Flags() MemDesc

	// Read copies min(size, Size()-offset) bytes from the device into
	// dst (or HostData if dst is nil). size == 0 means "the whole
	// buffer from offset". Blocks queue-order after prior work on q.
	Read(q Queue, dst []byte, size, offset int64) error

	// Write is symmetric to Read.
	Write(q Queue, src []byte, size, offset int64) error

	// Copy performs a device-to-device copy from src into this
	// buffer. size == 0 means min(src.Size(), this.Size()). src and
	// this must not overlap if src == this.
	Copy(q Queue, src Buffer, size, srcOff, dstOff int64) error

	// Fill repeats pattern (len(pattern) bytes) across the buffer
	// range [offset, offset+size). size == 0 means "to the end".
	Fill(q Queue, pattern []byte, size, offset int64) error

	// Zero is equivalent to Fill with an all-zero, 4-byte pattern
	// over the whole buffer.
	Zero(q Queue) error

	// Map returns a pointer (as a []byte referring to the mapped
	// range) valid until Unmap. If the backing memory is not host
	// visible, the runtime transparently stages it.
	Map(q Queue, flags MapFlags, size, offset int64) ([]byte, error)

	// Unmap pairs with Map; ptr must be the exact slice (same
	// underlying array) previously returned.
	Unmap(q Queue, ptr []byte) error
}

// Destroyer is implemented by any type that owns externally-managed
// resources and so must be destroyed explicitly rather than relying on
// the garbage collector.
type Destroyer interface {
	Destroy()
}
