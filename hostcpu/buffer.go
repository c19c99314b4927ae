// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/gviegas/gpucore/gpu"
)

// buffer backs its storage with an anonymous mmap region rather than a
// plain Go slice, so a mapped pointer's address stays stable across the
// buffer's lifetime the way a real host-visible device allocation does
// (grounded on ehrlich-b-go-ublk's mmap'd per-tag I/O buffers).
type buffer struct {
	mu    sync.Mutex
	mem   []byte // unix.Mmap'd region, len == size
	size  int64
	desc  gpu.MemDesc
	label string
	mapped bool
}

func newBuffer(size int64, desc gpu.MemDesc) (*buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: buffer size must be positive", gpu.ErrInvalidArgument)
	}
	mem, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap buffer storage: %v", gpu.ErrResourceExhausted, err)
	}
	b := &buffer{mem: mem, size: size, desc: desc, label: desc.Label}
	if desc.HostData != nil && desc.Flags&gpu.FNoInitialCopy == 0 {
		copy(b.mem, desc.HostData)
	}
	return b, nil
}

func (b *buffer) Label() string     { b.mu.Lock(); defer b.mu.Unlock(); return b.label }
func (b *buffer) SetLabel(l string) { b.mu.Lock(); defer b.mu.Unlock(); b.label = l }
func (b *buffer) Size() int64       { return b.size }
func (b *buffer) Flags() gpu.MemDesc { return b.desc }

func (b *buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mem != nil {
		unix.Munmap(b.mem)
		b.mem = nil
	}
}

func (b *buffer) Read(q gpu.Queue, dst []byte, size, offset int64) error {
	return submitSync(q, func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		n, err := b.clampRange(size, offset)
		if err != nil {
			return err
		}
		if dst == nil {
			if b.desc.HostData == nil {
				return fmt.Errorf("%w: Read with nil dst and no HostData target", gpu.ErrInvalidArgument)
			}
			dst = b.desc.HostData
		}
		copy(dst, b.mem[offset:offset+n])
		return nil
	})
}

func (b *buffer) Write(q gpu.Queue, src []byte, size, offset int64) error {
	return submitSync(q, func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		n, err := b.clampRange(size, offset)
		if err != nil {
			return err
		}
		if src == nil {
			if b.desc.HostData == nil {
				return fmt.Errorf("%w: Write with nil src and no HostData source", gpu.ErrInvalidArgument)
			}
			src = b.desc.HostData
		}
		copy(b.mem[offset:offset+n], src)
		return nil
	})
}

func (b *buffer) Copy(q gpu.Queue, src gpu.Buffer, size, srcOff, dstOff int64) error {
	sb, ok := src.(*buffer)
	if !ok {
		return fmt.Errorf("%w: Copy source is not a hostcpu buffer", gpu.ErrInvalidArgument)
	}
	return submitSync(q, func() error {
		if sb != b {
			sb.mu.Lock()
			defer sb.mu.Unlock()
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if size == 0 {
			size = min64(sb.size-srcOff, b.size-dstOff)
		}
		if srcOff < 0 || dstOff < 0 || srcOff+size > sb.size || dstOff+size > b.size {
			return fmt.Errorf("%w: buffer copy range out of bounds", gpu.ErrInvalidArgument)
		}
		copy(b.mem[dstOff:dstOff+size], sb.mem[srcOff:srcOff+size])
		return nil
	})
}

func (b *buffer) Fill(q gpu.Queue, pattern []byte, size, offset int64) error {
	return submitSync(q, func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		n, err := b.clampRange(size, offset)
		if err != nil {
			return err
		}
		if len(pattern) == 0 {
			return fmt.Errorf("%w: Fill pattern must be non-empty", gpu.ErrInvalidArgument)
		}
		for i := int64(0); i < n; i++ {
			b.mem[offset+i] = pattern[i%int64(len(pattern))]
		}
		return nil
	})
}

func (b *buffer) Zero(q gpu.Queue) error {
	return b.Fill(q, []byte{0, 0, 0, 0}, 0, 0)
}

func (b *buffer) Map(q gpu.Queue, flags gpu.MapFlags, size, offset int64) ([]byte, error) {
	var out []byte
	err := submitSync(q, func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.mapped {
			return fmt.Errorf("%w: overlapping mapped range", gpu.ErrInvariantViolation)
		}
		n, err := b.clampRange(size, offset)
		if err != nil {
			return err
		}
		b.mapped = true
		out = b.mem[offset : offset+n]
		return nil
	})
	return out, err
}

func (b *buffer) Unmap(q gpu.Queue, ptr []byte) error {
	return submitSync(q, func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		if !b.mapped {
			return fmt.Errorf("%w: Unmap without a matching Map", gpu.ErrInvalidArgument)
		}
		// Conservative host-coherent fast path: always emit a full
		// barrier on unmap rather than tracking dirty sub-ranges
		// (spec open question resolved this way; no-op on a
		// single-threaded host backend beyond the mapped flag reset).
		b.mapped = false
		return nil
	})
}

func (b *buffer) clampRange(size, offset int64) (int64, error) {
	if offset < 0 || offset > b.size {
		return 0, fmt.Errorf("%w: offset %d out of range [0,%d]", gpu.ErrInvalidArgument, offset, b.size)
	}
	if size == 0 {
		size = b.size - offset
	}
	if offset+size > b.size {
		return 0, fmt.Errorf("%w: range [%d,%d) exceeds buffer size %d", gpu.ErrInvalidArgument, offset, offset+size, b.size)
	}
	return size, nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
