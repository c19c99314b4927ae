// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu

import (
	"fmt"
	"sync"

	"github.com/gviegas/gpucore/gpu"
	"github.com/gviegas/gpucore/internal/bitm"
)

// IndirectPipeline wraps a gpu.IndirectCommandPipeline with a bitm-backed
// free-slot allocator, so callers that do not want to manage explicit
// indices can EncodeComputeNext/EncodeRenderNext and Release them back
// to the pool.
type IndirectPipeline struct {
	mu    sync.Mutex
	inner *gpu.IndirectCommandPipeline
	slots bitm.Bitm[uint32]
}

// NewIndirectPipeline preallocates maxCmds slots.
func NewIndirectPipeline(kind gpu.CommandKind, maxCmds int) *IndirectPipeline {
	p := &IndirectPipeline{inner: gpu.NewIndirectCommandPipeline(kind, maxCmds)}
	p.slots.Grow(bitsNeeded(maxCmds))
	return p
}

func bitsNeeded(maxCmds int) int {
	n := (maxCmds + 31) / 32
	if n == 0 {
		n = 1
	}
	return n
}

// Pipeline returns the underlying gpu.IndirectCommandPipeline, for
// passing to Queue.ExecuteIndirect.
func (p *IndirectPipeline) Pipeline() *gpu.IndirectCommandPipeline { return p.inner }

// EncodeComputeNext allocates a free slot via the bitm allocator and
// encodes cmd into it, returning the allocated index.
func (p *IndirectPipeline) EncodeComputeNext(cmd gpu.ComputeCommand) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := p.slots.Alloc(1)
	if idx >= p.inner.MaxCommandCount() {
		p.slots.Free(idx)
		return 0, fmt.Errorf("%w: indirect pipeline has no free slots", gpu.ErrResourceExhausted)
	}
	if err := p.inner.EncodeCompute(idx, cmd); err != nil {
		p.slots.Free(idx)
		return 0, err
	}
	return idx, nil
}

// EncodeRenderNext is the render-pipeline counterpart of
// EncodeComputeNext.
func (p *IndirectPipeline) EncodeRenderNext(cmd gpu.RenderCommand) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := p.slots.Alloc(1)
	if idx >= p.inner.MaxCommandCount() {
		p.slots.Free(idx)
		return 0, fmt.Errorf("%w: indirect pipeline has no free slots", gpu.ErrResourceExhausted)
	}
	if err := p.inner.EncodeRender(idx, cmd); err != nil {
		p.slots.Free(idx)
		return 0, err
	}
	return idx, nil
}

// Release returns index to the free-slot pool without clearing the
// encoded command itself (the next Encode*Next call at that index
// overwrites it).
func (p *IndirectPipeline) Release(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots.Free(index)
}

// Reset discards all encoded commands and returns every slot to the
// free pool.
func (p *IndirectPipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inner.Reset()
	p.slots = bitm.Bitm[uint32]{}
	p.slots.Grow(bitsNeeded(p.inner.MaxCommandCount()))
}

func (p *IndirectPipeline) Complete() { p.inner.Complete() }
func (p *IndirectPipeline) Destroy()  { p.inner.Destroy() }
