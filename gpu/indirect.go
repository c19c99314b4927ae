// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu

import "fmt"

// CommandKind is the immutable kind of an IndirectCommandPipeline: a
// pipeline is declared either compute or render and never mixes the two
// (spec §3, §4.8).
type CommandKind int

// Command kinds.
const (
	CmdCompute CommandKind = iota
	CmdRender
)

// DrawKind selects which of the four draw families an encoded render
// command uses (spec §4.7, §4.8).
type DrawKind int

// Draw kinds.
const (
	DrawVertices DrawKind = iota
	DrawIndexed
	DrawPatches
	DrawPatchesIndexed
)

// ComputeCommand is one encoded dispatch slot.
type ComputeCommand struct {
	Kernel  *FunctionEntry
	Dims    int
	Global  [3]uint32
	Local   [3]uint32
	Args    []Arg // restricted to buffer/argument-buffer arguments, spec §4.8
	Barrier bool
}

// RenderCommand is one encoded draw slot.
type RenderCommand struct {
	Pipeline  *RenderPipeline
	Kind      DrawKind
	Args      []Arg // restricted to buffer/argument-buffer arguments
	MultiView bool
}

// CommandEncoder is one slot of an IndirectCommandPipeline, holding
// either a ComputeCommand or a RenderCommand depending on the owning
// pipeline's Kind.
type CommandEncoder struct {
	Compute *ComputeCommand
	Render  *RenderCommand
}

// IndirectCommandPipeline is a pre-recorded sequence of compute or
// render commands, executable as one queue submission (spec §3, §4.8).
type IndirectCommandPipeline struct {
	label   string
	kind    CommandKind
	maxCmds int
	slots   []CommandEncoder
	used    []bool
	count   int

	// Complete marks the pipeline ready for ExecuteIndirect; Reset
	// clears it back to empty while preserving the allocation (spec
	// §3 "Indirect pipeline owns its encoder slots; resetting the
	// pipeline invalidates all encoded commands but not the pipeline
	// itself").
	completed bool
}

// NewIndirectCommandPipeline preallocates maxCmds encoder slots.
func NewIndirectCommandPipeline(kind CommandKind, maxCmds int) *IndirectCommandPipeline {
	return &IndirectCommandPipeline{
		kind:    kind,
		maxCmds: maxCmds,
		slots:   make([]CommandEncoder, maxCmds),
		used:    make([]bool, maxCmds),
	}
}

func (p *IndirectCommandPipeline) Label() string     { return p.label }
func (p *IndirectCommandPipeline) SetLabel(l string) { p.label = l }

// Kind returns whether this pipeline encodes compute or render commands.
func (p *IndirectCommandPipeline) Kind() CommandKind { return p.kind }

// MaxCommandCount returns the number of preallocated encoder slots.
func (p *IndirectCommandPipeline) MaxCommandCount() int { return p.maxCmds }

// Count returns the number of currently-encoded commands.
func (p *IndirectCommandPipeline) Count() int { return p.count }

// EncodeCompute writes a ComputeCommand into slot index. The pipeline
// must have been created with CmdCompute.
func (p *IndirectCommandPipeline) EncodeCompute(index int, cmd ComputeCommand) error {
	if p.kind != CmdCompute {
		return fmt.Errorf("%w: pipeline is not a compute pipeline", ErrInvalidArgument)
	}
	if err := p.checkIndex(index); err != nil {
		return err
	}
	for _, a := range cmd.Args {
		if a.Kind() != ArgKindBuffer && a.Kind() != ArgKindBufferSlice && a.Kind() != ArgKindArgBuffer {
			return fmt.Errorf("%w: indirect commands only accept buffer/argument-buffer arguments", ErrInvalidArgument)
		}
	}
	p.slots[index] = CommandEncoder{Compute: &cmd}
	if !p.used[index] {
		p.used[index] = true
		p.count++
	}
	return nil
}

// EncodeRender writes a RenderCommand into slot index. The pipeline
// must have been created with CmdRender.
func (p *IndirectCommandPipeline) EncodeRender(index int, cmd RenderCommand) error {
	if p.kind != CmdRender {
		return fmt.Errorf("%w: pipeline is not a render pipeline", ErrInvalidArgument)
	}
	if err := p.checkIndex(index); err != nil {
		return err
	}
	for _, a := range cmd.Args {
		if a.Kind() != ArgKindBuffer && a.Kind() != ArgKindBufferSlice && a.Kind() != ArgKindArgBuffer {
			return fmt.Errorf("%w: indirect commands only accept buffer/argument-buffer arguments", ErrInvalidArgument)
		}
	}
	p.slots[index] = CommandEncoder{Render: &cmd}
	if !p.used[index] {
		p.used[index] = true
		p.count++
	}
	return nil
}

func (p *IndirectCommandPipeline) checkIndex(index int) error {
	if index < 0 || index >= p.maxCmds {
		return fmt.Errorf("%w: command index %d out of range [0,%d)", ErrInvalidArgument, index, p.maxCmds)
	}
	return nil
}

// Complete finalizes the pipeline for execution, producing the
// backend-specific indirect buffer (performed by the backend prior to
// calling this to mark completion).
func (p *IndirectCommandPipeline) Complete() { p.completed = true }

// Completed reports whether Complete has been called since the last
// Reset.
func (p *IndirectCommandPipeline) Completed() bool { return p.completed }

// Reset discards all encoded commands but preserves the allocation.
func (p *IndirectCommandPipeline) Reset() {
	for i := range p.slots {
		p.slots[i] = CommandEncoder{}
		p.used[i] = false
	}
	p.count = 0
	p.completed = false
}

// Slice returns the encoder slots in [offset, offset+count), resolving
// count == ^uint32(0) to "to the end" (spec §4.8).
func (p *IndirectCommandPipeline) Slice(offset, count uint32) ([]CommandEncoder, error) {
	if int(offset) > p.maxCmds {
		return nil, fmt.Errorf("%w: command offset %d out of range", ErrInvalidArgument, offset)
	}
	end := p.maxCmds
	if count != ^uint32(0) {
		end = int(offset) + int(count)
		if end > p.maxCmds {
			return nil, fmt.Errorf("%w: command range [%d,%d) out of range", ErrInvalidArgument, offset, end)
		}
	}
	return p.slots[offset:end], nil
}

func (p *IndirectCommandPipeline) Destroy() { *p = IndirectCommandPipeline{} }
