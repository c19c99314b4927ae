// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu

// AddressSpace is the address space of a function argument.
type AddressSpace int

// Address spaces.
const (
	ASGlobal AddressSpace = iota
	ASLocal
	ASConstant
	ASImage
	ASUnknown
)

// ImageArgKind describes the kind of image an image argument expects.
type ImageArgKind int

// Image argument kinds.
const (
	ImgArg1D ImageArgKind = iota
	ImgArg2D
	ImgArg2DArray
	ImgArgCube
	ImgArg2DMSAA
	ImgArgDepth2D
	ImgArgDepth2DArray
)

// ArgFlags is a bitmask of argument modifiers (spec §3 "arg_info").
type ArgFlags int

// Argument flags.
const (
	ArgArray ArgFlags = 1 << iota
	ArgImageArray
	ArgBufferArray
	ArgArgumentBuffer
	ArgStageInput
	ArgPushConstant
	ArgSSBO
	ArgIUB
)

// ArgInfo describes one argument of a function entry.
type ArgInfo struct {
	Size    int
	Extent  int // array extent, 0 if scalar
	Space   AddressSpace
	Access  Access
	ImgKind ImageArgKind
	Flags   ArgFlags

	// Nested describes the fields of an argument-buffer argument
	// (ArgFlags&ArgArgumentBuffer != 0); nil otherwise.
	Nested *FunctionInfo
}

// FunctionInfo is the authoritative, toolchain-supplied description of
// one function's entry point and argument list (spec §4.6, §6).
type FunctionInfo struct {
	Name string
	Args []ArgInfo
}

// ArgsSize is the sum of Size (times Extent for arrays) over every
// argument, pointer-slot arguments included (spec §4.5, §8 P6).
func (fi *FunctionInfo) ArgsSize() int {
	var n int
	for _, a := range fi.Args {
		sz := a.Size
		if a.Extent > 0 {
			sz *= a.Extent
		}
		n += sz
	}
	return n
}

// FunctionFlags are per-function-entry flags (spec §3, §6 "Supplemented
// Features").
type FunctionFlags int

// Function flags.
const (
	FnKernel FunctionFlags = 1 << iota
	FnKernelIndirect
	FnUsesSoftPrintf
)

// FunctionEntry is a per-device handle plus metadata describing one
// callable function in a loaded Program.
type FunctionEntry struct {
	Info *FunctionInfo

	Device *Device
	Dims   int // kernel dimensionality: 1, 2 or 3

	// RequiredLocalSize, if non-zero in any component, overrides the
	// caller's local work size unconditionally (spec §4.5 rule 1).
	RequiredLocalSize [3]uint32
	RequiredSIMDWidth uint32

	Flags FunctionFlags

	// Handle is the backend's opaque launch handle (a small tagged
	// union over backends per spec §9 "Backend polymorphism").
	Handle any
}

// Program is a compiled binary plus its function-info table, specialized
// per device into a map of FunctionEntry (spec §4.6).
type Program struct {
	label     string
	functions map[string]map[*Device]*FunctionEntry
}

// NewProgram creates an empty Program ready to receive per-device
// function entries via AddEntry.
func NewProgram() *Program {
	return &Program{functions: make(map[string]map[*Device]*FunctionEntry)}
}

// AddEntry registers fe under name for its device.
func (p *Program) AddEntry(name string, fe *FunctionEntry) {
	m, ok := p.functions[name]
	if !ok {
		m = make(map[*Device]*FunctionEntry)
		p.functions[name] = m
	}
	m[fe.Device] = fe
}

// Function returns the map from device to entry for the named function.
func (p *Program) Function(name string) map[*Device]*FunctionEntry {
	return p.functions[name]
}

// EntryFor resolves the function entry for name on device d, returning (nil, false) if the program has no entry for that
// device.
func (p *Program) EntryFor(name string, d *Device) (*FunctionEntry, bool) {
	m, ok := p.functions[name]
	if !ok {
		return nil, false
	}
	fe, ok := m[d]
	return fe, ok
}

func (p *Program) Label() string     { return p.label }
func (p *Program) SetLabel(l string) { p.label = l }

// ArgumentBuffer is a host-constructed, device-resident structure whose
// layout mirrors a nested FunctionInfo (spec §3, §4.5).
type ArgumentBuffer interface {
	Labeled
	Destroyer

	// Storage returns the backing Buffer that holds the encoded
	// fields.
	Storage() Buffer

	// Encode writes the field at the given nested-argument index.
	// value must match the kind implied by that field's ArgInfo
	// (buffer pointer, image pointer or POD bytes).
	Encode(index int, value any) error
}
