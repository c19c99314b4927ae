// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu

// DeviceKind classifies a Device.
type DeviceKind int

// Device kinds.
const (
	KindGPU DeviceKind = iota
	KindCPU
	KindOther
)

// SIMDWidth describes a device's SIMD execution width. A fixed width has
// Min == Max; a range (e.g. Intel subgroup sizes) has Min < Max.
type SIMDWidth struct {
	Min, Max uint32
}

// Fixed reports whether the device has a single, non-ranged SIMD width.
func (w SIMDWidth) Fixed() bool { return w.Min == w.Max }

// MemSizes carries the sizes, in bytes, of a device's memory spaces.
type MemSizes struct {
	Global   int64
	Local    int64
	Constant int64
	MaxAlloc int64
}

// Limits carries the hard resource limits of a device.
type Limits struct {
	MaxGroupSize        int
	MaxLocalSize        [3]int
	MaxTotalLocalSize    int
	MaxResidentLocalSize int
	MaxImageDims         [4]int // indexed by rank: 1D, 2D, 3D, Cube
	MaxMipLevels         int
	MaxAnisotropy        int
	MaxTessellationFactor int
}

// Device is an immutable capability record. Devices are never mutated
// after a Context enumerates them; every field is safe to read
// concurrently from any number of goroutines.
type Device struct {
	Kind   DeviceKind
	Vendor string
	Name   string
	// UUID is a stable device identifier, when the backend can supply
	// one. If empty, (Vendor, Name) is used as the fallback identity
	// key (see Context.GetCorrespondingDevice).
	UUID string

	Units    int
	SIMD     SIMDWidth
	ClockMHz int

	Mem    MemSizes
	Limits Limits

	// Capability bits.
	DoubleSupport               bool
	UnifiedMemory                bool
	Basic64BitAtomics            bool
	Extended64BitAtomics         bool
	SubGroupSupport              bool
	SubGroupShuffleSupport       bool
	CooperativeKernelSupport     bool
	Image1DSupport               bool
	Image2DSupport               bool
	Image3DSupport               bool
	ImageCubeSupport             bool
	ImageMSAASupport             bool
	ImageMipmapSupport           bool
	ArgumentBufferSupport        bool
	ArgumentBufferImageSupport   bool
	IndirectComputeCommandSupport bool
	IndirectRenderCommandSupport  bool
	TessellationSupport           bool

	// Backend is the name of the owning backend (e.g. "hostcpu"),
	// used only for diagnostics.
	Backend string
}

// IdentityKey returns a stable fallback identity for devices that report
// no UUID: a hash of (Vendor, Name), per spec §3.
func (d *Device) IdentityKey() uint64 {
	if d.UUID != "" {
		return 0
	}
	return deviceIdentityKey(d.Vendor, d.Name)
}

// Score is a deterministic "fastest" proxy: units * clock. A real
// backend may report ClockMHz as 0 when the hardware does not expose
// it, in which case Units alone orders devices of the same kind.
func (d *Device) Score() int64 {
	clock := int64(d.ClockMHz)
	if clock == 0 {
		clock = 1
	}
	return int64(d.Units) * clock
}
