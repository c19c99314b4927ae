// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package hostcpu implements the one fully realized gpu.Backend in this
// module: a host-CPU reference backend that runs every queue as a
// goroutine draining a FIFO of submitted work, backs buffers with
// mmap'd anonymous memory, and validates (without rasterizing) the
// render-pass/pipeline/renderer state machine.
package hostcpu

import (
	"runtime"

	"github.com/gviegas/gpucore/gpu"
)

// newDevice builds the single Device this backend enumerates: the
// host CPU itself, described conservatively since no feature detection
// beyond runtime.NumCPU is available without cgo.
func newDevice() *gpu.Device {
	n := runtime.NumCPU()
	return &gpu.Device{
		Kind:     gpu.KindCPU,
		Vendor:   "hostcpu",
		Name:     "reference host CPU backend",
		Units:    n,
		SIMD:     gpu.SIMDWidth{Min: 1, Max: 1},
		ClockMHz: 0,
		Mem: gpu.MemSizes{
			Global:   1 << 34, // 16 GiB nominal ceiling; backed by mmap on demand.
			Local:    1 << 20,
			Constant: 1 << 16,
			MaxAlloc: 1 << 31,
		},
		Limits: gpu.Limits{
			MaxGroupSize:          1 << 20,
			MaxLocalSize:          [3]int{1024, 1024, 64},
			MaxTotalLocalSize:     1024,
			MaxResidentLocalSize:  1024,
			MaxImageDims:          [4]int{16384, 16384, 2048, 16384},
			MaxMipLevels:          14,
			MaxAnisotropy:         1,
			MaxTessellationFactor: 64,
		},
		DoubleSupport:                 true,
		UnifiedMemory:                 true,
		Basic64BitAtomics:             true,
		Extended64BitAtomics:          true,
		SubGroupSupport:               false,
		SubGroupShuffleSupport:        false,
		CooperativeKernelSupport:      true,
		Image1DSupport:                true,
		Image2DSupport:                true,
		Image3DSupport:                true,
		ImageCubeSupport:              true,
		ImageMSAASupport:              false,
		ImageMipmapSupport:            true,
		ArgumentBufferSupport:         true,
		ArgumentBufferImageSupport:    true,
		IndirectComputeCommandSupport: true,
		IndirectRenderCommandSupport:  true,
		TessellationSupport:           true,
		Backend:                       "hostcpu",
	}
}
