// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu

import "fmt"

// LaunchParams is the pre-packed form every Execute* variant forwards
// to (spec §4.4 "execute_with_parameters"; §6 "Supplemented Features").
type LaunchParams struct {
	Function    *FunctionEntry
	Global      [3]uint32
	Local       [3]uint32
	Args        []Arg
	Wait        []Fence
	Signal      []Fence
	Cooperative bool
	Blocking    bool
	Label       string
}

// CheckLocalWorkSize applies the three rules of spec §4.5 in order and
// returns the effective local work size.
func CheckLocalWorkSize(fe *FunctionEntry, userLocal [3]uint32) [3]uint32 {
	var local [3]uint32
	if fe.RequiredLocalSize[0]|fe.RequiredLocalSize[1]|fe.RequiredLocalSize[2] != 0 {
		local = fe.RequiredLocalSize
	} else {
		local = userLocal
	}
	for i := range local {
		if local[i] == 0 {
			local[i] = 1
		}
	}
	maxPerDim := fe.Device.Limits.MaxLocalSize
	for i := range local {
		if maxPerDim[i] > 0 && local[i] > uint32(maxPerDim[i]) {
			local[i] = uint32(maxPerDim[i])
		}
	}
	total := uint64(local[0]) * uint64(local[1]) * uint64(local[2])
	maxTotal := uint64(fe.Device.Limits.MaxTotalLocalSize)
	if maxTotal > 0 && total > maxTotal {
		// Shrink the last dimension first, then the earlier ones in
		// turn, until the product fits; the fixed order keeps the
		// clamp deterministic.
		for i := len(local) - 1; i >= 0 && total > maxTotal; i-- {
			for local[i] > 1 && total > maxTotal {
				local[i]--
				total = uint64(local[0]) * uint64(local[1]) * uint64(local[2])
			}
		}
	}
	return local
}

// ComputeGrid computes ceil(global/local) per dimension, clamped to at
// least 1 (spec §4.5).
func ComputeGrid(global, local [3]uint32) [3]uint32 {
	var grid [3]uint32
	for i := range grid {
		l := local[i]
		if l == 0 {
			l = 1
		}
		g := global[i] / l
		if global[i]%l != 0 {
			g++
		}
		if g < 1 {
			g = 1
		}
		grid[i] = g
	}
	return grid
}

// ValidateLaunch checks arity (spec §3 invariant, §8 P6) and that
// global_work_size is non-zero in each executed dimension (spec §3).
// It does not check per-argument semantic type: that is the
// compile-time responsibility of the Arg builder functions (spec §4.5).
func ValidateLaunch(fe *FunctionEntry, global [3]uint32, args []Arg) error {
	if len(args) != len(fe.Info.Args) {
		return fmt.Errorf("%w: function %q expects %d arguments, got %d",
			ErrInvalidArgument, fe.Info.Name, len(fe.Info.Args), len(args))
	}
	for i := 0; i < fe.Dims; i++ {
		if global[i] == 0 {
			return fmt.Errorf("%w: global_work_size[%d] must be non-zero", ErrInvalidArgument, i)
		}
	}
	return nil
}

// EncodedSize returns the total byte size Args would occupy if encoded
// as inline POD/array bytes, used by the debug-build assertion of
// spec §8 P6 (encoded argument bytes length == FunctionInfo.ArgsSize()).
// Buffer/image/argument-buffer arguments contribute their ArgInfo.Size
// (a fixed pointer-slot size), not their own byte length.
func EncodedSize(fi *FunctionInfo, args []Arg) (int, error) {
	if len(args) != len(fi.Args) {
		return 0, fmt.Errorf("%w: arity mismatch encoding arguments", ErrInvalidArgument)
	}
	var total int
	for i, a := range args {
		ai := fi.Args[i]
		switch a.Kind() {
		case ArgKindPod, ArgKindPodSlice:
			if len(a.bytes) != ai.Size*max(ai.Extent, 1) {
				return 0, fmt.Errorf("%w: argument %d: encoded %d bytes, function entry declares %d",
					ErrInvalidArgument, i, len(a.bytes), ai.Size*max(ai.Extent, 1))
			}
			total += len(a.bytes)
		default:
			total += ai.Size
		}
	}
	return total, nil
}
