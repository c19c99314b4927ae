// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu

import (
	"fmt"

	"github.com/gviegas/gpucore/gpu"
)

// KernelFunc is the host-cpu backend's stand-in for a compiled device
// function: it is invoked once per work-group, receiving the resolved
// grid/local sizes, the group's index, and the launch's arguments. A
// real backend would instead dispatch into SPIR-V/AIR/PTX; here the
// "compiled function" is just a registered Go closure, since toolchain
// invocation for source compilation is out of scope.
type KernelFunc func(grid, local, groupID [3]uint32, args []gpu.Arg) error

// RegisterFunction adds a host-cpu function entry to p for dev, wrapping
// fn as the entry's opaque Handle.
func RegisterFunction(p *gpu.Program, dev *gpu.Device, info *gpu.FunctionInfo, dims int, fn KernelFunc, flags gpu.FunctionFlags) *gpu.FunctionEntry {
	fe := &gpu.FunctionEntry{
		Info:   info,
		Device: dev,
		Dims:   dims,
		Flags:  flags,
		Handle: fn,
	}
	p.AddEntry(info.Name, fe)
	return fe
}

// makeDispatch resolves fe's Handle and returns a closure that walks
// every work-group in grid sequentially, in row-major order, invoking
// the registered KernelFunc once per group.
func makeDispatch(fe *gpu.FunctionEntry, global, local, grid [3]uint32, args []gpu.Arg) func() error {
	return func() error {
		fn, ok := fe.Handle.(KernelFunc)
		if !ok || fn == nil {
			return fmt.Errorf("%w: function %q has no registered hostcpu implementation", gpu.ErrBackendInternal, fe.Info.Name)
		}
		var groupID [3]uint32
		for groupID[2] = 0; groupID[2] < grid[2]; groupID[2]++ {
			for groupID[1] = 0; groupID[1] < grid[1]; groupID[1]++ {
				for groupID[0] = 0; groupID[0] < grid[0]; groupID[0]++ {
					if err := fn(grid, local, groupID, args); err != nil {
						return fmt.Errorf("%w: function %q group %v: %v", gpu.ErrBackendInternal, fe.Info.Name, groupID, err)
					}
				}
			}
		}
		return nil
	}
}

// runComputeCommand resolves and runs one indirect ComputeCommand slot.
func runComputeCommand(c *gpu.ComputeCommand) error {
	if c.Kernel == nil {
		return fmt.Errorf("%w: indirect compute command has no kernel", gpu.ErrInvalidArgument)
	}
	if err := gpu.ValidateLaunch(c.Kernel, c.Global, c.Args); err != nil {
		return err
	}
	local := gpu.CheckLocalWorkSize(c.Kernel, c.Local)
	grid := gpu.ComputeGrid(c.Global, local)
	return makeDispatch(c.Kernel, c.Global, local, grid, c.Args)()
}
