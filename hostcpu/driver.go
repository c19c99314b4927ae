// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu

import (
	"github.com/gviegas/gpucore/gpu"
)

// backend is the hostcpu gpu.Backend implementation. It is registered
// once from init, the same way driver.Register is expected to be called
// exactly once per concrete driver package (spec §4.1).
type backend struct{}

func (backend) Name() string { return "hostcpu" }

// Open enumerates the single host-CPU device and constructs the shared
// gpu.Context bookkeeping around it.
func (b backend) Open(flags gpu.ContextFlags) (*gpu.Context, error) {
	dev := newDevice()
	ctx, err := gpu.NewContext(b, flags, []*gpu.Device{dev}, func(d *gpu.Device) (gpu.Queue, error) {
		return newQueue(d, gpu.QAllPurpose), nil
	})
	if err != nil {
		return nil, err
	}
	return ctx, nil
}

func init() {
	gpu.Register(backend{})
}
