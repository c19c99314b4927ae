// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu

import "github.com/gviegas/gpucore/gpu"

// fence is the hostcpu gpu.Fence implementation: a thin embedding of
// gpu.BaseFence, since the host-cpu backend has no hardware semaphore to
// wrap (spec §4.3).
type fence struct {
	gpu.BaseFence
}

func newFence() *fence { return &fence{} }
