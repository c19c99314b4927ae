// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu

import (
	"github.com/gviegas/gpucore/gpu"
)

// NewBuffer creates a host-visible buffer and, if ctx's resource
// registry is enabled, registers it under desc.Label.
func NewBuffer(ctx *gpu.Context, size int64, desc gpu.MemDesc) (gpu.Buffer, error) {
	b, err := newBuffer(size, desc)
	if err != nil {
		return nil, err
	}
	register(ctx, b, desc.Label)
	return b, nil
}

// NewImage creates a host-backed image. mipLimit caps the generated mip
// chain length (0 means unlimited, per gpu.MipLevelCount).
func NewImage(ctx *gpu.Context, typ gpu.ImageType, dim gpu.Dim3D, layers, mipLimit int, desc gpu.MemDesc) (gpu.Image, error) {
	img, err := newImage(typ, dim, layers, mipLimit, desc)
	if err != nil {
		return nil, err
	}
	register(ctx, img, desc.Label)
	return img, nil
}

// NewFence creates a fresh, unsignalled fence.
func NewFence(ctx *gpu.Context) gpu.Fence {
	f := newFence()
	register(ctx, f, "")
	return f
}

func register(ctx *gpu.Context, obj gpu.Labeled, label string) {
	reg := ctx.Registry()
	if reg == nil {
		return
	}
	reg.Insert(obj)
	if label != "" {
		reg.SetLabel(obj, label)
	}
}
