// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package vkskel is a gpu.Backend skeleton wired to the real Vulkan
// bindings of github.com/christerso/vulkan-go/pkg/vk. It stops at
// instance/physical-device enumeration, populating gpu.Device capability
// records: the actual SPIR-V driver (queue submission, buffer/image
// allocation, pipeline creation) is out of this module's core scope, so
// every factory method beyond enumeration returns gpu.ErrUnsupported.
package vkskel

import (
	"fmt"

	"github.com/christerso/vulkan-go/pkg/vk"

	"github.com/gviegas/gpucore/gpu"
)

type backend struct{}

func (backend) Name() string { return "vkskel" }

// Open creates a Vulkan instance, enumerates its physical devices into
// gpu.Device capability records, and builds the shared gpu.Context
// bookkeeping around them. No command queue, memory or pipeline backend
// methods beyond enumeration are implemented.
func (b backend) Open(flags gpu.ContextFlags) (*gpu.Context, error) {
	inst, err := vk.CreateInstance(vk.DefaultInstanceConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: vkskel: CreateInstance: %v", gpu.ErrNoDevice, err)
	}

	pds, err := inst.EnumeratePhysicalDevices()
	if err != nil {
		inst.Destroy()
		return nil, fmt.Errorf("%w: vkskel: EnumeratePhysicalDevices: %v", gpu.ErrNoDevice, err)
	}
	if len(pds) == 0 {
		inst.Destroy()
		return nil, gpu.ErrNoDevice
	}

	devices := make([]*gpu.Device, len(pds))
	for i, pd := range pds {
		devices[i] = deviceFromPhysical(pd)
	}

	ctx, err := gpu.NewContext(b, flags, devices, func(*gpu.Device) (gpu.Queue, error) {
		return nil, fmt.Errorf("%w: vkskel stops at device enumeration; queue creation is not implemented", gpu.ErrUnsupported)
	})
	if err != nil {
		inst.Destroy()
		return nil, err
	}
	return ctx, nil
}

// deviceFromPhysical translates a vk.PhysicalDevice's properties and
// limits into a gpu.Device capability record.
func deviceFromPhysical(pd *vk.PhysicalDevice) *gpu.Device {
	props := pd.GetProperties()
	kind := gpu.KindOther
	switch props.DeviceType {
	case vk.DeviceTypeDiscreteGPU, vk.DeviceTypeIntegratedGPU, vk.DeviceTypeVirtualGPU:
		kind = gpu.KindGPU
	case vk.DeviceTypeCPU:
		kind = gpu.KindCPU
	}

	lim := props.Limits
	return &gpu.Device{
		Kind:   kind,
		Vendor: fmt.Sprintf("0x%04x", props.VendorID),
		Name:   props.DeviceName,
		Limits: gpu.Limits{
			MaxGroupSize: int(lim.MaxComputeWorkGroupInvocations),
			MaxLocalSize: [3]int{
				int(lim.MaxComputeWorkGroupSize[0]),
				int(lim.MaxComputeWorkGroupSize[1]),
				int(lim.MaxComputeWorkGroupSize[2]),
			},
			MaxTotalLocalSize: int(lim.MaxComputeWorkGroupInvocations),
			MaxImageDims: [4]int{
				int(lim.MaxImageDimension1D),
				int(lim.MaxImageDimension2D),
				int(lim.MaxImageDimension3D),
				int(lim.MaxImageDimension2D),
			},
		},
		ImageMSAASupport:    true,
		ImageMipmapSupport:  true,
		Image1DSupport:      true,
		Image2DSupport:      true,
		Image3DSupport:      true,
		ImageCubeSupport:    true,
		Backend:             "vkskel",
	}
}

func init() {
	gpu.Register(backend{})
}
