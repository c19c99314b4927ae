// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu

import (
	"fmt"

	"github.com/gviegas/gpucore/gpu"
)

// argBuffer extracts the gpu.Buffer of a buffer-kind argument, used by
// KernelFunc implementations that only know the logical ArgInfo they
// expect at a given index, not gpu.Arg's internal representation.
func argBuffer(a gpu.Arg) (gpu.Buffer, error) {
	b, ok := a.AsBuffer()
	if !ok {
		return nil, fmt.Errorf("%w: argument is not a buffer", gpu.ErrInvalidArgument)
	}
	return b, nil
}

// argImage extracts the gpu.Image of an image-kind argument.
func argImage(a gpu.Arg) (gpu.Image, error) {
	img, ok := a.AsImage()
	if !ok {
		return nil, fmt.Errorf("%w: argument is not an image", gpu.ErrInvalidArgument)
	}
	return img, nil
}

// argBytes extracts the raw encoded bytes of a POD/POD-slice argument.
func argBytes(a gpu.Arg) ([]byte, error) {
	b, ok := a.AsBytes()
	if !ok {
		return nil, fmt.Errorf("%w: argument is not a POD value", gpu.ErrInvalidArgument)
	}
	return b, nil
}
