// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/gpucore/gpu"
	"github.com/gviegas/gpucore/hostcpu"
)

func TestImageMapWritesThroughOnUnmap(t *testing.T) {
	ctx, dev := openContext(t)
	q, err := ctx.DefaultQueue(dev)
	require.NoError(t, err)

	typ := gpu.NewImageType(4, gpu.DTUint, 8, gpu.Dim2D, 1, gpu.FlagNormalized)
	img, err := hostcpu.NewImage(ctx, typ, gpu.Dim3D{Width: 2, Height: 2, Depth: 1}, 1, 1, gpu.MemDesc{})
	require.NoError(t, err)
	defer img.Destroy()

	mapped, err := img.Map(q, 0, 0, 1)
	require.NoError(t, err)
	for i := range mapped {
		mapped[i] = byte(i + 1)
	}
	require.NoError(t, img.Unmap(q, mapped))

	// Re-map to observe the written-back contents.
	readback, err := img.Map(q, 0, 0, 1)
	require.NoError(t, err)
	for i := range readback {
		assert.Equal(t, byte(i+1), readback[i])
	}
	require.NoError(t, img.Unmap(q, readback))
}

func TestImageMapRejectsOverlap(t *testing.T) {
	ctx, dev := openContext(t)
	q, err := ctx.DefaultQueue(dev)
	require.NoError(t, err)

	typ := gpu.NewImageType(4, gpu.DTUint, 8, gpu.Dim2D, 1, gpu.FlagNormalized)
	img, err := hostcpu.NewImage(ctx, typ, gpu.Dim3D{Width: 2, Height: 2, Depth: 1}, 1, 1, gpu.MemDesc{})
	require.NoError(t, err)
	defer img.Destroy()

	_, err = img.Map(q, 0, 0, 1)
	require.NoError(t, err)

	_, err = img.Map(q, 0, 0, 1)
	assert.ErrorIs(t, err, gpu.ErrInvariantViolation)
}
