// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/gpucore/gpu"
	"github.com/gviegas/gpucore/hostcpu"
)

func TestIndirectPipelineEncodeNextAllocatesAndReleases(t *testing.T) {
	p := hostcpu.NewIndirectPipeline(gpu.CmdCompute, 4)
	defer p.Destroy()

	i0, err := p.EncodeComputeNext(gpu.ComputeCommand{Global: [3]uint32{1, 1, 1}})
	require.NoError(t, err)
	i1, err := p.EncodeComputeNext(gpu.ComputeCommand{Global: [3]uint32{1, 1, 1}})
	require.NoError(t, err)
	assert.NotEqual(t, i0, i1)

	p.Release(i0)
	i2, err := p.EncodeComputeNext(gpu.ComputeCommand{Global: [3]uint32{1, 1, 1}})
	require.NoError(t, err)
	assert.Equal(t, i0, i2)
}

func TestIndirectPipelineExhaustion(t *testing.T) {
	p := hostcpu.NewIndirectPipeline(gpu.CmdCompute, 2)
	defer p.Destroy()

	_, err := p.EncodeComputeNext(gpu.ComputeCommand{})
	require.NoError(t, err)
	_, err = p.EncodeComputeNext(gpu.ComputeCommand{})
	require.NoError(t, err)
	_, err = p.EncodeComputeNext(gpu.ComputeCommand{})
	assert.ErrorIs(t, err, gpu.ErrResourceExhausted)
}

func TestIndirectPipelineExecute(t *testing.T) {
	ctx, dev := openContext(t)
	q, err := ctx.DefaultQueue(dev)
	require.NoError(t, err)

	ran := false
	info := &gpu.FunctionInfo{Name: "indirect_kernel"}
	prog := gpu.NewProgram()
	fe := hostcpu.RegisterFunction(prog, dev, info, 1, func(grid, local, groupID [3]uint32, args []gpu.Arg) error {
		ran = true
		return nil
	}, gpu.FnKernelIndirect)

	ip := hostcpu.NewIndirectPipeline(gpu.CmdCompute, 1)
	defer ip.Destroy()
	_, err = ip.EncodeComputeNext(gpu.ComputeCommand{Kernel: fe, Global: [3]uint32{1, 1, 1}, Local: [3]uint32{1, 1, 1}})
	require.NoError(t, err)
	ip.Complete()

	err = q.ExecuteIndirect(ip.Pipeline(), nil, 0, ^uint32(0))
	require.NoError(t, err)
	assert.True(t, ran)
}
