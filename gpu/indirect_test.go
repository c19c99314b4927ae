// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/gpucore/gpu"
)

func TestIndirectCommandPipelineEncodeCompute(t *testing.T) {
	p := gpu.NewIndirectCommandPipeline(gpu.CmdCompute, 4)
	assert.Equal(t, 4, p.MaxCommandCount())
	assert.Equal(t, 0, p.Count())

	err := p.EncodeCompute(0, gpu.ComputeCommand{Global: [3]uint32{1, 1, 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Count())

	// Re-encoding the same slot does not grow the count.
	err = p.EncodeCompute(0, gpu.ComputeCommand{Global: [3]uint32{2, 1, 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Count())
}

func TestIndirectCommandPipelineKindMismatch(t *testing.T) {
	p := gpu.NewIndirectCommandPipeline(gpu.CmdRender, 2)
	err := p.EncodeCompute(0, gpu.ComputeCommand{})
	assert.ErrorIs(t, err, gpu.ErrInvalidArgument)
}

func TestIndirectCommandPipelineRejectsNonBufferArgs(t *testing.T) {
	img := &fakeImage{}
	a, err := gpu.ArgImageVal(img)
	require.NoError(t, err)
	p := gpu.NewIndirectCommandPipeline(gpu.CmdCompute, 1)
	err = p.EncodeCompute(0, gpu.ComputeCommand{Args: []gpu.Arg{a}})
	assert.ErrorIs(t, err, gpu.ErrInvalidArgument)
}

func TestIndirectCommandPipelineIndexOutOfRange(t *testing.T) {
	p := gpu.NewIndirectCommandPipeline(gpu.CmdCompute, 2)
	err := p.EncodeCompute(5, gpu.ComputeCommand{})
	assert.ErrorIs(t, err, gpu.ErrInvalidArgument)
}

func TestIndirectCommandPipelineResetClearsButKeepsAllocation(t *testing.T) {
	p := gpu.NewIndirectCommandPipeline(gpu.CmdCompute, 3)
	require.NoError(t, p.EncodeCompute(0, gpu.ComputeCommand{}))
	p.Complete()
	assert.True(t, p.Completed())
	p.Reset()
	assert.Equal(t, 0, p.Count())
	assert.False(t, p.Completed())
	assert.Equal(t, 3, p.MaxCommandCount())
}

func TestIndirectCommandPipelineSliceToEnd(t *testing.T) {
	p := gpu.NewIndirectCommandPipeline(gpu.CmdCompute, 5)
	require.NoError(t, p.EncodeCompute(2, gpu.ComputeCommand{}))
	s, err := p.Slice(2, ^uint32(0))
	require.NoError(t, err)
	assert.Equal(t, 3, len(s))
}

func TestIndirectCommandPipelineSliceOutOfRange(t *testing.T) {
	p := gpu.NewIndirectCommandPipeline(gpu.CmdCompute, 4)
	_, err := p.Slice(3, 5)
	assert.ErrorIs(t, err, gpu.ErrInvalidArgument)
}

type fakeImage struct {
	typ gpu.ImageType
}

func (f *fakeImage) Label() string                               { return "" }
func (f *fakeImage) SetLabel(string)                              {}
func (f *fakeImage) Destroy()                                     {}
func (f *fakeImage) Type() gpu.ImageType                          { return f.typ }
func (f *fakeImage) Dim() gpu.Dim3D                               { return gpu.Dim3D{} }
func (f *fakeImage) Layers() int                                  { return 1 }
func (f *fakeImage) Levels() int                                  { return 1 }
func (f *fakeImage) NewView(int, int, int, int) (gpu.ImageView, error) { return nil, nil }
func (f *fakeImage) Zero(gpu.Queue) error                         { return nil }
func (f *fakeImage) Map(gpu.Queue, gpu.MapFlags, int, int) ([]byte, error) { return nil, nil }
func (f *fakeImage) Unmap(gpu.Queue, []byte) error                { return nil }
func (f *fakeImage) CurrentLayout() gpu.Layout                    { return gpu.LayoutUndefined }
func (f *fakeImage) CurrentAccess() gpu.AccessMask                { return gpu.AccessMaskNone }
func (f *fakeImage) Transition(gpu.Queue, gpu.Layout, gpu.AccessMask, bool) (gpu.Barrier, error) {
	return gpu.Barrier{}, nil
}
