// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/gpucore/gpu"
)

func TestBaseFenceWaitBlocksUntilSignal(t *testing.T) {
	var f gpu.BaseFence
	assert.Equal(t, gpu.FenceFresh, f.State())

	done := make(chan struct{})
	go func() {
		f.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before Signal")
	case <-time.After(20 * time.Millisecond):
	}

	f.Signal()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Signal")
	}
	assert.Equal(t, gpu.FenceSignalled, f.State())
}

func TestBaseFenceWaitReturnsImmediatelyIfAlreadySignalled(t *testing.T) {
	var f gpu.BaseFence
	f.Signal()

	done := make(chan struct{})
	go func() {
		f.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked despite fence already signalled")
	}
}

func TestBaseFenceResetAllowsReuse(t *testing.T) {
	var f gpu.BaseFence
	f.Signal()
	f.MarkWaited()
	require.Equal(t, gpu.FenceWaited, f.State())

	f.Reset()
	assert.Equal(t, gpu.FenceFresh, f.State())

	done := make(chan struct{})
	go func() {
		f.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Wait returned before the fence was re-signalled")
	case <-time.After(20 * time.Millisecond):
	}
	f.Signal()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after re-signalling")
	}
}
