package null

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/renderer"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

func TestManualFenceOnlyMovesForward(t *testing.T) {
	device := NewManual()

	device.CompleteUpTo(5)
	assert.Equal(t, uint64(5), device.CompletedFence())

	device.CompleteUpTo(3)
	assert.Equal(t, uint64(5), device.CompletedFence())
}

func TestWaitFenceTimesOutAsDeviceLost(t *testing.T) {
	device := NewManual()

	err := device.WaitFence(1, 20*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDeviceLost))
}

func TestWaitFenceReleasesOnCompletion(t *testing.T) {
	device := NewManual()

	go func() {
		time.Sleep(10 * time.Millisecond)
		device.CompleteUpTo(2)
	}()
	assert.NoError(t, device.WaitFence(2, time.Second))
	// An already-satisfied wait returns immediately.
	assert.NoError(t, device.WaitFence(1, time.Millisecond))
}

func TestConsumerCompletesSubmissions(t *testing.T) {
	device := New(0)
	defer device.Shutdown()

	cl := renderer.NewCommandList()
	cl.SetPipeline("opaque")
	require.NoError(t, device.Submit(cl, 1))
	require.NoError(t, device.WaitFence(1, time.Second))
	assert.GreaterOrEqual(t, device.CompletedFence(), uint64(1))
}

func TestManualRecordsSubmissions(t *testing.T) {
	device := NewManual()

	cl := renderer.NewCommandList()
	cl.SetPipeline("opaque")
	cl.DrawIndexed(36, 0, 0)
	require.NoError(t, device.Submit(cl, 1))

	// The recorder reuses its command list; the device must have kept
	// its own copy.
	cl.Reset()
	require.Len(t, device.Submitted, 1)
	assert.Equal(t, uint64(1), device.Submitted[0].Fence)
	require.Len(t, device.Submitted[0].Commands, 2)
	assert.Equal(t, renderer.OpSetPipeline, device.Submitted[0].Commands[0].Op)
}

func TestAllocatorResetGatedByFence(t *testing.T) {
	device := NewManual()
	a, err := device.CreateCommandAllocator()
	require.NoError(t, err)

	// Never submitted: reset is always legal.
	assert.NoError(t, a.Reset())

	marker := a.(*allocator)
	marker.MarkSubmitted(3)
	assert.Error(t, a.Reset(), "reset while fence 3 outstanding must fail")

	device.CompleteUpTo(3)
	assert.NoError(t, a.Reset())
}

func TestUploadBuffersDoNotOverlap(t *testing.T) {
	device := NewManual()
	a, err := device.CreateUploadBuffer(4096)
	require.NoError(t, err)
	b, err := device.CreateUploadBuffer(4096)
	require.NoError(t, err)

	assert.NotEqual(t, a.GPUAddress, b.GPUAddress)
	if a.GPUAddress < b.GPUAddress {
		assert.GreaterOrEqual(t, b.GPUAddress, a.GPUAddress+4096)
	} else {
		assert.GreaterOrEqual(t, a.GPUAddress, b.GPUAddress+4096)
	}
	assert.Len(t, a.Bytes, 4096)
}

func TestPipelineNamesAreUnique(t *testing.T) {
	device := NewManual()
	config := &metadata.PipelineConfig{Name: "opaque"}
	require.NoError(t, device.CreatePipeline(config))
	assert.Error(t, device.CreatePipeline(config))
}
