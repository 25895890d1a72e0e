package frames

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/renderer/null"
)

func testRing(t *testing.T, device *null.Device, depth int) *Ring {
	t.Helper()
	ring, err := NewRing(device, depth, ResourceConfig{
		ObjectCount: 4,
		PassCount:   1,
	})
	require.NoError(t, err)
	return ring
}

func TestRingRotationIsPeriodic(t *testing.T) {
	device := null.NewManual()
	ring := testRing(t, device, 3)

	var fence uint64
	want := []int{1, 2, 0, 1, 2, 0, 1}
	for i, expected := range want {
		_, err := ring.Advance()
		require.NoError(t, err, "advance %d", i)
		assert.Equal(t, expected, ring.CurrentIndex(), "advance %d", i)

		fence++
		ring.Submitted(fence)
		device.CompleteUpTo(fence)
	}
}

func TestRingStartupNeverBlocks(t *testing.T) {
	// The completed fence never moves, yet the first depth advances
	// must return immediately because unsubmitted slots carry a zero
	// watermark.
	device := null.NewManual()
	ring := testRing(t, device, 3)
	ring.SetWaitTimeout(50 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_, err := ring.Advance()
		require.NoError(t, err, "advance %d", i)
	}
	assert.Zero(t, ring.WaitedFrames())
}

func TestRingGatesOnOutstandingFence(t *testing.T) {
	device := null.NewManual()
	ring := testRing(t, device, 2)
	ring.SetWaitTimeout(50 * time.Millisecond)

	_, err := ring.Advance()
	require.NoError(t, err)
	ring.Submitted(1)
	_, err = ring.Advance()
	require.NoError(t, err)
	ring.Submitted(2)

	// The first slot's fence (1) is still outstanding, so the third
	// advance must gate and time out into a device-lost error.
	_, err = ring.Advance()
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDeviceLost))
	assert.Equal(t, uint64(1), ring.WaitedFrames())
}

func TestRingGateReleasesWhenFenceCompletes(t *testing.T) {
	device := null.NewManual()
	ring := testRing(t, device, 2)
	ring.SetWaitTimeout(time.Second)

	_, err := ring.Advance()
	require.NoError(t, err)
	ring.Submitted(1)
	_, err = ring.Advance()
	require.NoError(t, err)
	ring.Submitted(2)

	go func() {
		time.Sleep(10 * time.Millisecond)
		device.CompleteUpTo(1)
	}()

	res, err := ring.Advance()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Fence)
	assert.Equal(t, uint64(1), ring.WaitedFrames())
}

func TestRingSlotSafetyInvariant(t *testing.T) {
	// Whenever Advance returns a slot, the device must already have
	// completed that slot's watermark, so the GPU cannot be reading it.
	device := null.NewManual()
	ring := testRing(t, device, 3)
	ring.SetWaitTimeout(time.Second)

	var fence uint64
	for frame := 0; frame < 20; frame++ {
		// A deliberately slow GPU: completes two frames behind.
		if fence > 2 {
			device.CompleteUpTo(fence - 2)
		}
		res, err := ring.Advance()
		require.NoError(t, err)
		if res.Fence != 0 {
			require.GreaterOrEqual(t, device.CompletedFence(), res.Fence,
				"frame %d handed out a slot the GPU still owns", frame)
		}
		fence++
		ring.Submitted(fence)
	}
}

func TestRingSubmittedRequiresIncreasingFence(t *testing.T) {
	device := null.NewManual()
	ring := testRing(t, device, 2)

	_, err := ring.Advance()
	require.NoError(t, err)
	ring.Submitted(5)
	device.CompleteUpTo(5)

	_, err = ring.Advance()
	require.NoError(t, err)
	ring.Submitted(6)
	device.CompleteUpTo(6)

	_, err = ring.Advance()
	require.NoError(t, err)
	assert.Panics(t, func() { ring.Submitted(5) })
}

func TestRingRejectsZeroDepth(t *testing.T) {
	device := null.NewManual()
	_, err := NewRing(device, 0, ResourceConfig{ObjectCount: 1, PassCount: 1})
	assert.Error(t, err)
}

func TestRingDepthOneIsSynchronous(t *testing.T) {
	// A single-slot ring is legal: the one slot gates on its own fence,
	// so the CPU and GPU run in lockstep with no overlap.
	device := null.NewManual()
	ring := testRing(t, device, 1)
	ring.SetWaitTimeout(50 * time.Millisecond)

	res, err := ring.Advance()
	require.NoError(t, err)
	assert.Equal(t, 0, ring.CurrentIndex())
	ring.Submitted(1)

	// The slot is the only one, so the very next advance gates until the
	// previous frame completes.
	_, err = ring.Advance()
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDeviceLost))

	device.CompleteUpTo(1)
	res, err = ring.Advance()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Fence)
	ring.Submitted(2)
}

func TestRingSlotSafetyAcrossDepths(t *testing.T) {
	// For any depth, a slot handed out by Advance is never one the GPU
	// still owns, no matter how far behind the GPU runs. The lag is
	// randomized within the legal window each frame; the sentinel byte
	// written into each slot proves no overlapping reuse ever scrambled
	// a frame's memory.
	rng := rand.New(rand.NewSource(1))
	for depth := 1; depth <= 4; depth++ {
		device := null.NewManual()
		ring := testRing(t, device, depth)
		ring.SetWaitTimeout(time.Second)

		tokens := make(map[int]byte)
		var fence uint64
		for frame := 0; frame < 40; frame++ {
			lag := uint64(rng.Intn(depth))
			if fence > lag {
				device.CompleteUpTo(fence - lag)
			}

			res, err := ring.Advance()
			require.NoError(t, err, "depth %d frame %d", depth, frame)
			if res.Fence != 0 {
				require.GreaterOrEqual(t, device.CompletedFence(), res.Fence,
					"depth %d frame %d handed out a slot the GPU still owns", depth, frame)
			}

			slot := ring.CurrentIndex()
			if token, seen := tokens[slot]; seen {
				require.Equal(t, token, res.ObjectCB.Bytes(0)[0],
					"depth %d frame %d slot %d lost its last write", depth, frame, slot)
			}
			tokens[slot] = byte(frame)
			res.ObjectCB.Bytes(0)[0] = byte(frame)

			fence++
			ring.Submitted(fence)
		}
	}
}

func TestRingStateTracksLifecycle(t *testing.T) {
	device := null.NewManual()
	ring := testRing(t, device, 3)

	assert.Equal(t, SlotFree, ring.State(1))
	_, err := ring.Advance()
	require.NoError(t, err)
	assert.Equal(t, SlotInUse, ring.State(1))

	ring.Submitted(1)
	assert.Equal(t, SlotAwaitingGPU, ring.State(1))

	device.CompleteUpTo(1)
	assert.Equal(t, SlotFree, ring.State(1))
}
