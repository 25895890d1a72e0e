package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotAllocatorHandsOutSequentialSlots(t *testing.T) {
	sa := NewSlotAllocator(4)
	for want := uint32(0); want < 4; want++ {
		slot, err := sa.Acquire(want)
		require.NoError(t, err)
		assert.Equal(t, want, slot)
	}
	assert.Equal(t, uint32(4), sa.Count())
}

func TestSlotAllocatorExhaustion(t *testing.T) {
	sa := NewSlotAllocator(1)
	_, err := sa.Acquire("a")
	require.NoError(t, err)
	_, err = sa.Acquire("b")
	assert.Error(t, err)
}

func TestSlotAllocatorNeverReusesReleasedSlots(t *testing.T) {
	sa := NewSlotAllocator(3)
	first, err := sa.Acquire("a")
	require.NoError(t, err)
	require.NoError(t, sa.Release(first))
	assert.Nil(t, sa.Owner(first))

	// The released index stays retired: the next acquire moves on.
	second, err := sa.Acquire("b")
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
	assert.Equal(t, uint32(2), sa.Count())
}

func TestSlotAllocatorReleaseOutOfRange(t *testing.T) {
	sa := NewSlotAllocator(2)
	assert.Error(t, sa.Release(0))
	assert.Nil(t, sa.Owner(7))
}
