package frames

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citadelgfx/citadel/engine/math"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
	"github.com/citadelgfx/citadel/engine/renderer/null"
)

func TestAlignConstantBufferSize(t *testing.T) {
	tests := []struct {
		name string
		in   uint32
		want uint32
	}{
		{"zero stays zero", 0, 0},
		{"one rounds to alignment", 1, 256},
		{"exact multiple unchanged", 256, 256},
		{"just past boundary", 257, 512},
		{"object constants", metadata.ObjectConstantsSize, 256},
		{"pass constants", metadata.PassConstantsSize, 1280},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AlignConstantBufferSize(tt.in))
		})
	}
}

func TestUploadBufferLayout(t *testing.T) {
	device := null.NewManual()
	buffer, err := NewUploadBuffer(device, metadata.ObjectConstantsSize, 27)
	require.NoError(t, err)

	assert.Equal(t, uint32(256), buffer.Stride())
	assert.Equal(t, uint32(27), buffer.Capacity())
	assert.Equal(t, uint64(0), buffer.OffsetOf(0))
	assert.Equal(t, uint64(256*5), buffer.OffsetOf(5))
	assert.Equal(t, buffer.GPUAddress(0)+256*5, buffer.GPUAddress(5))
}

func TestUploadBufferWriteStaysInSlot(t *testing.T) {
	device := null.NewManual()
	buffer, err := NewUploadBuffer(device, metadata.ObjectConstantsSize, 3)
	require.NoError(t, err)

	record := metadata.ObjectConstants{
		World:        math.NewMat4Translation(math.NewVec3(1, 2, 3)),
		TexTransform: math.NewMat4Identity(),
	}
	buffer.Write(1, &record)

	// Neighbouring slots stay zero.
	for _, slot := range []uint32{0, 2} {
		for _, b := range buffer.Bytes(slot) {
			require.Zero(t, b, "slot %d was disturbed", slot)
		}
	}
	decoded := metadata.DecodeMat4(buffer.Bytes(1))
	assert.True(t, decoded.Compare(record.World, 0))
}

func TestUploadBufferRejectsZeroSizing(t *testing.T) {
	device := null.NewManual()
	_, err := NewUploadBuffer(device, 0, 4)
	assert.Error(t, err)
	_, err = NewUploadBuffer(device, 64, 0)
	assert.Error(t, err)
}

func TestUploadBufferPanicsOutOfRange(t *testing.T) {
	device := null.NewManual()
	buffer, err := NewUploadBuffer(device, 64, 2)
	require.NoError(t, err)

	assert.Panics(t, func() { buffer.OffsetOf(2) })
	assert.Panics(t, func() { buffer.GPUAddress(7) })
}
