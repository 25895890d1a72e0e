package frames

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citadelgfx/citadel/engine/renderer"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
	"github.com/citadelgfx/citadel/engine/renderer/null"
)

func TestDescriptorIndex(t *testing.T) {
	tests := []struct {
		name       string
		ringSlot   int
		count      uint32
		entitySlot uint32
		want       uint32
	}{
		{"first slot first entity", 0, 27, 0, 0},
		{"third ring range", 2, 27, 5, 59},
		{"second ring range start", 1, 27, 0, 27},
		{"single entity category", 2, 1, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescriptorIndex(tt.ringSlot, tt.count, tt.entitySlot))
		})
	}
}

func TestDescriptorTableStrategy(t *testing.T) {
	strategy := DescriptorTableStrategy{ObjectCount: 27, Depth: 3}

	assert.Equal(t, uint32(81), strategy.PassTableOffset())

	object := strategy.ObjectBinding(nil, 2, 5)
	assert.Equal(t, renderer.BindDescriptorTable, object.Kind)
	assert.Equal(t, uint32(ParamObject), object.Param)
	assert.Equal(t, uint32(59), object.HeapIndex)

	pass := strategy.PassBinding(nil, 1)
	assert.Equal(t, uint32(82), pass.HeapIndex)
	assert.Equal(t, uint32(ParamPass), pass.Param)

	_, ok := strategy.MaterialBinding(nil, 0, 0)
	assert.False(t, ok, "descriptor-table strategy carries no material category")
}

func TestRootBufferStrategyAddresses(t *testing.T) {
	device := null.NewManual()
	res, err := NewResource(device, ResourceConfig{
		ObjectCount:   27,
		MaterialCount: 5,
		PassCount:     1,
	})
	require.NoError(t, err)

	strategy := RootBufferStrategy{}

	object := strategy.ObjectBinding(res, 0, 3)
	assert.Equal(t, renderer.BindBufferAddress, object.Kind)
	stride := uint64(AlignConstantBufferSize(metadata.ObjectConstantsSize))
	assert.Equal(t, res.ObjectCB.GPUAddress(0)+3*stride, object.Address)

	material, ok := strategy.MaterialBinding(res, 0, 4)
	require.True(t, ok)
	materialStride := uint64(AlignConstantBufferSize(metadata.MaterialConstantsSize))
	assert.Equal(t, res.MaterialCB.GPUAddress(0)+4*materialStride, material.Address)

	pass := strategy.PassBinding(res, 2)
	assert.Equal(t, res.PassCB.GPUAddress(0), pass.Address)
}

func TestRootBufferStrategyWithoutMaterials(t *testing.T) {
	device := null.NewManual()
	res, err := NewResource(device, ResourceConfig{ObjectCount: 1, PassCount: 1})
	require.NoError(t, err)

	_, ok := RootBufferStrategy{}.MaterialBinding(res, 0, 0)
	assert.False(t, ok)
}
