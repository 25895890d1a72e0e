package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBoxCounts(t *testing.T) {
	box := GenerateBox(2, 2, 2)
	assert.Len(t, box.Vertices, 24)
	assert.Len(t, box.Indices, 36)

	// Every vertex sits on the box surface.
	for _, v := range box.Vertices {
		assert.InDelta(t, 1.0, maxAbs(v.Position.X, v.Position.Y, v.Position.Z), 1e-6)
	}
}

func TestGenerateGridCounts(t *testing.T) {
	grid := GenerateGrid(10, 10, 5, 4)
	assert.Len(t, grid.Vertices, 5*4)
	assert.Len(t, grid.Indices, int((5-1)*(4-1)*2*3))

	// The grid lies flat in the xz-plane.
	for _, v := range grid.Vertices {
		assert.Zero(t, v.Position.Y)
		assert.InDelta(t, 1.0, v.Normal.Y, 1e-6)
	}
}

func TestGenerateQuadCounts(t *testing.T) {
	quad := GenerateQuad(4, 4)
	assert.Len(t, quad.Vertices, 4)
	assert.Len(t, quad.Indices, 6)
}

func TestGenerateCylinderIncludesCaps(t *testing.T) {
	slices, stacks := uint32(16), uint32(4)
	cylinder := GenerateCylinder(1.2, 1.0, 6, slices, stacks)

	// Side rings plus two caps, each cap a ring and a centre vertex.
	side := (stacks + 1) * (slices + 1)
	cap := slices + 1 + 1
	assert.Len(t, cylinder.Vertices, int(side+2*cap))
	// Side quads plus two triangle fans.
	assert.Len(t, cylinder.Indices, int(stacks*slices*6+2*slices*3))
}

func TestGenerateSphereIsClosed(t *testing.T) {
	slices, stacks := uint32(16), uint32(16)
	sphere := GenerateSphere(0.6, slices, stacks)

	// Poles plus the interior rings.
	assert.Len(t, sphere.Vertices, int(2+(stacks-1)*(slices+1)))
	// Two pole fans plus the interior quad strip.
	assert.Len(t, sphere.Indices, int(2*slices*3+(stacks-2)*slices*6))

	for _, v := range sphere.Vertices {
		assert.InDelta(t, 0.6, v.Position.Length(), 1e-5)
	}
}

func TestRegisterConcatenatesSubmeshes(t *testing.T) {
	gs, err := NewGeometrySystem()
	require.NoError(t, err)

	geometry, err := gs.Register("scene", []NamedGeometry{
		{Name: "box", Data: GenerateBox(1, 1, 1)},
		{Name: "quad", Data: GenerateQuad(1, 1)},
	})
	require.NoError(t, err)

	box, ok := geometry.DrawArgs("box")
	require.True(t, ok)
	assert.Equal(t, uint32(36), box.IndexCount)
	assert.Equal(t, uint32(0), box.StartIndex)
	assert.Equal(t, int32(0), box.BaseVertex)

	quad, ok := geometry.DrawArgs("quad")
	require.True(t, ok)
	assert.Equal(t, uint32(6), quad.IndexCount)
	assert.Equal(t, uint32(36), quad.StartIndex)
	assert.Equal(t, int32(24), quad.BaseVertex)

	assert.Len(t, geometry.Vertices, 24+4)
	assert.Len(t, geometry.Indices, 36+6)

	_, ok = geometry.DrawArgs("missing")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicateNames(t *testing.T) {
	gs, err := NewGeometrySystem()
	require.NoError(t, err)

	_, err = gs.Register("scene", []NamedGeometry{{Name: "box", Data: GenerateBox(1, 1, 1)}})
	require.NoError(t, err)
	_, err = gs.Register("scene", []NamedGeometry{{Name: "box", Data: GenerateBox(1, 1, 1)}})
	assert.Error(t, err)
}

func TestRegisterGeneratesNameWhenEmpty(t *testing.T) {
	gs, err := NewGeometrySystem()
	require.NoError(t, err)

	geometry, err := gs.Register("", []NamedGeometry{{Name: "box", Data: GenerateBox(1, 1, 1)}})
	require.NoError(t, err)
	assert.NotEmpty(t, geometry.Name)

	found, err := gs.Acquire(geometry.Name)
	require.NoError(t, err)
	assert.Same(t, geometry, found)
}

func maxAbs(values ...float32) float32 {
	var out float32
	for _, v := range values {
		if v < 0 {
			v = -v
		}
		if v > out {
			out = v
		}
	}
	return out
}
