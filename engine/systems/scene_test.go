package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citadelgfx/citadel/engine/math"
	"github.com/citadelgfx/citadel/engine/renderer/frames"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

func newTestScene(t *testing.T) (*Scene, *metadata.MeshGeometry) {
	t.Helper()
	gs, err := NewGeometrySystem()
	require.NoError(t, err)
	geometry, err := gs.Register("shapes", []NamedGeometry{
		{Name: "box", Data: GenerateBox(1, 1, 1)},
		{Name: "quad", Data: GenerateQuad(1, 1)},
	})
	require.NoError(t, err)

	scene, err := NewScene(&SceneConfig{MaxRenderItems: 8, RingDepth: frames.DefaultDepth})
	require.NoError(t, err)
	return scene, geometry
}

func TestAddItemResolvesDrawRangeAndSlot(t *testing.T) {
	scene, geometry := newTestScene(t)

	box, err := scene.AddItem(RenderItemConfig{Name: "box", Geometry: geometry, Submesh: "box"})
	require.NoError(t, err)
	quad, err := scene.AddItem(RenderItemConfig{Name: "quad", Geometry: geometry, Submesh: "quad"})
	require.NoError(t, err)

	assert.Equal(t, uint32(0), box.ObjectSlot)
	assert.Equal(t, uint32(36), box.IndexCount)
	assert.Equal(t, uint32(1), quad.ObjectSlot)
	assert.Equal(t, uint32(36), quad.StartIndex)
	assert.Equal(t, int32(24), quad.BaseVertex)
	assert.Equal(t, uint32(2), scene.Count())
}

func TestAddItemStartsFullyDirtyWithIdentityDefaults(t *testing.T) {
	scene, geometry := newTestScene(t)

	item, err := scene.AddItem(RenderItemConfig{Name: "box", Geometry: geometry, Submesh: "box"})
	require.NoError(t, err)
	assert.Equal(t, frames.DefaultDepth, item.DirtyFrames)
	assert.True(t, item.World.Compare(math.NewMat4Identity(), 0))
	assert.True(t, item.TexTransform.Compare(math.NewMat4Identity(), 0))
}

func TestAddItemRejectsDuplicatesAndUnknownSubmeshes(t *testing.T) {
	scene, geometry := newTestScene(t)

	_, err := scene.AddItem(RenderItemConfig{Name: "box", Geometry: geometry, Submesh: "box"})
	require.NoError(t, err)
	_, err = scene.AddItem(RenderItemConfig{Name: "box", Geometry: geometry, Submesh: "box"})
	assert.Error(t, err)
	_, err = scene.AddItem(RenderItemConfig{Name: "other", Geometry: geometry, Submesh: "cone"})
	assert.Error(t, err)
}

func TestSetWorldRestartsDirtyCounter(t *testing.T) {
	scene, geometry := newTestScene(t)
	item, err := scene.AddItem(RenderItemConfig{Name: "box", Geometry: geometry, Submesh: "box"})
	require.NoError(t, err)

	item.DirtyFrames = 0
	moved := math.NewMat4Translation(math.NewVec3(3, 0, 0))
	scene.SetWorld(item, moved)
	assert.Equal(t, frames.DefaultDepth, item.DirtyFrames)
	assert.True(t, item.World.Compare(moved, 0))

	item.DirtyFrames = 1
	scene.SetTexTransform(item, math.NewMat4Scale(math.NewVec3(2, 2, 2)))
	assert.Equal(t, frames.DefaultDepth, item.DirtyFrames)
}

func TestItemLookupByName(t *testing.T) {
	scene, geometry := newTestScene(t)
	added, err := scene.AddItem(RenderItemConfig{Name: "box", Geometry: geometry, Submesh: "box"})
	require.NoError(t, err)

	found, ok := scene.Item("box")
	require.True(t, ok)
	assert.Same(t, added, found)

	_, ok = scene.Item("missing")
	assert.False(t, ok)
}

func TestObjectConstantsAreTransposed(t *testing.T) {
	scene, geometry := newTestScene(t)
	item, err := scene.AddItem(RenderItemConfig{Name: "box", Geometry: geometry, Submesh: "box"})
	require.NoError(t, err)

	scene.SetWorld(item, math.NewMat4Translation(math.NewVec3(1, 2, 3)))
	constants := item.Constants()
	// Translation moves from the last column to the last row.
	assert.InDelta(t, 1.0, constants.World.Data[3], 1e-6)
	assert.InDelta(t, 2.0, constants.World.Data[7], 1e-6)
	assert.InDelta(t, 3.0, constants.World.Data[11], 1e-6)
}
