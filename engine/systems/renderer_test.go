package systems

import (
	"encoding/binary"
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citadelgfx/citadel/engine/math"
	"github.com/citadelgfx/citadel/engine/renderer"
	"github.com/citadelgfx/citadel/engine/renderer/frames"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
	"github.com/citadelgfx/citadel/engine/renderer/null"
)

// testFrameLoop bundles everything a frame-driver test needs: a manual
// device whose fence only moves when the test says so, a scene of boxes
// sharing one geometry, and the render system driving them.
type testFrameLoop struct {
	device *null.Device
	scene  *Scene
	camera *CameraSystem
	rs     *RenderSystem
}

func newTestFrameLoop(t *testing.T, itemCount int, strategy frames.BindingStrategy) *testFrameLoop {
	t.Helper()

	device := null.NewManual()

	gs, err := NewGeometrySystem()
	require.NoError(t, err)
	geometry, err := gs.Register("boxes", []NamedGeometry{
		{Name: "box", Data: GenerateBox(1, 1, 1)},
	})
	require.NoError(t, err)

	scene, err := NewScene(&SceneConfig{MaxRenderItems: uint32(itemCount), RingDepth: frames.DefaultDepth})
	require.NoError(t, err)
	for i := 0; i < itemCount; i++ {
		_, err := scene.AddItem(RenderItemConfig{
			Name:     "box_" + string(rune('a'+i)),
			Geometry: geometry,
			Submesh:  "box",
		})
		require.NoError(t, err)
	}

	camera, err := NewCameraSystem(&CameraSystemConfig{AspectRatio: 16.0 / 9.0})
	require.NoError(t, err)

	rs, err := NewRenderSystem(&RenderSystemConfig{
		Device:   device,
		Scene:    scene,
		Camera:   camera,
		Strategy: strategy,
		Width:    1280,
		Height:   720,
	})
	require.NoError(t, err)

	return &testFrameLoop{device: device, scene: scene, camera: camera, rs: rs}
}

// drawFrame runs one frame and immediately completes its fence so the
// ring never gates. The fence for frame f is f+1.
func (l *testFrameLoop) drawFrame(t *testing.T) {
	t.Helper()
	require.NoError(t, l.rs.DrawFrame())
	fence := l.device.Submitted[len(l.device.Submitted)-1].Fence
	l.device.CompleteUpTo(fence)
}

// currentWorld decodes the world matrix the current frame slot holds
// for an item, undoing the transposed storage convention.
func (l *testFrameLoop) currentWorld(item *metadata.RenderItem) math.Mat4 {
	bytes := l.rs.Ring().Current().ObjectCB.Bytes(item.ObjectSlot)
	return metadata.DecodeMat4(bytes).Transposed()
}

// decodeEyePos reads EyePosW from an encoded pass record.
func decodeEyePos(src []byte) math.Vec3 {
	return math.NewVec3(
		gomath.Float32frombits(binary.LittleEndian.Uint32(src[384:])),
		gomath.Float32frombits(binary.LittleEndian.Uint32(src[388:])),
		gomath.Float32frombits(binary.LittleEndian.Uint32(src[392:])),
	)
}

func TestMutationPropagatesThroughEveryRingSlot(t *testing.T) {
	loop := newTestFrameLoop(t, 2, frames.DescriptorTableStrategy{ObjectCount: 2, Depth: frames.DefaultDepth})
	item, ok := loop.scene.Item("box_a")
	require.True(t, ok)

	// Warm up well past the ring depth so every slot holds the initial
	// identity transform and all counters have drained to zero.
	for frame := 0; frame < 9; frame++ {
		loop.drawFrame(t)
	}
	require.Equal(t, 0, item.DirtyFrames)
	assert.True(t, loop.currentWorld(item).Compare(math.NewMat4Identity(), 0))

	moved := math.NewMat4Translation(math.NewVec3(1, 2, 3))
	loop.scene.SetWorld(item, moved)

	// The next depth frames each refresh exactly one slot.
	for frame := 0; frame < frames.DefaultDepth; frame++ {
		loop.drawFrame(t)
		assert.True(t, loop.currentWorld(item).Compare(moved, 0),
			"slot %d should hold the moved transform", loop.rs.Ring().CurrentIndex())
	}
	assert.Equal(t, 0, item.DirtyFrames)

	// Further frames revisit already-refreshed slots and must still see
	// the moved transform without any rewrite.
	for frame := 0; frame < frames.DefaultDepth; frame++ {
		loop.drawFrame(t)
		assert.True(t, loop.currentWorld(item).Compare(moved, 0))
		assert.Equal(t, 0, item.DirtyFrames)
	}
}

func TestStaleSlotsKeepOldTransformUntilRefreshed(t *testing.T) {
	loop := newTestFrameLoop(t, 1, frames.RootBufferStrategy{})
	item := loop.scene.Items()[0]

	for frame := 0; frame < 6; frame++ {
		loop.drawFrame(t)
	}

	moved := math.NewMat4Translation(math.NewVec3(7, 0, 0))
	loop.scene.SetWorld(item, moved)

	// One frame in, only the current slot is refreshed: the other two
	// physically still hold the identity record.
	loop.drawFrame(t)
	refreshed := loop.rs.Ring().CurrentIndex()
	for slot := 0; slot < frames.DefaultDepth; slot++ {
		got := metadata.DecodeMat4(loop.rs.Ring().Resource(slot).ObjectCB.Bytes(item.ObjectSlot)).Transposed()
		if slot == refreshed {
			assert.True(t, got.Compare(moved, 0))
		} else {
			assert.True(t, got.Compare(math.NewMat4Identity(), 0),
				"slot %d must not be touched before its frame comes around", slot)
		}
	}
}

func TestDirtyCounterSaturatesOnRemutation(t *testing.T) {
	loop := newTestFrameLoop(t, 1, frames.RootBufferStrategy{})
	item := loop.scene.Items()[0]

	require.Equal(t, frames.DefaultDepth, item.DirtyFrames)
	loop.drawFrame(t)
	require.Equal(t, frames.DefaultDepth-1, item.DirtyFrames)

	// Mutating mid-propagation restarts the counter rather than adding
	// to it.
	loop.scene.SetWorld(item, math.NewMat4Translation(math.NewVec3(0, 5, 0)))
	assert.Equal(t, frames.DefaultDepth, item.DirtyFrames)

	for frame := 0; frame < frames.DefaultDepth; frame++ {
		loop.drawFrame(t)
	}
	assert.Equal(t, 0, item.DirtyFrames)
}

func TestPassConstantsRebuiltEveryFrame(t *testing.T) {
	loop := newTestFrameLoop(t, 1, frames.RootBufferStrategy{})

	loop.drawFrame(t)
	before := decodeEyePos(loop.rs.Ring().Current().PassCB.Bytes(0))

	// Orbit the camera; the slot revisited depth frames later must pick
	// up the new eye position even though nothing marked it dirty.
	loop.camera.Rotate(200, 0)
	for frame := 0; frame < frames.DefaultDepth; frame++ {
		loop.drawFrame(t)
	}
	after := decodeEyePos(loop.rs.Ring().Current().PassCB.Bytes(0))
	assert.NotEqual(t, before, after)
}

func TestSubmissionsCarryStrictlyIncreasingFences(t *testing.T) {
	loop := newTestFrameLoop(t, 1, frames.RootBufferStrategy{})

	for frame := 0; frame < 5; frame++ {
		loop.drawFrame(t)
	}
	require.Len(t, loop.device.Submitted, 5)
	for i, submission := range loop.device.Submitted {
		assert.Equal(t, uint64(i+1), submission.Fence)
	}
}

func TestRecordedFrameCommandStream(t *testing.T) {
	strategy := frames.DescriptorTableStrategy{ObjectCount: 2, Depth: frames.DefaultDepth}
	loop := newTestFrameLoop(t, 2, strategy)

	loop.drawFrame(t)
	commands := loop.device.Submitted[0].Commands
	// Pipeline, viewport, pass bind, one geometry bind shared by both
	// items, then per item an object bind and a draw.
	require.Len(t, commands, 8)

	assert.Equal(t, renderer.OpSetPipeline, commands[0].Op)
	assert.Equal(t, metadata.BUILTIN_PIPELINE_NAME_OPAQUE, commands[0].Pipeline)
	assert.Equal(t, renderer.OpSetViewport, commands[1].Op)

	// Rotation starts from slot 0, so the first frame records into ring
	// slot 1 and binds slot 1's descriptor ranges.
	assert.Equal(t, renderer.OpBindDescriptorTable, commands[2].Op)
	assert.Equal(t, uint32(frames.ParamPass), commands[2].Binding.Param)
	assert.Equal(t, strategy.PassTableOffset()+1, commands[2].Binding.HeapIndex)

	assert.Equal(t, renderer.OpBindGeometry, commands[3].Op)
	assert.Equal(t, "boxes", commands[3].GeometryName)

	assert.Equal(t, renderer.OpBindDescriptorTable, commands[4].Op)
	assert.Equal(t, frames.DescriptorIndex(1, 2, 0), commands[4].Binding.HeapIndex)
	assert.Equal(t, renderer.OpDrawIndexed, commands[5].Op)
	assert.Equal(t, uint32(36), commands[5].IndexCount)

	assert.Equal(t, renderer.OpBindDescriptorTable, commands[6].Op)
	assert.Equal(t, frames.DescriptorIndex(1, 2, 1), commands[6].Binding.HeapIndex)
	assert.Equal(t, renderer.OpDrawIndexed, commands[7].Op)

	// The second frame rotates to ring slot 2: the pass view and object
	// views move to slot 2's descriptor range.
	loop.drawFrame(t)
	commands = loop.device.Submitted[1].Commands
	assert.Equal(t, strategy.PassTableOffset()+2, commands[2].Binding.HeapIndex)
	assert.Equal(t, frames.DescriptorIndex(2, 2, 0), commands[4].Binding.HeapIndex)
}

func TestWireframeTogglesPipeline(t *testing.T) {
	loop := newTestFrameLoop(t, 1, frames.RootBufferStrategy{})

	loop.rs.SetWireframe(true)
	loop.drawFrame(t)
	assert.Equal(t, metadata.BUILTIN_PIPELINE_NAME_WIREFRAME, loop.device.Submitted[0].Commands[0].Pipeline)

	loop.rs.SetWireframe(false)
	loop.drawFrame(t)
	assert.Equal(t, metadata.BUILTIN_PIPELINE_NAME_OPAQUE, loop.device.Submitted[1].Commands[0].Pipeline)
}
