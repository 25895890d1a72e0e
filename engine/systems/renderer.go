package systems

import (
	"fmt"

	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/math"
	"github.com/citadelgfx/citadel/engine/renderer"
	"github.com/citadelgfx/citadel/engine/renderer/frames"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// submittedMarker lets a backend learn which fence guards a command
// allocator's contents. Backends that track this themselves ignore it.
type submittedMarker interface {
	MarkSubmitted(fence uint64)
}

// RenderSystem is the frame driver. Each DrawFrame runs the fixed
// sequence: rotate the frame ring, refresh dirty constant records in
// the slot's buffers, reset the slot's allocator, record the scene,
// then submit with the next fence value. Constants are only ever
// written between the fence gate and the submit, so the GPU never reads
// a buffer the CPU is writing.
type RenderSystem struct {
	device   renderer.Device
	ring     *frames.Ring
	strategy frames.BindingStrategy
	scene    *Scene
	material *MaterialSystem
	camera   *CameraSystem

	clock     *core.Clock
	fence     uint64
	frame     uint64
	wireframe bool

	width  uint32
	height uint32

	ambientLight math.Vec4
	lights       []metadata.Light

	commandList *renderer.CommandList
}

type RenderSystemConfig struct {
	Device        renderer.Device
	Scene         *Scene
	Materials     *MaterialSystem // nil when the strategy binds no materials
	Camera        *CameraSystem
	Strategy      frames.BindingStrategy
	RingDepth     int
	Width         uint32
	Height        uint32
	AmbientLight  math.Vec4
	Lights        []metadata.Light
	MaxRenderItem uint32
}

func NewRenderSystem(config *RenderSystemConfig) (*RenderSystem, error) {
	if config.Device == nil || config.Scene == nil || config.Camera == nil || config.Strategy == nil {
		return nil, fmt.Errorf("func NewRenderSystem - device, scene, camera and strategy are all required")
	}
	depth := config.RingDepth
	if depth == 0 {
		depth = frames.DefaultDepth
	}

	objectCount := config.MaxRenderItem
	if objectCount == 0 {
		objectCount = config.Scene.Count()
	}
	var materialCount uint32
	if config.Materials != nil {
		materialCount = config.Materials.Count()
	}

	ring, err := frames.NewRing(config.Device, depth, frames.ResourceConfig{
		ObjectCount:   objectCount,
		MaterialCount: materialCount,
		PassCount:     1,
	})
	if err != nil {
		return nil, err
	}

	clock := &core.Clock{}
	clock.Start()

	return &RenderSystem{
		device:       config.Device,
		ring:         ring,
		strategy:     config.Strategy,
		scene:        config.Scene,
		material:     config.Materials,
		camera:       config.Camera,
		clock:        clock,
		width:        config.Width,
		height:       config.Height,
		ambientLight: config.AmbientLight,
		lights:       config.Lights,
		commandList:  renderer.NewCommandList(),
	}, nil
}

func (rs *RenderSystem) Ring() *frames.Ring { return rs.ring }

// SetWireframe switches the pipeline used for the next recorded frame.
func (rs *RenderSystem) SetWireframe(enabled bool) { rs.wireframe = enabled }

func (rs *RenderSystem) Wireframe() bool { return rs.wireframe }

// Resize flushes in-flight frames before the swap targets change.
func (rs *RenderSystem) Resize(width, height uint32) error {
	if err := rs.ring.Flush(); err != nil {
		return err
	}
	rs.width = width
	rs.height = height
	rs.camera.Resize(float32(width) / float32(height))
	return nil
}

// DrawFrame runs one full frame.
func (rs *RenderSystem) DrawFrame() error {
	rs.clock.Update()

	res, err := rs.ring.Advance()
	if err != nil {
		return err
	}

	rs.updateObjectCBs(res)
	rs.updateMaterialCBs(res)
	rs.updatePassCB(res)

	if err := res.Allocator.Reset(); err != nil {
		return fmt.Errorf("frame %d allocator reset: %w", rs.frame, err)
	}

	rs.record(res)

	rs.fence++
	if err := rs.device.Submit(rs.commandList, rs.fence); err != nil {
		return fmt.Errorf("frame %d submit: %w", rs.frame, err)
	}
	if marker, ok := res.Allocator.(submittedMarker); ok {
		marker.MarkSubmitted(rs.fence)
	}
	if err := rs.device.Present(); err != nil {
		return fmt.Errorf("frame %d present: %w", rs.frame, err)
	}
	rs.ring.Submitted(rs.fence)
	rs.frame++
	return nil
}

// updateObjectCBs refreshes the current slot's object records for every
// item whose counter says this slot is still stale. The counter
// decrements exactly once per frame, so a mutation propagates through
// all ring slots over the next depth frames and then stops costing
// anything.
func (rs *RenderSystem) updateObjectCBs(res *frames.Resource) {
	for _, item := range rs.scene.Items() {
		if item.DirtyFrames <= 0 {
			continue
		}
		constants := item.Constants()
		res.ObjectCB.Write(item.ObjectSlot, &constants)
		item.DirtyFrames--
	}
}

func (rs *RenderSystem) updateMaterialCBs(res *frames.Resource) {
	if rs.material == nil || res.MaterialCB == nil {
		return
	}
	for _, material := range rs.material.All() {
		if material.DirtyFrames <= 0 {
			continue
		}
		constants := material.Constants()
		res.MaterialCB.Write(material.Slot, &constants)
		material.DirtyFrames--
	}
}

// updatePassCB rebuilds the whole pass record every frame; it is one
// small record and depends on per-frame values anyway.
func (rs *RenderSystem) updatePassCB(res *frames.Resource) {
	view := rs.camera.View()
	proj := rs.camera.Projection()
	viewProj := view.Mul(proj)

	pass := metadata.PassConstants{
		View:                view.Transposed(),
		InvView:             view.Inverse().Transposed(),
		Proj:                proj.Transposed(),
		InvProj:             proj.Inverse().Transposed(),
		ViewProj:            viewProj.Transposed(),
		InvViewProj:         viewProj.Inverse().Transposed(),
		EyePosW:             rs.camera.Position(),
		RenderTargetSize:    math.NewVec2(float32(rs.width), float32(rs.height)),
		InvRenderTargetSize: math.NewVec2(1.0/float32(rs.width), 1.0/float32(rs.height)),
		NearZ:               rs.camera.NearZ(),
		FarZ:                rs.camera.FarZ(),
		TotalTime:           float32(rs.clock.Elapsed()),
		DeltaTime:           float32(rs.clock.Delta()),
		AmbientLight:        rs.ambientLight,
	}
	for i, light := range rs.lights {
		if i >= metadata.MaxLights {
			break
		}
		pass.Lights[i] = light
	}
	res.PassCB.Write(0, &pass)
}

func (rs *RenderSystem) record(res *frames.Resource) {
	cl := rs.commandList
	cl.Reset()

	pipeline := metadata.BUILTIN_PIPELINE_NAME_OPAQUE
	if rs.wireframe {
		pipeline = metadata.BUILTIN_PIPELINE_NAME_WIREFRAME
	}
	cl.SetPipeline(pipeline)
	cl.SetViewport(0, 0, float32(rs.width), float32(rs.height))

	ringSlot := rs.ring.CurrentIndex()
	cl.Bind(rs.strategy.PassBinding(res, ringSlot))

	var boundGeometry string
	for _, item := range rs.scene.Items() {
		if item.Geometry.Name != boundGeometry {
			cl.BindGeometry(item.Geometry.Name)
			boundGeometry = item.Geometry.Name
		}
		cl.Bind(rs.strategy.ObjectBinding(res, ringSlot, item.ObjectSlot))
		if item.Material != nil {
			if binding, ok := rs.strategy.MaterialBinding(res, ringSlot, item.Material.Slot); ok {
				cl.Bind(binding)
			}
		}
		cl.DrawIndexed(item.IndexCount, item.StartIndex, item.BaseVertex)
	}
}

// Flush drains the GPU, for teardown and resize.
func (rs *RenderSystem) Flush() error {
	return rs.ring.Flush()
}

func (rs *RenderSystem) Shutdown() error {
	rs.clock.Stop()
	return rs.ring.Release()
}
