package systems

import (
	"fmt"

	"github.com/citadelgfx/citadel/engine/assets"
	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/math"
	"github.com/citadelgfx/citadel/engine/renderer"
	"github.com/citadelgfx/citadel/engine/renderer/frames"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// SystemManager wires the systems together. The render system is built
// last, through StartRenderer, because frame resources are sized to the
// scene contents the game registers first.
type SystemManager struct {
	CameraSystem   *CameraSystem
	GeometrySystem *GeometrySystem
	MaterialSystem *MaterialSystem
	PipelineSystem *PipelineSystem
	TextureSystem  *TextureSystem
	Scene          *Scene
	RendererSystem *RenderSystem

	device       renderer.Device
	assetManager *assets.AssetManager
	ringDepth    int
	width        uint32
	height       uint32
}

func NewSystemManager(appName string, width, height uint32, device renderer.Device, assetManager *assets.AssetManager) (*SystemManager, error) {
	ringDepth := frames.DefaultDepth

	cs, err := NewCameraSystem(&CameraSystemConfig{
		AspectRatio: float32(width) / float32(height),
		NearZ:       1.0,
		FarZ:        1000.0,
	})
	if err != nil {
		return nil, err
	}
	gs, err := NewGeometrySystem()
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MaxMaterialCount: 1000,
		RingDepth:        ringDepth,
	}, assetManager)
	if err != nil {
		return nil, err
	}
	ps, err := NewPipelineSystem(assetManager, device)
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: 1000,
	}, assetManager)
	if err != nil {
		return nil, err
	}
	scene, err := NewScene(&SceneConfig{
		MaxRenderItems: 1000,
		RingDepth:      ringDepth,
	})
	if err != nil {
		return nil, err
	}

	core.LogInfo("systems up for %q (%dx%d) on device %s", appName, width, height, device.Name())
	return &SystemManager{
		CameraSystem:   cs,
		GeometrySystem: gs,
		MaterialSystem: ms,
		PipelineSystem: ps,
		TextureSystem:  ts,
		Scene:          scene,
		device:         device,
		assetManager:   assetManager,
		ringDepth:      ringDepth,
		width:          width,
		height:         height,
	}, nil
}

func (sm *SystemManager) Device() renderer.Device { return sm.device }
func (sm *SystemManager) RingDepth() int          { return sm.ringDepth }

// StartRendererConfig selects the binding strategy and lighting for the
// frame driver.
type StartRendererConfig struct {
	Strategy     frames.BindingStrategy
	UseMaterials bool
	AmbientLight math.Vec4
	Lights       []metadata.Light
}

// StartRenderer builds the frame ring and driver over the scene as
// registered so far. Must be called after the game has added its render
// items and materials.
func (sm *SystemManager) StartRenderer(config *StartRendererConfig) error {
	if sm.RendererSystem != nil {
		return fmt.Errorf("renderer already started")
	}
	if sm.Scene.Count() == 0 {
		return fmt.Errorf("cannot start renderer over an empty scene")
	}

	materials := sm.MaterialSystem
	if !config.UseMaterials {
		materials = nil
	}

	rs, err := NewRenderSystem(&RenderSystemConfig{
		Device:       sm.device,
		Scene:        sm.Scene,
		Materials:    materials,
		Camera:       sm.CameraSystem,
		Strategy:     config.Strategy,
		RingDepth:    sm.ringDepth,
		Width:        sm.width,
		Height:       sm.height,
		AmbientLight: config.AmbientLight,
		Lights:       config.Lights,
	})
	if err != nil {
		return err
	}
	sm.RendererSystem = rs
	return nil
}

func (sm *SystemManager) DrawFrame() error {
	if sm.RendererSystem == nil {
		return fmt.Errorf("renderer not started")
	}
	return sm.RendererSystem.DrawFrame()
}

func (sm *SystemManager) OnResize(width, height uint32) error {
	sm.width = width
	sm.height = height
	if sm.RendererSystem == nil {
		return nil
	}
	return sm.RendererSystem.Resize(width, height)
}

func (sm *SystemManager) Shutdown() error {
	sm.PipelineSystem.Shutdown()
	if sm.RendererSystem != nil {
		if err := sm.RendererSystem.Shutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	return sm.device.Shutdown()
}
