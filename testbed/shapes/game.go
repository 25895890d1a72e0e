// Package shapes is the untextured castle demo. Constants are bound
// through a CBV descriptor table laid out per ring slot.
package shapes

import (
	"github.com/citadelgfx/citadel/engine"
	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/math"
	"github.com/citadelgfx/citadel/engine/renderer/frames"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
	"github.com/citadelgfx/citadel/engine/systems"
	"github.com/citadelgfx/citadel/testbed"
)

// NewGame builds the demo around the supplied application config.
func NewGame(config *engine.ApplicationConfig) *engine.Game {
	game := &engine.Game{
		ApplicationConfig: config,
	}
	game.FnInitialize = func() error { return initialize(game) }
	game.FnUpdate = func(deltaTime float64) error { return update(game, deltaTime) }
	game.FnOnResize = func(width, height uint32) error { return nil }
	return game
}

func initialize(game *engine.Game) error {
	sm := game.SystemManager

	if err := testbed.BuildCastleGeometry(sm.GeometrySystem); err != nil {
		return err
	}
	castle, err := sm.GeometrySystem.Acquire("castle")
	if err != nil {
		return err
	}

	for _, item := range testbed.CastleLayout() {
		if _, err := sm.Scene.AddItem(systems.RenderItemConfig{
			Name:     item.Name,
			World:    item.World,
			Geometry: castle,
			Submesh:  item.Part,
		}); err != nil {
			return err
		}
	}

	if err := loadPipelines(sm); err != nil {
		return err
	}

	return sm.StartRenderer(&systems.StartRendererConfig{
		Strategy: frames.DescriptorTableStrategy{
			ObjectCount: sm.Scene.Count(),
			Depth:       sm.RingDepth(),
		},
		UseMaterials: false,
		AmbientLight: math.NewVec4(0.25, 0.25, 0.35, 1.0),
		Lights: []metadata.Light{
			{Strength: math.NewVec3(0.6, 0.6, 0.6), Direction: math.NewVec3(0.57735, -0.57735, 0.57735)},
		},
	})
}

func loadPipelines(sm *systems.SystemManager) error {
	if _, err := sm.PipelineSystem.Load(metadata.BUILTIN_PIPELINE_NAME_OPAQUE); err != nil {
		core.LogWarn("pipeline asset missing, using built-in defaults: %s", err)
		if err := sm.PipelineSystem.LoadFromConfig(&metadata.PipelineConfig{
			Name: metadata.BUILTIN_PIPELINE_NAME_OPAQUE,
		}); err != nil {
			return err
		}
	}
	if _, err := sm.PipelineSystem.Load(metadata.BUILTIN_PIPELINE_NAME_WIREFRAME); err != nil {
		if err := sm.PipelineSystem.LoadFromConfig(&metadata.PipelineConfig{
			Name:     metadata.BUILTIN_PIPELINE_NAME_WIREFRAME,
			FillMode: metadata.FillModeWireframe,
			CullMode: metadata.CullModeNone,
		}); err != nil {
			return err
		}
	}
	return nil
}

func update(game *engine.Game, deltaTime float64) error {
	sm := game.SystemManager

	// Wireframe only while '1' is held.
	sm.RendererSystem.SetWireframe(core.InputIsKeyDown(core.KEY_1))

	dx, dy := core.InputGetMouseDragDelta()
	if core.InputIsButtonDown(core.BUTTON_LEFT) {
		sm.CameraSystem.Rotate(dx, dy)
	} else if core.InputIsButtonDown(core.BUTTON_RIGHT) {
		sm.CameraSystem.Zoom(dx, dy)
	}
	return nil
}
