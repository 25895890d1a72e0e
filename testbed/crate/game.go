// Package crate is the textured castle demo with billboarded tree
// sprites. Constants are bound as root constant-buffer views computed
// straight from the frame resource's upload buffers.
package crate

import (
	"github.com/citadelgfx/citadel/engine"
	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/math"
	"github.com/citadelgfx/citadel/engine/renderer/frames"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
	"github.com/citadelgfx/citadel/engine/systems"
	"github.com/citadelgfx/citadel/testbed"
)

// Built-in material definitions used when no asset directory is
// present. Slot order follows registration order.
var builtinMaterials = []metadata.MaterialConfig{
	{Name: "woodCrate", DiffuseColour: [4]float32{1, 1, 1, 1}, FresnelR0: [3]float32{0.05, 0.05, 0.05}, Roughness: 0.2, DiffuseMap: "WoodCrate01.png"},
	{Name: "bricks", DiffuseColour: [4]float32{1, 1, 1, 1}, FresnelR0: [3]float32{0.02, 0.02, 0.02}, Roughness: 0.1, DiffuseMap: "bricks.png"},
	{Name: "grass", DiffuseColour: [4]float32{1, 1, 1, 1}, FresnelR0: [3]float32{0.01, 0.01, 0.01}, Roughness: 0.8, DiffuseMap: "grass.png"},
	{Name: "marble", DiffuseColour: [4]float32{1, 1, 1, 1}, FresnelR0: [3]float32{0.07, 0.07, 0.07}, Roughness: 0.3, DiffuseMap: "marble.png"},
	{Name: "treeSprites", DiffuseColour: [4]float32{1, 1, 1, 1}, FresnelR0: [3]float32{0.01, 0.01, 0.01}, Roughness: 0.9, DiffuseMap: "treeArray.png"},
}

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

	materials := make(map[string]*metadata.Material, len(builtinMaterials))
	for i := range builtinMaterials {
		config := builtinMaterials[i]
		material, err := sm.MaterialSystem.Acquire(config.Name)
		if err != nil {
			core.LogWarn("material asset %q missing, using built-in definition", config.Name)
			material, err = sm.MaterialSystem.AcquireFromConfig(&config)
			if err != nil {
				return err
			}
		}
		materials[config.Name] = material

		if config.DiffuseMap != "" {
			texture, err := sm.TextureSystem.Acquire(config.DiffuseMap)
			if err != nil {
				core.LogWarn("texture %q missing, material %q stays untextured", config.DiffuseMap, config.Name)
				continue
			}
			material.TextureSlot = texture.Slot
		}
	}

	layout := append(testbed.CastleLayout(), testbed.TreeLayout()...)
	for _, item := range layout {
		if _, err := sm.Scene.AddItem(systems.RenderItemConfig{
			Name:     item.Name,
			World:    item.World,
			Geometry: castle,
			Submesh:  item.Part,
			Material: materials[item.Material],
		}); err != nil {
			return err
		}
	}

	if err := loadPipelines(sm); err != nil {
		return err
	}

	return sm.StartRenderer(&systems.StartRendererConfig{
		Strategy:     frames.RootBufferStrategy{},
		UseMaterials: true,
		AmbientLight: math.NewVec4(0.25, 0.25, 0.35, 1.0),
		Lights: []metadata.Light{
			{Strength: math.NewVec3(0.6, 0.6, 0.6), Direction: math.NewVec3(0.57735, -0.57735, 0.57735)},
			{Strength: math.NewVec3(0.3, 0.3, 0.3), Direction: math.NewVec3(-0.57735, -0.57735, 0.57735)},
			{Strength: math.NewVec3(0.15, 0.15, 0.15), Direction: math.NewVec3(0, -0.707, -0.707)},
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

	sm.RendererSystem.SetWireframe(core.InputIsKeyDown(core.KEY_1))

	dx, dy := core.InputGetMouseDragDelta()
	if core.InputIsButtonDown(core.BUTTON_LEFT) {
		sm.CameraSystem.Rotate(dx, dy)
	} else if core.InputIsButtonDown(core.BUTTON_RIGHT) {
		sm.CameraSystem.Zoom(dx, dy)
	}
	return nil
}
