package engine

import (
	"github.com/citadelgfx/citadel/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
}

// Initialize registers the game's geometry, materials, pipelines and
// render items, then starts the renderer with its binding strategy.
type Initialize func() error
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
