package systems

import (
	"fmt"

	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/math"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// Scene owns the render items. Every mutation of an item's transform
// goes through here so the dirty counter restart is never forgotten.
type Scene struct {
	allocator *core.SlotAllocator
	items     []*metadata.RenderItem
	byName    map[string]*metadata.RenderItem
	ringDepth int
}

type SceneConfig struct {
	MaxRenderItems uint32
	RingDepth      int
}

func NewScene(config *SceneConfig) (*Scene, error) {
	if config.MaxRenderItems == 0 {
		err := fmt.Errorf("func NewScene - config.MaxRenderItems must be > 0")
		core.LogWarn(err.Error())
		return nil, err
	}
	return &Scene{
		allocator: core.NewSlotAllocator(config.MaxRenderItems),
		byName:    make(map[string]*metadata.RenderItem),
		ringDepth: config.RingDepth,
	}, nil
}

// RenderItemConfig describes one drawable to add to the scene.
type RenderItemConfig struct {
	Name         string
	World        math.Mat4
	TexTransform math.Mat4
	Geometry     *metadata.MeshGeometry
	Submesh      string
	Material     *metadata.Material
}

// AddItem registers a drawable and assigns its permanent object slot.
// New items start fully dirty so their constants reach every frame
// slot.
func (s *Scene) AddItem(config RenderItemConfig) (*metadata.RenderItem, error) {
	if _, exists := s.byName[config.Name]; exists {
		return nil, fmt.Errorf("render item %q already in scene", config.Name)
	}
	args, ok := config.Geometry.DrawArgs(config.Submesh)
	if !ok {
		return nil, fmt.Errorf("render item %q: geometry %q has no submesh %q", config.Name, config.Geometry.Name, config.Submesh)
	}

	item := &metadata.RenderItem{
		Name:         config.Name,
		World:        config.World,
		TexTransform: config.TexTransform,
		DirtyFrames:  s.ringDepth,
		Geometry:     config.Geometry,
		Material:     config.Material,
		IndexCount:   args.IndexCount,
		StartIndex:   args.StartIndex,
		BaseVertex:   args.BaseVertex,
	}
	if item.TexTransform.Compare(math.Mat4{}, 0) {
		item.TexTransform = math.NewMat4Identity()
	}
	if item.World.Compare(math.Mat4{}, 0) {
		item.World = math.NewMat4Identity()
	}

	var err error
	item.ObjectSlot, err = s.allocator.Acquire(item)
	if err != nil {
		return nil, fmt.Errorf("render item %q: %w", config.Name, err)
	}

	s.items = append(s.items, item)
	s.byName[config.Name] = item
	return item, nil
}

// SetWorld replaces an item's transform and restarts its dirty counter.
func (s *Scene) SetWorld(item *metadata.RenderItem, world math.Mat4) {
	item.World = world
	item.DirtyFrames = s.ringDepth
}

// SetTexTransform replaces an item's texture transform and restarts its
// dirty counter.
func (s *Scene) SetTexTransform(item *metadata.RenderItem, texTransform math.Mat4) {
	item.TexTransform = texTransform
	item.DirtyFrames = s.ringDepth
}

// Item looks an item up by name.
func (s *Scene) Item(name string) (*metadata.RenderItem, bool) {
	item, ok := s.byName[name]
	return item, ok
}

// Items returns the items in draw order.
func (s *Scene) Items() []*metadata.RenderItem { return s.items }

func (s *Scene) Count() uint32 { return s.allocator.Count() }
