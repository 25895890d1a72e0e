package systems

import (
	"fmt"

	"github.com/citadelgfx/citadel/engine/assets"
	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/math"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// MaterialSystem owns the material table. Each acquired material gets a
// constant-buffer slot for life and starts fully dirty so every frame
// resource receives its constants before first use.
type MaterialSystem struct {
	assetManager *assets.AssetManager
	allocator    *core.SlotAllocator
	materials    map[string]*metadata.Material
	ringDepth    int
}

type MaterialSystemConfig struct {
	MaxMaterialCount uint32
	RingDepth        int
}

func NewMaterialSystem(config *MaterialSystemConfig, assetManager *assets.AssetManager) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("func NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogWarn(err.Error())
		return nil, err
	}
	return &MaterialSystem{
		assetManager: assetManager,
		allocator:    core.NewSlotAllocator(config.MaxMaterialCount),
		materials:    make(map[string]*metadata.Material),
		ringDepth:    config.RingDepth,
	}, nil
}

// Acquire loads the named material configuration from disk and
// registers it. Acquiring an already registered name returns the
// existing material.
func (ms *MaterialSystem) Acquire(name string) (*metadata.Material, error) {
	if material, exists := ms.materials[name]; exists {
		return material, nil
	}

	resource, err := ms.assetManager.LoadAsset(name, metadata.ResourceTypeMaterial, nil)
	if err != nil {
		return nil, err
	}
	config, ok := resource.Data.(*metadata.MaterialConfig)
	if !ok {
		return nil, fmt.Errorf("material resource %q carried unexpected payload", name)
	}
	return ms.AcquireFromConfig(config)
}

// AcquireFromConfig registers an in-memory material configuration.
func (ms *MaterialSystem) AcquireFromConfig(config *metadata.MaterialConfig) (*metadata.Material, error) {
	if material, exists := ms.materials[config.Name]; exists {
		return material, nil
	}

	slot, err := ms.allocator.Acquire(config.Name)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", config.Name, err)
	}

	material := &metadata.Material{
		Name:          config.Name,
		Slot:          slot,
		DiffuseAlbedo: math.NewVec4(config.DiffuseColour[0], config.DiffuseColour[1], config.DiffuseColour[2], config.DiffuseColour[3]),
		FresnelR0:     math.NewVec3(config.FresnelR0[0], config.FresnelR0[1], config.FresnelR0[2]),
		Roughness:     config.Roughness,
		TextureSlot:   metadata.InvalidID,
		DirtyFrames:   ms.ringDepth,
	}
	ms.materials[config.Name] = material
	core.LogDebug("material %q registered in slot %d", config.Name, slot)
	return material, nil
}

// SetRoughness mutates the material and restarts its dirty counter so
// the new constants reach every frame resource.
func (ms *MaterialSystem) SetRoughness(material *metadata.Material, roughness float32) {
	material.Roughness = roughness
	material.DirtyFrames = ms.ringDepth
}

// SetDiffuseAlbedo mutates the material's base colour.
func (ms *MaterialSystem) SetDiffuseAlbedo(material *metadata.Material, albedo math.Vec4) {
	material.DiffuseAlbedo = albedo
	material.DirtyFrames = ms.ringDepth
}

// All returns every registered material. Iteration order is not
// defined; callers that need slot order index by Slot.
func (ms *MaterialSystem) All() []*metadata.Material {
	out := make([]*metadata.Material, 0, len(ms.materials))
	for _, m := range ms.materials {
		out = append(out, m)
	}
	return out
}

func (ms *MaterialSystem) Count() uint32 { return ms.allocator.Count() }
