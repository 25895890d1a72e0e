package systems

import (
	"fmt"

	"github.com/citadelgfx/citadel/engine/assets"
	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// TextureSystem owns the texture table. Each loaded texture gets a
// stable slot in the shader-visible texture table; reloading a texture
// bumps its generation instead of moving it.
type TextureSystem struct {
	assetManager *assets.AssetManager
	allocator    *core.SlotAllocator
	textures     map[string]*metadata.Texture
}

type TextureSystemConfig struct {
	MaxTextureCount uint32
}

func NewTextureSystem(config *TextureSystemConfig, assetManager *assets.AssetManager) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogWarn(err.Error())
		return nil, err
	}
	return &TextureSystem{
		assetManager: assetManager,
		allocator:    core.NewSlotAllocator(config.MaxTextureCount),
		textures:     make(map[string]*metadata.Texture),
	}, nil
}

// Acquire loads the named image file and registers it. Acquiring an
// already loaded texture returns the existing entry.
func (ts *TextureSystem) Acquire(filename string) (*metadata.Texture, error) {
	if texture, exists := ts.textures[filename]; exists {
		return texture, nil
	}

	resource, err := ts.assetManager.LoadAsset(filename, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true})
	if err != nil {
		return nil, err
	}
	data, ok := resource.Data.(*metadata.ImageResourceData)
	if !ok {
		return nil, fmt.Errorf("image resource %q carried unexpected payload", filename)
	}

	slot, err := ts.allocator.Acquire(filename)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", filename, err)
	}

	texture := &metadata.Texture{
		Name:         filename,
		Slot:         slot,
		Width:        data.Width,
		Height:       data.Height,
		ChannelCount: data.ChannelCount,
		Pixels:       data.Pixels,
		Generation:   0,
	}
	ts.textures[filename] = texture
	core.LogDebug("texture %q loaded into slot %d (%dx%d)", filename, slot, data.Width, data.Height)
	return texture, nil
}

// Reload refreshes a texture's pixels in place and bumps its
// generation.
func (ts *TextureSystem) Reload(filename string) error {
	texture, exists := ts.textures[filename]
	if !exists {
		return fmt.Errorf("texture %q not loaded", filename)
	}
	resource, err := ts.assetManager.LoadAsset(filename, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true})
	if err != nil {
		return err
	}
	data, ok := resource.Data.(*metadata.ImageResourceData)
	if !ok {
		return fmt.Errorf("image resource %q carried unexpected payload", filename)
	}
	texture.Width = data.Width
	texture.Height = data.Height
	texture.ChannelCount = data.ChannelCount
	texture.Pixels = data.Pixels
	texture.Generation++
	return nil
}

func (ts *TextureSystem) Count() uint32 { return ts.allocator.Count() }
