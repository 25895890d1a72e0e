package metadata

import "github.com/citadelgfx/citadel/engine/math"

// The name of the default material.
const DefaultMaterialName string = "default"

// MaterialConfig is a material definition, typically loaded from a TOML
// asset file.
type MaterialConfig struct {
	Name          string     `toml:"name"`
	DiffuseColour [4]float32 `toml:"diffuse_colour"`
	FresnelR0     [3]float32 `toml:"fresnel_r0"`
	Roughness     float32    `toml:"roughness"`
	DiffuseMap    string     `toml:"diffuse_map"`
}

// Material represents the surface properties shared by render items.
// Slot is the material's stable index into every frame slot's material
// constant buffer; DirtyFrames counts how many frame slots still hold a
// stale record after a mutation.
type Material struct {
	Name          string
	Slot          uint32
	DiffuseAlbedo math.Vec4
	FresnelR0     math.Vec3
	Roughness     float32
	// Index of the diffuse texture in the shader-visible texture table.
	TextureSlot uint32
	DirtyFrames int
}

// Constants builds the GPU record from the authoritative fields.
func (m *Material) Constants() MaterialConstants {
	return MaterialConstants{
		DiffuseAlbedo: m.DiffuseAlbedo,
		FresnelR0:     m.FresnelR0,
		Roughness:     m.Roughness,
	}
}
