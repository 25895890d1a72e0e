package metadata

// InvalidID marks an unassigned identifier.
const InvalidID uint32 = 0xFFFFFFFF

// Texture holds decoded pixel data plus its slot in the shader-visible
// texture table. The table slot works like a constant-buffer slot:
// assigned once, stable for the texture's lifetime.
type Texture struct {
	Name         string
	Slot         uint32
	Width        uint32
	Height       uint32
	ChannelCount uint8
	// RGBA8, row-major.
	Pixels     []uint8
	Generation uint32
}
