package metadata

import "github.com/citadelgfx/citadel/engine/math"

// RenderItem is one drawable instance: a transform, a draw range into a
// shared geometry buffer, and an optional material link.
//
// ObjectSlot is the item's index into every frame slot's object constant
// buffer. It is identical across all frame slots, assigned once at
// creation and never reused.
//
// DirtyFrames tracks how many frame slots still hold a stale constant
// record. Any transform mutation resets it to the ring depth so the new
// value propagates into every slot's buffer; the update pass decrements
// it once per frame. It is a saturating "frames remaining to refresh",
// not a set-once flag.
type RenderItem struct {
	Name         string
	World        math.Mat4
	TexTransform math.Mat4
	ObjectSlot   uint32
	DirtyFrames  int

	Geometry *MeshGeometry
	Material *Material

	// Draw range, resolved from the geometry's submesh table at
	// creation time.
	IndexCount uint32
	StartIndex uint32
	BaseVertex int32
}

// Constants builds the GPU record from the authoritative fields.
// Matrices are stored transposed, matching the shader convention.
func (ri *RenderItem) Constants() ObjectConstants {
	return ObjectConstants{
		World:        ri.World.Transposed(),
		TexTransform: ri.TexTransform.Transposed(),
	}
}
