package metadata

import (
	"github.com/citadelgfx/citadel/engine/math"
)

// The name of the default geometry.
const DefaultGeometryName string = "default"

// Submesh is one named draw range inside a concatenated vertex/index
// buffer pair.
type Submesh struct {
	// Number of indices read for the draw.
	IndexCount uint32
	// Location of the first index read.
	StartIndex uint32
	// Value added to each index before reading a vertex.
	BaseVertex int32
}

// GeometryData is one generated shape before concatenation.
type GeometryData struct {
	Vertices []math.Vertex
	Indices  []uint32
}

// MeshGeometry groups multiple shapes into one shared vertex/index
// buffer with named submesh ranges. Multiple render items may reference
// the same MeshGeometry.
type MeshGeometry struct {
	Name      string
	Vertices  []math.Vertex
	Indices   []uint32
	Submeshes map[string]Submesh
}

// DrawArgs returns the draw range for a named submesh.
func (mg *MeshGeometry) DrawArgs(name string) (Submesh, bool) {
	sm, ok := mg.Submeshes[name]
	return sm, ok
}
