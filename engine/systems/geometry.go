package systems

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/math"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// GeometrySystem generates procedural meshes and concatenates them into
// shared vertex/index buffers addressed through submeshes.
type GeometrySystem struct {
	registered map[string]*metadata.MeshGeometry
}

func NewGeometrySystem() (*GeometrySystem, error) {
	return &GeometrySystem{
		registered: make(map[string]*metadata.MeshGeometry),
	}, nil
}

func (gs *GeometrySystem) Acquire(name string) (*metadata.MeshGeometry, error) {
	geometry, exists := gs.registered[name]
	if !exists {
		return nil, fmt.Errorf("geometry %q not registered", name)
	}
	return geometry, nil
}

// Register concatenates the named parts into one MeshGeometry. Submesh
// offsets record where each part landed so draws can address parts
// individually. Parts are laid out in the order given.
func (gs *GeometrySystem) Register(name string, parts []NamedGeometry) (*metadata.MeshGeometry, error) {
	if name == "" {
		name = uuid.New().String()
	}
	if _, exists := gs.registered[name]; exists {
		return nil, fmt.Errorf("geometry %q already registered", name)
	}

	geometry := &metadata.MeshGeometry{
		Name:      name,
		Submeshes: make(map[string]metadata.Submesh),
	}

	var vertexOffset int32
	var indexOffset uint32
	for _, part := range parts {
		geometry.Submeshes[part.Name] = metadata.Submesh{
			IndexCount: uint32(len(part.Data.Indices)),
			StartIndex: indexOffset,
			BaseVertex: vertexOffset,
		}
		geometry.Vertices = append(geometry.Vertices, part.Data.Vertices...)
		geometry.Indices = append(geometry.Indices, part.Data.Indices...)
		vertexOffset += int32(len(part.Data.Vertices))
		indexOffset += uint32(len(part.Data.Indices))
	}

	gs.registered[name] = geometry
	core.LogDebug("registered geometry %q, %d vertices, %d indices, %d submeshes",
		name, len(geometry.Vertices), len(geometry.Indices), len(parts))
	return geometry, nil
}

type NamedGeometry struct {
	Name string
	Data metadata.GeometryData
}

// GenerateBox builds an axis-aligned box centred at the origin.
func GenerateBox(width, height, depth float32) metadata.GeometryData {
	w2, h2, d2 := width/2, height/2, depth/2

	v := make([]math.Vertex, 24)
	// Front face.
	v[0] = vertex(-w2, -h2, -d2, 0, 0, -1, 0, 1)
	v[1] = vertex(-w2, h2, -d2, 0, 0, -1, 0, 0)
	v[2] = vertex(w2, h2, -d2, 0, 0, -1, 1, 0)
	v[3] = vertex(w2, -h2, -d2, 0, 0, -1, 1, 1)
	// Back face.
	v[4] = vertex(-w2, -h2, d2, 0, 0, 1, 1, 1)
	v[5] = vertex(w2, -h2, d2, 0, 0, 1, 0, 1)
	v[6] = vertex(w2, h2, d2, 0, 0, 1, 0, 0)
	v[7] = vertex(-w2, h2, d2, 0, 0, 1, 1, 0)
	// Top face.
	v[8] = vertex(-w2, h2, -d2, 0, 1, 0, 0, 1)
	v[9] = vertex(-w2, h2, d2, 0, 1, 0, 0, 0)
	v[10] = vertex(w2, h2, d2, 0, 1, 0, 1, 0)
	v[11] = vertex(w2, h2, -d2, 0, 1, 0, 1, 1)
	// Bottom face.
	v[12] = vertex(-w2, -h2, -d2, 0, -1, 0, 1, 1)
	v[13] = vertex(w2, -h2, -d2, 0, -1, 0, 0, 1)
	v[14] = vertex(w2, -h2, d2, 0, -1, 0, 0, 0)
	v[15] = vertex(-w2, -h2, d2, 0, -1, 0, 1, 0)
	// Left face.
	v[16] = vertex(-w2, -h2, d2, -1, 0, 0, 0, 1)
	v[17] = vertex(-w2, h2, d2, -1, 0, 0, 0, 0)
	v[18] = vertex(-w2, h2, -d2, -1, 0, 0, 1, 0)
	v[19] = vertex(-w2, -h2, -d2, -1, 0, 0, 1, 1)
	// Right face.
	v[20] = vertex(w2, -h2, -d2, 1, 0, 0, 0, 1)
	v[21] = vertex(w2, h2, -d2, 1, 0, 0, 0, 0)
	v[22] = vertex(w2, h2, d2, 1, 0, 0, 1, 0)
	v[23] = vertex(w2, -h2, d2, 1, 0, 0, 1, 1)

	indices := []uint32{
		0, 1, 2, 0, 2, 3, // front
		4, 5, 6, 4, 6, 7, // back
		8, 9, 10, 8, 10, 11, // top
		12, 13, 14, 12, 14, 15, // bottom
		16, 17, 18, 16, 18, 19, // left
		20, 21, 22, 20, 22, 23, // right
	}

	return metadata.GeometryData{Vertices: v, Indices: indices}
}

// GenerateGrid builds an m x n grid of quads in the xz-plane centred at
// the origin.
func GenerateGrid(width, depth float32, m, n uint32) metadata.GeometryData {
	vertexCount := m * n
	faceCount := (m - 1) * (n - 1) * 2

	halfWidth := 0.5 * width
	halfDepth := 0.5 * depth

	dx := width / float32(n-1)
	dz := depth / float32(m-1)
	du := 1.0 / float32(n-1)
	dv := 1.0 / float32(m-1)

	vertices := make([]math.Vertex, vertexCount)
	for i := uint32(0); i < m; i++ {
		z := halfDepth - float32(i)*dz
		for j := uint32(0); j < n; j++ {
			x := -halfWidth + float32(j)*dx
			vertices[i*n+j] = vertex(x, 0, z, 0, 1, 0, float32(j)*du, float32(i)*dv)
		}
	}

	indices := make([]uint32, 0, faceCount*3)
	for i := uint32(0); i < m-1; i++ {
		for j := uint32(0); j < n-1; j++ {
			indices = append(indices,
				i*n+j, i*n+j+1, (i+1)*n+j,
				(i+1)*n+j, i*n+j+1, (i+1)*n+j+1,
			)
		}
	}

	return metadata.GeometryData{Vertices: vertices, Indices: indices}
}

// GenerateCylinder builds a cylinder along the y-axis, bottom at
// -height/2. A topRadius of zero yields a cone; four slices with a zero
// topRadius yield a pyramid.
func GenerateCylinder(bottomRadius, topRadius, height float32, sliceCount, stackCount uint32) metadata.GeometryData {
	var vertices []math.Vertex
	var indices []uint32

	stackHeight := height / float32(stackCount)
	radiusStep := (topRadius - bottomRadius) / float32(stackCount)
	ringCount := stackCount + 1

	for i := uint32(0); i < ringCount; i++ {
		y := -0.5*height + float32(i)*stackHeight
		r := bottomRadius + float32(i)*radiusStep

		dTheta := 2.0 * math.Pi / float32(sliceCount)
		for j := uint32(0); j <= sliceCount; j++ {
			c := math.Cos(float32(j) * dTheta)
			s := math.Sin(float32(j) * dTheta)

			// Normal from the slant parameterization.
			dr := bottomRadius - topRadius
			bitangent := math.NewVec3(dr*c, -height, dr*s)
			tangent := math.NewVec3(-s, 0, c)
			normal := tangent.Cross(bitangent).Normalized()

			vertices = append(vertices, math.Vertex{
				Position: math.NewVec3(r*c, y, r*s),
				Colour:   math.NewVec4(1, 1, 1, 1),
				Normal:   normal,
				Texcoord: math.NewVec2(float32(j)/float32(sliceCount), 1.0-float32(i)/float32(stackCount)),
			})
		}
	}

	ringVertexCount := sliceCount + 1
	for i := uint32(0); i < stackCount; i++ {
		for j := uint32(0); j < sliceCount; j++ {
			indices = append(indices,
				i*ringVertexCount+j, (i+1)*ringVertexCount+j, (i+1)*ringVertexCount+j+1,
				i*ringVertexCount+j, (i+1)*ringVertexCount+j+1, i*ringVertexCount+j+1,
			)
		}
	}

	vertices, indices = buildCylinderCap(vertices, indices, topRadius, 0.5*height, sliceCount, true)
	vertices, indices = buildCylinderCap(vertices, indices, bottomRadius, -0.5*height, sliceCount, false)

	return metadata.GeometryData{Vertices: vertices, Indices: indices}
}

func buildCylinderCap(vertices []math.Vertex, indices []uint32, radius, y float32, sliceCount uint32, top bool) ([]math.Vertex, []uint32) {
	baseIndex := uint32(len(vertices))
	ny := float32(1)
	if !top {
		ny = -1
	}

	dTheta := 2.0 * math.Pi / float32(sliceCount)
	for i := uint32(0); i <= sliceCount; i++ {
		x := radius * math.Cos(float32(i)*dTheta)
		z := radius * math.Sin(float32(i)*dTheta)
		vertices = append(vertices, vertex(x, y, z, 0, ny, 0, x/(radius+1)*0.5+0.5, z/(radius+1)*0.5+0.5))
	}
	// Centre vertex.
	vertices = append(vertices, vertex(0, y, 0, 0, ny, 0, 0.5, 0.5))
	centerIndex := uint32(len(vertices)) - 1

	for i := uint32(0); i < sliceCount; i++ {
		if top {
			indices = append(indices, centerIndex, baseIndex+i+1, baseIndex+i)
		} else {
			indices = append(indices, centerIndex, baseIndex+i, baseIndex+i+1)
		}
	}
	return vertices, indices
}

// GenerateSphere builds a uv-sphere of the given radius.
func GenerateSphere(radius float32, sliceCount, stackCount uint32) metadata.GeometryData {
	var vertices []math.Vertex
	var indices []uint32

	vertices = append(vertices, vertex(0, radius, 0, 0, 1, 0, 0, 0))

	phiStep := math.Pi / float32(stackCount)
	thetaStep := 2.0 * math.Pi / float32(sliceCount)

	for i := uint32(1); i < stackCount; i++ {
		phi := float32(i) * phiStep
		for j := uint32(0); j <= sliceCount; j++ {
			theta := float32(j) * thetaStep
			position := math.NewVec3(
				radius*math.Sin(phi)*math.Cos(theta),
				radius*math.Cos(phi),
				radius*math.Sin(phi)*math.Sin(theta),
			)
			vertices = append(vertices, math.Vertex{
				Position: position,
				Colour:   math.NewVec4(1, 1, 1, 1),
				Normal:   position.Normalized(),
				Texcoord: math.NewVec2(theta/(2.0*math.Pi), phi/math.Pi),
			})
		}
	}

	vertices = append(vertices, vertex(0, -radius, 0, 0, -1, 0, 0, 1))

	// Top pole fan.
	for i := uint32(1); i <= sliceCount; i++ {
		indices = append(indices, 0, i+1, i)
	}

	// Interior stacks.
	baseIndex := uint32(1)
	ringVertexCount := sliceCount + 1
	for i := uint32(0); i < stackCount-2; i++ {
		for j := uint32(0); j < sliceCount; j++ {
			indices = append(indices,
				baseIndex+i*ringVertexCount+j,
				baseIndex+i*ringVertexCount+j+1,
				baseIndex+(i+1)*ringVertexCount+j,
				baseIndex+(i+1)*ringVertexCount+j,
				baseIndex+i*ringVertexCount+j+1,
				baseIndex+(i+1)*ringVertexCount+j+1,
			)
		}
	}

	// Bottom pole fan.
	southPoleIndex := uint32(len(vertices)) - 1
	baseIndex = southPoleIndex - ringVertexCount
	for i := uint32(0); i < sliceCount; i++ {
		indices = append(indices, southPoleIndex, baseIndex+i, baseIndex+i+1)
	}

	return metadata.GeometryData{Vertices: vertices, Indices: indices}
}

// GenerateQuad builds a camera-facing unit quad in the xy-plane, used
// for billboarded sprites.
func GenerateQuad(width, height float32) metadata.GeometryData {
	w2, h2 := width/2, height/2
	return metadata.GeometryData{
		Vertices: []math.Vertex{
			vertex(-w2, -h2, 0, 0, 0, -1, 0, 1),
			vertex(-w2, h2, 0, 0, 0, -1, 0, 0),
			vertex(w2, h2, 0, 0, 0, -1, 1, 0),
			vertex(w2, -h2, 0, 0, 0, -1, 1, 1),
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

func vertex(px, py, pz, nx, ny, nz, u, v float32) math.Vertex {
	return math.Vertex{
		Position: math.NewVec3(px, py, pz),
		Colour:   math.NewVec4(1, 1, 1, 1),
		Normal:   math.NewVec3(nx, ny, nz),
		Texcoord: math.NewVec2(u, v),
	}
}
