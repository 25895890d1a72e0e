// Package testbed holds the demo scenes. Both demos draw the same
// castle; they differ in how constants reach the shaders.
package testbed

import (
	"github.com/citadelgfx/citadel/engine/math"
	"github.com/citadelgfx/citadel/engine/systems"
)

// Geometry part names inside the shared castle mesh.
const (
	PartGrid     = "grid"
	PartBox      = "box"
	PartTower    = "tower"
	PartSpire    = "spire"
	PartSphere   = "sphere"
	PartTreeQuad = "tree"
)

// CastleItem places one part of the castle.
type CastleItem struct {
	Name     string
	Part     string
	Material string
	World    math.Mat4
}

// BuildCastleGeometry registers the part meshes the castle layout draws
// from, concatenated into one shared buffer.
func BuildCastleGeometry(gs *systems.GeometrySystem) error {
	_, err := gs.Register("castle", []systems.NamedGeometry{
		{Name: PartGrid, Data: systems.GenerateGrid(60, 60, 40, 40)},
		{Name: PartBox, Data: systems.GenerateBox(1, 1, 1)},
		{Name: PartTower, Data: systems.GenerateCylinder(1.2, 1.0, 6, 16, 4)},
		{Name: PartSpire, Data: systems.GenerateCylinder(1.4, 0.0, 2.5, 16, 2)},
		{Name: PartSphere, Data: systems.GenerateSphere(0.6, 16, 16)},
		{Name: PartTreeQuad, Data: systems.GenerateQuad(4, 4)},
	})
	return err
}

func place(name, part, material string, scale, position math.Vec3) CastleItem {
	return CastleItem{
		Name:     name,
		Part:     part,
		Material: material,
		World:    math.NewMat4Scale(scale).Mul(math.NewMat4Translation(position)),
	}
}

// CastleLayout returns the castle's 27 drawables: a ground plane, the
// keep with its gate, four corner towers capped by spires and orbs,
// four curtain walls and eight battlements.
func CastleLayout() []CastleItem {
	items := []CastleItem{
		place("ground", PartGrid, "grass", math.NewVec3One(), math.NewVec3Zero()),
		place("keep", PartBox, "bricks", math.NewVec3(6, 8, 6), math.NewVec3(0, 4, 0)),
		place("gate", PartBox, "woodCrate", math.NewVec3(2, 3, 0.5), math.NewVec3(0, 1.5, -8.25)),
	}

	corners := []math.Vec3{
		{X: -8, Z: -8}, {X: 8, Z: -8}, {X: -8, Z: 8}, {X: 8, Z: 8},
	}
	names := []string{"sw", "se", "nw", "ne"}
	for i, c := range corners {
		items = append(items,
			place("tower_"+names[i], PartTower, "bricks",
				math.NewVec3One(), math.NewVec3(c.X, 3, c.Z)),
			place("spire_"+names[i], PartSpire, "marble",
				math.NewVec3One(), math.NewVec3(c.X, 7.25, c.Z)),
			place("orb_"+names[i], PartSphere, "marble",
				math.NewVec3One(), math.NewVec3(c.X, 9, c.Z)),
		)
	}

	// Curtain walls between the towers, two battlements each.
	walls := []struct {
		name  string
		scale math.Vec3
		pos   math.Vec3
	}{
		{"wall_n", math.NewVec3(16, 4, 1), math.NewVec3(0, 2, 8)},
		{"wall_s", math.NewVec3(16, 4, 1), math.NewVec3(0, 2, -8)},
		{"wall_w", math.NewVec3(1, 4, 16), math.NewVec3(-8, 2, 0)},
		{"wall_e", math.NewVec3(1, 4, 16), math.NewVec3(8, 2, 0)},
	}
	for _, w := range walls {
		items = append(items, place(w.name, PartBox, "bricks", w.scale, w.pos))
	}
	battlements := []struct {
		name string
		pos  math.Vec3
	}{
		{"bat_n1", math.NewVec3(-4, 4.5, 8)}, {"bat_n2", math.NewVec3(4, 4.5, 8)},
		{"bat_s1", math.NewVec3(-4, 4.5, -8)}, {"bat_s2", math.NewVec3(4, 4.5, -8)},
		{"bat_w1", math.NewVec3(-8, 4.5, -4)}, {"bat_w2", math.NewVec3(-8, 4.5, 4)},
		{"bat_e1", math.NewVec3(8, 4.5, -4)}, {"bat_e2", math.NewVec3(8, 4.5, 4)},
	}
	for _, b := range battlements {
		items = append(items, place(b.name, PartBox, "bricks", math.NewVec3(1.5, 1, 1.5), b.pos))
	}

	return items
}

// TreeLayout returns billboarded tree sprites scattered outside the
// walls, used by the textured demo.
func TreeLayout() []CastleItem {
	positions := []math.Vec3{
		{X: -14, Y: 2, Z: -12}, {X: 13, Y: 2, Z: -14},
		{X: -12, Y: 2, Z: 14}, {X: 15, Y: 2, Z: 12},
	}
	items := make([]CastleItem, 0, len(positions))
	for i, p := range positions {
		items = append(items, place("tree_"+string(rune('a'+i)), PartTreeQuad, "treeSprites", math.NewVec3One(), p))
	}
	return items
}
