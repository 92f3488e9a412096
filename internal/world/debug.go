package world

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/components"
	"scene3d/internal/engine"
	"scene3d/internal/physics"
)

type DebugKind int

const (
	DebugBox DebugKind = iota
	DebugSphere
)

// DebugShape is a wireframe an editor can draw over the scene.
type DebugShape struct {
	Kind   DebugKind
	Source components.Kind
	Node   engine.Handle
	Box    physics.AABB // DebugBox
	Center rl.Vector3   // DebugSphere
	Radius float32
	Color  rl.Color
}

var debugColors = map[components.Kind]rl.Color{
	components.KindStaticMesh: rl.Green,
	components.KindTerrain:    rl.DarkGreen,
	components.KindWaterPlane: rl.SkyBlue,
	components.KindVolume:     rl.Orange,
	components.KindHitSphere:  rl.Red,
	components.KindPointLight: rl.Yellow,
}

// QueryDebugGeometry returns bounds for loaded meshes, terrain chunks and
// water planes, trigger volumes (yellow while something overlaps them), hit
// spheres and point light radii.
func (s *Scene) QueryDebugGeometry() ([]DebugShape, error) {
	if err := s.queryable(); err != nil {
		return nil, fmt.Errorf("query debug geometry: %w", err)
	}
	start := len(s.arena.debug)
	box := func(k components.Kind, node engine.Handle, b physics.AABB) {
		s.arena.debug = append(s.arena.debug, DebugShape{Kind: DebugBox, Source: k, Node: node, Box: b, Color: debugColors[k]})
	}
	sphere := func(k components.Kind, node engine.Handle, c rl.Vector3, r float32, col rl.Color) {
		s.arena.debug = append(s.arena.debug, DebugShape{Kind: DebugSphere, Source: k, Node: node, Center: c, Radius: r, Color: col})
	}

	for rec, m := range s.meshes.Live() {
		if !s.resourceReady(m.MeshAsset, m.Mesh) {
			continue
		}
		local, ok := s.assets.Bounds(m.MeshAsset)
		if !ok {
			continue
		}
		world, _ := s.hier.WorldTransform(rec.Node)
		box(components.KindStaticMesh, rec.Node, local.Transform(world))
	}
	for rec, t := range s.terrains.Live() {
		world, _ := s.hier.WorldTransform(rec.Node)
		for _, c := range t.Chunks {
			box(components.KindTerrain, rec.Node, c.Bounds.Transform(world))
		}
	}
	for rec, w := range s.waters.Live() {
		world, _ := s.hier.WorldTransform(rec.Node)
		box(components.KindWaterPlane, rec.Node, w.Bounds().Transform(world))
	}
	for rec, v := range s.volumes.Live() {
		world, _ := s.hier.WorldTransform(rec.Node)
		col := debugColors[components.KindVolume]
		if len(v.Overlaps) > 0 {
			col = rl.Yellow
		}
		switch v.Shape {
		case components.ShapeSphere:
			sphere(components.KindVolume, rec.Node, origin(world), v.Radius, col)
		case components.ShapeBox:
			local := physics.AABB{Min: rl.Vector3Negate(v.Extents), Max: v.Extents}
			s.arena.debug = append(s.arena.debug, DebugShape{
				Kind: DebugBox, Source: components.KindVolume, Node: rec.Node, Box: local.Transform(world), Color: col,
			})
		}
	}
	for rec, h := range s.hitSpheres.Live() {
		world, _ := s.hier.WorldTransform(rec.Node)
		sphere(components.KindHitSphere, rec.Node, origin(world), h.Radius, debugColors[components.KindHitSphere])
	}
	for rec, l := range s.pointLights.Live() {
		world, _ := s.hier.WorldTransform(rec.Node)
		sphere(components.KindPointLight, rec.Node, origin(world), l.Radius, debugColors[components.KindPointLight])
	}
	return tail(s.arena.debug, start), nil
}
