package world

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/components"
)

// View is where the scene is seen from this frame. Zero clip distances fall
// back to the scene settings.
type View struct {
	Position rl.Vector3
	Near     float32
	Far      float32
}

func (s *Scene) clip(v View) (near, far float32) {
	near, far = v.Near, v.Far
	if near <= 0 {
		near = s.settings.NearClip
	}
	if far <= 0 {
		far = s.settings.FarClip
	}
	return near, far
}

// updateTerrainLOD picks each chunk's LOD from its distance to the viewer.
// This is the only place CurrentLOD is written.
func (s *Scene) updateTerrainLOD(v View) {
	near, far := s.clip(v)
	for rec, t := range s.terrains.Live() {
		world, _ := s.hier.WorldTransform(rec.Node)
		for i := range t.Chunks {
			c := &t.Chunks[i]
			center := rl.Vector3Transform(c.Center, world)
			d := rl.Vector3Distance(v.Position, center)
			c.CurrentLOD = components.SelectLOD(d, t.LODCount, near, far)
		}
	}
}
