package world

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/engine"
	"scene3d/internal/physics"
)

// Hit is one static mesh a ray passes through.
type Hit struct {
	Distance float32
	Position rl.Vector3
	Node     engine.Handle
	// Parent is the node's parent, or InvalidHandle for a root. Editors move
	// the parent when a child part is picked.
	Parent     engine.Handle
	Attachment engine.Handle
}

// Raycast tests ray against the oriented bounds of every loaded static mesh
// and returns the hits nearest first. ok is false when nothing was hit.
// The slice is valid until the next Update or BeginFrame.
func (s *Scene) Raycast(ray rl.Ray) (hits []Hit, ok bool, err error) {
	if err := s.queryable(); err != nil {
		return nil, false, fmt.Errorf("raycast: %w", err)
	}

	start := len(s.arena.hits)
	for rec, m := range s.meshes.Live() {
		if !s.resourceReady(m.MeshAsset, m.Mesh) {
			continue
		}
		local, ok := s.assets.Bounds(m.MeshAsset)
		if !ok {
			continue
		}
		world, _ := s.hier.WorldTransform(rec.Node)
		dist, hit := physics.RayOBB(ray, physics.NewOBBFromMatrix(local, world))
		if !hit {
			continue
		}
		parent, _ := s.hier.ParentOf(rec.Node)
		s.arena.hits = append(s.arena.hits, Hit{
			Distance:   dist,
			Position:   rl.Vector3Add(ray.Position, rl.Vector3Scale(ray.Direction, dist)),
			Node:       rec.Node,
			Parent:     parent,
			Attachment: rec.Resource,
		})
	}

	hits = tail(s.arena.hits, start)
	sortHits(hits)
	return hits, len(hits) > 0, nil
}

// sortHits is an exchange sort: hit lists are short, and equal distances
// keep their pool order.
func sortHits(hits []Hit) {
	for i := len(hits) - 1; i > 0; i-- {
		swapped := false
		for j := 0; j < i; j++ {
			if hits[j].Distance > hits[j+1].Distance {
				hits[j], hits[j+1] = hits[j+1], hits[j]
				swapped = true
			}
		}
		if !swapped {
			return
		}
	}
}
