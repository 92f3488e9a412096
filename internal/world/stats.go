package world

import "scene3d/internal/components"

// Stats describes the scene's contents and the work done in the last frame.
type Stats struct {
	Nodes    int
	Live     map[components.Kind]int
	Visible  int // entries returned by the last render-data query
	Culled   int // entries rejected by its culling volume
	Skipped  int // entries without a loaded resource
	Pairs    int // volume x hit-sphere pairs overlap-tested by the last Update
	Triggers int // transitions fired by the last Update
	GPU      bool
}

func (st *Stats) beginFrame() {
	st.Pairs, st.Triggers, st.GPU = 0, 0, false
}

// Stats returns a snapshot of the scene's counters. A nil scene has none.
func (s *Scene) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	out := s.stats
	out.Nodes = len(s.sources)
	out.Live = map[components.Kind]int{
		components.KindStaticMesh:       s.meshes.Count(),
		components.KindTerrain:          s.terrains.Count(),
		components.KindSkybox:           s.skyboxes.Count(),
		components.KindDirectionalLight: s.dirLights.Count(),
		components.KindPointLight:       s.pointLights.Count(),
		components.KindAudioEmitter:     s.emitters.Count(),
		components.KindWaterPlane:       s.waters.Count(),
		components.KindVolume:           s.volumes.Count(),
		components.KindHitSphere:        s.hitSpheres.Count(),
	}
	return out
}
