package world

import (
	"fmt"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/components"
	"scene3d/internal/engine"
	"scene3d/internal/physics"
)

type TriggerPhase int

const (
	TriggerEnter TriggerPhase = iota
	TriggerUpdate
	TriggerLeave
)

func (p TriggerPhase) String() string {
	switch p {
	case TriggerEnter:
		return "enter"
	case TriggerUpdate:
		return "update"
	case TriggerLeave:
		return "leave"
	}
	return fmt.Sprintf("TriggerPhase(%d)", int(p))
}

// TriggerEvent describes one volume/hit-sphere transition.
type TriggerEvent struct {
	Phase      TriggerPhase
	Volume     engine.Handle // volume attachment
	VolumeNode engine.Handle
	Sphere     engine.Handle // hit-sphere attachment
	SphereNode engine.Handle // InvalidHandle if the sphere was detached
	Command    string
	Err        error // from running Command
}

// Candidate is a (volume, probe) index pair whose spheres overlap.
type Candidate struct {
	Volume, Probe int
}

// CandidateFinder computes every overlapping (volume, probe) pair in one
// batch, typically on the GPU. Pairs are then filtered by tags on the CPU.
type CandidateFinder interface {
	FindCandidates(volumes, probes []physics.Sphere) ([]Candidate, error)
}

type liveVolume struct {
	rec *Record
	v   *components.Volume
	pos rl.Vector3
}

type liveProbe struct {
	rec *Record
	s   physics.Sphere
}

// updateTriggers advances the enter/update/leave state of every
// (volume, hit sphere) pair whose tags match.
func (s *Scene) updateTriggers() {
	var vols []liveVolume
	for rec, v := range s.volumes.Live() {
		world, _ := s.hier.WorldTransform(rec.Node)
		vols = append(vols, liveVolume{rec: rec, v: v, pos: origin(world)})
	}
	if len(vols) == 0 {
		return
	}
	var probes []liveProbe
	for rec, h := range s.hitSpheres.Live() {
		world, _ := s.hier.WorldTransform(rec.Node)
		probes = append(probes, liveProbe{rec: rec, s: physics.Sphere{Center: origin(world), Radius: h.Radius}})
	}

	// Spheres detached while inside a volume leave exactly once.
	for _, lv := range vols {
		for _, h := range slices.Clone(lv.v.Overlaps) {
			if !s.hitSpheres.Contains(h) {
				lv.v.RemoveOverlap(h)
				s.fireTrigger(TriggerLeave, lv, h, engine.InvalidHandle, lv.v.OnLeave)
			}
		}
	}

	candidates := s.gpuCandidates(vols, probes)
	for vi, lv := range vols {
		for pi, p := range probes {
			if !lv.v.Filter.Intersects(p.rec.Tags) {
				continue
			}
			s.stats.Pairs++

			var overlapping bool
			if candidates != nil {
				_, overlapping = candidates[Candidate{Volume: vi, Probe: pi}]
			} else {
				overlapping = volumeOverlaps(lv, p.s)
			}
			s.stepTrigger(lv, p, overlapping)
		}
	}
}

// volumeOverlaps tests a hit sphere against a volume. Box volumes never
// report an overlap: there is no sphere/box test yet.
func volumeOverlaps(lv liveVolume, probe physics.Sphere) bool {
	switch lv.v.Shape {
	case components.ShapeSphere:
		return physics.Sphere{Center: lv.pos, Radius: lv.v.Radius}.Overlaps(probe)
	default:
		return false
	}
}

func (s *Scene) stepTrigger(lv liveVolume, p liveProbe, overlapping bool) {
	h := p.rec.Resource
	was := lv.v.Overlapping(h)
	switch {
	case overlapping && !was:
		lv.v.AddOverlap(h)
		s.fireTrigger(TriggerEnter, lv, h, p.rec.Node, lv.v.OnEnter)
	case overlapping && was:
		s.fireTrigger(TriggerUpdate, lv, h, p.rec.Node, lv.v.OnUpdate)
	case !overlapping && was:
		lv.v.RemoveOverlap(h)
		s.fireTrigger(TriggerLeave, lv, h, p.rec.Node, lv.v.OnLeave)
	}
}

func (s *Scene) fireTrigger(phase TriggerPhase, lv liveVolume, sphere, sphereNode engine.Handle, cmd string) {
	ev := TriggerEvent{
		Phase:      phase,
		Volume:     lv.rec.Resource,
		VolumeNode: lv.rec.Node,
		Sphere:     sphere,
		SphereNode: sphereNode,
		Command:    cmd,
	}
	if cmd != "" && s.ctx.Commands != nil {
		if err := s.ctx.Commands.Execute(cmd); err != nil {
			s.logger.Warn("trigger command failed", "phase", phase, "command", cmd, "error", err)
			ev.Err = err
		}
	}
	s.stats.Triggers++
	s.Triggers.Invoke(ev)
}

// gpuCandidates runs the candidate finder when the pair count is large
// enough. It returns nil when the CPU loop should decide instead.
func (s *Scene) gpuCandidates(vols []liveVolume, probes []liveProbe) map[Candidate]struct{} {
	if s.finder == nil || s.finderThreshold <= 0 || len(vols)*len(probes) < s.finderThreshold {
		return nil
	}

	volSpheres := make([]physics.Sphere, len(vols))
	for i, lv := range vols {
		if lv.v.Shape == components.ShapeSphere {
			volSpheres[i] = physics.Sphere{Center: lv.pos, Radius: lv.v.Radius}
		} else {
			// Box volumes never overlap; a negative radius keeps them out.
			volSpheres[i] = physics.Sphere{Center: lv.pos, Radius: -1e9}
		}
	}
	probeSpheres := make([]physics.Sphere, len(probes))
	for i, p := range probes {
		probeSpheres[i] = p.s
	}

	found, err := s.finder.FindCandidates(volSpheres, probeSpheres)
	if err != nil {
		s.logger.Warn("candidate finder failed, using CPU", "error", err)
		return nil
	}
	out := make(map[Candidate]struct{}, len(found))
	for _, c := range found {
		out[c] = struct{}{}
	}
	s.stats.GPU = true
	return out
}
