package world

import (
	"cmp"
	"fmt"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/assets"
	"scene3d/internal/components"
	"scene3d/internal/engine"
	"scene3d/internal/physics"
)

// RenderData is one draw a renderer should issue. Mesh and Material are
// asset handles; for terrain, Mesh is the heightmap and Chunk/LOD/Indices
// select the part of the terrain's index buffer to draw.
type RenderData struct {
	Node        engine.Handle
	Kind        components.Kind
	Attachment  engine.Handle
	Mesh        engine.Handle
	Material    engine.Handle
	MaterialKey uint32
	Transform   rl.Matrix
	Bounds      physics.AABB // world space
	Distance    float32      // from the query's reference point
	Transparent bool
	FrontFaceCW bool // the world matrix mirrors geometry
	CastShadows bool
	Chunk       int // -1 for meshes
	LOD         int
	Indices     components.IndexRange
}

func (s *Scene) queryable() error {
	if s == nil {
		return ErrNilScene
	}
	if s.state != StateLoaded {
		return ErrNotLoaded
	}
	return nil
}

// QueryRenderData returns the static meshes and terrain chunks intersecting
// volume, opaque entries first grouped by material key and then transparent
// entries back to front from ref. A nil volume returns everything.
// The slice is valid until the next Update or BeginFrame.
func (s *Scene) QueryRenderData(volume physics.Volume, ref rl.Vector3) ([]RenderData, error) {
	if err := s.queryable(); err != nil {
		return nil, fmt.Errorf("query render data: %w", err)
	}
	return s.collectRenderData(volume, ref, false), nil
}

// QueryLineRenderData gathers shadow casters within radius of the segment
// start-end, as a directional light's shadow pass needs.
func (s *Scene) QueryLineRenderData(start, end rl.Vector3, radius float32, ref rl.Vector3) ([]RenderData, error) {
	if err := s.queryable(); err != nil {
		return nil, fmt.Errorf("query line render data: %w", err)
	}
	return s.collectRenderData(physics.LineVolume{Start: start, End: end, Radius: radius}, ref, true), nil
}

func (s *Scene) collectRenderData(volume physics.Volume, ref rl.Vector3, castersOnly bool) []RenderData {
	start := len(s.arena.render)
	visible, culled, skipped := 0, 0, 0

	for rec, m := range s.meshes.Live() {
		if castersOnly && !m.CastShadows {
			continue
		}
		if !s.resourceReady(m.MeshAsset, m.Mesh) || !s.resourceReady(m.MaterialAsset, m.Material) {
			skipped++
			continue
		}
		local, ok := s.assets.Bounds(m.MeshAsset)
		if !ok {
			skipped++
			continue
		}
		info, ok := s.materialInfo(m.MaterialAsset, m.Material)
		if !ok {
			skipped++
			continue
		}
		world, _ := s.hier.WorldTransform(rec.Node)
		wb := local.Transform(world)
		if volume != nil && !volume.IntersectsAABB(wb) {
			culled++
			continue
		}
		s.arena.render = append(s.arena.render, RenderData{
			Node:        rec.Node,
			Kind:        components.KindStaticMesh,
			Attachment:  rec.Resource,
			Mesh:        m.MeshAsset,
			Material:    m.MaterialAsset,
			MaterialKey: info.Key,
			Transform:   world,
			Bounds:      wb,
			Distance:    rl.Vector3Distance(ref, wb.Center()),
			Transparent: info.Transparent,
			FrontFaceCW: rl.MatrixDeterminant(world) < 0,
			CastShadows: m.CastShadows,
			Chunk:       -1,
		})
		visible++
	}

	for rec, t := range s.terrains.Live() {
		if !s.resourceReady(t.HeightmapAsset, t.Heightmap) || !s.resourceReady(t.MaterialAsset, t.Material) {
			skipped++
			continue
		}
		info, ok := s.materialInfo(t.MaterialAsset, t.Material)
		if !ok {
			skipped++
			continue
		}
		world, _ := s.hier.WorldTransform(rec.Node)
		cw := rl.MatrixDeterminant(world) < 0
		for i, c := range t.Chunks {
			wb := c.Bounds.Transform(world)
			if volume != nil && !volume.IntersectsAABB(wb) {
				culled++
				continue
			}
			s.arena.render = append(s.arena.render, RenderData{
				Node:        rec.Node,
				Kind:        components.KindTerrain,
				Attachment:  rec.Resource,
				Mesh:        t.HeightmapAsset,
				Material:    t.MaterialAsset,
				MaterialKey: info.Key,
				Transform:   world,
				Bounds:      wb,
				Distance:    rl.Vector3Distance(ref, wb.Center()),
				Transparent: info.Transparent,
				FrontFaceCW: cw,
				CastShadows: true,
				Chunk:       i,
				LOD:         c.CurrentLOD,
				Indices:     c.LODs[c.CurrentLOD],
			})
			visible++
		}
	}

	out := tail(s.arena.render, start)
	slices.SortStableFunc(out, compareDrawOrder)
	s.stats.Visible, s.stats.Culled, s.stats.Skipped = visible, culled, skipped
	return out
}

// compareDrawOrder puts opaque draws first, ascending by material key, and
// transparent draws after them, furthest first.
func compareDrawOrder(a, b RenderData) int {
	switch {
	case a.Transparent != b.Transparent:
		if a.Transparent {
			return 1
		}
		return -1
	case a.Transparent:
		return cmp.Compare(b.Distance, a.Distance)
	default:
		return cmp.Compare(a.MaterialKey, b.MaterialKey)
	}
}

// materialInfo resolves a material handle. An attachment without a material
// draws opaque with key 0.
func (s *Scene) materialInfo(h engine.Handle, name string) (assets.MaterialInfo, bool) {
	if name == "" {
		return assets.MaterialInfo{}, true
	}
	return s.assets.MaterialInfo(h)
}

// QueryWaterPlanes returns the water planes intersecting volume in pool order.
func (s *Scene) QueryWaterPlanes(volume physics.Volume) ([]RenderData, error) {
	if err := s.queryable(); err != nil {
		return nil, fmt.Errorf("query water planes: %w", err)
	}
	start := len(s.arena.render)
	for rec, w := range s.waters.Live() {
		if !s.resourceReady(w.MaterialAsset, w.Material) {
			continue
		}
		info, ok := s.materialInfo(w.MaterialAsset, w.Material)
		if !ok {
			continue
		}
		world, _ := s.hier.WorldTransform(rec.Node)
		wb := w.Bounds().Transform(world)
		if volume != nil && !volume.IntersectsAABB(wb) {
			continue
		}
		s.arena.render = append(s.arena.render, RenderData{
			Node:        rec.Node,
			Kind:        components.KindWaterPlane,
			Attachment:  rec.Resource,
			Material:    w.MaterialAsset,
			MaterialKey: info.Key,
			Transform:   world,
			Bounds:      wb,
			Transparent: info.Transparent,
			FrontFaceCW: rl.MatrixDeterminant(world) < 0,
			Chunk:       -1,
		})
	}
	return tail(s.arena.render, start), nil
}

// LightData is a light placed in world space.
type LightData struct {
	Node        engine.Handle
	Kind        components.Kind
	Position    rl.Vector3
	Direction   rl.Vector3 // directional lights only
	Color       [4]float32 // premultiplied by intensity
	Ambient     rl.Color
	Radius      float32 // point lights only
	CastShadows bool
}

// QueryLights returns every directional light and the point lights whose
// radius reaches into volume.
func (s *Scene) QueryLights(volume physics.Volume) ([]LightData, error) {
	if err := s.queryable(); err != nil {
		return nil, fmt.Errorf("query lights: %w", err)
	}
	start := len(s.arena.lights)
	for rec, l := range s.dirLights.Live() {
		world, _ := s.hier.WorldTransform(rec.Node)
		dir := rl.Vector3Normalize(rl.Vector3Transform(l.Direction, rotationOnly(world)))
		s.arena.lights = append(s.arena.lights, LightData{
			Node:        rec.Node,
			Kind:        components.KindDirectionalLight,
			Position:    origin(world),
			Direction:   dir,
			Color:       l.ColorFloat(),
			Ambient:     l.AmbientColor,
			CastShadows: l.CastShadows,
		})
	}
	for rec, l := range s.pointLights.Live() {
		world, _ := s.hier.WorldTransform(rec.Node)
		pos := origin(world)
		if volume != nil && !volume.IntersectsSphere(pos, l.Radius) {
			continue
		}
		s.arena.lights = append(s.arena.lights, LightData{
			Node:     rec.Node,
			Kind:     components.KindPointLight,
			Position: pos,
			Color:    l.ColorFloat(),
			Radius:   l.Radius,
		})
	}
	return tail(s.arena.lights, start), nil
}

// Skybox returns the first skybox whose texture has loaded.
func (s *Scene) Skybox() (components.Skybox, bool) {
	if s.queryable() != nil {
		return components.Skybox{}, false
	}
	for _, b := range s.skyboxes.Live() {
		if s.resourceReady(b.TextureAsset, b.Texture) {
			return *b, true
		}
	}
	return components.Skybox{}, false
}

// AudioEmitters returns the loaded emitters with their world positions.
func (s *Scene) AudioEmitters() ([]EmitterData, error) {
	if err := s.queryable(); err != nil {
		return nil, fmt.Errorf("audio emitters: %w", err)
	}
	var out []EmitterData
	for rec, e := range s.emitters.Live() {
		if !s.resourceReady(e.SoundAsset, e.Sound) {
			continue
		}
		world, _ := s.hier.WorldTransform(rec.Node)
		out = append(out, EmitterData{Node: rec.Node, Attachment: rec.Resource, Position: origin(world), Emitter: *e})
	}
	return out, nil
}

type EmitterData struct {
	Node       engine.Handle
	Attachment engine.Handle
	Position   rl.Vector3
	Emitter    components.AudioEmitter
}

// --- Node lookups ---

// NodeTransform returns the world matrix of the first node named name.
func (s *Scene) NodeTransform(name string) (rl.Matrix, error) {
	if s == nil {
		return rl.MatrixIdentity(), ErrNilScene
	}
	h, ok := s.nodes.FindByName(name)
	if !ok {
		return rl.MatrixIdentity(), fmt.Errorf("node transform %q: %w", name, engine.ErrNodeNotFound)
	}
	m, _ := s.hier.WorldTransform(h)
	return m, nil
}

func (s *Scene) FindNode(name string) (engine.Handle, bool) {
	if s == nil {
		return engine.InvalidHandle, false
	}
	return s.nodes.FindByName(name)
}

func (s *Scene) ChildCount(name string) (int, error) {
	if s == nil {
		return 0, ErrNilScene
	}
	return s.nodes.ChildCount(name)
}

func (s *Scene) ChildNameAt(name string, i int) (string, error) {
	if s == nil {
		return "", ErrNilScene
	}
	return s.nodes.ChildNameAt(name, i)
}

func origin(m rl.Matrix) rl.Vector3 {
	return rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}
}

func rotationOnly(m rl.Matrix) rl.Matrix {
	m.M12, m.M13, m.M14 = 0, 0, 0
	return m
}
