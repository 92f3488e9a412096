package world

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/assets"
	"scene3d/internal/components"
	"scene3d/internal/engine"
)

// --- Config to payload ---

// attachConfig validates c, builds its payload and stores it in the matching
// pool. Resources are acquired right away when the scene is already loaded.
func (s *Scene) attachConfig(node engine.Handle, nodeTags components.TagSet, c AttachmentConfig) (engine.Handle, error) {
	if c == nil {
		return engine.InvalidHandle, ErrNilConfig
	}
	tags := nodeTags.Union(components.NewTagSet(c.header().Tags...))
	loaded := s.state == StateLoaded

	switch cfg := c.(type) {
	case *StaticMeshConfig:
		if cfg.Mesh == "" {
			return engine.InvalidHandle, missing(cfg, "mesh")
		}
		m := components.StaticMesh{Mesh: cfg.Mesh, Material: cfg.Material, CastShadows: cfg.CastShadows}
		if loaded {
			s.acquireMesh(&m)
		}
		return s.meshes.Attach(m, node, tags, c)

	case *TerrainConfig:
		if cfg.Heightmap == "" {
			return engine.InvalidHandle, missing(cfg, "heightmap")
		}
		t := components.Terrain{
			Heightmap:  cfg.Heightmap,
			Material:   cfg.Material,
			Width:      cfg.Size[0],
			Depth:      cfg.Size[1],
			Height:     cfg.Height,
			Resolution: cfg.Resolution,
			ChunkSize:  cfg.ChunkSize,
			LODCount:   cfg.LODCount,
		}
		if err := t.BuildChunks(); err != nil {
			return engine.InvalidHandle, err
		}
		if loaded {
			s.acquireTerrain(&t)
		}
		return s.terrains.Attach(t, node, tags, c)

	case *SkyboxConfig:
		if cfg.Texture == "" {
			return engine.InvalidHandle, missing(cfg, "texture")
		}
		b := components.Skybox{Texture: cfg.Texture}
		if loaded {
			s.acquireSkybox(&b)
		}
		return s.skyboxes.Attach(b, node, tags, c)

	case *DirectionalLightConfig:
		l := components.NewDirectionalLight()
		if cfg.Direction != [3]float32{} {
			l.Direction = rl.Vector3Normalize(rl.Vector3{X: cfg.Direction[0], Y: cfg.Direction[1], Z: cfg.Direction[2]})
		}
		if cfg.Color != "" {
			col, err := assets.ParseColor(cfg.Color)
			if err != nil {
				return engine.InvalidHandle, fmt.Errorf("%s: %w", cfg.Kind(), err)
			}
			l.Color = col
		}
		if cfg.Intensity > 0 {
			l.Intensity = cfg.Intensity
		}
		l.CastShadows = cfg.CastShadows
		return s.dirLights.Attach(l, node, tags, c)

	case *PointLightConfig:
		l := components.NewPointLight()
		if cfg.Color != "" {
			col, err := assets.ParseColor(cfg.Color)
			if err != nil {
				return engine.InvalidHandle, fmt.Errorf("%s: %w", cfg.Kind(), err)
			}
			l.Color = col
		}
		if cfg.Intensity > 0 {
			l.Intensity = cfg.Intensity
		}
		if cfg.Radius > 0 {
			l.Radius = cfg.Radius
		}
		return s.pointLights.Attach(l, node, tags, c)

	case *AudioEmitterConfig:
		if cfg.Sound == "" {
			return engine.InvalidHandle, missing(cfg, "sound")
		}
		e := components.NewAudioEmitter(cfg.Sound)
		if cfg.Volume != nil {
			e.Volume = *cfg.Volume
		}
		if cfg.MaxDistance > 0 {
			e.MaxDistance = cfg.MaxDistance
		}
		e.Loop, e.PlayOnLoad = cfg.Loop, cfg.PlayOnLoad
		if loaded {
			s.acquireEmitter(&e)
		}
		return s.emitters.Attach(e, node, tags, c)

	case *WaterPlaneConfig:
		if cfg.Size[0] <= 0 || cfg.Size[1] <= 0 {
			return engine.InvalidHandle, missing(cfg, "size")
		}
		w := components.WaterPlane{Width: cfg.Size[0], Depth: cfg.Size[1], Material: cfg.Material}
		if loaded {
			s.acquireWater(&w)
		}
		return s.waters.Attach(w, node, tags, c)

	case *VolumeConfig:
		shape, ok := components.ParseShape(cfg.Shape)
		if !ok {
			return engine.InvalidHandle, fmt.Errorf("%s: unknown shape %q", cfg.Kind(), cfg.Shape)
		}
		v := components.Volume{
			Shape:    shape,
			Radius:   cfg.Radius,
			Extents:  rl.Vector3{X: cfg.Extents[0], Y: cfg.Extents[1], Z: cfg.Extents[2]},
			Filter:   components.NewTagSet(cfg.Filter...),
			OnEnter:  cfg.OnEnter,
			OnUpdate: cfg.OnUpdate,
			OnLeave:  cfg.OnLeave,
		}
		switch {
		case shape == components.ShapeSphere && v.Radius <= 0:
			return engine.InvalidHandle, missing(cfg, "radius")
		case shape == components.ShapeBox && (v.Extents.X <= 0 || v.Extents.Y <= 0 || v.Extents.Z <= 0):
			return engine.InvalidHandle, missing(cfg, "extents")
		}
		return s.volumes.Attach(v, node, tags, c)

	case *HitSphereConfig:
		if cfg.Radius <= 0 {
			return engine.InvalidHandle, missing(cfg, "radius")
		}
		return s.hitSpheres.Attach(components.HitSphere{Radius: cfg.Radius}, node, tags, c)
	}
	return engine.InvalidHandle, fmt.Errorf("%w %T", errUnknownType, c)
}

func missing(c AttachmentConfig, field string) error {
	return fmt.Errorf("%s: %w %q", c.Kind(), ErrMissingField, field)
}

// --- Resource acquisition ---

func (s *Scene) acquire(kind assets.Kind, name string) engine.Handle {
	if s.assets == nil || name == "" {
		return engine.InvalidHandle
	}
	h, err := s.assets.Acquire(kind, name)
	if err != nil {
		s.logger.Warn("acquire failed", "kind", kind, "asset", name, "error", err)
		return engine.InvalidHandle
	}
	return h
}

func (s *Scene) releaseAsset(h *engine.Handle) {
	if h.IsValid() && s.assets != nil {
		s.assets.Release(*h)
	}
	*h = engine.InvalidHandle
}

func (s *Scene) acquireMesh(m *components.StaticMesh) {
	m.MeshAsset = s.acquire(assets.KindModel, m.Mesh)
	m.MaterialAsset = s.acquire(assets.KindMaterial, m.Material)
}

func (s *Scene) acquireTerrain(t *components.Terrain) {
	t.HeightmapAsset = s.acquire(assets.KindTexture, t.Heightmap)
	t.MaterialAsset = s.acquire(assets.KindMaterial, t.Material)
}

func (s *Scene) acquireSkybox(b *components.Skybox) {
	b.TextureAsset = s.acquire(assets.KindTexture, b.Texture)
}

func (s *Scene) acquireEmitter(e *components.AudioEmitter) {
	e.SoundAsset = s.acquire(assets.KindSound, e.Sound)
}

func (s *Scene) acquireWater(w *components.WaterPlane) {
	w.MaterialAsset = s.acquire(assets.KindMaterial, w.Material)
}

func (s *Scene) acquireAll() {
	for _, m := range s.meshes.Live() {
		s.acquireMesh(m)
	}
	for _, t := range s.terrains.Live() {
		s.acquireTerrain(t)
	}
	for _, b := range s.skyboxes.Live() {
		s.acquireSkybox(b)
	}
	for _, e := range s.emitters.Live() {
		s.acquireEmitter(e)
	}
	for _, w := range s.waters.Live() {
		s.acquireWater(w)
	}
}

// releaseAll drops every asset reference but keeps the attachments, and
// forgets trigger overlaps so a reload starts from a clean state.
func (s *Scene) releaseAll() {
	for _, m := range s.meshes.Live() {
		s.releaseAsset(&m.MeshAsset)
		s.releaseAsset(&m.MaterialAsset)
	}
	for _, t := range s.terrains.Live() {
		s.releaseAsset(&t.HeightmapAsset)
		s.releaseAsset(&t.MaterialAsset)
	}
	for _, b := range s.skyboxes.Live() {
		s.releaseAsset(&b.TextureAsset)
	}
	for _, e := range s.emitters.Live() {
		s.releaseAsset(&e.SoundAsset)
	}
	for _, w := range s.waters.Live() {
		s.releaseAsset(&w.MaterialAsset)
	}
	for _, v := range s.volumes.Live() {
		v.Overlaps = v.Overlaps[:0]
	}
}

// resourceReady reports whether h is set and loaded. An unset handle for an
// optional resource counts as ready.
func (s *Scene) resourceReady(h engine.Handle, name string) bool {
	if name == "" {
		return true
	}
	return h.IsValid() && s.assets != nil && s.assets.Loaded(h)
}
