// Package world holds scenes: typed attachment pools bound to hierarchy
// nodes, their load lifecycle, and the per-frame visibility, picking and
// trigger queries run over them.
package world

import (
	"errors"
	"fmt"
	"log/slog"

	"scene3d/internal/components"
	"scene3d/internal/engine"
)

var (
	ErrNilScene     = errors.New("world: nil scene")
	ErrNilConfig    = errors.New("world: nil config")
	ErrNilContext   = errors.New("world: nil context")
	ErrInvalidState = errors.New("world: invalid scene state")
	ErrNotLoaded    = errors.New("world: scene not loaded")
	ErrReadOnly     = errors.New("world: scene is read-only")
	ErrMissingField = errors.New("world: missing required field")
)

type State int

const (
	StateCreated State = iota
	StateInitialized
	StateLoading
	StateLoaded
	StateUpdating
	StateUnloading
	StateUnloaded
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateUpdating:
		return "updating"
	case StateUnloading:
		return "unloading"
	case StateUnloaded:
		return "unloaded"
	case StateDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type UnloadMode int

const (
	// UnloadImmediate releases every resource before Unload returns.
	UnloadImmediate UnloadMode = iota
	// UnloadDeferred leaves the scene Unloading; the next Update releases.
	UnloadDeferred
)

// nodeSource is what a node was authored with, kept for Serialize.
type nodeSource struct {
	name      string
	transform string
	tags      []string
}

// Scene is a set of hierarchy nodes and the attachments bound to them.
// A Scene is not safe for concurrent use.
type Scene struct {
	id       uint64
	name     string
	state    State
	editable bool
	pending  bool // deferred unload requested

	ctx      *Context
	assets   Assets
	settings Settings
	hier     engine.Hierarchy
	nodes    *engine.NodeRegistry
	sources  map[engine.Handle]nodeSource
	roots    []engine.Handle
	logger   *slog.Logger

	finder          CandidateFinder
	finderThreshold int

	meshes      *Pool[components.StaticMesh]
	terrains    *Pool[components.Terrain]
	skyboxes    *Pool[components.Skybox]
	dirLights   *Pool[components.DirectionalLight]
	pointLights *Pool[components.PointLight]
	emitters    *Pool[components.AudioEmitter]
	waters      *Pool[components.WaterPlane]
	volumes     *Pool[components.Volume]
	hitSpheres  *Pool[components.HitSphere]

	arena frameArena
	stats Stats

	// Triggers fires for every enter, update and leave transition, after the
	// volume's command has run.
	Triggers     engine.EventWithArg[TriggerEvent]
	StateChanged engine.EventWithArg[State]
}

func newScene(ctx *Context, id uint64, name string) *Scene {
	return &Scene{
		id:              id,
		name:            name,
		ctx:             ctx,
		assets:          ctx.Assets,
		settings:        ctx.Settings,
		editable:        ctx.Settings.Editable,
		hier:            engine.NewGraph(),
		sources:         map[engine.Handle]nodeSource{},
		logger:          ctx.logger,
		finderThreshold: ctx.Settings.GPUTriggerThreshold,
	}
}

func (s *Scene) initPools() {
	s.nodes = engine.NewNodeRegistry(s.hier)
	s.meshes = newPool(s.editable, func(m *components.StaticMesh) {
		s.releaseAsset(&m.MeshAsset)
		s.releaseAsset(&m.MaterialAsset)
	})
	s.terrains = newPool(s.editable, func(t *components.Terrain) {
		s.releaseAsset(&t.HeightmapAsset)
		s.releaseAsset(&t.MaterialAsset)
	})
	s.skyboxes = newPool(s.editable, func(b *components.Skybox) {
		s.releaseAsset(&b.TextureAsset)
	})
	s.dirLights = newPool[components.DirectionalLight](s.editable, nil)
	s.pointLights = newPool[components.PointLight](s.editable, nil)
	s.emitters = newPool(s.editable, func(e *components.AudioEmitter) {
		s.releaseAsset(&e.SoundAsset)
	})
	s.waters = newPool(s.editable, func(w *components.WaterPlane) {
		s.releaseAsset(&w.MaterialAsset)
	})
	s.volumes = newPool[components.Volume](s.editable, nil)
	s.hitSpheres = newPool[components.HitSphere](s.editable, nil)
}

func (s *Scene) ID() uint64                  { return s.id }
func (s *Scene) Name() string                { return s.name }
func (s *Scene) State() State                { return s.state }
func (s *Scene) Editable() bool              { return s.editable }
func (s *Scene) Hierarchy() engine.Hierarchy { return s.hier }
func (s *Scene) Nodes() *engine.NodeRegistry { return s.nodes }

// Loaded reports whether queries may run.
func (s *Scene) Loaded() bool {
	return s != nil && s.state == StateLoaded
}

func (s *Scene) setState(st State) {
	if s.state == st {
		return
	}
	s.logger.Debug("state change", "from", s.state, "to", st)
	s.state = st
	s.StateChanged.Invoke(st)
}

func (s *Scene) stateError(op string) error {
	return fmt.Errorf("%s in state %s: %w", op, s.state, ErrInvalidState)
}

// Initialize walks cfg depth-first, creating a hierarchy node per config
// node and filling the pools. Invalid attachments are logged and skipped.
func (s *Scene) Initialize(cfg *SceneConfig) error {
	if s == nil {
		return ErrNilScene
	}
	if cfg == nil {
		s.logger.Error("initialize without config")
		return ErrNilConfig
	}
	if s.state != StateCreated {
		return s.stateError("initialize")
	}
	if s.name == "" {
		s.name = cfg.Name
	}

	for i := range cfg.Nodes {
		s.addConfigNode(engine.InvalidHandle, &cfg.Nodes[i])
	}
	s.setState(StateInitialized)
	return nil
}

func (s *Scene) addConfigNode(parent engine.Handle, n *NodeConfig) {
	var t *engine.Transform
	if n.Transform != "" {
		tr, err := engine.ParseTransform(n.Transform)
		if err != nil {
			s.logger.Warn("bad node transform, using parent's", "node", n.Name, "error", err)
		} else {
			t = &tr
		}
	}

	h := s.hier.ChildAdd(parent, t)
	if !h.IsValid() {
		s.logger.Warn("hierarchy rejected node", "node", n.Name)
		return
	}
	s.trackNode(h, parent, nodeSource{name: n.Name, transform: n.Transform, tags: n.Tags})

	tags := components.NewTagSet(n.Tags...)
	for _, a := range n.Attachments {
		if _, err := s.attachConfig(h, tags, a); err != nil {
			s.logger.Warn("skipping attachment", "node", n.Name, "error", err)
		}
	}
	for i := range n.Children {
		s.addConfigNode(h, &n.Children[i])
	}
}

func (s *Scene) trackNode(h, parent engine.Handle, src nodeSource) {
	s.nodes.Set(h, src.name)
	s.sources[h] = src
	if !parent.IsValid() {
		s.roots = append(s.roots, h)
	}
}

// Load acquires the resources of every attachment. It is valid after
// Initialize and after an Unload, to reload the same content.
func (s *Scene) Load() error {
	if s == nil {
		return ErrNilScene
	}
	if s.state != StateInitialized && s.state != StateUnloaded {
		return s.stateError("load")
	}
	s.setState(StateLoading)
	s.acquireAll()
	s.hier.Update()
	s.setState(StateLoaded)
	return nil
}

// Update runs one frame: it refreshes world transforms, selects terrain LOD
// and runs the trigger detector. If a deferred unload is pending it is
// carried out instead and nothing else happens this frame.
func (s *Scene) Update(view View) error {
	if s == nil {
		return ErrNilScene
	}
	if s.state == StateUnloading && s.pending {
		s.finishUnload()
		return nil
	}
	if s.state != StateLoaded {
		return fmt.Errorf("update: %w", ErrNotLoaded)
	}

	s.setState(StateUpdating)
	s.arena.reset()
	s.stats.beginFrame()
	s.hier.Update()
	s.updateTerrainLOD(view)
	s.updateTriggers()
	s.setState(StateLoaded)
	return nil
}

// BeginFrame drops the results of earlier queries. Update does this itself;
// a host that queries a scene without updating it calls BeginFrame once per
// frame instead so query results do not pile up.
func (s *Scene) BeginFrame() {
	if s == nil {
		return
	}
	s.arena.reset()
}

// Unload releases every acquired resource. Attachments stay in their pools
// so a later Load restores the scene.
func (s *Scene) Unload(mode UnloadMode) error {
	if s == nil {
		return ErrNilScene
	}
	if s.state != StateLoaded {
		return s.stateError("unload")
	}
	s.setState(StateUnloading)
	if mode == UnloadDeferred {
		s.pending = true
		return nil
	}
	s.finishUnload()
	return nil
}

func (s *Scene) finishUnload() {
	s.pending = false
	s.releaseAll()
	s.arena.reset()
	s.setState(StateUnloaded)
}

// Destroy detaches everything and removes the scene's nodes from the
// hierarchy. The scene cannot be used afterwards.
func (s *Scene) Destroy() error {
	if s == nil {
		return ErrNilScene
	}
	if s.state == StateDestroyed {
		return s.stateError("destroy")
	}

	s.meshes.DetachAll()
	s.terrains.DetachAll()
	s.skyboxes.DetachAll()
	s.dirLights.DetachAll()
	s.pointLights.DetachAll()
	s.emitters.DetachAll()
	s.waters.DetachAll()
	s.volumes.DetachAll()
	s.hitSpheres.DetachAll()

	for _, r := range s.roots {
		s.forgetSubtree(r)
		s.hier.Remove(r)
	}
	s.roots = nil
	s.pending = false
	s.arena.reset()
	s.setState(StateDestroyed)
	s.Triggers.RemoveAllListeners()
	s.StateChanged.RemoveAllListeners()
	return nil
}

// forgetSubtree drops registry and source entries for h and its descendants.
func (s *Scene) forgetSubtree(h engine.Handle) {
	for _, c := range s.hier.Children(h) {
		s.forgetSubtree(c)
	}
	s.nodes.Remove(h)
	delete(s.sources, h)
}

// liveNode reports whether h is a node this scene created and still holds.
func (s *Scene) liveNode(h engine.Handle) bool {
	_, ok := s.sources[h]
	return ok
}
