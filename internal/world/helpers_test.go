package world

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/require"

	"scene3d/internal/assets"
	"scene3d/internal/engine"
	"scene3d/internal/physics"
)

type fakeEntry struct {
	kind assets.Kind
	name string
	refs int
}

// fakeAssets hands out handles synchronously. Everything is loaded unless
// named in pending; model bounds come from primitive names.
type fakeAssets struct {
	gens      engine.Generations
	entries   []fakeEntry
	byName    map[string]engine.Handle
	pending   map[string]bool
	materials map[string]assets.MaterialInfo
	acquires  int
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{
		byName:    map[string]engine.Handle{},
		pending:   map[string]bool{},
		materials: map[string]assets.MaterialInfo{},
	}
}

func (f *fakeAssets) Acquire(kind assets.Kind, name string) (engine.Handle, error) {
	if name == "" {
		return engine.InvalidHandle, assets.ErrEmptyName
	}
	f.acquires++
	if h, ok := f.byName[name]; ok {
		f.entries[h.Index()].refs++
		return h, nil
	}
	h := f.gens.Next()
	e := fakeEntry{kind: kind, name: name, refs: 1}
	if int(h.Index()) == len(f.entries) {
		f.entries = append(f.entries, e)
	} else {
		f.entries[h.Index()] = e
	}
	f.byName[name] = h
	return h, nil
}

func (f *fakeAssets) Release(h engine.Handle) {
	if f.gens.Check(h) != nil {
		return
	}
	e := &f.entries[h.Index()]
	e.refs--
	if e.refs == 0 {
		delete(f.byName, e.name)
		f.gens.Release(h)
	}
}

func (f *fakeAssets) entry(h engine.Handle) (fakeEntry, bool) {
	if f.gens.Check(h) != nil {
		return fakeEntry{}, false
	}
	return f.entries[h.Index()], true
}

func (f *fakeAssets) Loaded(h engine.Handle) bool {
	e, ok := f.entry(h)
	return ok && !f.pending[e.name]
}

func (f *fakeAssets) Bounds(h engine.Handle) (physics.AABB, bool) {
	e, ok := f.entry(h)
	if !ok {
		return physics.AABB{}, false
	}
	p, isPrim, err := assets.ParsePrimitive(e.name)
	if !isPrim || err != nil {
		return physics.AABB{}, false
	}
	return p.Bounds(), true
}

func (f *fakeAssets) MaterialInfo(h engine.Handle) (assets.MaterialInfo, bool) {
	e, ok := f.entry(h)
	if !ok {
		return assets.MaterialInfo{}, false
	}
	info, ok := f.materials[e.name]
	return info, ok
}

// Held returns the number of distinct assets with outstanding references.
func (f *fakeAssets) Held() int {
	return f.gens.Count()
}

func newTestScene(t *testing.T, a Assets, opts ...Option) *Scene {
	t.Helper()
	ctx := NewContext(a, DefaultSettings())
	s, err := ctx.NewScene("test", opts...)
	require.NoError(t, err)
	return s
}

// loadedScene initializes and loads cfg.
func loadedScene(t *testing.T, a Assets, cfg *SceneConfig, opts ...Option) *Scene {
	t.Helper()
	s := newTestScene(t, a, opts...)
	require.NoError(t, s.Initialize(cfg))
	require.NoError(t, s.Load())
	return s
}

func meshNode(name, transform, mesh, material string) NodeConfig {
	return NodeConfig{
		Name:        name,
		Transform:   transform,
		Attachments: []AttachmentConfig{&StaticMeshConfig{Mesh: mesh, Material: material}},
	}
}

func at(x, y, z float32) engine.Transform {
	t := engine.IdentityTransform()
	t.Position = rl.Vector3{X: x, Y: y, Z: z}
	return t
}
