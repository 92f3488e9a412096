package world

import (
	"path/filepath"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene3d/internal/components"
	"scene3d/internal/engine"
)

func TestSceneIDsAreUniquePerContext(t *testing.T) {
	ctx := NewContext(nil, DefaultSettings())
	a, err := ctx.NewScene("a")
	require.NoError(t, err)
	b, err := ctx.NewScene("b")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Less(t, a.ID(), b.ID())

	var nilCtx *Context
	_, err = nilCtx.NewScene("c")
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestSceneLifecycle(t *testing.T) {
	fa := newFakeAssets()
	s := newTestScene(t, fa)

	var states []State
	s.StateChanged.AddListener(func(st State) { states = append(states, st) })

	assert.ErrorIs(t, s.Load(), ErrInvalidState)
	_, err := s.QueryRenderData(nil, rl.Vector3{})
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, s.Initialize(nil), ErrNilConfig)

	cfg := &SceneConfig{Nodes: []NodeConfig{meshNode("crate", "0 0 -5", "cube:1,1,1", "")}}
	require.NoError(t, s.Initialize(cfg))
	assert.Equal(t, StateInitialized, s.State())
	assert.ErrorIs(t, s.Initialize(cfg), ErrInvalidState)
	assert.Zero(t, fa.Held(), "nothing is acquired before Load")

	require.NoError(t, s.Load())
	assert.Equal(t, StateLoaded, s.State())
	assert.Equal(t, 1, fa.Held())

	require.NoError(t, s.Update(View{}))
	assert.Equal(t, StateLoaded, s.State())

	require.NoError(t, s.Unload(UnloadImmediate))
	assert.Equal(t, StateUnloaded, s.State())
	assert.Zero(t, fa.Held())
	assert.ErrorIs(t, s.Update(View{}), ErrNotLoaded)

	// Reload restores the same content.
	require.NoError(t, s.Load())
	data, err := s.QueryRenderData(nil, rl.Vector3{})
	require.NoError(t, err)
	assert.Len(t, data, 1)

	require.NoError(t, s.Destroy())
	assert.Equal(t, StateDestroyed, s.State())
	assert.Zero(t, fa.Held())
	assert.ErrorIs(t, s.Destroy(), ErrInvalidState)
	_, ok := s.FindNode("crate")
	assert.False(t, ok)

	assert.Equal(t, []State{
		StateInitialized,
		StateLoading, StateLoaded,
		StateUpdating, StateLoaded,
		StateUnloading, StateUnloaded,
		StateLoading, StateLoaded,
		StateDestroyed,
	}, states)
}

func TestSceneDeferredUnload(t *testing.T) {
	fa := newFakeAssets()
	s := loadedScene(t, fa, &SceneConfig{Nodes: []NodeConfig{meshNode("crate", "", "cube:1,1,1", "")}})

	require.NoError(t, s.Unload(UnloadDeferred))
	assert.Equal(t, StateUnloading, s.State())
	assert.Equal(t, 1, fa.Held(), "deferred unload keeps resources until the next Update")

	_, err := s.QueryRenderData(nil, rl.Vector3{})
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, s.Unload(UnloadImmediate), ErrInvalidState)

	require.NoError(t, s.Update(View{}))
	assert.Equal(t, StateUnloaded, s.State())
	assert.Zero(t, fa.Held())
}

func TestNilSceneFailsCleanly(t *testing.T) {
	var s *Scene
	assert.ErrorIs(t, s.Initialize(&SceneConfig{}), ErrNilScene)
	assert.ErrorIs(t, s.Load(), ErrNilScene)
	assert.ErrorIs(t, s.Update(View{}), ErrNilScene)
	assert.ErrorIs(t, s.Unload(UnloadImmediate), ErrNilScene)
	assert.ErrorIs(t, s.Destroy(), ErrNilScene)

	_, err := s.QueryRenderData(nil, rl.Vector3{})
	assert.ErrorIs(t, err, ErrNilScene)
	_, _, err = s.Raycast(rl.Ray{})
	assert.ErrorIs(t, err, ErrNilScene)
	_, err = s.Serialize()
	assert.ErrorIs(t, err, ErrNilScene)
	assert.ErrorIs(t, s.Save(filepath.Join(t.TempDir(), "x.json")), ErrNilScene)
	assert.ErrorIs(t, s.SetNodeTags(engine.InvalidHandle, "a"), ErrNilScene)
	assert.Nil(t, s.AttachmentMeta(components.KindStaticMesh, engine.InvalidHandle))
	assert.Equal(t, Stats{}, s.Stats())
	assert.NotPanics(t, s.BeginFrame)
	assert.False(t, s.Loaded())
}

func TestInitializeSkipsInvalidAttachments(t *testing.T) {
	cfg := &SceneConfig{Nodes: []NodeConfig{{
		Name: "mixed",
		Attachments: []AttachmentConfig{
			&StaticMeshConfig{},
			&StaticMeshConfig{Mesh: "cube:1,1,1"},
			&HitSphereConfig{Radius: 0},
			&TerrainConfig{Heightmap: "hm.png", Size: [2]float32{10, 10}},
			&VolumeConfig{Shape: "cone", Radius: 1},
			&PointLightConfig{Color: "NotAColor"},
			&PointLightConfig{Radius: 3},
		},
		Children: []NodeConfig{{Name: "child", Transform: "not a transform"}},
	}}}

	s := loadedScene(t, newFakeAssets(), cfg)
	live := s.Stats().Live
	assert.Equal(t, 1, live[components.KindStaticMesh])
	assert.Zero(t, live[components.KindHitSphere])
	assert.Zero(t, live[components.KindTerrain])
	assert.Zero(t, live[components.KindVolume])
	assert.Equal(t, 1, live[components.KindPointLight])

	n, err := s.ChildCount("mixed")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a bad transform keeps the node")
	assert.Equal(t, 2, s.Stats().Nodes)
}

func TestNodeLookups(t *testing.T) {
	cfg := &SceneConfig{Nodes: []NodeConfig{{
		Name:      "root",
		Transform: "1 2 3",
		Children: []NodeConfig{
			{Name: "left", Transform: "1 0 0"},
			{Name: "right"},
		},
	}}}
	s := loadedScene(t, nil, cfg)

	m, err := s.NodeTransform("left")
	require.NoError(t, err)
	assert.InDelta(t, 2, m.M12, 1e-5)
	assert.InDelta(t, 2, m.M13, 1e-5)

	m, err = s.NodeTransform("right")
	require.NoError(t, err)
	assert.InDelta(t, 1, m.M12, 1e-5, "nodes without a transform follow their parent")

	_, err = s.NodeTransform("missing")
	assert.ErrorIs(t, err, engine.ErrNodeNotFound)

	n, err := s.ChildCount("root")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	name, err := s.ChildNameAt("root", 1)
	require.NoError(t, err)
	assert.Equal(t, "right", name)
	_, err = s.ChildNameAt("root", 2)
	assert.Error(t, err)
}

func TestRuntimeEditing(t *testing.T) {
	fa := newFakeAssets()
	s := loadedScene(t, fa, &SceneConfig{})

	root, err := s.AddNode(engine.InvalidHandle, "root", nil)
	require.NoError(t, err)
	tr := at(0, 0, -4)
	child, err := s.AddNode(root, "child", &tr)
	require.NoError(t, err)

	mesh, err := s.Attach(child, &StaticMeshConfig{Mesh: "cube:1,1,1"})
	require.NoError(t, err)
	assert.Equal(t, 1, fa.Held(), "loaded scenes acquire on attach")

	_, err = s.Attach(child, &StaticMeshConfig{})
	assert.ErrorIs(t, err, ErrMissingField)

	require.NoError(t, s.Update(View{}))
	data, err := s.QueryRenderData(nil, rl.Vector3{})
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, child, data[0].Node)
	assert.Equal(t, mesh, data[0].Attachment)
	assert.InDelta(t, -4, data[0].Transform.M14, 1e-5)

	require.NoError(t, s.SetNodeTransform(child, at(0, 0, -9)))
	require.NoError(t, s.Update(View{}))
	data, err = s.QueryRenderData(nil, rl.Vector3{})
	require.NoError(t, err)
	assert.InDelta(t, -9, data[0].Transform.M14, 1e-5)

	require.NoError(t, s.DetachNode(root))
	assert.Zero(t, fa.Held())
	assert.Zero(t, s.Stats().Nodes)
	_, ok := s.FindNode("child")
	assert.False(t, ok)
	assert.ErrorIs(t, s.Detach(components.KindStaticMesh, mesh), engine.ErrStaleHandle)
	_, err = s.Attach(child, &HitSphereConfig{Radius: 1})
	assert.ErrorIs(t, err, engine.ErrStaleHandle)
}

func TestDetachReleasesAndReusesSlot(t *testing.T) {
	fa := newFakeAssets()
	s := loadedScene(t, fa, &SceneConfig{})
	node, err := s.AddNode(engine.InvalidHandle, "n", nil)
	require.NoError(t, err)

	a, err := s.Attach(node, &StaticMeshConfig{Mesh: "cube:1,1,1"})
	require.NoError(t, err)
	require.NoError(t, s.Detach(components.KindStaticMesh, a))
	assert.Zero(t, fa.Held())

	b, err := s.Attach(node, &StaticMeshConfig{Mesh: "sphere:1"})
	require.NoError(t, err)
	assert.Equal(t, a.Index(), b.Index())
	assert.Equal(t, 1, s.meshes.Len())
}
