package world

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene3d/internal/assets"
	"scene3d/internal/components"
	"scene3d/internal/physics"
)

func sortingAssets() *fakeAssets {
	fa := newFakeAssets()
	fa.materials["stone.json"] = assets.MaterialInfo{Key: 2}
	fa.materials["wood.json"] = assets.MaterialInfo{Key: 1}
	fa.materials["glass.json"] = assets.MaterialInfo{Key: 3, Transparent: true}
	return fa
}

func names(s *Scene, data []RenderData) []string {
	out := make([]string, len(data))
	for i, d := range data {
		out[i] = s.nodes.Name(d.Node)
	}
	return out
}

func TestRenderDataOrdering(t *testing.T) {
	cfg := &SceneConfig{Nodes: []NodeConfig{
		meshNode("stone", "0 0 -10", "cube:1,1,1", "stone.json"),
		meshNode("near-glass", "0 0 -5", "cube:1,1,1", "glass.json"),
		meshNode("wood", "0 0 -12", "cube:1,1,1", "wood.json"),
		meshNode("far-glass", "0 0 -20", "cube:1,1,1", "glass.json"),
		meshNode("plain", "0 0 -15", "cube:1,1,1", ""),
		meshNode("stone-2", "3 0 -10", "cube:1,1,1", "stone.json"),
	}}
	s := loadedScene(t, sortingAssets(), cfg)

	data, err := s.QueryRenderData(nil, rl.Vector3{})
	require.NoError(t, err)
	assert.Equal(t, []string{"plain", "wood", "stone", "stone-2", "far-glass", "near-glass"}, names(s, data))

	seenTransparent := false
	for i, d := range data {
		if d.Transparent {
			seenTransparent = true
			if i > 0 && data[i-1].Transparent {
				assert.GreaterOrEqual(t, data[i-1].Distance, d.Distance)
			}
		} else {
			assert.False(t, seenTransparent, "opaque entry after a transparent one")
		}
		assert.Equal(t, -1, d.Chunk)
	}
}

func TestRenderDataFrustumCulling(t *testing.T) {
	cfg := &SceneConfig{Nodes: []NodeConfig{
		meshNode("ahead", "0 0 -10", "cube:1,1,1", ""),
		meshNode("behind", "0 0 10", "cube:1,1,1", ""),
		meshNode("far-left", "-100 0 -10", "cube:1,1,1", ""),
	}}
	s := loadedScene(t, newFakeAssets(), cfg)

	f := physics.NewFrustum(rl.Vector3{}, rl.Vector3{Z: -1}, rl.Vector3{Y: 1}, 60, 1, 0.1, 100)
	data, err := s.QueryRenderData(f, rl.Vector3{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ahead"}, names(s, data))
	assert.Equal(t, 1, s.Stats().Visible)
	assert.Equal(t, 2, s.Stats().Culled)

	all, err := s.QueryRenderData(nil, rl.Vector3{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRenderDataLineVolume(t *testing.T) {
	cfg := &SceneConfig{Nodes: []NodeConfig{
		{Name: "caster", Transform: "0 0 0", Attachments: []AttachmentConfig{&StaticMeshConfig{Mesh: "cube:1,1,1", CastShadows: true}}},
		{Name: "no-shadow", Transform: "0 0 1", Attachments: []AttachmentConfig{&StaticMeshConfig{Mesh: "cube:1,1,1"}}},
		{Name: "far", Transform: "50 0 0", Attachments: []AttachmentConfig{&StaticMeshConfig{Mesh: "cube:1,1,1", CastShadows: true}}},
	}}
	s := loadedScene(t, newFakeAssets(), cfg)

	data, err := s.QueryLineRenderData(rl.Vector3{Y: 20}, rl.Vector3{Y: -20}, 5, rl.Vector3{})
	require.NoError(t, err)
	assert.Equal(t, []string{"caster"}, names(s, data))
}

func TestRenderDataSkipsUnloaded(t *testing.T) {
	fa := sortingAssets()
	fa.pending["sphere:1"] = true
	cfg := &SceneConfig{Nodes: []NodeConfig{
		meshNode("ready", "", "cube:1,1,1", ""),
		meshNode("loading", "", "sphere:1", ""),
		meshNode("no-material", "", "cube:1,1,1", "missing.json"),
		meshNode("no-bounds", "", "model.glb", ""),
	}}
	s := loadedScene(t, fa, cfg)

	data, err := s.QueryRenderData(nil, rl.Vector3{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ready"}, names(s, data))
	assert.Equal(t, 3, s.Stats().Skipped)
	assert.Equal(t, 4, s.Stats().Live[components.KindStaticMesh], "skipped entries keep their slot")

	delete(fa.pending, "sphere:1")
	data, err = s.QueryRenderData(nil, rl.Vector3{})
	require.NoError(t, err)
	assert.Len(t, data, 2)
}

func TestRenderDataWinding(t *testing.T) {
	cfg := &SceneConfig{Nodes: []NodeConfig{
		meshNode("normal", "0 0 0", "cube:1,1,1", ""),
		meshNode("mirrored", "0 0 0 0 0 0 -1 1 1", "cube:1,1,1", ""),
	}}
	s := loadedScene(t, newFakeAssets(), cfg)

	data, err := s.QueryRenderData(nil, rl.Vector3{})
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.False(t, data[0].FrontFaceCW)
	assert.True(t, data[1].FrontFaceCW)
}

func TestTerrainLODFromView(t *testing.T) {
	cfg := &SceneConfig{Nodes: []NodeConfig{{
		Name: "ground",
		Attachments: []AttachmentConfig{&TerrainConfig{
			Heightmap:  "ground.png",
			Size:       [2]float32{16, 16},
			Resolution: 16,
			ChunkSize:  16,
			LODCount:   5,
		}},
	}}}
	s := loadedScene(t, newFakeAssets(), cfg)

	lodAt := func(x float32) int {
		require.NoError(t, s.Update(View{Position: rl.Vector3{X: x}, Near: 0.1, Far: 100.1}))
		data, err := s.QueryRenderData(nil, rl.Vector3{})
		require.NoError(t, err)
		require.Len(t, data, 1)
		assert.Equal(t, components.KindTerrain, data[0].Kind)
		assert.Equal(t, 0, data[0].Chunk)
		return data[0].LOD
	}

	assert.Equal(t, 0, lodAt(0))
	assert.Equal(t, 4, lodAt(100))
	assert.Equal(t, 4, lodAt(1000))

	prev := 0
	for d := float32(0); d <= 120; d += 2.5 {
		lod := lodAt(d)
		assert.GreaterOrEqual(t, lod, prev)
		assert.Less(t, lod, 5)
		prev = lod
	}
}

func TestTerrainChunksCulledIndividually(t *testing.T) {
	cfg := &SceneConfig{Nodes: []NodeConfig{{
		Name:      "ground",
		Transform: "0 0 -32",
		Attachments: []AttachmentConfig{&TerrainConfig{
			Heightmap:  "ground.png",
			Size:       [2]float32{64, 64},
			Height:     1,
			Resolution: 64,
			ChunkSize:  16,
			LODCount:   3,
		}},
	}}}
	s := loadedScene(t, newFakeAssets(), cfg)
	require.NoError(t, s.Update(View{}))

	all, err := s.QueryRenderData(nil, rl.Vector3{})
	require.NoError(t, err)
	assert.Len(t, all, 16)

	// A narrow frustum looking down -Z sees only part of the grid.
	f := physics.NewFrustum(rl.Vector3{Y: 0.5}, rl.Vector3{Y: 0.5, Z: -1}, rl.Vector3{Y: 1}, 10, 1, 0.1, 200)
	some, err := s.QueryRenderData(f, rl.Vector3{})
	require.NoError(t, err)
	assert.NotEmpty(t, some)
	assert.Less(t, len(some), 16)
	for _, d := range some {
		assert.Equal(t, d.Indices, s.terrainChunk(t, d).LODs[d.LOD])
	}
}

func (s *Scene) terrainChunk(t *testing.T, d RenderData) components.TerrainChunk {
	t.Helper()
	terrain, err := s.terrains.Get(d.Attachment)
	require.NoError(t, err)
	return terrain.Chunks[d.Chunk]
}

func TestLightsAndSkybox(t *testing.T) {
	cfg := &SceneConfig{Nodes: []NodeConfig{
		{Name: "sun", Attachments: []AttachmentConfig{&DirectionalLightConfig{Direction: [3]float32{0, -1, 0}, Intensity: 2}}},
		{Name: "lamp", Transform: "0 0 -10", Attachments: []AttachmentConfig{&PointLightConfig{Radius: 2, Color: "Red"}}},
		{Name: "far-lamp", Transform: "0 0 50", Attachments: []AttachmentConfig{&PointLightConfig{Radius: 2}}},
		{Name: "sky", Attachments: []AttachmentConfig{&SkyboxConfig{Texture: "sky.png"}}},
		{Name: "lake", Transform: "0 -1 -10", Attachments: []AttachmentConfig{&WaterPlaneConfig{Size: [2]float32{20, 20}}}},
	}}
	s := loadedScene(t, newFakeAssets(), cfg)

	f := physics.NewFrustum(rl.Vector3{}, rl.Vector3{Z: -1}, rl.Vector3{Y: 1}, 60, 1, 0.1, 100)
	lights, err := s.QueryLights(f)
	require.NoError(t, err)
	require.Len(t, lights, 2)
	assert.Equal(t, components.KindDirectionalLight, lights[0].Kind)
	assert.InDelta(t, -1, lights[0].Direction.Y, 1e-5)
	assert.InDelta(t, 2, lights[0].Color[0], 1e-5)
	assert.Equal(t, components.KindPointLight, lights[1].Kind)
	assert.InDelta(t, -10, lights[1].Position.Z, 1e-5)

	sky, ok := s.Skybox()
	require.True(t, ok)
	assert.Equal(t, "sky.png", sky.Texture)

	water, err := s.QueryWaterPlanes(f)
	require.NoError(t, err)
	require.Len(t, water, 1)
	assert.Equal(t, components.KindWaterPlane, water[0].Kind)
}

func TestDebugGeometry(t *testing.T) {
	cfg := &SceneConfig{Nodes: []NodeConfig{
		meshNode("crate", "0 0 -5", "cube:2,2,2", ""),
		{Name: "zone", Attachments: []AttachmentConfig{
			&VolumeConfig{Radius: 3, Filter: []string{"player"}},
			&VolumeConfig{Shape: "box", Extents: [3]float32{1, 2, 3}},
		}},
		{Name: "probe", Transform: "10 0 0", Attachments: []AttachmentConfig{&HitSphereConfig{Radius: 0.5}}},
	}}
	s := loadedScene(t, newFakeAssets(), cfg)

	shapes, err := s.QueryDebugGeometry()
	require.NoError(t, err)
	require.Len(t, shapes, 4)

	assert.Equal(t, DebugBox, shapes[0].Kind)
	assert.InDelta(t, -6, shapes[0].Box.Min.Z, 1e-5)
	assert.Equal(t, DebugSphere, shapes[1].Kind)
	assert.InDelta(t, 3, shapes[1].Radius, 1e-5)
	assert.Equal(t, DebugBox, shapes[2].Kind)
	assert.InDelta(t, 2, shapes[2].Box.Max.Y, 1e-5)
	assert.Equal(t, components.KindHitSphere, shapes[3].Source)
	assert.InDelta(t, 10, shapes[3].Center.X, 1e-5)
}

func TestBeginFrameReleasesQueryResults(t *testing.T) {
	cfg := &SceneConfig{Nodes: []NodeConfig{
		meshNode("a", "", "cube:1,1,1", ""),
		meshNode("b", "5 0 0", "cube:1,1,1", ""),
	}}
	s := loadedScene(t, newFakeAssets(), cfg)

	for range 3 {
		data, err := s.QueryRenderData(nil, rl.Vector3{})
		require.NoError(t, err)
		require.Len(t, data, 2)
	}
	assert.Len(t, s.arena.render, 6, "queries without a frame boundary accumulate")

	s.BeginFrame()
	assert.Empty(t, s.arena.render)

	data, err := s.QueryRenderData(nil, rl.Vector3{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(s, data))
	assert.Len(t, s.arena.render, 2)
}
