package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectLODEndpoints(t *testing.T) {
	assert.Equal(t, 0, SelectLOD(0, 5, 0.1, 100.1))
	assert.Equal(t, 4, SelectLOD(100, 5, 0.1, 100.1))
	assert.Equal(t, 4, SelectLOD(1000, 5, 0.1, 100.1), "beyond the last split uses the coarsest level")
	assert.Equal(t, 0, SelectLOD(50, 1, 0.1, 100.1))
}

func TestSelectLODMonotonic(t *testing.T) {
	prev := 0
	for d := float32(0); d < 150; d += 0.5 {
		l := SelectLOD(d, 5, 0.1, 100.1)
		assert.GreaterOrEqual(t, l, prev, "d=%v", d)
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 5)
		prev = l
	}
}

func TestTerrainBuildChunks(t *testing.T) {
	tr := Terrain{Width: 64, Depth: 64, Height: 10, Resolution: 64, ChunkSize: 16, LODCount: 5}
	require.NoError(t, tr.BuildChunks())
	require.Len(t, tr.Chunks, 16)

	c := tr.Chunks[0]
	assert.InDelta(t, -32, c.Bounds.Min.X, 1e-5)
	assert.InDelta(t, -16, c.Bounds.Max.X, 1e-5)
	assert.InDelta(t, 10, c.Bounds.Max.Y, 1e-5)
	assert.InDelta(t, -24, c.Center.X, 1e-5)

	require.Len(t, c.LODs, 5)
	assert.Equal(t, 16*16*6, c.LODs[0].Count)
	assert.Equal(t, 8*8*6, c.LODs[1].Count)
	assert.Equal(t, 1*1*6, c.LODs[4].Count)
	assert.Equal(t, c.LODs[0].Count, c.LODs[1].Offset)

	last := tr.Chunks[15]
	assert.Greater(t, last.LODs[0].Offset, c.LODs[4].Offset)
}

func TestTerrainBuildChunksPartialEdge(t *testing.T) {
	tr := Terrain{Width: 10, Depth: 10, Resolution: 20, ChunkSize: 16, LODCount: 2}
	require.NoError(t, tr.BuildChunks())
	require.Len(t, tr.Chunks, 4)
	assert.Equal(t, 4*16*6, tr.Chunks[1].LODs[0].Count)
}

func TestTerrainBuildChunksRejectsInvalid(t *testing.T) {
	for _, tr := range []Terrain{
		{Width: 0, Depth: 1, Resolution: 1, ChunkSize: 1, LODCount: 1},
		{Width: 1, Depth: 1, Resolution: 0, ChunkSize: 1, LODCount: 1},
		{Width: 1, Depth: 1, Resolution: 1, ChunkSize: 0, LODCount: 1},
		{Width: 1, Depth: 1, Resolution: 1, ChunkSize: 1, LODCount: 0},
	} {
		assert.ErrorIs(t, tr.BuildChunks(), ErrInvalidTerrain)
	}
}

func TestTagSetIntersects(t *testing.T) {
	a := NewTagSet("player", "ally")
	assert.True(t, a.Intersects(NewTagSet("enemy", "player")))
	assert.False(t, a.Intersects(NewTagSet("enemy")))
	assert.False(t, a.Intersects(NewTagSet()))
	assert.Equal(t, []string{"ally", "enemy", "player"}, a.Union(NewTagSet("enemy")).Sorted())
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("nope")
	assert.False(t, ok)
}
