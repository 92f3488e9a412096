package components

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene3d/internal/engine"
	"scene3d/internal/physics"
)

var ErrInvalidTerrain = errors.New("components: invalid terrain")

// IndexRange addresses a run of indices in a terrain's shared index buffer.
type IndexRange struct {
	Offset int
	Count  int
}

// TerrainChunk is one square patch of a terrain grid. CurrentLOD is written
// by the per-frame LOD pass and only read while culling.
type TerrainChunk struct {
	Bounds     physics.AABB // local to the terrain node
	Center     rl.Vector3
	CurrentLOD int
	LODs       []IndexRange
}

// Terrain is a heightmapped grid split into square chunks, each with
// LODCount detail levels. LOD 0 is full resolution and each further level
// halves the cells per side.
type Terrain struct {
	Heightmap  string
	Material   string
	Width      float32
	Depth      float32
	Height     float32
	Resolution int // cells per side
	ChunkSize  int // cells per chunk side
	LODCount   int

	HeightmapAsset engine.Handle
	MaterialAsset  engine.Handle
	Chunks         []TerrainChunk
}

// BuildChunks lays out the chunk grid and the index ranges of every LOD.
func (t *Terrain) BuildChunks() error {
	switch {
	case t.Width <= 0 || t.Depth <= 0:
		return fmt.Errorf("%w: size %gx%g", ErrInvalidTerrain, t.Width, t.Depth)
	case t.Resolution <= 0:
		return fmt.Errorf("%w: resolution %d", ErrInvalidTerrain, t.Resolution)
	case t.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk size %d", ErrInvalidTerrain, t.ChunkSize)
	case t.LODCount <= 0:
		return fmt.Errorf("%w: lod count %d", ErrInvalidTerrain, t.LODCount)
	}

	perSide := (t.Resolution + t.ChunkSize - 1) / t.ChunkSize
	cellW := t.Width / float32(t.Resolution)
	cellD := t.Depth / float32(t.Resolution)

	t.Chunks = make([]TerrainChunk, 0, perSide*perSide)
	offset := 0
	for cz := range perSide {
		for cx := range perSide {
			x0, x1 := cx*t.ChunkSize, min((cx+1)*t.ChunkSize, t.Resolution)
			z0, z1 := cz*t.ChunkSize, min((cz+1)*t.ChunkSize, t.Resolution)

			b := physics.AABB{
				Min: vec3(-t.Width/2+float32(x0)*cellW, 0, -t.Depth/2+float32(z0)*cellD),
				Max: vec3(-t.Width/2+float32(x1)*cellW, t.Height, -t.Depth/2+float32(z1)*cellD),
			}
			c := TerrainChunk{Bounds: b, Center: b.Center(), LODs: make([]IndexRange, t.LODCount)}
			for l := range t.LODCount {
				qx := max(1, (x1-x0)>>l)
				qz := max(1, (z1-z0)>>l)
				count := qx * qz * 6
				c.LODs[l] = IndexRange{Offset: offset, Count: count}
				offset += count
			}
			t.Chunks = append(t.Chunks, c)
		}
	}
	return nil
}

// Bounds returns the local extents of the whole terrain.
func (t *Terrain) Bounds() physics.AABB {
	return physics.AABB{
		Min: vec3(-t.Width/2, 0, -t.Depth/2),
		Max: vec3(t.Width/2, t.Height, t.Depth/2),
	}
}

// SelectLOD picks the detail level for a chunk at distance d from the viewer.
// The range [0, near+(far-near)] is split into lodCount equal bands; a chunk
// in band l renders at LOD l, and anything further renders at the coarsest.
func SelectLOD(d float32, lodCount int, near, far float32) int {
	if lodCount <= 1 {
		return 0
	}
	if d < 0 {
		d = 0
	}
	maxDist := near + (far - near)
	for l := range lodCount {
		lo := maxDist * float32(l) / float32(lodCount)
		hi := maxDist * float32(l+1) / float32(lodCount)
		if d >= lo && d <= hi {
			return l
		}
	}
	return lodCount - 1
}
