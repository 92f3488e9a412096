package compute

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"

	"scene3d/internal/physics"
	"scene3d/internal/world"
)

func TestPackSpheres(t *testing.T) {
	got := packSpheres([]physics.Sphere{
		{Center: rl.Vector3{X: 1, Y: 2, Z: 3}, Radius: 4},
		{Radius: -1},
	})
	assert.Equal(t, []gpuSphere{{1, 2, 3, 4}, {0, 0, 0, -1}}, got)
}

func TestUnpackPairsDropsOutOfRange(t *testing.T) {
	got := unpackPairs([]gpuPair{{0, 1}, {2, 0}, {1, 5}}, 2, 3)
	assert.Equal(t, []world.Candidate{{Volume: 0, Probe: 1}}, got)
}

func TestWorkgroupsAndGrow(t *testing.T) {
	assert.Equal(t, uint32(0), workgroups(0))
	assert.Equal(t, uint32(1), workgroups(1))
	assert.Equal(t, uint32(1), workgroups(64))
	assert.Equal(t, uint32(2), workgroups(65))

	assert.Equal(t, uint32(64), grow(0))
	assert.Equal(t, uint32(64), grow(64))
	assert.Equal(t, uint32(128), grow(65))
	assert.Equal(t, uint32(4096), grow(3000))
}

func TestNewTriggerPassWithoutSystem(t *testing.T) {
	_, err := NewTriggerPass(nil, 1, 1, 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}
