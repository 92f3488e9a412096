package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene3d/internal/engine"
)

type fakeBackend struct {
	uploads  int
	unloaded []string
}

func (f *fakeBackend) Upload(d *Decoded) (Resource, error) {
	f.uploads++
	return Resource{Value: d.Name}, nil
}

func (f *fakeBackend) Unload(_ Kind, v any) {
	f.unloaded = append(f.unloaded, v.(string))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestManager(t *testing.T, b Backend) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	m := NewManager(b, WithRoot(dir), WithWorkers(2))
	t.Cleanup(m.Close)
	return m, dir
}

func TestManagerLoadsOBJBounds(t *testing.T) {
	m, dir := newTestManager(t, nil)
	writeFile(t, dir, "crate.obj", "# crate\nv -1 0 -1\nv 1 2 1\nvn 0 1 0\nf 1 2 1\n")

	h, err := m.Acquire(KindModel, "crate.obj")
	require.NoError(t, err)
	assert.False(t, m.Loaded(h), "not loaded before Poll")

	m.Wait()
	assert.Equal(t, 1, m.Poll())
	require.True(t, m.Loaded(h))

	b, ok := m.Bounds(h)
	require.True(t, ok)
	assert.Equal(t, rl.Vector3{X: -1, Y: 0, Z: -1}, b.Min)
	assert.Equal(t, rl.Vector3{X: 1, Y: 2, Z: 1}, b.Max)
}

func TestManagerRefCounting(t *testing.T) {
	fb := &fakeBackend{}
	m, dir := newTestManager(t, fb)
	writeFile(t, dir, "rock.glb", "binary")

	a, err := m.Acquire(KindModel, "rock.glb")
	require.NoError(t, err)
	b, err := m.Acquire(KindModel, "rock.glb")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, m.Count())

	m.Wait()
	m.Poll()
	assert.Equal(t, 1, fb.uploads)

	m.Release(a)
	assert.True(t, m.Loaded(b), "still referenced")
	m.Release(b)
	assert.False(t, m.Loaded(b))
	assert.Equal(t, []string{"rock.glb"}, fb.unloaded)
	assert.Equal(t, 0, m.Count())

	_, err = m.State(b)
	assert.ErrorIs(t, err, engine.ErrStaleHandle)
}

func TestManagerReleaseWhileLoading(t *testing.T) {
	fb := &fakeBackend{}
	m, dir := newTestManager(t, fb)
	writeFile(t, dir, "tree.glb", "binary")

	h, err := m.Acquire(KindModel, "tree.glb")
	require.NoError(t, err)
	m.Release(h)

	m.Wait()
	assert.Equal(t, 0, m.Poll())
	assert.Zero(t, fb.uploads)
	assert.False(t, m.Loaded(h))
}

func TestManagerMissingFileFails(t *testing.T) {
	m, _ := newTestManager(t, nil)
	h, err := m.Acquire(KindTexture, "missing.png")
	require.NoError(t, err, "failures surface asynchronously")

	m.Wait()
	m.Poll()
	state, err := m.State(h)
	assert.Equal(t, StateFailed, state)
	assert.Error(t, err)
	assert.False(t, m.Loaded(h))
}

func TestManagerPrimitives(t *testing.T) {
	m, _ := newTestManager(t, nil)
	h, err := m.Acquire(KindModel, "cube:2,4,2")
	require.NoError(t, err)

	m.Poll()
	b, ok := m.Bounds(h)
	require.True(t, ok)
	assert.InDelta(t, 2, b.Max.Y, 1e-6)

	_, err = m.Acquire(KindModel, "cube:2,4")
	assert.Error(t, err)
}

func TestManagerMaterials(t *testing.T) {
	m, dir := newTestManager(t, nil)
	writeFile(t, dir, "glass.json", `{"name":"glass","color":"SkyBlue","opacity":0.4}`)
	writeFile(t, dir, "stone.json", `{"id":7,"name":"stone","color":"#808080"}`)

	glass, err := m.Acquire(KindMaterial, "glass.json")
	require.NoError(t, err)
	stone, err := m.Acquire(KindMaterial, "stone.json")
	require.NoError(t, err)
	m.Wait()
	m.Poll()

	info, ok := m.MaterialInfo(glass)
	require.True(t, ok)
	assert.True(t, info.Transparent)
	assert.Equal(t, glass.Index(), info.Key)

	info, ok = m.MaterialInfo(stone)
	require.True(t, ok)
	assert.False(t, info.Transparent)
	assert.Equal(t, uint32(7), info.Key)
}

func TestManagerRejectsEmptyAndClosed(t *testing.T) {
	m := NewManager(nil)
	_, err := m.Acquire(KindModel, "")
	assert.ErrorIs(t, err, ErrEmptyName)

	m.Close()
	_, err = m.Acquire(KindModel, "cube:1,1,1")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestParseOBJBoundsErrors(t *testing.T) {
	_, err := ParseOBJBounds(strings.NewReader("# nothing\n"))
	assert.Error(t, err)
	_, err = ParseOBJBounds(strings.NewReader("v 1 x 2\n"))
	assert.Error(t, err)
}
