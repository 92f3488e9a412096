package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeRegistryFindByName(t *testing.T) {
	g := NewGraph()
	r := NewNodeRegistry(g)

	a := g.ChildAdd(InvalidHandle, nil)
	b := g.ChildAdd(InvalidHandle, nil)
	r.Set(a, "Player")
	r.Set(b, "Enemy")

	found, ok := r.FindByName("Enemy")
	require.True(t, ok)
	assert.Equal(t, b, found)

	_, ok = r.FindByName("Nobody")
	assert.False(t, ok)
}

func TestNodeRegistryIndexAlignment(t *testing.T) {
	g := NewGraph()
	r := NewNodeRegistry(g)
	for i := 0; i < 4; i++ {
		r.Set(g.ChildAdd(InvalidHandle, nil), "n")
	}
	r.EnsureCapacity(9)
	assert.Equal(t, 10, r.Len())

	for i, e := range r.entries {
		if e.Index == InvalidIndex {
			assert.Empty(t, e.Name)
			continue
		}
		assert.Equal(t, uint32(i), e.Index)
	}
}

func TestNodeRegistryTombstone(t *testing.T) {
	g := NewGraph()
	r := NewNodeRegistry(g)
	h := g.ChildAdd(InvalidHandle, nil)
	r.Set(h, "Crate")
	r.Remove(h)

	_, ok := r.FindByName("Crate")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len(), "registry is never compacted")

	info := r.entries[h.Index()]
	assert.Equal(t, InvalidIndex, info.Index)
}

func TestNodeRegistryChildren(t *testing.T) {
	g := NewGraph()
	r := NewNodeRegistry(g)
	root := g.ChildAdd(InvalidHandle, nil)
	r.Set(root, "Root")
	for _, name := range []string{"A", "B"} {
		r.Set(g.ChildAdd(root, nil), name)
	}

	n, err := r.ChildCount("Root")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	name, err := r.ChildNameAt("Root", 1)
	require.NoError(t, err)
	assert.Equal(t, "B", name)

	_, err = r.ChildNameAt("Root", 2)
	assert.Error(t, err)
	_, err = r.ChildCount("Missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}
