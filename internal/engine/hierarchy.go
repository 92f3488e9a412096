package engine

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Hierarchy owns parent/child relations and world transforms for scene nodes.
// Scenes only hold node handles into it.
type Hierarchy interface {
	// ChildAdd creates a node under parent (InvalidHandle for a root). A nil
	// transform creates a node without a transform of its own.
	ChildAdd(parent Handle, t *Transform) Handle
	Remove(h Handle)
	// WorldTransform reports false when neither the node nor any ancestor
	// carries a transform.
	WorldTransform(h Handle) (rl.Matrix, bool)
	ParentOf(h Handle) (Handle, bool)
	Children(h Handle) []Handle
	Update()
}

type graphNode struct {
	parent       Handle
	children     []Handle
	local        Transform
	hasTransform bool
	world        rl.Matrix
	chained      bool
	dirty        bool
}

// Graph is the default Hierarchy. World matrices are recomputed on Update
// for nodes whose transform, or an ancestor's, changed since the last Update.
type Graph struct {
	gens  Generations
	nodes []graphNode
	roots []Handle
}

func NewGraph() *Graph {
	return &Graph{}
}

func (g *Graph) ChildAdd(parent Handle, t *Transform) Handle {
	if parent.IsValid() && g.gens.Check(parent) != nil {
		return InvalidHandle
	}

	h := g.gens.Next()
	n := graphNode{parent: parent, world: rl.MatrixIdentity(), dirty: true}
	if t != nil {
		n.local = *t
		n.hasTransform = true
	}
	if int(h.index) == len(g.nodes) {
		g.nodes = append(g.nodes, n)
	} else {
		g.nodes[h.index] = n
	}

	if parent.IsValid() {
		p := &g.nodes[parent.index]
		p.children = append(p.children, h)
	} else {
		g.roots = append(g.roots, h)
	}
	return h
}

// Remove deletes h and its whole subtree.
func (g *Graph) Remove(h Handle) {
	if g.gens.Check(h) != nil {
		return
	}
	n := &g.nodes[h.index]
	for _, c := range slices.Clone(n.children) {
		g.Remove(c)
	}

	if n.parent.IsValid() && g.gens.Check(n.parent) == nil {
		p := &g.nodes[n.parent.index]
		p.children = slices.DeleteFunc(p.children, func(c Handle) bool { return c == h })
	} else {
		g.roots = slices.DeleteFunc(g.roots, func(c Handle) bool { return c == h })
	}

	g.nodes[h.index] = graphNode{}
	g.gens.Release(h)
}

func (g *Graph) Contains(h Handle) bool {
	return g.gens.Check(h) == nil
}

func (g *Graph) WorldTransform(h Handle) (rl.Matrix, bool) {
	if g.gens.Check(h) != nil {
		return rl.MatrixIdentity(), false
	}
	n := &g.nodes[h.index]
	if n.dirty {
		// Not yet refreshed; compose on demand without clearing flags.
		return g.compose(h)
	}
	return n.world, n.chained
}

func (g *Graph) compose(h Handle) (rl.Matrix, bool) {
	n := &g.nodes[h.index]
	parentWorld, chained := rl.MatrixIdentity(), false
	if n.parent.IsValid() && g.gens.Check(n.parent) == nil {
		parentWorld, chained = g.WorldTransform(n.parent)
	}
	if !n.hasTransform {
		return parentWorld, chained
	}
	return rl.MatrixMultiply(n.local.Matrix(), parentWorld), true
}

func (g *Graph) ParentOf(h Handle) (Handle, bool) {
	if g.gens.Check(h) != nil {
		return InvalidHandle, false
	}
	p := g.nodes[h.index].parent
	return p, p.IsValid()
}

func (g *Graph) Children(h Handle) []Handle {
	if g.gens.Check(h) != nil {
		return nil
	}
	return g.nodes[h.index].children
}

// Roots returns the parentless nodes in creation order.
func (g *Graph) Roots() []Handle {
	return g.roots
}

// LocalTransform returns the node's own transform and whether it has one.
func (g *Graph) LocalTransform(h Handle) (Transform, bool) {
	if g.gens.Check(h) != nil {
		return Transform{}, false
	}
	n := &g.nodes[h.index]
	return n.local, n.hasTransform
}

// SetTransform replaces the node's local transform and marks it dirty.
func (g *Graph) SetTransform(h Handle, t Transform) error {
	if err := g.gens.Check(h); err != nil {
		return err
	}
	n := &g.nodes[h.index]
	n.local = t
	n.hasTransform = true
	n.dirty = true
	return nil
}

func (g *Graph) Update() {
	for _, r := range g.roots {
		g.refresh(r, rl.MatrixIdentity(), false, false)
	}
}

func (g *Graph) refresh(h Handle, parentWorld rl.Matrix, parentChained, parentChanged bool) {
	n := &g.nodes[h.index]
	changed := parentChanged || n.dirty
	if changed {
		switch {
		case n.hasTransform:
			n.world = rl.MatrixMultiply(n.local.Matrix(), parentWorld)
			n.chained = true
		default:
			n.world = parentWorld
			n.chained = parentChained
		}
		n.dirty = false
	}
	for _, c := range n.children {
		g.refresh(c, n.world, n.chained, changed)
	}
}
