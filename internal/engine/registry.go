package engine

import (
	"errors"
	"fmt"
)

var ErrNodeNotFound = errors.New("engine: node not found")

// NodeInfo is the per-node metadata a scene keeps next to the hierarchy.
// A tombstoned entry has an empty Name and Index == InvalidIndex.
type NodeInfo struct {
	Name  string
	Index uint32
}

// NodeRegistry maps hierarchy node indices to names. It grows to cover the
// highest index seen and is never compacted.
type NodeRegistry struct {
	hier    Hierarchy
	entries []NodeInfo
	handles []Handle
}

func NewNodeRegistry(h Hierarchy) *NodeRegistry {
	return &NodeRegistry{hier: h}
}

func (r *NodeRegistry) Len() int {
	return len(r.entries)
}

// EnsureCapacity grows the registry so that index is addressable.
func (r *NodeRegistry) EnsureCapacity(index uint32) {
	if int(index) < len(r.entries) {
		return
	}
	n := int(index) + 1
	entries := make([]NodeInfo, n)
	handles := make([]Handle, n)
	copy(entries, r.entries)
	copy(handles, r.handles)
	for i := len(r.entries); i < n; i++ {
		entries[i] = NodeInfo{Index: InvalidIndex}
	}
	r.entries = entries
	r.handles = handles
}

// Set records name for the node h.
func (r *NodeRegistry) Set(h Handle, name string) {
	if !h.IsValid() {
		return
	}
	r.EnsureCapacity(h.index)
	r.entries[h.index] = NodeInfo{Name: name, Index: h.index}
	r.handles[h.index] = h
}

// Remove tombstones the entry for h.
func (r *NodeRegistry) Remove(h Handle) {
	if !h.IsValid() || int(h.index) >= len(r.entries) || r.handles[h.index] != h {
		return
	}
	r.entries[h.index] = NodeInfo{Index: InvalidIndex}
	r.handles[h.index] = InvalidHandle
}

// Get returns the metadata recorded for h.
func (r *NodeRegistry) Get(h Handle) (NodeInfo, bool) {
	if !h.IsValid() || int(h.index) >= len(r.entries) || r.handles[h.index] != h {
		return NodeInfo{}, false
	}
	return r.entries[h.index], true
}

// Name returns the node's name, or "" for unknown nodes.
func (r *NodeRegistry) Name(h Handle) string {
	info, _ := r.Get(h)
	return info.Name
}

// FindByName returns the first node with the given name.
// This is a linear scan; fine for editor lookups, not for per-frame use.
func (r *NodeRegistry) FindByName(name string) (Handle, bool) {
	if name == "" {
		return InvalidHandle, false
	}
	for i, e := range r.entries {
		if e.Index != InvalidIndex && e.Name == name {
			return r.handles[i], true
		}
	}
	return InvalidHandle, false
}

func (r *NodeRegistry) ChildCount(name string) (int, error) {
	h, ok := r.FindByName(name)
	if !ok {
		return 0, fmt.Errorf("child count %q: %w", name, ErrNodeNotFound)
	}
	return len(r.hier.Children(h)), nil
}

// ChildNameAt returns the name of the i-th child of the named node.
func (r *NodeRegistry) ChildNameAt(name string, i int) (string, error) {
	h, ok := r.FindByName(name)
	if !ok {
		return "", fmt.Errorf("child %d of %q: %w", i, name, ErrNodeNotFound)
	}
	children := r.hier.Children(h)
	if i < 0 || i >= len(children) {
		return "", fmt.Errorf("child %d of %q: index out of range [0,%d)", i, name, len(children))
	}
	return r.Name(children[i]), nil
}
