package world

import (
	"errors"
	"fmt"
	"slices"

	"scene3d/internal/components"
	"scene3d/internal/engine"
)

var ErrUnsupported = errors.New("world: hierarchy does not support this operation")

// transformSetter is implemented by hierarchies whose local transforms can
// be edited after creation, like engine.Graph.
type transformSetter interface {
	SetTransform(h engine.Handle, t engine.Transform) error
}

func (s *Scene) canEdit() error {
	if s == nil {
		return ErrNilScene
	}
	switch s.state {
	case StateDestroyed, StateUnloading, StateLoading, StateUpdating:
		return s.stateError("edit")
	}
	return nil
}

// AddNode creates a node under parent (InvalidHandle for a root). A nil
// transform makes the node follow its parent exactly.
func (s *Scene) AddNode(parent engine.Handle, name string, t *engine.Transform) (engine.Handle, error) {
	if err := s.canEdit(); err != nil {
		return engine.InvalidHandle, err
	}
	if parent.IsValid() && !s.liveNode(parent) {
		return engine.InvalidHandle, fmt.Errorf("add node %q: parent %s: %w", name, parent, engine.ErrStaleHandle)
	}
	h := s.hier.ChildAdd(parent, t)
	if !h.IsValid() {
		return engine.InvalidHandle, fmt.Errorf("add node %q: %w", name, engine.ErrStaleHandle)
	}
	src := nodeSource{name: name}
	if t != nil {
		src.transform = t.String()
	}
	s.trackNode(h, parent, src)
	return h, nil
}

// Attach adds an attachment to a node. Configuration errors are returned,
// not logged. On a loaded scene the attachment's resources are requested
// immediately and it shows up in queries once they finish loading.
func (s *Scene) Attach(node engine.Handle, cfg AttachmentConfig) (engine.Handle, error) {
	if err := s.canEdit(); err != nil {
		return engine.InvalidHandle, err
	}
	src, ok := s.sources[node]
	if !ok {
		return engine.InvalidHandle, fmt.Errorf("attach to %s: %w", node, engine.ErrStaleHandle)
	}
	return s.attachConfig(node, components.NewTagSet(src.tags...), cfg)
}

// SetNodeTags replaces a node's own tags. Attachments made afterwards pick
// them up; existing ones keep the tags they were attached with.
func (s *Scene) SetNodeTags(node engine.Handle, tags ...string) error {
	if s == nil {
		return ErrNilScene
	}
	src, ok := s.sources[node]
	if !ok {
		return engine.ErrStaleHandle
	}
	src.tags = slices.Clone(tags)
	s.sources[node] = src
	return nil
}

// Detach removes one attachment and releases its resources.
func (s *Scene) Detach(kind components.Kind, h engine.Handle) error {
	if err := s.canEdit(); err != nil {
		return err
	}
	switch kind {
	case components.KindStaticMesh:
		return s.meshes.Detach(h)
	case components.KindTerrain:
		return s.terrains.Detach(h)
	case components.KindSkybox:
		return s.skyboxes.Detach(h)
	case components.KindDirectionalLight:
		return s.dirLights.Detach(h)
	case components.KindPointLight:
		return s.pointLights.Detach(h)
	case components.KindAudioEmitter:
		return s.emitters.Detach(h)
	case components.KindWaterPlane:
		return s.waters.Detach(h)
	case components.KindVolume:
		return s.volumes.Detach(h)
	case components.KindHitSphere:
		return s.hitSpheres.Detach(h)
	}
	return fmt.Errorf("detach: %w %s", errUnknownType, kind)
}

// DetachNode detaches everything on node and its descendants and removes
// them from the hierarchy.
func (s *Scene) DetachNode(node engine.Handle) error {
	if err := s.canEdit(); err != nil {
		return err
	}
	if !s.liveNode(node) {
		return fmt.Errorf("detach node %s: %w", node, engine.ErrStaleHandle)
	}
	s.detachSubtree(node)
	s.forgetSubtree(node)
	s.roots = slices.DeleteFunc(s.roots, func(r engine.Handle) bool { return r == node })
	s.hier.Remove(node)
	return nil
}

func (s *Scene) detachSubtree(node engine.Handle) {
	for _, c := range s.hier.Children(node) {
		s.detachSubtree(c)
	}
	s.meshes.DetachNode(node)
	s.terrains.DetachNode(node)
	s.skyboxes.DetachNode(node)
	s.dirLights.DetachNode(node)
	s.pointLights.DetachNode(node)
	s.emitters.DetachNode(node)
	s.waters.DetachNode(node)
	s.volumes.DetachNode(node)
	s.hitSpheres.DetachNode(node)
}

// SetNodeTransform replaces a node's local transform. The new world matrix
// is visible to queries after the next Update.
func (s *Scene) SetNodeTransform(node engine.Handle, t engine.Transform) error {
	if s == nil {
		return ErrNilScene
	}
	src, ok := s.sources[node]
	if !ok {
		return fmt.Errorf("set transform %s: %w", node, engine.ErrStaleHandle)
	}
	setter, ok := s.hier.(transformSetter)
	if !ok {
		return ErrUnsupported
	}
	if err := setter.SetTransform(node, t); err != nil {
		return err
	}
	src.transform = t.String()
	s.sources[node] = src
	return nil
}

// AttachmentMeta returns the authored config of an attachment on an
// editable scene, or nil.
func (s *Scene) AttachmentMeta(kind components.Kind, h engine.Handle) AttachmentConfig {
	if s == nil {
		return nil
	}
	switch kind {
	case components.KindStaticMesh:
		return s.meshes.Meta(h)
	case components.KindTerrain:
		return s.terrains.Meta(h)
	case components.KindSkybox:
		return s.skyboxes.Meta(h)
	case components.KindDirectionalLight:
		return s.dirLights.Meta(h)
	case components.KindPointLight:
		return s.pointLights.Meta(h)
	case components.KindAudioEmitter:
		return s.emitters.Meta(h)
	case components.KindWaterPlane:
		return s.waters.Meta(h)
	case components.KindVolume:
		return s.volumes.Meta(h)
	case components.KindHitSphere:
		return s.hitSpheres.Meta(h)
	}
	return nil
}

// metaByNode groups the authored configs of live attachments by node, in
// kind order and then slot order.
func (s *Scene) metaByNode() map[engine.Handle][]AttachmentConfig {
	out := map[engine.Handle][]AttachmentConfig{}
	collectMeta(s.meshes, out)
	collectMeta(s.terrains, out)
	collectMeta(s.skyboxes, out)
	collectMeta(s.dirLights, out)
	collectMeta(s.pointLights, out)
	collectMeta(s.emitters, out)
	collectMeta(s.waters, out)
	collectMeta(s.volumes, out)
	collectMeta(s.hitSpheres, out)
	return out
}

func collectMeta[T components.Attachment](p *Pool[T], out map[engine.Handle][]AttachmentConfig) {
	for rec := range p.Live() {
		if m := p.Meta(rec.Resource); m != nil {
			out[rec.Node] = append(out[rec.Node], m)
		}
	}
}
