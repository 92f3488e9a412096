package world

import (
	"log/slog"
	"sync/atomic"

	"scene3d/internal/assets"
	"scene3d/internal/engine"
	"scene3d/internal/physics"
)

// Assets is the part of the asset system a scene needs. *assets.Manager
// implements it.
type Assets interface {
	Acquire(kind assets.Kind, name string) (engine.Handle, error)
	Release(h engine.Handle)
	Loaded(h engine.Handle) bool
	Bounds(h engine.Handle) (physics.AABB, bool)
	MaterialInfo(h engine.Handle) (assets.MaterialInfo, bool)
}

// Context holds what the scenes of one engine instance share: the asset
// system, the command registry triggers run against, and the settings.
type Context struct {
	Assets   Assets
	Commands *engine.Commands
	Settings Settings

	nextID atomic.Uint64
	logger *slog.Logger
}

// NewContext creates a context. a may be nil, in which case scenes have no
// resources and every renderable is skipped by queries.
func NewContext(a Assets, settings Settings) *Context {
	return &Context{
		Assets:   a,
		Commands: engine.NewCommands(),
		Settings: settings,
		logger:   slog.Default(),
	}
}

// SetLogger replaces the logger new scenes inherit.
func (c *Context) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

type Option func(*Scene)

// WithEditable keeps authored metadata so the scene can be serialized.
func WithEditable(editable bool) Option {
	return func(s *Scene) { s.editable = editable }
}

// WithHierarchy uses h instead of a fresh engine.Graph.
func WithHierarchy(h engine.Hierarchy) Option {
	return func(s *Scene) {
		if h != nil {
			s.hier = h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCandidateFinder offloads trigger broadphase to f once the number of
// volume x hit-sphere pairs reaches threshold.
func WithCandidateFinder(f CandidateFinder, threshold int) Option {
	return func(s *Scene) {
		s.finder = f
		if threshold > 0 {
			s.finderThreshold = threshold
		}
	}
}

// NewScene creates a scene in the Created state. Scene ids are unique per
// context.
func (c *Context) NewScene(name string, opts ...Option) (*Scene, error) {
	if c == nil {
		return nil, ErrNilContext
	}
	s := newScene(c, c.nextID.Add(1), name)
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("scene", name, "id", s.id)
	s.initPools()
	return s, nil
}
