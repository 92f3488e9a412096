// Package assets loads and reference-counts the resources scenes attach to:
// models, textures, sounds and materials. File I/O and parsing run on a
// worker pool; GPU uploads happen on the caller's thread in Poll.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"scene3d/internal/engine"
	"scene3d/internal/physics"
)

type Kind int

const (
	KindModel Kind = iota
	KindTexture
	KindSound
	KindMaterial
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindTexture:
		return "texture"
	case KindSound:
		return "sound"
	case KindMaterial:
		return "material"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type State int

const (
	StateQueued State = iota
	StateDecoded
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateDecoded:
		return "decoded"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrEmptyName = errors.New("assets: empty asset name")
	ErrClosed    = errors.New("assets: manager closed")
)

// Decoded is the CPU-side result of loading an asset, produced on a worker.
type Decoded struct {
	Kind      Kind
	Name      string
	Path      string
	Data      []byte
	Bounds    physics.AABB
	HasBounds bool
	Primitive *Primitive
	Material  *Material
}

// Resource is what a Backend made of a Decoded asset.
type Resource struct {
	Value     any
	Bounds    physics.AABB
	HasBounds bool
}

// Backend turns decoded assets into renderer resources. Both methods are
// called from Poll, Release and Close, never from a worker.
type Backend interface {
	Upload(d *Decoded) (Resource, error)
	Unload(kind Kind, value any)
}

type assetKey struct {
	kind Kind
	name string
}

type entry struct {
	key      assetKey
	refs     int
	state    State
	decoded  *Decoded
	res      Resource
	material *Material
	err      error
}

// Manager caches assets by (kind, name) and hands out generational handles.
// Each Acquire must be paired with a Release.
type Manager struct {
	mu       sync.Mutex
	root     string
	backend  Backend
	workers  int
	pool     worker.DynamicWorkerPool
	gens     engine.Generations
	entries  []entry
	byKey    map[assetKey]engine.Handle
	inflight sync.WaitGroup
	taskID   int
	closed   bool
	logger   *slog.Logger
}

type Option func(*Manager)

// WithRoot resolves relative asset names against dir.
func WithRoot(dir string) Option {
	return func(m *Manager) { m.root = dir }
}

func WithWorkers(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.workers = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a manager. A nil backend keeps everything CPU-side,
// which is enough for headless tools and tests.
func NewManager(backend Backend, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		workers: 2,
		byKey:   map[assetKey]engine.Handle{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("subsystem", "assets")
	m.pool = worker.NewDynamicWorkerPool(m.workers, 256, 1*time.Second)
	return m
}

// Acquire returns a handle to the named asset, starting its load on first use.
func (m *Manager) Acquire(kind Kind, name string) (engine.Handle, error) {
	if name == "" {
		return engine.InvalidHandle, ErrEmptyName
	}

	var prim *Primitive
	if kind == KindModel {
		p, ok, err := ParsePrimitive(name)
		if err != nil {
			return engine.InvalidHandle, err
		}
		if ok {
			prim = &p
		}
	}

	key := assetKey{kind: kind, name: name}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return engine.InvalidHandle, ErrClosed
	}
	if h, ok := m.byKey[key]; ok {
		m.entries[h.Index()].refs++
		m.mu.Unlock()
		return h, nil
	}

	h := m.gens.Next()
	e := entry{key: key, refs: 1, state: StateQueued}
	if prim != nil {
		e.state = StateDecoded
		e.decoded = &Decoded{Kind: kind, Name: name, Primitive: prim, Bounds: prim.Bounds(), HasBounds: true}
	}
	if int(h.Index()) == len(m.entries) {
		m.entries = append(m.entries, e)
	} else {
		m.entries[h.Index()] = e
	}
	m.byKey[key] = h
	m.inflight.Add(1)
	m.taskID++
	id := m.taskID
	m.mu.Unlock()

	if prim != nil {
		m.inflight.Done()
		return h, nil
	}

	path := m.resolve(name)
	m.pool.SubmitTask(worker.Task{
		ID:      id,
		Payload: h,
		Do: func() (any, error) {
			defer m.inflight.Done()
			d, err := decode(kind, name, path)
			m.finishDecode(h, d, err)
			return d, err
		},
	})
	return h, nil
}

func (m *Manager) resolve(name string) string {
	if m.root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.root, name)
}

func decode(kind Kind, name, path string) (*Decoded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s %q: %w", kind, name, err)
	}

	d := &Decoded{Kind: kind, Name: name, Path: path}
	switch kind {
	case KindModel:
		if strings.EqualFold(filepath.Ext(path), ".obj") {
			b, err := ParseOBJBounds(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("load model %q: %w", name, err)
			}
			d.Bounds, d.HasBounds = b, true
		}
		d.Data = data
	case KindMaterial:
		mat, err := ParseMaterial(data)
		if err != nil {
			return nil, fmt.Errorf("load material %q: %w", name, err)
		}
		d.Material = mat
	default:
		d.Data = data
	}
	return d, nil
}

func (m *Manager) finishDecode(h engine.Handle, d *Decoded, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens.Check(h) != nil {
		// Released while loading.
		return
	}
	e := &m.entries[h.Index()]
	if err != nil {
		e.state, e.err = StateFailed, err
		m.logger.Warn("decode failed", "asset", e.key.name, "error", err)
		return
	}
	e.state, e.decoded = StateDecoded, d
}

// Poll finalizes decoded assets on the calling thread and returns how many
// became ready. Call it once per frame from the thread that owns the GPU context.
func (m *Manager) Poll() int {
	type pending struct {
		h engine.Handle
		d *Decoded
	}
	m.mu.Lock()
	var work []pending
	for i := range m.entries {
		h, ok := m.gens.HandleAt(uint32(i))
		if ok && m.entries[i].state == StateDecoded {
			work = append(work, pending{h: h, d: m.entries[i].decoded})
		}
	}
	m.mu.Unlock()

	ready := 0
	for _, p := range work {
		res, err := m.upload(p.d)

		m.mu.Lock()
		if m.gens.Check(p.h) != nil {
			m.mu.Unlock()
			if err == nil {
				m.unload(p.d.Kind, res.Value)
			}
			continue
		}
		e := &m.entries[p.h.Index()]
		e.decoded = nil
		if err != nil {
			e.state, e.err = StateFailed, err
			m.mu.Unlock()
			m.logger.Warn("upload failed", "asset", p.d.Name, "error", err)
			continue
		}
		if p.d.HasBounds && !res.HasBounds {
			res.Bounds, res.HasBounds = p.d.Bounds, true
		}
		e.res, e.material, e.state = res, p.d.Material, StateReady
		m.mu.Unlock()
		ready++
	}
	return ready
}

func (m *Manager) upload(d *Decoded) (Resource, error) {
	if m.backend == nil || d.Kind == KindMaterial {
		return Resource{Bounds: d.Bounds, HasBounds: d.HasBounds}, nil
	}
	return m.backend.Upload(d)
}

func (m *Manager) unload(kind Kind, value any) {
	if m.backend != nil && value != nil {
		m.backend.Unload(kind, value)
	}
}

// Release drops one reference. The asset is unloaded with the last one;
// loads still in flight are discarded when they finish.
func (m *Manager) Release(h engine.Handle) {
	m.mu.Lock()
	if m.gens.Check(h) != nil {
		m.mu.Unlock()
		return
	}
	e := &m.entries[h.Index()]
	e.refs--
	if e.refs > 0 {
		m.mu.Unlock()
		return
	}
	old := *e
	delete(m.byKey, e.key)
	*e = entry{}
	m.gens.Release(h)
	m.mu.Unlock()

	if old.state == StateReady {
		m.unload(old.key.kind, old.res.Value)
	}
}

func (m *Manager) lookup(h engine.Handle) (entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens.Check(h) != nil {
		return entry{}, false
	}
	return m.entries[h.Index()], true
}

// State returns the load state of h.
func (m *Manager) State(h engine.Handle) (State, error) {
	e, ok := m.lookup(h)
	if !ok {
		return 0, engine.ErrStaleHandle
	}
	return e.state, e.err
}

func (m *Manager) Loaded(h engine.Handle) bool {
	e, ok := m.lookup(h)
	return ok && e.state == StateReady
}

// Bounds returns the local extents of a loaded model.
func (m *Manager) Bounds(h engine.Handle) (physics.AABB, bool) {
	e, ok := m.lookup(h)
	if !ok || e.state != StateReady || !e.res.HasBounds {
		return physics.AABB{}, false
	}
	return e.res.Bounds, true
}

func (m *Manager) Material(h engine.Handle) (*Material, bool) {
	e, ok := m.lookup(h)
	if !ok || e.state != StateReady || e.material == nil {
		return nil, false
	}
	return e.material, true
}

func (m *Manager) MaterialInfo(h engine.Handle) (MaterialInfo, bool) {
	mat, ok := m.Material(h)
	if !ok {
		return MaterialInfo{}, false
	}
	key := h.Index()
	if mat.ID > 0 {
		key = uint32(mat.ID)
	}
	return MaterialInfo{Key: key, Transparent: mat.Transparent}, true
}

// Resource returns the backend value of a loaded asset.
func (m *Manager) Resource(h engine.Handle) (any, bool) {
	e, ok := m.lookup(h)
	if !ok || e.state != StateReady {
		return nil, false
	}
	return e.res.Value, e.res.Value != nil
}

// Count returns the number of distinct assets held.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens.Count()
}

// Wait blocks until every submitted decode has finished.
func (m *Manager) Wait() {
	m.inflight.Wait()
}

// Close waits for in-flight loads, stops the workers and unloads everything.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.inflight.Wait()
	m.pool.Stop()

	m.mu.Lock()
	var held []entry
	for i := range m.entries {
		if m.gens.Live(uint32(i)) && m.entries[i].state == StateReady {
			held = append(held, m.entries[i])
		}
	}
	m.entries = nil
	m.byKey = map[assetKey]engine.Handle{}
	m.gens = engine.Generations{}
	m.mu.Unlock()

	for _, e := range held {
		m.unload(e.key.kind, e.res.Value)
	}
}
