package world

import (
	"iter"

	"scene3d/internal/components"
	"scene3d/internal/engine"
)

// Record ties a pool slot to the hierarchy node it is attached to.
type Record struct {
	Kind     components.Kind
	Node     engine.Handle
	Resource engine.Handle // this slot's own handle
	Tags     components.TagSet
}

// Pool stores one attachment kind. Payloads, records and authored metadata
// live in index-aligned slices; detached slots keep their index and are
// reused by the next Attach with a bumped generation.
type Pool[T components.Attachment] struct {
	kind     components.Kind
	gens     engine.Generations
	items    []T
	records  []Record
	meta     []AttachmentConfig
	editable bool
	release  func(*T)
}

func newPool[T components.Attachment](editable bool, release func(*T)) *Pool[T] {
	var zero T
	return &Pool[T]{kind: zero.Kind(), editable: editable, release: release}
}

func (p *Pool[T]) Kind() components.Kind {
	return p.kind
}

// Len returns the number of slots ever allocated, live or free.
func (p *Pool[T]) Len() int {
	return len(p.items)
}

// Count returns the number of live attachments.
func (p *Pool[T]) Count() int {
	return p.gens.Count()
}

// Attach stores v in the first free slot, or a new one at the end.
// meta is kept (as a deep copy) only by editable pools.
func (p *Pool[T]) Attach(v T, node engine.Handle, tags components.TagSet, meta AttachmentConfig) (engine.Handle, error) {
	if !node.IsValid() {
		return engine.InvalidHandle, engine.ErrStaleHandle
	}

	h := p.gens.Next()
	rec := Record{Kind: p.kind, Node: node, Resource: h, Tags: tags}
	var m AttachmentConfig
	if p.editable && meta != nil {
		m = cloneAttachment(meta)
	}

	if i := int(h.Index()); i < len(p.items) {
		p.items[i] = v
		p.records[i] = rec
		p.meta[i] = m
	} else {
		p.items = append(p.items, v)
		p.records = append(p.records, rec)
		p.meta = append(p.meta, m)
	}
	return h, nil
}

// Detach runs the pool's release func on the payload and frees the slot.
func (p *Pool[T]) Detach(h engine.Handle) error {
	if err := p.gens.Check(h); err != nil {
		return err
	}
	i := h.Index()
	if p.release != nil {
		p.release(&p.items[i])
	}
	var zero T
	p.items[i] = zero
	p.records[i] = Record{Kind: p.kind, Node: engine.InvalidHandle, Resource: engine.InvalidHandle}
	p.meta[i] = nil
	return p.gens.Release(h)
}

// DetachNode detaches every attachment on node and returns how many there were.
func (p *Pool[T]) DetachNode(node engine.Handle) int {
	n := 0
	for i := range p.records {
		if p.gens.Live(uint32(i)) && p.records[i].Node == node {
			p.Detach(p.records[i].Resource)
			n++
		}
	}
	return n
}

func (p *Pool[T]) DetachAll() {
	for i := range p.records {
		if p.gens.Live(uint32(i)) {
			p.Detach(p.records[i].Resource)
		}
	}
}

// Contains reports whether h refers to a live slot.
func (p *Pool[T]) Contains(h engine.Handle) bool {
	return p.gens.Check(h) == nil
}

// Get returns a pointer to the payload. It is valid until the next Attach.
func (p *Pool[T]) Get(h engine.Handle) (*T, error) {
	if err := p.gens.Check(h); err != nil {
		return nil, err
	}
	return &p.items[h.Index()], nil
}

func (p *Pool[T]) Record(h engine.Handle) (Record, error) {
	if err := p.gens.Check(h); err != nil {
		return Record{}, err
	}
	return p.records[h.Index()], nil
}

// Meta returns the authored config of an editable pool's slot.
func (p *Pool[T]) Meta(h engine.Handle) AttachmentConfig {
	if p.gens.Check(h) != nil {
		return nil
	}
	return p.meta[h.Index()]
}

// Live yields the record and payload of every occupied slot in index order.
func (p *Pool[T]) Live() iter.Seq2[*Record, *T] {
	return func(yield func(*Record, *T) bool) {
		for i := range p.items {
			if !p.gens.Live(uint32(i)) {
				continue
			}
			if !yield(&p.records[i], &p.items[i]) {
				return
			}
		}
	}
}
