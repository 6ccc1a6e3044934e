// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jes

import (
	"log/slog"
	"unsafe"

	"github.com/creachadair/jes/internal/arena"
	"go4.org/mem"
)

// A Slot is one unit of document storage. Each element of a document tree
// occupies exactly one slot. Slots have no exported fields; a caller provides
// storage for a document as a []Slot, see New.
type Slot = arena.Slot[element]

// SlotSize is the size of a Slot in bytes.
const SlotSize = int(unsafe.Sizeof(Slot{}))

// MinSlots is the smallest number of slots a document accepts.
const MinSlots = 1

// SlotsFor reports how many slots fit in a block of the given size in bytes.
func SlotsFor(blockSize int) int { return max(blockSize, 0) / SlotSize }

// A Document is a JSON document tree stored in a fixed-capacity arena of
// slots. The capacity is set when the document is created and never changes:
// when the arena is exhausted, operations that need a new element fail with
// ErrOutOfMemory.
//
// A Document is not safe for concurrent use. Callers sharing one document
// among goroutines must serialize all access, including reads.
type Document struct {
	arena *arena.Arena[element]
	root  arena.Index

	dup DuplicatePolicy
	log *slog.Logger

	err    error // first error since the last Parse or Reset
	failed bool  // the last Parse failed; err is returned by every operation
}

// New constructs an empty document that stores its elements in block.  The
// document has capacity for len(block) elements, and never allocates element
// storage of its own. The caller must not use block for anything else while
// the document is in use.
//
// New reports ErrInvalidParameter if len(block) < MinSlots.
func New(block []Slot, opts *Options) (*Document, error) {
	if len(block) < MinSlots {
		return nil, invalidf("block of %d slots is smaller than the minimum (%d)", len(block), MinSlots)
	}
	d := &Document{
		arena: arena.New(block),
		root:  arena.None,
		dup:   opts.duplicates(),
		log:   opts.logger(),
	}
	d.log.Debug("document created", "slots", d.arena.Cap(), "slot_size", SlotSize)
	return d, nil
}

// NewSize allocates a single block of blockSize bytes worth of slots and
// constructs a document over it, as New.
func NewSize(blockSize int, opts *Options) (*Document, error) {
	return New(make([]Slot, SlotsFor(blockSize)), opts)
}

// Reset discards the contents of d and clears its error status. Every element
// handle previously issued by d becomes invalid.
func (d *Document) Reset() {
	d.arena.Reset()
	d.root = arena.None
	d.err = nil
	d.failed = false
}

// Len reports the number of elements currently allocated in d.
func (d *Document) Len() int { return d.arena.Len() }

// Cap reports the maximum number of elements d can hold.
func (d *Document) Cap() int { return d.arena.Cap() }

// Err reports the first error encountered since the last Parse or Reset, or
// nil. If the last Parse failed, every operation on d reports this error
// until the next Parse or Reset.
func (d *Document) Err() error { return d.err }

// Options returns the settings of d.
func (d *Document) Options() Options {
	return Options{Duplicates: d.dup, Logger: d.log}
}

// note records err as the status of d, if no error is already recorded, and
// returns err.
func (d *Document) note(err error) error {
	if err != nil && d.err == nil {
		d.err = err
	}
	return err
}

// check reports the latched error of a failed parse, if any.
func (d *Document) check() error {
	if d.failed {
		return d.err
	}
	return nil
}

// An Elem is a handle to an element of a document. The zero Elem refers to
// no element. A handle becomes invalid when its element is deleted, or the
// document is reset or reparsed; methods given an invalid handle report
// ErrInvalidParameter, even if the slot has since been reused.
type Elem struct {
	doc *Document
	ref arena.Ref
}

// IsZero reports whether e is the zero Elem.
func (e Elem) IsZero() bool { return e.doc == nil }

func (d *Document) handle(i arena.Index) Elem {
	return Elem{doc: d, ref: d.arena.RefOf(i)}
}

// at returns the live element at index i.
func (d *Document) at(i arena.Index) *element { return d.arena.At(i) }

// lookup resolves a handle to its index and element.
func (d *Document) lookup(e Elem) (arena.Index, *element, error) {
	if e.IsZero() {
		return arena.None, nil, invalidf("zero element")
	} else if e.doc != d {
		return arena.None, nil, invalidf("element %v belongs to another document", e.ref)
	}
	p, ok := d.arena.Get(e.ref)
	if !ok {
		return arena.None, nil, invalidf("element %v is no longer valid", e.ref)
	}
	return e.ref.Index, p, nil
}

// newElement allocates a detached element.
func (d *Document) newElement(typ Type, value mem.RO) (arena.Index, error) {
	ref, ok := d.arena.Alloc()
	if !ok {
		d.log.Debug("arena exhausted", "capacity", d.arena.Cap())
		return arena.None, ErrOutOfMemory
	}
	*d.at(ref.Index) = element{
		typ:     typ,
		value:   value,
		parent:  arena.None,
		sibling: arena.None,
		prev:    arena.None,
		first:   arena.None,
		last:    arena.None,
	}
	return ref.Index, nil
}

// appendChild links the detached element c as the last child of p.
func (d *Document) appendChild(p, c arena.Index) {
	pe, ce := d.at(p), d.at(c)
	ce.parent = p
	if pe.last == arena.None {
		pe.first = c
	} else {
		d.at(pe.last).sibling = c
		ce.prev = pe.last
	}
	pe.last = c
}

// insertAfter links the detached element c as a child of p immediately after
// prev, or as the first child of p if prev == arena.None.
func (d *Document) insertAfter(p, prev, c arena.Index) {
	pe, ce := d.at(p), d.at(c)
	ce.parent, ce.prev = p, prev
	if prev == arena.None {
		ce.sibling = pe.first
		pe.first = c
	} else {
		ce.sibling = d.at(prev).sibling
		d.at(prev).sibling = c
	}
	if ce.sibling == arena.None {
		pe.last = c
	} else {
		d.at(ce.sibling).prev = c
	}
}

// detach unlinks i from its parent and siblings. Detaching the root leaves
// the document empty.
func (d *Document) detach(i arena.Index) {
	e := d.at(i)
	if e.parent == arena.None {
		if d.root == i {
			d.root = arena.None
		}
		return
	}
	p := d.at(e.parent)
	if e.prev == arena.None {
		p.first = e.sibling
	} else {
		d.at(e.prev).sibling = e.sibling
	}
	if e.sibling == arena.None {
		p.last = e.prev
	} else {
		d.at(e.sibling).prev = e.prev
	}
	e.parent, e.prev, e.sibling = arena.None, arena.None, arena.None
}

// replace puts the detached element n in the position of old, and deletes
// the subtree rooted at old.
func (d *Document) replace(old, n arena.Index) {
	oe, ne := d.at(old), d.at(n)
	ne.parent, ne.prev, ne.sibling = oe.parent, oe.prev, oe.sibling
	p := d.at(oe.parent)
	if oe.prev == arena.None {
		p.first = n
	} else {
		d.at(oe.prev).sibling = n
	}
	if oe.sibling == arena.None {
		p.last = n
	} else {
		d.at(oe.sibling).prev = n
	}
	oe.parent, oe.prev, oe.sibling = arena.None, arena.None, arena.None
	d.deleteTree(old)
}

// deleteTree detaches i and frees it and all its descendants, children before
// parents. It returns the number of elements freed.
func (d *Document) deleteTree(i arena.Index) int {
	d.detach(i)
	var n int
	cur := i
	for {
		e := d.at(cur)
		if e.first != arena.None {
			cur = e.first
			continue
		}
		if cur == i {
			d.arena.Free(d.arena.RefOf(cur))
			return n + 1
		}

		// Here cur is a leaf and the first child of its parent.
		next, sib := e.parent, e.sibling
		p := d.at(next)
		p.first = sib
		if sib == arena.None {
			p.last = arena.None
		} else {
			d.at(sib).prev = arena.None
			next = sib
		}
		d.arena.Free(d.arena.RefOf(cur))
		n++
		cur = next
	}
}

// findKey returns the index of the first key of object o whose text equals
// name, or arena.None.
func (d *Document) findKey(o arena.Index, name mem.RO) arena.Index {
	for k := d.at(o).first; k != arena.None; k = d.at(k).sibling {
		if ke := d.at(k); ke.typ == TypeKey && ke.value.Equal(name) {
			return k
		}
	}
	return arena.None
}
