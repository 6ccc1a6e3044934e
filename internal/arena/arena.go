// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package arena implements a fixed-capacity pool of uniformly-sized records
// addressed by index. Freed records are kept on a LIFO free list and reused
// before the high-water mark is extended. Each record carries a generation
// counter, so a reference retained across a free is detected rather than
// silently resolved to whatever now occupies the slot.
package arena

import (
	"fmt"
	"math"
)

// An Index is the position of a slot in an arena.
type Index = uint32

// None is the reserved index meaning "no slot".
const None Index = math.MaxUint32

// MaxCap is the largest capacity an arena can have.
const MaxCap = int(None - 1)

// A Slot is one record of arena storage. A slot is either live, holding a
// value of type T, or free, holding the index of the next free slot.
type Slot[T any] struct {
	val  T
	gen  uint32 // bumped on every free; zero only before first use
	next Index  // free-list link, valid only when !live
	live bool
}

// A Ref is a generational reference to a slot. The zero Ref is never valid.
type Ref struct {
	Index Index
	Gen   uint32
}

// IsZero reports whether r is the zero Ref.
func (r Ref) IsZero() bool { return r == Ref{} }

func (r Ref) String() string { return fmt.Sprintf("#%d.%d", r.Index, r.Gen) }

// An Arena issues and reclaims slots from a caller-supplied block.
// It is not safe for concurrent use.
type Arena[T any] struct {
	slots []Slot[T]
	high  Index // slots below high have been issued at least once
	free  Index // head of the free list, or None
	count int
}

// New constructs an arena over slots. The capacity of the arena is len(slots),
// clamped to MaxCap. The arena never allocates storage of its own.
func New[T any](slots []Slot[T]) *Arena[T] {
	if len(slots) > MaxCap {
		slots = slots[:MaxCap]
	}
	a := &Arena[T]{slots: slots}
	a.Reset()
	return a
}

// Cap reports the total number of slots in a.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Len reports the number of live slots in a.
func (a *Arena[T]) Len() int { return a.count }

// Reset releases every slot. Generations are advanced so that references
// issued before the reset are no longer valid.
func (a *Arena[T]) Reset() {
	var zero T
	for i := Index(0); i < a.high; i++ {
		s := &a.slots[i]
		if s.live {
			s.gen = nextGen(s.gen)
		}
		s.val = zero
		s.live = false
		s.next = None
	}
	a.high = 0
	a.free = None
	a.count = 0
}

// Alloc issues a slot holding the zero value of T, and returns a reference to
// it. It reports false if the arena is exhausted. Recycled slots are preferred
// over unused ones, most recently freed first.
func (a *Arena[T]) Alloc() (Ref, bool) {
	var i Index
	if a.free != None {
		i = a.free
		a.free = a.slots[i].next
	} else if int(a.high) < len(a.slots) {
		i = a.high
		a.high++
	} else {
		return Ref{}, false
	}
	s := &a.slots[i]
	if s.live {
		panic(fmt.Sprintf("arena: free list holds live slot %d", i))
	}
	var zero T
	s.val = zero
	s.live = true
	s.next = None
	if s.gen == 0 {
		s.gen = 1
	}
	a.count++
	return Ref{Index: i, Gen: s.gen}, true
}

// Free returns the slot referenced by r to the free list.
// It panics if r does not refer to a live slot of a.
func (a *Arena[T]) Free(r Ref) {
	if !a.Valid(r) {
		panic(fmt.Sprintf("arena: free of invalid reference %v", r))
	}
	s := &a.slots[r.Index]
	var zero T
	s.val = zero
	s.live = false
	s.gen = nextGen(s.gen)
	s.next = a.free
	a.free = r.Index
	a.count--
}

// Valid reports whether r refers to a live slot of a.
func (a *Arena[T]) Valid(r Ref) bool {
	if r.Gen == 0 || r.Index >= a.high {
		return false
	}
	s := &a.slots[r.Index]
	return s.live && s.gen == r.Gen
}

// Get returns a pointer to the value referenced by r, or reports false if r is
// not a live reference into a. The pointer is valid until the slot is freed.
func (a *Arena[T]) Get(r Ref) (*T, bool) {
	if !a.Valid(r) {
		return nil, false
	}
	return &a.slots[r.Index].val, true
}

// At returns a pointer to the value of the live slot at index i.
// It is meant for following links between records already known to be live;
// reaching a free or unissued slot means the links are corrupt, and At panics.
func (a *Arena[T]) At(i Index) *T {
	if i >= a.high || !a.slots[i].live {
		panic(fmt.Sprintf("arena: index %d does not refer to a live slot", i))
	}
	return &a.slots[i].val
}

// RefOf returns the current reference for the live slot at index i.
// It panics under the same conditions as At.
func (a *Arena[T]) RefOf(i Index) Ref {
	a.At(i)
	return Ref{Index: i, Gen: a.slots[i].gen}
}

func nextGen(g uint32) uint32 {
	g++
	if g == 0 {
		g = 1
	}
	return g
}
