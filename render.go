// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jes

import (
	"fmt"
	"slices"

	"github.com/creachadair/jes/internal/arena"
	"go4.org/mem"
)

// Evaluate reports the length in bytes of the compact JSON rendering of d,
// and checks that the tree has the structure of a JSON document. A tree
// built by Parse always does, but a tree changed by Add or Delete may not,
// for example if a key was left without a value. A violation is reported as
// an error of type [*NodeError] wrapping ErrUnexpectedNode, with length 0.
// An empty document reports ErrElementNotFound.
func (d *Document) Evaluate() (int, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	var c counter
	if err := d.walk(&c); err != nil {
		return 0, d.note(err)
	}
	return c.n, nil
}

// Render writes the compact JSON rendering of d into buf, and returns the
// number of bytes written. The output contains no insignificant whitespace,
// and is not terminated. If buf is shorter than the length reported by
// Evaluate, Render reports ErrOutOfMemory without writing anything.
func (d *Document) Render(buf []byte) (int, error) {
	n, err := d.Evaluate()
	if err != nil {
		return 0, err
	} else if len(buf) < n {
		return 0, d.note(fmt.Errorf("%w: output needs %d bytes, buffer has %d", ErrOutOfMemory, n, len(buf)))
	}
	w := writer{buf: buf[:n]}
	if err := d.walk(&w); err != nil {
		return 0, d.note(err)
	}
	d.log.Debug("rendered document", "bytes", n, "elements", d.Len())
	return n, nil
}

// Append appends the compact JSON rendering of d to dst and returns the
// extended slice.
func (d *Document) Append(dst []byte) ([]byte, error) {
	n, err := d.Evaluate()
	if err != nil {
		return dst, err
	}
	dst = slices.Grow(dst, n)
	if err := d.walk(&writer{buf: dst[len(dst) : len(dst)+n]}); err != nil {
		return dst, d.note(err)
	}
	return dst[:len(dst)+n], nil
}

// A sink receives the bytes of a rendering.
type sink interface {
	putByte(b byte)
	putText(v mem.RO)
}

// counter is a sink that counts bytes.
type counter struct{ n int }

func (c *counter) putByte(byte)     { c.n++ }
func (c *counter) putText(v mem.RO) { c.n += v.Len() }

// writer is a sink that copies bytes into a buffer known to be large enough.
type writer struct {
	buf []byte
	pos int
}

func (w *writer) putByte(b byte)   { w.buf[w.pos] = b; w.pos++ }
func (w *writer) putText(v mem.RO) { w.pos += v.Copy(w.buf[w.pos:]) }

// walk visits the tree in document order, checking each element and sending
// its rendering to s. It uses the parent and sibling links rather than a
// stack, so the walk needs constant space.
func (d *Document) walk(s sink) error {
	if d.root == arena.None {
		return notFoundf("document is empty")
	}
	cur := d.root
	for {
		e := d.at(cur)
		if err := d.checkElement(cur, e); err != nil {
			return err
		}
		switch e.typ {
		case TypeObject:
			s.putByte('{')
		case TypeArray:
			s.putByte('[')
		case TypeKey:
			s.putByte('"')
			s.putText(e.value)
			s.putByte('"')
			s.putByte(':')
		case TypeString:
			s.putByte('"')
			s.putText(e.value)
			s.putByte('"')
		default:
			s.putText(e.value)
		}
		if e.first != arena.None {
			cur = e.first
			continue
		}

		// Close cur, and any ancestors whose last child it is, until we reach
		// an element with a following sibling or the end of the document.
		for {
			e := d.at(cur)
			switch e.typ {
			case TypeObject:
				s.putByte('}')
			case TypeArray:
				s.putByte(']')
			}
			if cur == d.root {
				return nil
			} else if e.sibling != arena.None {
				s.putByte(',')
				cur = e.sibling
				break
			}
			cur = e.parent
		}
	}
}

// checkElement reports an error if e, at index i, violates the structure of
// a JSON document or is inconsistently linked.
func (d *Document) checkElement(i arena.Index, e *element) error {
	if i == d.root {
		if e.typ != TypeObject || e.parent != arena.None {
			return d.nodeError(i, e, "root must be a detached object")
		}
	} else {
		if e.parent == arena.None {
			return d.nodeError(i, e, "element has no parent")
		}
		pe := d.at(e.parent)
		switch pe.typ {
		case TypeObject:
			if e.typ != TypeKey {
				return d.nodeError(i, e, "child of object is not a key")
			}
		case TypeKey:
			if !e.typ.IsValue() {
				return d.nodeError(i, e, "value of key is not a value")
			} else if e.prev != arena.None || e.sibling != arena.None {
				return d.nodeError(i, e, "key has more than one value")
			}
		case TypeArray:
			if !e.typ.IsValue() {
				return d.nodeError(i, e, "element of array is not a value")
			}
		default:
			return d.nodeError(i, e, fmt.Sprintf("parent is a %v", pe.typ))
		}
		if e.sibling == arena.None {
			if pe.last != i {
				return d.nodeError(i, e, "inconsistent last child")
			}
		} else if se := d.at(e.sibling); se.prev != i || se.parent != e.parent {
			return d.nodeError(i, e, "inconsistent sibling link")
		}
	}

	switch {
	case e.typ == TypeKey && e.first == arena.None:
		return d.nodeError(i, e, "key has no value")
	case e.typ.isScalar() && e.first != arena.None:
		return d.nodeError(i, e, "scalar has children")
	case e.typ == TypeNone || int(e.typ) >= len(typeStr):
		return d.nodeError(i, e, "invalid type")
	}
	if e.first != arena.None {
		if fe := d.at(e.first); fe.parent != i || fe.prev != arena.None {
			return d.nodeError(i, e, "inconsistent first child")
		}
	}
	return nil
}

func (d *Document) nodeError(i arena.Index, e *element, msg string) error {
	return &NodeError{
		Elem:    d.handle(i),
		Type:    e.typ,
		Message: msg,
		err:     ErrUnexpectedNode,
	}
}
