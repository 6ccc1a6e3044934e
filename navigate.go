// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jes

import (
	"iter"
	"strings"

	"github.com/creachadair/jes/internal/arena"
	"github.com/creachadair/jes/internal/escape"
	"go4.org/mem"
)

// Root returns the root object of d. It reports ErrElementNotFound if d is
// empty.
func (d *Document) Root() (Elem, error) {
	if err := d.check(); err != nil {
		return Elem{}, err
	} else if d.root == arena.None {
		return Elem{}, d.note(notFoundf("document is empty"))
	}
	return d.handle(d.root), nil
}

// Type reports the type of e, or TypeNone if e is not a valid element of d.
func (d *Document) Type(e Elem) Type {
	if _, p, err := d.lookup(e); err == nil {
		return p.typ
	}
	return TypeNone
}

// Value returns a read-only view of the text of e. For a string or key, the
// text excludes quotation marks and is not unescaped. Objects and arrays have
// no text. The result is empty if e is not a valid element of d.
func (d *Document) Value(e Elem) mem.RO {
	if _, p, err := d.lookup(e); err == nil {
		return p.value
	}
	return mem.RO{}
}

// Text returns a copy of the text of e, as Value.
func (d *Document) Text(e Elem) string { return d.Value(e).StringCopy() }

// Unquote returns the decoded contents of a string or key element, with escape
// sequences replaced by the characters they denote.
func (d *Document) Unquote(e Elem) ([]byte, error) {
	_, p, err := d.lookup(e)
	if err != nil {
		return nil, d.note(err)
	} else if p.typ != TypeString && p.typ != TypeKey {
		return nil, d.note(invalidf("cannot unquote %v", p.typ))
	}
	return escape.Unquote(nil, p.value)
}

// Parent returns the parent of e.
func (d *Document) Parent(e Elem) (Elem, error) {
	return d.follow(e, "parent", func(p *element) arena.Index { return p.parent })
}

// Child returns the first child of e.
func (d *Document) Child(e Elem) (Elem, error) {
	return d.follow(e, "child", func(p *element) arena.Index { return p.first })
}

// LastChild returns the last child of e.
func (d *Document) LastChild(e Elem) (Elem, error) {
	return d.follow(e, "child", func(p *element) arena.Index { return p.last })
}

// Sibling returns the next sibling of e.
func (d *Document) Sibling(e Elem) (Elem, error) {
	return d.follow(e, "sibling", func(p *element) arena.Index { return p.sibling })
}

// PrevSibling returns the previous sibling of e.
func (d *Document) PrevSibling(e Elem) (Elem, error) {
	return d.follow(e, "sibling", func(p *element) arena.Index { return p.prev })
}

func (d *Document) follow(e Elem, what string, link func(*element) arena.Index) (Elem, error) {
	if err := d.check(); err != nil {
		return Elem{}, err
	}
	_, p, err := d.lookup(e)
	if err != nil {
		return Elem{}, d.note(err)
	}
	next := link(p)
	if next == arena.None {
		return Elem{}, d.note(notFoundf("%v has no %s", p.typ, what))
	}
	return d.handle(next), nil
}

// KeyValue returns the value of the member of obj named by path. The path is
// a sequence of key names separated by periods, for example "a.b.c", and each
// name but the last must name an object. If an object has several keys with
// the same name, the first is used.
func (d *Document) KeyValue(obj Elem, path string) (Elem, error) {
	k, err := d.keyPath(obj, path)
	if err != nil {
		return Elem{}, d.note(err)
	}
	v := d.at(k).first
	if v == arena.None {
		return Elem{}, d.note(notFoundf("key %q has no value", path))
	}
	return d.handle(v), nil
}

// FindKey returns the key element of the member of obj named by path, which
// has the same form as for KeyValue.
func (d *Document) FindKey(obj Elem, path string) (Elem, error) {
	k, err := d.keyPath(obj, path)
	if err != nil {
		return Elem{}, d.note(err)
	}
	return d.handle(k), nil
}

// keyPath resolves a dotted key path starting at obj, returning the index of
// the final key.
func (d *Document) keyPath(obj Elem, path string) (arena.Index, error) {
	if err := d.check(); err != nil {
		return arena.None, err
	}
	cur, p, err := d.lookup(obj)
	if err != nil {
		return arena.None, err
	} else if p.typ != TypeObject {
		return arena.None, invalidf("cannot look up key %q in %v", path, p.typ)
	} else if path == "" {
		return arena.None, invalidf("empty key path")
	}

	rest := path
	for {
		name, tail, more := strings.Cut(rest, ".")
		k := d.findKey(cur, mem.S(name))
		if k == arena.None {
			return arena.None, notFoundf("key %q not found in path %q", name, path)
		} else if !more {
			return k, nil
		}
		cur = d.at(k).first
		if cur == arena.None || d.at(cur).typ != TypeObject {
			return arena.None, notFoundf("key %q in path %q is not an object", name, path)
		}
		rest = tail
	}
}

// ArrayValue returns the element at offset i of arr. Negative offsets count
// backward from the end (-1 is last, -2 second last).
func (d *Document) ArrayValue(arr Elem, i int) (Elem, error) {
	if err := d.check(); err != nil {
		return Elem{}, err
	}
	ai, p, err := d.lookup(arr)
	if err != nil {
		return Elem{}, d.note(err)
	} else if p.typ != TypeArray {
		return Elem{}, d.note(invalidf("cannot index %v", p.typ))
	}
	v := d.arrayIndex(ai, i)
	if v == arena.None {
		return Elem{}, d.note(notFoundf("array index %d out of bounds", i))
	}
	return d.handle(v), nil
}

// arrayIndex returns the index of the element at offset i of array a, or
// arena.None. Negative offsets walk backward from the last element.
func (d *Document) arrayIndex(a arena.Index, i int) arena.Index {
	if i >= 0 {
		v := d.at(a).first
		for ; v != arena.None && i > 0; i-- {
			v = d.at(v).sibling
		}
		return v
	}
	v := d.at(a).last
	for ; v != arena.None && i < -1; i++ {
		v = d.at(v).prev
	}
	return v
}

// Keys returns a sequence of the keys of obj, in order. The sequence is
// empty if obj is not a valid object of d.
//
// The caller may delete the key it was given during iteration. If the loop
// body deletes obj or the key after the current one, the sequence ends.
// Other changes to obj during iteration have unspecified results.
func (d *Document) Keys(obj Elem) iter.Seq[Elem] { return d.children(obj, TypeObject) }

// Values returns a sequence of the elements of arr, in order. The sequence
// is empty if arr is not a valid array of d. The same rules apply to
// changes during iteration as for Keys.
func (d *Document) Values(arr Elem) iter.Seq[Elem] { return d.children(arr, TypeArray) }

// Members returns a sequence of the key/value pairs of obj, in order. The
// value of a key that has none is the zero Elem.
func (d *Document) Members(obj Elem) iter.Seq2[Elem, Elem] {
	return func(yield func(Elem, Elem) bool) {
		for k := range d.Keys(obj) {
			var v Elem
			if i := d.at(k.ref.Index).first; i != arena.None {
				v = d.handle(i)
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

func (d *Document) children(e Elem, want Type) iter.Seq[Elem] {
	return func(yield func(Elem) bool) {
		if d.check() != nil {
			return
		}
		ei, p, err := d.lookup(e)
		if err != nil || p.typ != want {
			return
		}
		for c := d.at(ei).first; c != arena.None; {
			next := d.at(c).sibling
			var nr arena.Ref
			if next != arena.None {
				nr = d.arena.RefOf(next)
			}
			if !yield(d.handle(c)) {
				return
			}
			// The loop body may have deleted the container or the next child.
			if !d.arena.Valid(e.ref) || (next != arena.None && !d.arena.Valid(nr)) {
				return
			}
			c = next
		}
	}
}
