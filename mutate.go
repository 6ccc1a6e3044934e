// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jes

import (
	"github.com/creachadair/jes/internal/arena"
	"go4.org/mem"
)

// Add adds a new element of type typ with the given text as the last child of
// parent, and returns the new element. If parent is the zero Elem, the new
// element becomes the root of d, which must be empty, and typ must be
// TypeObject.
//
// The value is used as written, without copying or escaping: for a key or
// string it is the text between the quotation marks (see Quote). For the
// constants true, false, and null, value may be empty. Objects and arrays
// have no text, and value is ignored.
//
// The new element must respect the structure of a JSON document: the
// children of an object are keys, a key has exactly one value, the children
// of an array are values, and other values have no children. Otherwise, Add
// reports ErrInvalidParameter. If d is full, Add reports ErrOutOfMemory.
func (d *Document) Add(parent Elem, typ Type, value string) (Elem, error) {
	if err := d.check(); err != nil {
		return Elem{}, err
	}
	text, err := elementText(typ, value)
	if err != nil {
		return Elem{}, d.note(err)
	}

	if parent.IsZero() {
		if d.root != arena.None {
			return Elem{}, d.note(invalidf("document already has a root"))
		} else if typ != TypeObject {
			return Elem{}, d.note(invalidf("root must be an object, not %v", typ))
		}
		i, err := d.newElement(typ, text)
		if err != nil {
			return Elem{}, d.note(err)
		}
		d.root = i
		return d.handle(i), nil
	}

	pi, p, err := d.lookup(parent)
	if err != nil {
		return Elem{}, d.note(err)
	} else if err := canAdopt(p, typ); err != nil {
		return Elem{}, d.note(err)
	}
	i, err := d.newElement(typ, text)
	if err != nil {
		return Elem{}, d.note(err)
	}
	d.appendChild(pi, i)
	return d.handle(i), nil
}

// Delete removes e and all its descendants from d. Every element removed is
// returned to the free pool, and handles to them become invalid. Deleting
// the root leaves d empty.
//
// Deleting the value of a key leaves the key without a value. Such a tree
// cannot be rendered until the key is given a value or deleted.
func (d *Document) Delete(e Elem) error {
	if err := d.check(); err != nil {
		return err
	}
	i, _, err := d.lookup(e)
	if err != nil {
		return d.note(err)
	}
	n := d.deleteTree(i)
	d.log.Debug("deleted subtree", "elements", n, "remaining", d.Len())
	return nil
}

// UpdateKey changes the name of key to name, without changing its value.
// As with Add, name is used as written, without copying or escaping.
func (d *Document) UpdateKey(key Elem, name string) error {
	if err := d.check(); err != nil {
		return err
	}
	_, p, err := d.lookup(key)
	if err != nil {
		return d.note(err)
	} else if p.typ != TypeKey {
		return d.note(invalidf("cannot rename %v", p.typ))
	}
	p.value = mem.S(name)
	return nil
}

// UpdateKeyValue replaces the value of the member of obj named by path,
// which has the same form as for KeyValue, with a new element of type typ
// with the given text, and returns the new element. The previous value and
// its descendants, if any, are deleted. The slots of the previous value are
// reused if d has no other room for the new element.
func (d *Document) UpdateKeyValue(obj Elem, path string, typ Type, value string) (Elem, error) {
	k, err := d.keyPath(obj, path)
	if err != nil {
		return Elem{}, d.note(err)
	} else if !typ.IsValue() {
		return Elem{}, d.note(invalidf("%v is not a value type", typ))
	}
	text, err := elementText(typ, value)
	if err != nil {
		return Elem{}, d.note(err)
	}
	old := d.at(k).first
	v, err := d.newElement(typ, text)
	if err != nil && old != arena.None {
		d.deleteTree(old)
		old = arena.None
		v, err = d.newElement(typ, text)
	}
	if err != nil {
		return Elem{}, d.note(err)
	}
	if old != arena.None {
		d.deleteTree(old)
	}
	d.appendChild(k, v)
	return d.handle(v), nil
}

// UpdateArrayValue replaces the element at offset i of arr with a new element
// of type typ with the given text, and returns the new element. The new
// element takes the position of the old one, which is deleted along with its
// descendants. Negative offsets count backward from the end. As with
// UpdateKeyValue, the slots of the old element are reused if d is full.
//
// As a convenience, an offset equal to the length of arr appends the new
// element to the end of the array. Any other offset out of range reports
// ErrElementNotFound.
func (d *Document) UpdateArrayValue(arr Elem, i int, typ Type, value string) (Elem, error) {
	if err := d.check(); err != nil {
		return Elem{}, err
	}
	ai, p, err := d.lookup(arr)
	if err != nil {
		return Elem{}, d.note(err)
	} else if p.typ != TypeArray {
		return Elem{}, d.note(invalidf("cannot index %v", p.typ))
	} else if !typ.IsValue() {
		return Elem{}, d.note(invalidf("%v is not a value type", typ))
	}
	text, err := elementText(typ, value)
	if err != nil {
		return Elem{}, d.note(err)
	}

	old := d.arrayIndex(ai, i)
	if old == arena.None && (i < 0 || i != d.numChildren(ai)) {
		return Elem{}, d.note(notFoundf("array index %d out of bounds", i))
	}
	v, err := d.newElement(typ, text)
	if err != nil && old != arena.None {
		prev := d.at(old).prev
		d.deleteTree(old)
		if v, err = d.newElement(typ, text); err == nil {
			d.insertAfter(ai, prev, v)
			return d.handle(v), nil
		}
	}
	if err != nil {
		return Elem{}, d.note(err)
	}
	if old == arena.None {
		d.appendChild(ai, v)
	} else {
		d.replace(old, v)
	}
	return d.handle(v), nil
}

func (d *Document) numChildren(i arena.Index) int {
	var n int
	for c := d.at(i).first; c != arena.None; c = d.at(c).sibling {
		n++
	}
	return n
}

// canAdopt reports whether an element of type typ may be added as the next
// child of p.
func canAdopt(p *element, typ Type) error {
	switch p.typ {
	case TypeObject:
		if typ != TypeKey {
			return invalidf("child of object must be a key, not %v", typ)
		}
	case TypeKey:
		if !typ.IsValue() {
			return invalidf("value of key must be a value, not %v", typ)
		} else if p.first != arena.None {
			return invalidf("key already has a value")
		}
	case TypeArray:
		if !typ.IsValue() {
			return invalidf("element of array must be a value, not %v", typ)
		}
	default:
		return invalidf("%v cannot have children", p.typ)
	}
	return nil
}

var constText = [...]string{
	TypeTrue:  "true",
	TypeFalse: "false",
	TypeNull:  "null",
}

// elementText checks value as the text of an element of type typ, and returns
// the text to store.
func elementText(typ Type, value string) (mem.RO, error) {
	switch typ {
	case TypeObject, TypeArray:
		return mem.RO{}, nil
	case TypeKey, TypeString:
		return mem.S(value), nil
	case TypeNumber:
		if value == "" {
			return mem.RO{}, invalidf("empty number")
		}
		return mem.S(value), nil
	case TypeTrue, TypeFalse, TypeNull:
		if value != "" && value != constText[typ] {
			return mem.RO{}, invalidf("invalid text %q for %v", value, typ)
		}
		return mem.S(constText[typ]), nil
	}
	return mem.RO{}, invalidf("invalid element type %v", typ)
}
