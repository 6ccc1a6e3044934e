// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jes

// Find traverses a sequential path into the structure of d starting from
// the element from, and returns the element reached.  Path elements are
// either strings or integers.
//
// If a path element is a string, the current element must be an object, and
// the string is a key path as for KeyValue; traversal continues from the
// value of the key it names.
//
// If a path element is an integer, the current element must be an array, and
// the integer is an offset into the array as for ArrayValue. Negative
// offsets count backward from the end (-1 is last, -2 second last).
//
// If the path cannot be completely consumed, Find reports the error from the
// step that failed. An empty path returns from unchanged.
func (d *Document) Find(from Elem, path ...any) (Elem, error) {
	cur := from
	if err := d.check(); err != nil {
		return Elem{}, err
	} else if _, _, err := d.lookup(cur); err != nil {
		return Elem{}, d.note(err)
	}
	for _, elt := range path {
		var err error
		switch t := elt.(type) {
		case string:
			cur, err = d.KeyValue(cur, t)
		case int:
			cur, err = d.ArrayValue(cur, t)
		default:
			return Elem{}, d.note(invalidf("invalid path element %T", elt))
		}
		if err != nil {
			return Elem{}, err
		}
	}
	return cur, nil
}
