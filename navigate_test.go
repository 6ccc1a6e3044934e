// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jes_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jes"
	"github.com/google/go-cmp/cmp"
)

const navInput = `{
  "a": {"b": {"c": 42}, "x": "y"},
  "list": [10, 20, 30],
  "dup": 1,
  "dup": 2,
  "s": "tab\there",
  "empty": []
}`

func TestKeyValue(t *testing.T) {
	d := mustParse(t, navInput, nil)
	root, err := d.Root()
	if err != nil {
		t.Fatalf("Root: unexpected error: %v", err)
	}

	tests := []struct {
		path string
		want string // rendered text, or "" on error
		err  error
	}{
		{"a.b.c", "42", nil},
		{"a.x", "y", nil},
		{"dup", "1", nil},
		{"s", `tab\there`, nil},
		{"a.z.c", "", jes.ErrElementNotFound},
		{"a.x.c", "", jes.ErrElementNotFound},
		{"nonesuch", "", jes.ErrElementNotFound},
		{"a..b", "", jes.ErrElementNotFound},
		{"", "", jes.ErrInvalidParameter},
	}
	for _, test := range tests {
		v, err := d.KeyValue(root, test.path)
		if !errors.Is(err, test.err) {
			t.Errorf("KeyValue(%q): got error %v, want %v", test.path, err, test.err)
			continue
		}
		if err == nil {
			if got := d.Text(v); got != test.want {
				t.Errorf("KeyValue(%q): got %q, want %q", test.path, got, test.want)
			}
		}
	}

	// The start of a lookup must be an object.
	list, err := d.KeyValue(root, "list")
	if err != nil {
		t.Fatalf("KeyValue(list): unexpected error: %v", err)
	}
	if _, err := d.KeyValue(list, "x"); !errors.Is(err, jes.ErrInvalidParameter) {
		t.Errorf("KeyValue on array: got %v, want %v", err, jes.ErrInvalidParameter)
	}
	if _, err := d.KeyValue(jes.Elem{}, "a"); !errors.Is(err, jes.ErrInvalidParameter) {
		t.Errorf("KeyValue on zero Elem: got %v, want %v", err, jes.ErrInvalidParameter)
	}

	// FindKey returns the key rather than its value.
	k, err := d.FindKey(root, "a.b")
	if err != nil {
		t.Fatalf("FindKey: unexpected error: %v", err)
	}
	if got := d.Type(k); got != jes.TypeKey {
		t.Errorf("FindKey type: got %v, want %v", got, jes.TypeKey)
	}
	if got := d.Text(k); got != "b" {
		t.Errorf("FindKey text: got %q, want %q", got, "b")
	}
}

func TestArrayValue(t *testing.T) {
	d := mustParse(t, navInput, nil)
	root, _ := d.Root()
	list, err := d.KeyValue(root, "list")
	if err != nil {
		t.Fatalf("KeyValue(list): unexpected error: %v", err)
	}

	tests := []struct {
		index int
		want  string
		err   error
	}{
		{0, "10", nil},
		{1, "20", nil},
		{2, "30", nil},
		{-1, "30", nil},
		{-2, "20", nil},
		{-3, "10", nil},
		{3, "", jes.ErrElementNotFound},
		{-4, "", jes.ErrElementNotFound},
	}
	for _, test := range tests {
		v, err := d.ArrayValue(list, test.index)
		if !errors.Is(err, test.err) {
			t.Errorf("ArrayValue(%d): got error %v, want %v", test.index, err, test.err)
			continue
		}
		if err == nil {
			if got := d.Text(v); got != test.want {
				t.Errorf("ArrayValue(%d): got %q, want %q", test.index, got, test.want)
			}
		}
	}

	empty, _ := d.KeyValue(root, "empty")
	for _, i := range []int{0, -1} {
		if _, err := d.ArrayValue(empty, i); !errors.Is(err, jes.ErrElementNotFound) {
			t.Errorf("ArrayValue(empty, %d): got %v, want %v", i, err, jes.ErrElementNotFound)
		}
	}
	if _, err := d.ArrayValue(root, 0); !errors.Is(err, jes.ErrInvalidParameter) {
		t.Errorf("ArrayValue on object: got %v, want %v", err, jes.ErrInvalidParameter)
	}
}

func TestFind(t *testing.T) {
	d := mustParse(t, `{"a":[{"b":[1,{"c":"ok"}]}],"d":{"e":{"f":[true]}}}`, nil)
	root, _ := d.Root()

	tests := []struct {
		path []any
		want string
		err  error
	}{
		{[]any{"a", 0, "b", -1, "c"}, "ok", nil},
		{[]any{"a", -1, "b", 0}, "1", nil},
		{[]any{"d.e.f", 0}, "true", nil},
		{[]any{"d", "e", "f", -1}, "true", nil},
		{[]any{"a", 1}, "", jes.ErrElementNotFound},
		{[]any{"a", "b"}, "", jes.ErrInvalidParameter},
		{[]any{"a", 1.5}, "", jes.ErrInvalidParameter},
	}
	for _, test := range tests {
		v, err := d.Find(root, test.path...)
		if !errors.Is(err, test.err) {
			t.Errorf("Find %v: got error %v, want %v", test.path, err, test.err)
			continue
		}
		if err == nil {
			if got := d.Text(v); got != test.want {
				t.Errorf("Find %v: got %q, want %q", test.path, got, test.want)
			}
		}
	}

	// An empty path returns the starting element.
	if v, err := d.Find(root); err != nil {
		t.Errorf("Find(): unexpected error: %v", err)
	} else if v != root {
		t.Errorf("Find(): got %v, want root", v)
	}
}

func TestNavigate(t *testing.T) {
	d := mustParse(t, `{"p":1,"q":[true,false,null]}`, nil)
	root, _ := d.Root()

	first, err := d.Child(root)
	if err != nil {
		t.Fatalf("Child: unexpected error: %v", err)
	}
	last, err := d.LastChild(root)
	if err != nil {
		t.Fatalf("LastChild: unexpected error: %v", err)
	}
	if got, want := d.Text(first), "p"; got != want {
		t.Errorf("Child: got %q, want %q", got, want)
	}
	if got, want := d.Text(last), "q"; got != want {
		t.Errorf("LastChild: got %q, want %q", got, want)
	}

	if next, err := d.Sibling(first); err != nil || next != last {
		t.Errorf("Sibling(p): got %v, %v; want q", next, err)
	}
	if prev, err := d.PrevSibling(last); err != nil || prev != first {
		t.Errorf("PrevSibling(q): got %v, %v; want p", prev, err)
	}
	if _, err := d.Sibling(last); !errors.Is(err, jes.ErrElementNotFound) {
		t.Errorf("Sibling(q): got %v, want %v", err, jes.ErrElementNotFound)
	}
	if _, err := d.Parent(root); !errors.Is(err, jes.ErrElementNotFound) {
		t.Errorf("Parent(root): got %v, want %v", err, jes.ErrElementNotFound)
	}
	if up, err := d.Parent(first); err != nil || up != root {
		t.Errorf("Parent(p): got %v, %v; want root", up, err)
	}

	arr, _ := d.Child(last)
	var types []jes.Type
	for v := range d.Values(arr) {
		types = append(types, d.Type(v))
	}
	if diff := cmp.Diff([]jes.Type{jes.TypeTrue, jes.TypeFalse, jes.TypeNull}, types); diff != "" {
		t.Errorf("Values (-want, +got):\n%s", diff)
	}
	one, err := d.Child(first)
	if err != nil {
		t.Fatalf("Child(p): unexpected error: %v", err)
	} else if got := d.Type(one); got != jes.TypeNumber {
		t.Errorf("Child(p): got %v, want %v", got, jes.TypeNumber)
	}
	if _, err := d.Child(one);!errors.Is(err, jes.ErrElementNotFound) {
		t.Errorf("Child(1): got %v, want %v", err, jes.ErrElementNotFound)
	}
}

func TestIterators(t *testing.T) {
	d := mustParse(t, `{"x":1,"y":"two","z":[3]}`, nil)
	root, _ := d.Root()

	var keys []string
	for k := range d.Keys(root) {
		keys = append(keys, d.Text(k))
	}
	if diff := cmp.Diff([]string{"x", "y", "z"}, keys); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}

	type member struct {
		Key  string
		Type jes.Type
	}
	var got []member
	for k, v := range d.Members(root) {
		got = append(got, member{d.Text(k), d.Type(v)})
	}
	if diff := cmp.Diff([]member{
		{"x", jes.TypeNumber}, {"y", jes.TypeString}, {"z", jes.TypeArray},
	}, got); diff != "" {
		t.Errorf("Members (-want, +got):\n%s", diff)
	}

	// Stopping early is allowed.
	var n int
	for range d.Keys(root) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("Keys with break: got %d iterations, want 1", n)
	}

	// Values of a non-array, and Keys of a non-object, are empty.
	for range d.Values(root) {
		t.Error("Values of an object yielded an element")
	}
	z, _ := d.KeyValue(root, "z")
	for range d.Keys(z) {
		t.Error("Keys of an array yielded an element")
	}

	// The key just yielded may be deleted during iteration.
	for k := range d.Keys(root) {
		if err := d.Delete(k); err != nil {
			t.Errorf("Delete %q: unexpected error: %v", d.Text(k), err)
		}
	}
	if got, want := mustRender(t, d), `{}`; got != want {
		t.Errorf("After deleting keys: got %#q, want %#q", got, want)
	}
}

func TestIterators_deleteAhead(t *testing.T) {
	d := mustParse(t, `{"a":1,"b":2,"c":3,"d":[4,5,6]}`, nil)
	root, _ := d.Root()

	// Deleting the next key ends the sequence.
	var keys []string
	for k := range d.Keys(root) {
		keys = append(keys, d.Text(k))
		if d.Text(k) == "a" {
			b, err := d.FindKey(root, "b")
			if err != nil {
				t.Fatalf("FindKey: unexpected error: %v", err)
			}
			if err := d.Delete(b); err != nil {
				t.Fatalf("Delete: unexpected error: %v", err)
			}
		}
	}
	if diff := cmp.Diff([]string{"a"}, keys); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}

	// Deleting the container ends the sequence.
	arr, _ := d.KeyValue(root, "d")
	dk, _ := d.FindKey(root, "d")
	var vals []string
	for v := range d.Values(arr) {
		vals = append(vals, d.Text(v))
		if err := d.Delete(dk); err != nil {
			t.Fatalf("Delete: unexpected error: %v", err)
		}
	}
	if diff := cmp.Diff([]string{"4"}, vals); diff != "" {
		t.Errorf("Values (-want, +got):\n%s", diff)
	}
	if got, want := mustRender(t, d), `{"a":1,"c":3}`; got != want {
		t.Errorf("Render: got %#q, want %#q", got, want)
	}
}

func TestUnquoteElem(t *testing.T) {
	d := mustParse(t, `{"a\tb":"c\"d","n":5}`, nil)
	root, _ := d.Root()

	k, _ := d.Child(root)
	if got, err := d.Unquote(k); err != nil {
		t.Errorf("Unquote key: unexpected error: %v", err)
	} else if string(got) != "a\tb" {
		t.Errorf("Unquote key: got %q, want %q", got, "a\tb")
	}

	v, _ := d.Child(k)
	if got, err := d.Unquote(v); err != nil {
		t.Errorf("Unquote value: unexpected error: %v", err)
	} else if string(got) != `c"d` {
		t.Errorf("Unquote value: got %q, want %q", got, `c"d`)
	}

	n, _ := d.KeyValue(root, "n")
	if _, err := d.Unquote(n); !errors.Is(err, jes.ErrInvalidParameter) {
		t.Errorf("Unquote number: got %v, want %v", err, jes.ErrInvalidParameter)
	}
}

func TestForeignElem(t *testing.T) {
	d1 := mustParse(t, `{"a":1}`, nil)
	d2 := mustParse(t, `{"a":1}`, nil)
	r1, _ := d1.Root()

	if _, err := d2.KeyValue(r1, "a"); !errors.Is(err, jes.ErrInvalidParameter) {
		t.Errorf("KeyValue with foreign root: got %v, want %v", err, jes.ErrInvalidParameter)
	}
	if got := d2.Type(r1); got != jes.TypeNone {
		t.Errorf("Type of foreign element: got %v, want %v", got, jes.TypeNone)
	}
	if err := d2.Delete(r1); !errors.Is(err, jes.ErrInvalidParameter) {
		t.Errorf("Delete of foreign element: got %v, want %v", err, jes.ErrInvalidParameter)
	}
	if got := d2.Err(); !errors.Is(got, jes.ErrInvalidParameter) {
		t.Errorf("Err: got %v, want %v", got, jes.ErrInvalidParameter)
	}
	if got := d1.Len(); got != 3 {
		t.Errorf("Len of d1: got %d, want 3", got)
	}
}
