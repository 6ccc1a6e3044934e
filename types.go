// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jes

import (
	"log/slog"

	"github.com/creachadair/jes/internal/arena"
	"go4.org/mem"
)

// Type is the type of an element of a document tree.
type Type byte

// Constants defining the valid Type values.
const (
	TypeNone   Type = iota // no element
	TypeObject             // object: children are keys
	TypeKey                // object member name: its one child is the value
	TypeArray              // array: children are values
	TypeString             // string value, text excludes quotes
	TypeNumber             // number value
	TypeTrue               // constant: true
	TypeFalse              // constant: false
	TypeNull               // constant: null
)

var typeStr = [...]string{
	TypeNone:   "none",
	TypeObject: "object",
	TypeKey:    "key",
	TypeArray:  "array",
	TypeString: "string",
	TypeNumber: "number",
	TypeTrue:   "true",
	TypeFalse:  "false",
	TypeNull:   "null",
}

func (t Type) String() string {
	v := int(t)
	if v >= len(typeStr) {
		return typeStr[TypeNone]
	}
	return typeStr[v]
}

// IsValue reports whether t is the type of a JSON value, that is, anything
// other than a key or TypeNone.
func (t Type) IsValue() bool { return t == TypeObject || (t >= TypeArray && t <= TypeNull) }

// isScalar reports whether t is a type that cannot have children.
func (t Type) isScalar() bool { return t >= TypeString && t <= TypeNull }

// valueType returns the element type produced by a value token.
func valueType(tok Token) (Type, bool) {
	switch tok {
	case LBrace:
		return TypeObject, true
	case LSquare:
		return TypeArray, true
	case String:
		return TypeString, true
	case Number:
		return TypeNumber, true
	case True:
		return TypeTrue, true
	case False:
		return TypeFalse, true
	case Null:
		return TypeNull, true
	}
	return TypeNone, false
}

// element is the record stored in each arena slot. Family relations are
// arena indices, with arena.None meaning absent.
type element struct {
	typ   Type
	value mem.RO // a window into the parsed input, or a caller-owned string

	parent  arena.Index
	sibling arena.Index // next sibling
	prev    arena.Index // previous sibling
	first   arena.Index // first child
	last    arena.Index // last child
}

// A DuplicatePolicy selects how the parser treats a key that occurs more than
// once in the same object.
type DuplicatePolicy byte

const (
	// KeepDuplicates keeps every occurrence of a key, in input order. Lookups
	// by name find the first occurrence.
	KeepDuplicates DuplicatePolicy = iota

	// OverwriteDuplicates keeps one key per name. A later occurrence replaces
	// the value of the earlier one, which keeps its position in the object.
	OverwriteDuplicates
)

func (p DuplicatePolicy) String() string {
	if p == OverwriteDuplicates {
		return "overwrite"
	}
	return "keep"
}

// Options are settings for a Document. A nil *Options provides defaults.
type Options struct {
	// Duplicates selects how Parse handles repeated keys in an object.
	// The default is KeepDuplicates.
	Duplicates DuplicatePolicy

	// Logger, if non-nil, receives debug diagnostics about parsing, arena
	// exhaustion, and rendering.
	Logger *slog.Logger
}

func (o *Options) duplicates() DuplicatePolicy {
	if o == nil {
		return KeepDuplicates
	}
	return o.Duplicates
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
