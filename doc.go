// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jes implements a JSON document engine that works within a single
// block of storage supplied by the caller.
//
// # Documents
//
// A Document holds a JSON tree in a fixed-capacity arena of slots, one slot
// per element. The caller supplies the slots when the document is created,
// and the document never allocates element storage of its own:
//
//	block := make([]jes.Slot, 512)
//	doc, err := jes.New(block, nil)
//
// or, to size the block in bytes:
//
//	doc, err := jes.NewSize(64<<10, &jes.Options{
//	   Duplicates: jes.OverwriteDuplicates,
//	})
//
// Parse builds a tree from a buffer of JSON text. The tree refers to the
// text of the input rather than copying it, so the buffer must outlive the
// tree:
//
//	if err := doc.Parse(input); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// # Elements
//
// The tree consists of elements, each with a Type:
//
//	JSON         | Elements
//	------------ | -----------------------------------------------------
//	{ ... }      | TypeObject, whose children are TypeKey elements
//	"name": v    | TypeKey, whose one child is the value v
//	[ ... ]      | TypeArray, whose children are values
//	"text"       | TypeString
//	1.5          | TypeNumber
//	true, false  | TypeTrue, TypeFalse
//	null         | TypeNull
//
// The root of a document is always an object. Elements are addressed by Elem
// handles. A handle is invalidated when its element is deleted, or when the
// document is reset or reparsed; using an invalid handle reports
// ErrInvalidParameter rather than touching whatever element may have since
// reused the slot.
//
// # Queries
//
// KeyValue looks up an object member by a dotted path of key names, and
// ArrayValue indexes an array, with negative offsets counting from the end:
//
//	root, _ := doc.Root()
//	v, err := doc.KeyValue(root, "config.limits")
//	last, err := doc.ArrayValue(v, -1)
//
// Keys, Values, and Members return iterators over the children of objects
// and arrays, and Find combines key and index steps into one traversal.
//
// # Mutation
//
// Add, Delete, UpdateKey, UpdateKeyValue, and UpdateArrayValue change the
// tree. Text supplied for new elements is not copied, and is written to the
// output verbatim; use Quote to escape arbitrary strings.
//
// # Rendering
//
// Evaluate reports the exact length of the compact JSON rendering of a
// document, and Render writes it into a buffer of at least that size:
//
//	n, err := doc.Evaluate()
//	buf := make([]byte, n)
//	if _, err := doc.Render(buf); err != nil {
//	   log.Fatalf("Render failed: %v", err)
//	}
//
// # Errors
//
// Errors wrap one of ErrOutOfMemory, ErrUnexpectedToken, ErrUnexpectedEOF,
// ErrUnexpectedNode, ErrInvalidParameter, or ErrElementNotFound. Parse errors
// have concrete type *SyntaxError and carry the location of the offending
// token. The first error since the last Parse or Reset is reported by
// Document.Err; after a failed Parse, every operation reports that error
// until the document is reset or parsed again.
package jes
