// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jes

import (
	"errors"
	"fmt"
)

// Errors reported by the engine. Errors returned by the methods of a Document
// wrap one of these values, so that callers can use errors.Is to classify
// them.
var (
	// ErrOutOfMemory means the document arena was exhausted, or an output
	// buffer was too small to hold the rendered document.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrUnexpectedToken means the input violates the JSON grammar.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrUnexpectedEOF means the input ended while a structure was open.
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrUnexpectedNode means the tree does not satisfy the structural rules
	// of a JSON document, for example a key without a value.
	ErrUnexpectedNode = errors.New("unexpected node")

	// ErrInvalidParameter means a call was malformed, for example it passed
	// an element that does not belong to the document, or was deleted.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrElementNotFound means a lookup by key, path, or index found nothing.
	ErrElementNotFound = errors.New("element not found")
)

// SyntaxError is the concrete type of errors reported by Parse.
type SyntaxError struct {
	Token    Token    // the offending token
	Location Location // where the offending token occurs
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s (offset %d): %s", s.Location.First, s.Location.Pos, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// NodeError is the concrete type of errors reported when the tree violates a
// structural rule. It retains the element at which the violation was found.
type NodeError struct {
	Elem    Elem // the offending element
	Type    Type // the type of the offending element
	Message string

	err error
}

// Error satisfies the error interface.
func (n *NodeError) Error() string {
	return fmt.Sprintf("%v %v: %s", n.Type, n.Elem.ref, n.Message)
}

// Unwrap supports error wrapping.
func (n *NodeError) Unwrap() error { return n.err }

func invalidf(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(msg, args...))
}

func notFoundf(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrElementNotFound, fmt.Sprintf(msg, args...))
}
