// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jes

import (
	"fmt"
	"strings"

	"github.com/creachadair/jes/internal/arena"
	"go4.org/mem"
)

// Parse parses src as a JSON document and replaces the contents of d with
// the resulting tree. The input must be a single object. On success, the
// root object is reachable via Root.
//
// The tree refers to the text of src rather than copying it, so the caller
// must not modify src while d refers to it (that is, until the next Parse or
// Reset).
//
// In case of a syntax error, the returned error has type [*SyntaxError] and
// wraps ErrUnexpectedToken or ErrUnexpectedEOF. If the document has too few
// slots to hold the tree, the error wraps ErrOutOfMemory. After a failed
// Parse, d reports the same error from every operation until it is reset or
// another Parse succeeds.
func (d *Document) Parse(src []byte) error {
	d.Reset()
	d.log.Debug("parse start", "bytes", len(src), "capacity", d.Cap())

	p := parser{d: d, s: Scanner{src: src}, cur: arena.None}
	if err := p.run(); err != nil {
		d.err, d.failed = err, true
		d.log.Debug("parse failed", "error", err, "elements", d.Len())
		return err
	}
	d.log.Debug("parse complete", "bytes", len(src), "elements", d.Len())
	return nil
}

// parseState is the grammar position of the parser.
type parseState byte

const (
	stateStart          parseState = iota // before the root object
	stateWantKey                          // in an object, expecting a key or "}"
	stateWantValue                        // after a key and ":", expecting a value
	stateWantArrayValue                   // in an array, expecting a value or "]"
	statePropertyEnd                      // after a scalar member value
	stateValueEnd                         // after a scalar array value
	stateStructureEnd                     // after the close of an object or array
	stateDone                             // the document is complete
)

// A parser builds a tree from a token stream without recursion. The
// innermost open structure (or the key awaiting its value) is cur; when a
// structure closes, its enclosing structure is recovered from parent links,
// so the parser uses constant space regardless of nesting depth.
type parser struct {
	d     *Document
	s     Scanner
	cur   arena.Index
	state parseState
}

func (p *parser) run() error {
	for p.state != stateDone {
		if err := p.step(p.s.Next()); err != nil {
			return err
		}
	}
	return nil
}

// step advances the state machine by one token.
func (p *parser) step(tok Token) error {
	switch p.state {
	case stateStart:
		if tok != LBrace {
			return p.syntaxError(ErrUnexpectedToken, "%v", tokLabel([]Token{LBrace}, tok))
		}
		root, err := p.add(TypeObject)
		if err != nil {
			return err
		}
		p.d.root, p.cur, p.state = root, root, stateWantKey
		return nil

	case stateWantKey:
		if tok == RBrace && p.isEmpty() {
			return p.close()
		} else if tok == String {
			return p.key()
		} else if p.isEmpty() {
			return p.unexpected(tok, RBrace, String)
		}
		return p.unexpected(tok, String)

	case stateWantValue:
		return p.value(tok, statePropertyEnd)

	case stateWantArrayValue:
		if tok == RSquare && p.isEmpty() {
			return p.close()
		}
		return p.value(tok, stateValueEnd)

	case statePropertyEnd:
		return p.endProperty(tok)

	case stateValueEnd:
		return p.endValue(tok)

	case stateStructureEnd:
		up := p.d.at(p.cur).parent
		if up == arena.None {
			if tok != EOF {
				return p.syntaxError(ErrUnexpectedToken, "%v after end of document", tok)
			}
			p.state = stateDone
			return nil
		}
		p.cur = up
		if p.d.at(up).typ == TypeKey {
			return p.endProperty(tok)
		}
		return p.endValue(tok)
	}
	panic(fmt.Sprintf("jes: invalid parser state %d", p.state))
}

// key handles a string token in key position. The key must be followed by a
// colon.
func (p *parser) key() error {
	obj := p.cur
	if p.d.dup == OverwriteDuplicates {
		if k := p.d.findKey(obj, mem.B(p.s.Text())); k != arena.None {
			if v := p.d.at(k).first; v != arena.None {
				p.d.deleteTree(v)
			}
			p.cur = k
			return p.colon()
		}
	}
	k, err := p.add(TypeKey)
	if err != nil {
		return err
	}
	p.d.appendChild(obj, k)
	p.cur = k
	return p.colon()
}

func (p *parser) colon() error {
	if tok := p.s.Next(); tok != Colon {
		return p.unexpected(tok, Colon)
	}
	p.state = stateWantValue
	return nil
}

// value handles a token in value position, under a key or in an array. After
// a scalar the parser moves to next; after "{" or "[" it descends.
func (p *parser) value(tok Token, next parseState) error {
	typ, ok := valueType(tok)
	if !ok {
		return p.syntaxError(p.errFor(tok), "expected value, got %v", tok)
	}
	v, err := p.add(typ)
	if err != nil {
		return err
	}
	p.d.appendChild(p.cur, v)
	switch typ {
	case TypeObject:
		p.cur, p.state = v, stateWantKey
	case TypeArray:
		p.cur, p.state = v, stateWantArrayValue
	default:
		p.state = next
	}
	return nil
}

// endProperty handles the token after a complete object member; cur is the
// member's key.
func (p *parser) endProperty(tok Token) error {
	obj := p.d.at(p.cur).parent
	switch tok {
	case Comma:
		p.cur, p.state = obj, stateWantKey
		return nil
	case RBrace:
		p.cur = obj
		return p.close()
	}
	return p.unexpected(tok, Comma, RBrace)
}

// endValue handles the token after a complete array element; cur is the
// array.
func (p *parser) endValue(tok Token) error {
	switch tok {
	case Comma:
		p.state = stateWantArrayValue
		return nil
	case RSquare:
		return p.close()
	}
	return p.unexpected(tok, Comma, RSquare)
}

// close ends the object or array at cur.
func (p *parser) close() error {
	p.state = stateStructureEnd
	return nil
}

func (p *parser) isEmpty() bool { return p.d.at(p.cur).first == arena.None }

// add allocates a detached element for the current token.
func (p *parser) add(typ Type) (arena.Index, error) {
	var text mem.RO
	if typ != TypeObject && typ != TypeArray {
		text = mem.B(p.s.Text())
	}
	i, err := p.d.newElement(typ, text)
	if err != nil {
		return arena.None, p.syntaxError(err, "no space for %v (capacity %d)", typ, p.d.Cap())
	}
	return i, nil
}

func (p *parser) errFor(tok Token) error {
	if tok == EOF {
		return ErrUnexpectedEOF
	}
	return ErrUnexpectedToken
}

func (p *parser) unexpected(got Token, want ...Token) error {
	return p.syntaxError(p.errFor(got), "%v", tokLabel(want, got))
}

func (p *parser) syntaxError(err error, msg string, args ...any) error {
	return &SyntaxError{
		Token:    p.s.Token(),
		Location: p.s.Location(),
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	}
}

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got Token) string {
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, last)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}
