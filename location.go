// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jes

import (
	"bytes"
	"fmt"
)

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// Len reports the length of s in bytes.
func (s Span) Len() int { return s.End - s.Pos }

func (s Span) String() string { return fmt.Sprintf("%d-%d", s.Pos, s.End) }

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

func (loc Location) String() string {
	if loc.First.Line == loc.Last.Line {
		return fmt.Sprintf("%d:%d-%d", loc.First.Line, loc.First.Column, loc.Last.Column)
	}
	return fmt.Sprintf("%s-%s", loc.First, loc.Last)
}

// locate computes the location of span within src.
func locate(src []byte, span Span) Location {
	return Location{
		Span:  span,
		First: lineColAt(src, span.Pos),
		Last:  lineColAt(src, span.End),
	}
}

func lineColAt(src []byte, off int) LineCol {
	off = min(off, len(src))
	pre := src[:off]
	line := bytes.Count(pre, []byte("\n"))
	col := off - (bytes.LastIndexByte(pre, '\n') + 1)
	return LineCol{Line: line + 1, Column: col}
}
