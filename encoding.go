// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jes

import (
	"github.com/creachadair/jes/internal/escape"
	"go4.org/mem"
)

// Quote escapes src for use as the text of a string or key element. The
// result does not include quotation marks, which the renderer supplies.
func Quote(src string) string { return string(escape.Quote(nil, mem.S(src))) }

// Unquote decodes the text of a string or key element, as reported by
// [Document.Value]. The text must not include the enclosing quotation marks.
//
// Invalid escapes are replaced by the Unicode replacement rune. Unquote
// reports an error for an incomplete escape sequence.
func Unquote(text []byte) ([]byte, error) { return escape.Unquote(nil, mem.B(text)) }
