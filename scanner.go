// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jes

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	EOF                  // end of input
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Colon                // colon ":"
	Comma                // comma ","
	String               // quoted string
	Number               // number
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	EOF:     "end of input",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Colon:   `":"`,
	Comma:   `","`,
	String:  "string",
	Number:  "number",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Scanner reads lexical tokens from a buffer of JSON text. Each call to Next
// advances the scanner to the next token. The scanner never copies the input:
// the text of each token is a window into the buffer.
type Scanner struct {
	src  []byte
	tok  Token
	pos  int // start offset of current token
	end  int // end offset of current token (noninclusive)
	next int // offset where scanning for the next token begins
}

// NewScanner constructs a new lexical scanner that consumes input from src.
// The caller must not modify src while the scanner is in use.
func NewScanner(src []byte) *Scanner { return &Scanner{src: src} }

// Next advances s to the next token of the input and returns its type.  At
// the end of the input, Next returns EOF, and continues to do so on further
// calls. A malformed token, including one cut short by the end of the input,
// is reported as Invalid.
func (s *Scanner) Next() Token {
	i := s.next
	for i < len(s.src) && isSpace(s.src[i]) {
		i++
	}
	if i >= len(s.src) {
		return s.emit(EOF, i, i, i)
	}

	ch := s.src[i]
	if t, ok := selfDelim(ch); ok {
		return s.emit(t, i, i+1, i+1)
	}
	switch {
	case ch == '"':
		return s.scanString(i)
	case isNumStart(ch):
		return s.scanNumber(i)
	case ch == 't':
		return s.scanConst(i, "true", True)
	case ch == 'f':
		return s.scanConst(i, "false", False)
	case ch == 'n':
		return s.scanConst(i, "null", Null)
	}
	return s.emit(Invalid, i, i+1, i+1)
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Span returns the location span of the current token. For a string, the span
// excludes the enclosing quotation marks.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Text returns the undecoded text of the current token.  The result is a view
// of the input buffer, and remains valid as long as the buffer does.  For a
// string, the enclosing quotation marks are not included.
func (s *Scanner) Text() []byte { return s.src[s.pos:s.end:s.end] }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location { return locate(s.src, s.Span()) }

func (s *Scanner) emit(tok Token, pos, end, next int) Token {
	s.tok, s.pos, s.end, s.next = tok, pos, min(end, len(s.src)), min(next, len(s.src))
	return tok
}

// scanString scans a string whose opening quote is at offset i. A backslash
// escapes the byte that follows it; no other interpretation is applied.
func (s *Scanner) scanString(i int) Token {
	for j := i + 1; j < len(s.src); j++ {
		switch s.src[j] {
		case '\\':
			j++ // skip the escaped byte
		case '"':
			return s.emit(String, i+1, j, j+1)
		}
	}
	return s.emit(Invalid, i, len(s.src), len(s.src))
}

// scanNumber scans a number starting at offset i: an optional sign, digits,
// at most one fraction, and an optional exponent. The number must be followed
// by a delimiter or the end of input.
func (s *Scanner) scanNumber(i int) Token {
	j := i
	if s.src[j] == '-' {
		j++
	}
	nd := s.digits(j)
	if nd == 0 {
		return s.emit(Invalid, i, j+1, j+1)
	}
	j += nd

	if j < len(s.src) && s.src[j] == '.' {
		j++
		nd := s.digits(j)
		if nd == 0 {
			return s.emit(Invalid, i, j, j)
		}
		j += nd
	}

	if j < len(s.src) && (s.src[j] == 'e' || s.src[j] == 'E') {
		j++
		if j < len(s.src) && (s.src[j] == '+' || s.src[j] == '-') {
			j++
		}
		nd := s.digits(j)
		if nd == 0 {
			return s.emit(Invalid, i, j, j)
		}
		j += nd
	}

	// Look ahead one byte to decide whether the number ended cleanly.
	if j < len(s.src) && !isDelim(s.src[j]) {
		return s.emit(Invalid, i, j+1, j+1)
	}
	return s.emit(Number, i, j, j)
}

// digits reports the number of consecutive decimal digits at offset i.
func (s *Scanner) digits(i int) int {
	n := 0
	for i+n < len(s.src) && isDigit(s.src[i+n]) {
		n++
	}
	return n
}

// scanConst matches the constant word at offset i, byte by byte.
func (s *Scanner) scanConst(i int, word string, tok Token) Token {
	for k := 0; k < len(word); k++ {
		if i+k >= len(s.src) {
			return s.emit(Invalid, i, len(s.src), len(s.src))
		} else if s.src[i+k] != word[k] {
			return s.emit(Invalid, i, i+k+1, i+k+1)
		}
	}
	end := i + len(word)
	return s.emit(tok, i, end, end)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }

func isDelim(ch byte) bool {
	_, ok := selfDelim(ch)
	return ok || isSpace(ch)
}

func selfDelim(ch byte) (Token, bool) {
	switch ch {
	case '{':
		return LBrace, true
	case '}':
		return RBrace, true
	case '[':
		return LSquare, true
	case ']':
		return RSquare, true
	case ':':
		return Colon, true
	case ',':
		return Comma, true
	}
	return Invalid, false
}
