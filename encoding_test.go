// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jes_test

import (
	"testing"

	"github.com/creachadair/jes"
	"github.com/goccy/go-json"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ``},
		{" ", ` `},
		{"a\t\nb", `a\t\nb`},
		{"\x00\x01\x02", `\u0000\u0001\u0002`},
		{`a "b c\" d"`, `a \"b c\\\" d\"`},
		{`\ufffd`, `\\ufffd`},
		{"\u2028 \u2029 \ufffd", `\u2028 \u2029 ` + "\ufffd"},
		{"This is the end\v", `This is the end\u000b`},
		{"<\x1e>", `<\u001e>`},
		{"caf\u00e9 \U0001f600", "caf\u00e9 \U0001f600"},
	}
	for _, test := range tests {
		got := jes.Quote(test.input)
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}

		// The quoted text must decode to the original as a JSON string.
		var dec string
		if err := json.Unmarshal([]byte(`"`+got+`"`), &dec); err != nil {
			t.Errorf("Decode %#q: unexpected error: %v", got, err)
		} else if dec != test.input {
			t.Errorf("Decode %#q: got %#q, want %#q", got, dec, test.input)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, false},                         // ok
		{`ok go`, "ok go", false},               // ok
		{`abc\ndef`, "abc\ndef", false},         // C escapes
		{`\tabc\n`, "\tabc\n", false},           // C escapes
		{`\b\f\n\r\t`, "\b\f\n\r\t", false},     // C escapes
		{`a\/b`, "a/b", false},                  // solidus
		{`a \u0026 b`, "a & b", false},          // short Unicode escape
		{`\ud83d\ude00!`, "\U0001f600!", false}, // surrogate pair
		{`\ud83d!`, "\ufffd!", false},           // unpaired surrogate
		{`\u`, ``, true},                        // incomplete Unicode escape
		{`\u00`, ``, true},                      // incomplete Unicode escape
		{`\u00x9`, "\ufffd", false},             // invalid Unicode escape
		{`\u019 `, "\ufffd", false},             // invalid Unicode escape
		{`\q`, "\ufffd", false},                 // invalid escape
		{`a\"b`, `a"b`, false},                  // ok
		{`a\\b\\cd`, `a\b\cd`, false},           // ok
		{`trailing\`, ``, true},                 // incomplete escape
	}

	for _, test := range tests {
		got, err := jes.Unquote([]byte(test.input))
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
		} else if test.fail {
			t.Errorf("Unquote(%#q): got nil, want error", test.input)
		}
		if cmp := string(got); cmp != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, cmp, test.want)
		}
	}
}
