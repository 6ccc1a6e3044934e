// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jes_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/creachadair/jes"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

// docGen generates random JSON objects. It writes each document twice, once
// with arbitrary whitespace and once in compact form, and counts the elements
// a parsed tree of the document will contain.
type docGen struct {
	f      *gofakeit.Faker
	loose  strings.Builder
	tight  strings.Builder
	nelems int
}

func (g *docGen) put(s string) {
	g.loose.WriteString(s)
	g.tight.WriteString(s)
}

func (g *docGen) space() {
	if g.f.Bool() {
		g.loose.WriteString([]string{" ", "\n", "\t", "\r\n  "}[g.f.IntRange(0, 3)])
	}
}

func (g *docGen) object(depth int) {
	g.nelems++
	g.put("{")
	for i := range g.f.IntRange(0, 4) {
		if i > 0 {
			g.put(",")
		}
		g.space()
		g.put(`"` + jes.Quote(g.f.Word()) + `"`)
		g.nelems++
		g.space()
		g.put(":")
		g.space()
		g.value(depth + 1)
		g.space()
	}
	g.put("}")
}

func (g *docGen) array(depth int) {
	g.nelems++
	g.put("[")
	for i := range g.f.IntRange(0, 5) {
		if i > 0 {
			g.put(",")
		}
		g.space()
		g.value(depth + 1)
		g.space()
	}
	g.put("]")
}

func (g *docGen) value(depth int) {
	kind := g.f.IntRange(0, 6)
	if depth >= 4 && kind < 2 {
		kind += 2 // no more nesting
	}
	switch kind {
	case 0:
		g.object(depth)
		return
	case 1:
		g.array(depth)
		return
	case 2:
		g.put(`"` + jes.Quote(g.f.Word()+"\t"+g.f.Word()) + `"`)
	case 3:
		g.put(strconv.Itoa(g.f.IntRange(-1000, 1000)))
	case 4:
		g.put(strconv.FormatFloat(g.f.Float64Range(-1e6, 1e6), 'g', -1, 64))
	case 5:
		g.put([]string{"true", "false"}[g.f.IntRange(0, 1)])
	default:
		g.put("null")
	}
	g.nelems++
}

func TestRandomDocuments(t *testing.T) {
	for seed := int64(1); seed <= 100; seed++ {
		g := &docGen{f: gofakeit.New(seed)}
		g.space()
		g.object(0)
		g.space()
		input, want := g.loose.String(), g.tight.String()

		d := newDoc(t, g.nelems, nil)
		if err := d.Parse([]byte(input)); err != nil {
			t.Fatalf("Seed %d: Parse %#q: unexpected error: %v", seed, input, err)
		}
		if d.Len() != g.nelems {
			t.Errorf("Seed %d: got %d elements, want %d", seed, d.Len(), g.nelems)
		}
		got := mustRender(t, d)
		if got != want {
			t.Errorf("Seed %d: Render:\ngot:  %s\nwant: %s", seed, got, want)
		}
		if !json.Valid([]byte(got)) {
			t.Errorf("Seed %d: Render produced invalid JSON: %s", seed, got)
		}

		// Parsing with duplicates merged must agree with a standard decoder,
		// in which the last occurrence of a key wins.
		od := newDoc(t, g.nelems, &jes.Options{Duplicates: jes.OverwriteDuplicates})
		if err := od.Parse([]byte(input)); err != nil {
			t.Fatalf("Seed %d: Parse (overwrite): unexpected error: %v", seed, err)
		}
		var wantVal, gotVal any
		if err := json.Unmarshal([]byte(input), &wantVal); err != nil {
			t.Fatalf("Seed %d: Unmarshal input: %v", seed, err)
		}
		if err := json.Unmarshal([]byte(mustRender(t, od)), &gotVal); err != nil {
			t.Fatalf("Seed %d: Unmarshal output: %v", seed, err)
		}
		if diff := cmp.Diff(wantVal, gotVal); diff != "" {
			t.Errorf("Seed %d: Decoded output (-want, +got):\n%s", seed, diff)
		}

		// With one slot fewer than needed, parsing must run out of space.
		if g.nelems > 1 {
			sd := newDoc(t, g.nelems-1, nil)
			if err := sd.Parse([]byte(input)); err == nil {
				t.Errorf("Seed %d: Parse in %d slots: got nil, want error", seed, g.nelems-1)
			}
		}
	}
}
