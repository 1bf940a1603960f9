package diag

import (
	"testing"

	"scopelint/internal/source"
)

func TestCodeCatalogRoundTrip(t *testing.T) {
	want := []string{
		"undef", "unused-import", "unused-local", "loop-shadowed",
		"extra-semicolon", "eol-semicolon", "func-in-branch", "syntax-err",
	}
	codes := Codes()
	if len(codes) != len(want) {
		t.Fatalf("expected %d codes, got %d", len(want), len(codes))
	}
	for i, c := range codes {
		if c.ID() != want[i] {
			t.Fatalf("code %d: got %q, want %q", i, c.ID(), want[i])
		}
		parsed, ok := ParseCode(want[i])
		if !ok || parsed != c {
			t.Fatalf("ParseCode(%q) = %v, %v", want[i], parsed, ok)
		}
	}
	if _, ok := ParseCode("nope"); ok {
		t.Fatalf("unknown id must not parse")
	}
}

func TestRenderSubstitutesNameAndLine(t *testing.T) {
	d := New(LoopShadowed, "a.pyj", source.Point(0, 5, 4, 1), "i", 2)
	want := `The loop variable "i" was previously used in this scope at line: 2`
	if d.Message != want {
		t.Fatalf("got %q", d.Message)
	}
	if d.Severity != SevError {
		t.Fatalf("loop-shadowed is an error")
	}
	if New(EOLSemicolon, "a.pyj", source.Span{}, ";", 0).Severity != SevWarning {
		t.Fatalf("eol-semicolon is a warning")
	}
}

func TestBagSortIsStableByPosition(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(Undef, "f", source.Point(0, 3, 0, 1), "c", 0))
	bag.Add(New(Undef, "f", source.Point(0, 1, 4, 1), "b", 0))
	bag.Add(New(UnusedLocal, "f", source.Point(0, 1, 4, 1), "a", 0))
	bag.Add(New(Undef, "f", source.Point(0, 1, 0, 1), "z", 0))
	bag.Sort()

	var names []string
	for _, d := range bag.Items() {
		names = append(names, d.Name)
	}
	want := []string{"z", "b", "a", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected order %v", names)
		}
	}
}

func TestBagLimitAndFilter(t *testing.T) {
	bag := NewBag(2)
	for _, n := range []string{"a", "b", "c"} {
		bag.Add(New(Undef, "f", source.Span{}, n, 0))
	}
	if bag.Len() != 2 {
		t.Fatalf("expected limit to hold, got %d", bag.Len())
	}
	bag.Filter(func(d *Diagnostic) bool { return d.Name != "a" })
	if bag.Len() != 1 || bag.Items()[0].Name != "b" {
		t.Fatalf("unexpected filter result %+v", bag.Items())
	}
}

func TestFormatShort(t *testing.T) {
	d := New(EOLSemicolon, "x.pyj", source.Point(0, 4, 9, 1), ";", 0)
	if got := FormatShort(&d); got != "x.pyj:WARN:eol-semicolon:4:9: Semi-colons at the end of the line are unnecessary" {
		t.Fatalf("got %q", got)
	}
	u := New(Undef, "x.pyj", source.Span{}, "q", 0)
	if got := FormatShort(&u); got != `x.pyj:ERR:undef::: undefined symbol: "q"` {
		t.Fatalf("got %q", got)
	}
}
