package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestBagAccumulatesInOrder(t *testing.T) {
	bag := NewBag()
	bag.Warnf(Position{"a.p4", 0, 0}, "first")
	bag.Errorf(Position{"a.p4", 1, 2}, "second")

	if bag.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", bag.Len())
	}

	if !bag.HasErrors() {
		t.Fatalf("expected HasErrors to be true")
	}

	entries := bag.Entries()
	if entries[0].Message != "first" || entries[1].Message != "second" {
		t.Fatalf("unexpected entry order: %+v", entries)
	}
}

func TestRenderIncludesSnippetAndCaret(t *testing.T) {
	bag := NewBag()
	bag.Errorf(Position{"a.p4", 1, 4}, "'X' is undefined")

	lines := []string{
		"parser P(out X h) {",
		"    h.f = foo;",
	}

	var buf bytes.Buffer
	Render(&buf, bag, lines, false)

	out := buf.String()
	if !strings.Contains(out, "'X' is undefined") {
		t.Fatalf("missing message in output: %q", out)
	}

	if !strings.Contains(out, lines[1]) {
		t.Fatalf("missing source line in output: %q", out)
	}

	if !strings.Contains(out, "^") {
		t.Fatalf("missing caret in output: %q", out)
	}
}

func TestExtendPreservesOrder(t *testing.T) {
	a := NewBag()
	a.Errorf(Position{}, "a")

	b := NewBag()
	b.Errorf(Position{}, "b")

	a.Extend(b)

	if a.Len() != 2 {
		t.Fatalf("expected 2 entries after extend, got %d", a.Len())
	}
}
