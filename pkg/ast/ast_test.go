package ast

import (
	"testing"

	"github.com/oxidecomputer/p4c-go/pkg/token"
)

func TestLvalueRootDegreeAndPopLeft(t *testing.T) {
	lv := NewLvalue("hdr.ipv6.src_addr", token.Token{Line: 3, Col: 10})

	if lv.Root() != "hdr" {
		t.Fatalf("expected root 'hdr', got %q", lv.Root())
	}

	if lv.Degree() != 3 {
		t.Fatalf("expected degree 3, got %d", lv.Degree())
	}

	rest := lv.PopLeft()
	if rest.Name != "ipv6.src_addr" {
		t.Fatalf("expected 'ipv6.src_addr', got %q", rest.Name)
	}

	if rest.Tok.Col != 14 {
		t.Fatalf("expected column advanced past 'hdr.', got %d", rest.Tok.Col)
	}

	leaf := rest.PopLeft()
	if leaf.Name != "src_addr" || leaf.Degree() != 1 {
		t.Fatalf("unexpected leaf lvalue: %+v", leaf)
	}
}

func TestPopLeftOnDegreeOnePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic popping a degree-1 lvalue")
		}
	}()

	NewLvalue("x", token.Token{}).PopLeft()
}

func TestTopLevelDeclsExcludesConstantsAndPackageInstance(t *testing.T) {
	a := New()
	a.Constants = append(a.Constants, &ConstDecl{Name: "MAX"})
	a.Headers = append(a.Headers, &HeaderDecl{Name: "ethernet_t"})
	a.Structs = append(a.Structs, &StructDecl{Name: "headers_t"})
	a.PackageInstance = &PackageInstanceDecl{Name: "main"}

	decls := a.TopLevelDecls()
	if len(decls) != 2 {
		t.Fatalf("expected 2 top-level decls (header + struct), got %d", len(decls))
	}

	names := map[string]bool{}
	for _, d := range decls {
		names[d.DeclName()] = true
	}

	if !names["ethernet_t"] || !names["headers_t"] {
		t.Fatalf("unexpected decl names: %v", names)
	}
}

func TestTypeEqualsIsStructural(t *testing.T) {
	a := &BitType{Width: 8}
	b := &BitType{Width: 8}
	c := &BitType{Width: 16}

	if !a.Equals(b) {
		t.Fatalf("expected bit<8> == bit<8>")
	}

	if a.Equals(c) {
		t.Fatalf("expected bit<8> != bit<16>")
	}

	if a.Equals(&IntType{Width: 8}) {
		t.Fatalf("expected bit<8> != int<8>")
	}
}

func TestFindStateByName(t *testing.T) {
	p := &ParserDecl{
		Name: "my_parser",
		States: []*StateDecl{
			{Name: "start"},
			{Name: "parse_ipv6"},
		},
	}

	if FindStateByName(p, "parse_ipv6") == nil {
		t.Fatalf("expected to find parse_ipv6")
	}

	if FindStateByName(p, "missing") != nil {
		t.Fatalf("expected nil for a state that doesn't exist")
	}
}
