package lex

import (
	"testing"

	"github.com/oxidecomputer/p4c-go/pkg/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()

	l := New("t.p4", []string{src}, false)

	var toks []token.Token

	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}

		if tok.Kind == token.KindEof {
			break
		}

		toks = append(toks, tok)
	}

	return toks
}

func TestBitLiteralWidthAndValue(t *testing.T) {
	toks := scanAll(t, "16w0x2A")

	if len(toks) != 1 {
		t.Fatalf("expected one token, got %d", len(toks))
	}

	tok := toks[0]
	if tok.Kind != token.KindBitLiteral || tok.Width != 16 || tok.UValue != 42 {
		t.Fatalf("unexpected token: %+v", tok)
	}
}

// A '-' right after the 's' width marker belongs to the literal: "8s-3" is
// one SignedLiteral of width 8 and value -3.
func TestMinusAfterSignedWidthMarkerIsPartOfLiteral(t *testing.T) {
	toks := scanAll(t, "8s-3")

	if len(toks) != 1 {
		t.Fatalf("expected one signed-literal token, got %d: %+v", len(toks), toks)
	}

	tok := toks[0]
	if tok.Kind != token.KindSignedLiteral || tok.Width != 8 || tok.IValue != -3 {
		t.Fatalf("unexpected token: %+v", tok)
	}
}

func TestMinusBeforeBareIdentifierIsSeparateToken(t *testing.T) {
	toks := scanAll(t, "-x")

	if len(toks) != 2 {
		t.Fatalf("expected Minus then identifier, got %d: %+v", len(toks), toks)
	}

	if toks[0].Kind != token.KindMinus {
		t.Fatalf("expected leading Minus, got %+v", toks[0])
	}

	if toks[1].Kind != token.KindIdentifier || toks[1].Text != "x" {
		t.Fatalf("expected identifier 'x', got %+v", toks[1])
	}
}

func TestKeywordsAreCaseSensitive(t *testing.T) {
	toks := scanAll(t, "header Header")

	if len(toks) != 2 {
		t.Fatalf("expected two tokens, got %d", len(toks))
	}

	if toks[0].Kind != token.KindHeader {
		t.Fatalf("expected keyword header, got %+v", toks[0])
	}

	if toks[1].Kind != token.KindIdentifier || toks[1].Text != "Header" {
		t.Fatalf("expected identifier 'Header', got %+v", toks[1])
	}
}

func TestMultiCharOperatorsPreferredOverSingleChar(t *testing.T) {
	toks := scanAll(t, "a &&& b == c && d")

	wantKinds := []token.Kind{
		token.KindIdentifier,
		token.KindMask,
		token.KindIdentifier,
		token.KindDoubleEquals,
		token.KindIdentifier,
		token.KindLogicalAnd,
		token.KindIdentifier,
	}

	if len(toks) != len(wantKinds) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(wantKinds), len(toks), toks)
	}

	for i, want := range wantKinds {
		if toks[i].Kind != want {
			t.Fatalf("token %d: expected kind %v, got %+v", i, want, toks[i])
		}
	}
}

func TestLineCommentSkipped(t *testing.T) {
	l := New("t.p4", []string{"const int x = 1; // trailing comment", "const int y = 2;"}, false)

	var kinds []token.Kind

	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if tok.Kind == token.KindEof {
			break
		}

		kinds = append(kinds, tok.Kind)
	}

	// Two full "const int IDENT = INT ;" statements (6 tokens each), no
	// trailing-comment tokens leaking through.
	if len(kinds) != 12 {
		t.Fatalf("expected 12 tokens across both lines, got %d: %v", len(kinds), kinds)
	}
}

func TestBlockCommentSpansLines(t *testing.T) {
	l := New("t.p4", []string{"const int x /* start", "of a comment */ = 1;"}, false)

	var kinds []token.Kind

	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if tok.Kind == token.KindEof {
			break
		}

		kinds = append(kinds, tok.Kind)
	}

	want := []token.Kind{
		token.KindConst, token.KindInt, token.KindIdentifier,
		token.KindEquals, token.KindIntLiteral, token.KindSemicolon,
	}

	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(kinds), kinds)
	}

	for i, k := range want {
		if kinds[i] != k {
			t.Fatalf("token %d: expected %v, got %v", i, k, kinds[i])
		}
	}
}

func TestUnterminatedBlockCommentIsFatal(t *testing.T) {
	l := New("t.p4", []string{"const int x /* never closed"}, false)

	for i := 0; i < 4; i++ {
		if _, err := l.Next(); err != nil {
			return
		}
	}

	t.Fatalf("expected a fatal lex error for an unterminated block comment")
}

func TestUnrecognizedCharacterIsTokenError(t *testing.T) {
	_, err := New("t.p4", []string{"@"}, false).Next()
	if err == nil {
		t.Fatalf("expected an error for an unrecognized character")
	}

	if _, ok := err.(*Error); !ok {
		t.Fatalf("expected *lex.Error, got %T", err)
	}
}

func TestStringLiteral(t *testing.T) {
	toks := scanAll(t, `"hello world"`)

	if len(toks) != 1 || toks[0].Kind != token.KindStringLiteral || toks[0].Text != "hello world" {
		t.Fatalf("unexpected token: %+v", toks)
	}
}

func TestPlainDecimalAndHexIntLiterals(t *testing.T) {
	toks := scanAll(t, "42 0x2A")

	if len(toks) != 2 {
		t.Fatalf("expected two tokens, got %d", len(toks))
	}

	if toks[0].Kind != token.KindIntLiteral || toks[0].IValue != 42 {
		t.Fatalf("unexpected decimal literal: %+v", toks[0])
	}

	if toks[1].Kind != token.KindIntLiteral || toks[1].IValue != 42 {
		t.Fatalf("unexpected hex literal: %+v", toks[1])
	}
}

func TestBareUnderscoreIsWildcardNotIdentifier(t *testing.T) {
	toks := scanAll(t, "_ dont_care")

	if len(toks) != 2 {
		t.Fatalf("expected two tokens, got %d", len(toks))
	}

	if toks[0].Kind != token.KindUnderscore {
		t.Fatalf("expected a bare '_' to lex as KindUnderscore, got %v", toks[0])
	}

	if toks[1].Kind != token.KindIdentifier || toks[1].Text != "dont_care" {
		t.Fatalf("expected an underscore-containing name to stay an identifier, got %+v", toks[1])
	}
}
