// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package parse implements the recursive-descent parser that builds an
// untyped pkg/ast.AST from a token stream, per spec.md §4.4. It is
// grounded on pkg/corset/compiler/parser.go's overall shape (a parser
// struct wrapping a lexer, expect/peek/next helpers, one method per
// grammar production) and on original_source/p4/src/parser.rs for the
// P4-specific productions themselves.
package parse

import (
	"fmt"

	"github.com/oxidecomputer/p4c-go/pkg/ast"
	"github.com/oxidecomputer/p4c-go/pkg/lex"
	"github.com/oxidecomputer/p4c-go/pkg/token"
)

// Error is a fatal parse error: an unexpected token where the grammar
// requires something else. Per spec.md §7.2, parse errors are fatal.
type Error struct {
	Tok     token.Token
	Message string
	Source  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Tok.File, e.Tok.Line+1, e.Tok.Col+1, e.Message)
}

// Parser is a recursive-descent parser with a pushback stack. Most callers
// push back at most one token before consuming again;
// parseIdentifierLedStatement pushes back two to look one token past a
// leading identifier.
type Parser struct {
	lexer   *lex.Lexer
	lines   []string
	pending []token.Token
}

// New constructs a parser over the given preprocessed lines.
func New(file string, lines []string, traceToken bool) *Parser {
	return &Parser{lexer: lex.New(file, lines, traceToken), lines: lines}
}

// Parse runs the global-declaration loop over an entire source file,
// producing an AST or the first fatal error encountered.
func Parse(file string, lines []string, traceToken bool) (*ast.AST, error) {
	p := New(file, lines, traceToken)
	return p.parseGlobal()
}

func (p *Parser) next() (token.Token, error) {
	if n := len(p.pending); n > 0 {
		tok := p.pending[n-1]
		p.pending = p.pending[:n-1]

		return tok, nil
	}

	return p.lexer.Next()
}

func (p *Parser) pushback(tok token.Token) {
	p.pending = append(p.pending, tok)
}

func (p *Parser) peek() (token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}

	p.pushback(tok)

	return tok, nil
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) error {
	var source string
	if tok.Line < len(p.lines) {
		source = p.lines[tok.Line]
	}

	return &Error{Tok: tok, Message: fmt.Sprintf(format, args...), Source: source}
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}

	if tok.Kind != kind {
		return tok, p.errorf(tok, "found %s, expected %s", tok.String(), token.Token{Kind: kind}.String())
	}

	return tok, nil
}

// parseIdentifier accepts an Identifier token, or the "apply" keyword
// (which doubles as a method name in `table.apply()`), per
// original_source/p4/src/parser.rs's parse_identifier.
func (p *Parser) parseIdentifier() (string, token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return "", tok, err
	}

	switch tok.Kind {
	case token.KindIdentifier:
		return tok.Text, tok, nil
	case token.KindApply:
		return "apply", tok, nil
	default:
		return "", tok, p.errorf(tok, "found %s, expected identifier", tok.String())
	}
}

// parseLvalue parses a dot-separated identifier path, e.g.
// "hdr.ipv6.src_addr".
func (p *Parser) parseLvalue() (*ast.Lvalue, error) {
	var (
		name     string
		firstTok token.Token
		hasFirst bool
	)

	for {
		ident, tok, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		if !hasFirst {
			firstTok = tok
			hasFirst = true
		}

		name += ident

		next, err := p.next()
		if err != nil {
			return nil, err
		}

		if next.Kind != token.KindDot {
			p.pushback(next)

			break
		}

		name += "."
	}

	return ast.NewLvalue(name, firstTok), nil
}

// parseType parses a type reference: bool, error, string, bit<N>,
// varbit<N>, int<N>, or a user-defined type name.
func (p *Parser) parseType() (ast.Type, token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return nil, tok, err
	}

	switch tok.Kind {
	case token.KindBool:
		return &ast.BoolType{}, tok, nil
	case token.KindError:
		return &ast.ErrorType{}, tok, nil
	case token.KindString:
		return &ast.StringType{}, tok, nil
	case token.KindBit:
		w, err := p.parseOptionalWidthParameter()
		return &ast.BitType{Width: w}, tok, err
	case token.KindVarbit:
		w, err := p.parseOptionalWidthParameter()
		return &ast.VarbitType{Width: w}, tok, err
	case token.KindInt:
		w, err := p.parseOptionalWidthParameter()
		return &ast.IntType{Width: w}, tok, err
	case token.KindIdentifier:
		return &ast.UserDefinedType{Name: tok.Text}, tok, nil
	default:
		return nil, tok, p.errorf(tok, "found %s, expected type", tok.String())
	}
}

// parseOptionalWidthParameter parses an optional "<width>" suffix. Per P4
// §7.1.6.2, the absence of a width parameter implies a width of 1.
func (p *Parser) parseOptionalWidthParameter() (uint16, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}

	if tok.Kind != token.KindAngleOpen {
		p.pushback(tok)

		return 1, nil
	}

	widthTok, err := p.expect(token.KindIntLiteral)
	if err != nil {
		return 0, err
	}

	if _, err := p.expect(token.KindAngleClose); err != nil {
		return 0, err
	}

	return uint16(widthTok.IValue), nil
}

// parseDirection parses an optional in/out/inout parameter direction.
func (p *Parser) parseDirection() (ast.Direction, error) {
	tok, err := p.next()
	if err != nil {
		return ast.DirUnspecified, err
	}

	switch tok.Kind {
	case token.KindIn:
		return ast.DirIn, nil
	case token.KindOut:
		return ast.DirOut, nil
	case token.KindInOut:
		return ast.DirInOut, nil
	default:
		p.pushback(tok)

		return ast.DirUnspecified, nil
	}
}

// parseParameters parses a parenthesized, comma-separated parameter list.
// withDirection controls whether each parameter may carry an in/out/inout
// prefix (true for control/parser parameters, false for action and extern
// method parameters, which P4 forbids from specifying direction).
func (p *Parser) parseParameters(withDirection bool) ([]ast.Parameter, error) {
	if _, err := p.expect(token.KindParenOpen); err != nil {
		return nil, err
	}

	var params []ast.Parameter

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.KindParenClose {
		return params, nil
	}

	p.pushback(tok)

	for {
		var dir ast.Direction

		if withDirection {
			dir, err = p.parseDirection()
			if err != nil {
				return nil, err
			}
		}

		typ, typTok, err := p.parseType()
		if err != nil {
			return nil, err
		}

		name, _, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		params = append(params, ast.Parameter{Tok: typTok, Name: name, Typ: typ, Direction: dir})

		sep, err := p.next()
		if err != nil {
			return nil, err
		}

		if sep.Kind == token.KindParenClose {
			return params, nil
		}

		if sep.Kind != token.KindComma {
			return nil, p.errorf(sep, "found %s, expected ',' or ')'", sep.String())
		}
	}
}

// parseGlobal runs the top-level declaration dispatch loop until end of
// file, per spec.md §4.4's "Global" subparser.
func (p *Parser) parseGlobal() (*ast.AST, error) {
	tree := ast.New()

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case token.KindEof:
			return tree, nil
		case token.KindConst:
			decl, err := p.parseConstDecl(tok)
			if err != nil {
				return nil, err
			}

			tree.Constants = append(tree.Constants, decl)
		case token.KindHeader:
			decl, err := p.parseHeaderDecl(tok)
			if err != nil {
				return nil, err
			}

			tree.Headers = append(tree.Headers, decl)
		case token.KindStruct:
			decl, err := p.parseStructDecl(tok)
			if err != nil {
				return nil, err
			}

			tree.Structs = append(tree.Structs, decl)
		case token.KindTypedef:
			decl, err := p.parseTypedefDecl(tok)
			if err != nil {
				return nil, err
			}

			tree.Typedefs = append(tree.Typedefs, decl)
		case token.KindControl:
			decl, err := p.parseControlDecl(tok)
			if err != nil {
				return nil, err
			}

			tree.Controls = append(tree.Controls, decl)
		case token.KindParser:
			decl, err := p.parseParserDecl(tok)
			if err != nil {
				return nil, err
			}

			tree.Parsers = append(tree.Parsers, decl)
		case token.KindExtern:
			decl, err := p.parseExternDecl(tok)
			if err != nil {
				return nil, err
			}

			tree.Externs = append(tree.Externs, decl)
		case token.KindPackage:
			decl, err := p.parsePackageDecl(tok)
			if err != nil {
				return nil, err
			}

			tree.Packages = append(tree.Packages, decl)
		case token.KindIdentifier:
			inst, err := p.parsePackageInstance(tok)
			if err != nil {
				return nil, err
			}

			if tree.PackageInstance != nil {
				return nil, p.errorf(tok, "at most one package instantiation is permitted per program")
			}

			tree.PackageInstance = inst
		default:
			return nil, p.errorf(tok, "found %s, expected a top-level declaration", tok.String())
		}
	}
}
