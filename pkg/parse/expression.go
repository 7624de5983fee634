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

package parse

import (
	"math/big"

	"github.com/oxidecomputer/p4c-go/pkg/ast"
	"github.com/oxidecomputer/p4c-go/pkg/token"
)

// binaryOps maps a token Kind to the BinaryOp it introduces, when that
// token kind can appear as an infix operator.
var binaryOps = map[token.Kind]ast.BinaryOp{
	token.KindPlus:              ast.OpAdd,
	token.KindMinus:             ast.OpSub,
	token.KindStar:              ast.OpMul,
	token.KindForwardslash:      ast.OpDiv,
	token.KindShl:               ast.OpShl,
	token.KindShr:               ast.OpShr,
	token.KindAnd:               ast.OpBitAnd,
	token.KindPipe:              ast.OpBitOr,
	token.KindCarat:             ast.OpXor,
	token.KindDoubleEquals:      ast.OpEq,
	token.KindNotEquals:         ast.OpNotEq,
	token.KindGreaterThanEquals: ast.OpGeq,
	token.KindLessThanEquals:    ast.OpLeq,
	token.KindAngleClose:        ast.OpGt,
	token.KindAngleOpen:         ast.OpLt,
	token.KindLogicalAnd:        ast.OpAnd,
	token.KindLogicalOr:         ast.OpOr,
	token.KindMask:              ast.OpMask,
}

// precedence is the explicit binding-power table backing this parser's
// precedence-climbing expression grammar (SPEC_FULL.md Open Question #2).
// Higher binds tighter. Same-precedence operators associate left, since
// parseBinary parses each right operand with the operator's precedence + 1.
func precedence(op ast.BinaryOp) int {
	switch op {
	case ast.OpOr:
		return 1
	case ast.OpAnd:
		return 2
	case ast.OpBitOr, ast.OpMask:
		return 3
	case ast.OpXor:
		return 4
	case ast.OpBitAnd:
		return 5
	case ast.OpEq, ast.OpNotEq:
		return 6
	case ast.OpLt, ast.OpGt, ast.OpLeq, ast.OpGeq:
		return 7
	case ast.OpShl, ast.OpShr:
		return 8
	case ast.OpAdd, ast.OpSub:
		return 9
	case ast.OpMul, ast.OpDiv:
		return 10
	default:
		return 0
	}
}

// parseExpression is the entry point for the expression grammar: a
// primary-then-binary loop driven by the precedence table above.
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) (ast.Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		op, ok := binaryOps[tok.Kind]
		if !ok || precedence(op) < minPrec {
			return lhs, nil
		}

		opTok, err := p.next()
		if err != nil {
			return nil, err
		}

		rhs, err := p.parseBinary(precedence(op) + 1)
		if err != nil {
			return nil, err
		}

		lhs = &ast.Binary{Tok: opTok, Lhs: lhs, Op: op, Rhs: rhs}
	}
}

// parsePrimary recognizes literals, lvalues, calls, indexes, and slices,
// per spec.md §4.4.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case token.KindTrueLiteral:
		return &ast.BoolLit{Tok: tok, Value: true}, nil
	case token.KindFalseLiteral:
		return &ast.BoolLit{Tok: tok, Value: false}, nil
	case token.KindIntLiteral:
		return &ast.IntegerLit{Tok: tok, Value: big.NewInt(tok.IValue)}, nil
	case token.KindBitLiteral:
		return &ast.BitLit{Tok: tok, Width: tok.Width, Value: new(big.Int).SetUint64(tok.UValue)}, nil
	case token.KindSignedLiteral:
		return &ast.SignedLit{Tok: tok, Width: tok.Width, Value: big.NewInt(tok.IValue)}, nil
	case token.KindParenOpen:
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.KindParenClose); err != nil {
			return nil, err
		}

		return inner, nil
	case token.KindCurlyOpen:
		return p.parseExpressionList(tok)
	case token.KindIdentifier, token.KindApply:
		p.pushback(tok)

		return p.parseLvalueExpr()
	default:
		return nil, p.errorf(tok, "found %s, expected an expression", tok.String())
	}
}

// parseExpressionList parses a brace-delimited, comma-separated expression
// list: `{a, b, c}`. The opening brace has already been consumed.
func (p *Parser) parseExpressionList(open token.Token) (ast.Expr, error) {
	var items []ast.Expr

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.KindCurlyClose {
		return &ast.List{Tok: open, Items: items}, nil
	}

	p.pushback(tok)

	for {
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		items = append(items, item)

		sep, err := p.next()
		if err != nil {
			return nil, err
		}

		if sep.Kind == token.KindCurlyClose {
			return &ast.List{Tok: open, Items: items}, nil
		}

		if sep.Kind != token.KindComma {
			return nil, p.errorf(sep, "found %s, expected ',' or '}'", sep.String())
		}
	}
}

// parseLvalueExpr parses an lvalue and, depending on what follows,
// produces a bare LvalueExpr, a Call (lval(args)), or an Index
// (lval[expr] or lval[hi:lo]).
func (p *Parser) parseLvalueExpr() (ast.Expr, error) {
	lv, err := p.parseLvalue()
	if err != nil {
		return nil, err
	}

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case token.KindParenOpen:
		p.pushback(tok)

		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}

		return &ast.Call{Tok: lv.Tok, Lv: lv, Args: args}, nil
	case token.KindSquareOpen:
		return p.parseIndexOrSlice(lv, tok)
	default:
		p.pushback(tok)

		return &ast.LvalueExpr{Tok: lv.Tok, Lv: lv}, nil
	}
}

// parseIndexOrSlice parses the bracketed suffix of lval[expr] or
// lval[hi:lo]; open is the already-consumed '['.
func (p *Parser) parseIndexOrSlice(lv *ast.Lvalue, open token.Token) (ast.Expr, error) {
	hi, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.KindColon {
		lo, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.KindSquareClose); err != nil {
			return nil, err
		}

		return &ast.Index{Tok: lv.Tok, Lv: lv, Idx: &ast.Slice{Tok: open, Hi: hi, Lo: lo}}, nil
	}

	if tok.Kind != token.KindSquareClose {
		return nil, p.errorf(tok, "found %s, expected ':' or ']'", tok.String())
	}

	return &ast.Index{Tok: lv.Tok, Lv: lv, Idx: hi}, nil
}

// parseCallArgs parses a parenthesized, comma-separated argument list.
func (p *Parser) parseCallArgs() ([]ast.Expr, error) {
	if _, err := p.expect(token.KindParenOpen); err != nil {
		return nil, err
	}

	var args []ast.Expr

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.KindParenClose {
		return args, nil
	}

	p.pushback(tok)

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		sep, err := p.next()
		if err != nil {
			return nil, err
		}

		if sep.Kind == token.KindParenClose {
			return args, nil
		}

		if sep.Kind != token.KindComma {
			return nil, p.errorf(sep, "found %s, expected ',' or ')'", sep.String())
		}
	}
}

// parseKeyset parses one keyset pattern: a bare expression, a wildcard
// `_`, or a parenthesized tuple mixing both, per spec.md §4.4's "keyset"
// production (grounded on original_source/p4/src/parser.rs's parse_keyset,
// simplified since this grammar folds the mask operator into the ordinary
// binary-expression grammar rather than special-casing it).
func (p *Parser) parseKeyset() ([]ast.Expr, bool, error) {
	tok, err := p.next()
	if err != nil {
		return nil, false, err
	}

	if tok.Kind == token.KindUnderscore {
		return nil, true, nil
	}

	if tok.Kind != token.KindParenOpen {
		p.pushback(tok)

		expr, err := p.parseExpression()
		if err != nil {
			return nil, false, err
		}

		return []ast.Expr{expr}, false, nil
	}

	var elems []ast.Expr

	for {
		elemTok, err := p.next()
		if err != nil {
			return nil, false, err
		}

		if elemTok.Kind == token.KindUnderscore {
			elems = append(elems, &ast.LvalueExpr{Tok: elemTok, Lv: ast.NewLvalue("_", elemTok)})
		} else {
			p.pushback(elemTok)

			elem, err := p.parseExpression()
			if err != nil {
				return nil, false, err
			}

			elems = append(elems, elem)
		}

		sep, err := p.next()
		if err != nil {
			return nil, false, err
		}

		if sep.Kind == token.KindParenClose {
			return elems, false, nil
		}

		if sep.Kind != token.KindComma {
			return nil, false, p.errorf(sep, "found %s, expected ',' or ')'", sep.String())
		}
	}
}
