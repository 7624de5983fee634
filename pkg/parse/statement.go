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
	"github.com/oxidecomputer/p4c-go/pkg/ast"
	"github.com/oxidecomputer/p4c-go/pkg/token"
)

// parseBlock parses an ordinary `{ ... }` statement block: the body of an
// action, a control's apply block, or an if/else arm. It never accepts a
// `transition` statement; only parseStateBody does, and only in tail
// position (SPEC_FULL.md Open Question #4).
func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(token.KindCurlyOpen)
	if err != nil {
		return nil, err
	}

	var stmts []ast.Statement

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == token.KindCurlyClose {
			return &ast.Block{Tok: open, Statements: stmts}, nil
		}

		p.pushback(tok)

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}
}

// parseStateBody parses a parser state's body: zero or more ordinary
// statements followed by an optional trailing `transition target;`. A
// `transition` keyword appearing anywhere but last is a parse error,
// because this production is the only place the parser ever calls
// parseTransitionStatement.
func (p *Parser) parseStateBody() (*ast.Block, error) {
	open, err := p.expect(token.KindCurlyOpen)
	if err != nil {
		return nil, err
	}

	var stmts []ast.Statement

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == token.KindCurlyClose {
			return &ast.Block{Tok: open, Statements: stmts}, nil
		}

		if tok.Kind == token.KindTransition {
			transition, err := p.parseTransitionStatement(tok)
			if err != nil {
				return nil, err
			}

			stmts = append(stmts, transition)

			if _, err := p.expect(token.KindCurlyClose); err != nil {
				return nil, err
			}

			return &ast.Block{Tok: open, Statements: stmts}, nil
		}

		p.pushback(tok)

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}
}

// parseStatement dispatches on the leading token of one statement within
// an ordinary block.
func (p *Parser) parseStatement() (ast.Statement, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case token.KindSemicolon:
		return &ast.Empty{Tok: tok}, nil
	case token.KindIf:
		return p.parseIf(tok)
	case token.KindReturn:
		return p.parseReturn(tok)
	case token.KindConst:
		return p.parseConstantStatement(tok)
	case token.KindTransition:
		return nil, p.errorf(tok, "transition statement is only valid as the last statement of a parser state")
	case token.KindBool, token.KindError, token.KindString, token.KindBit, token.KindVarbit, token.KindInt:
		p.pushback(tok)

		return p.parseVariableStatement()
	case token.KindIdentifier:
		return p.parseIdentifierLedStatement(tok)
	default:
		return nil, p.errorf(tok, "found %s, expected a statement", tok.String())
	}
}

// parseIdentifierLedStatement disambiguates between a local variable
// declaration of user-defined type (`headers_t hdr;`) and an
// assignment/call statement starting with an lvalue, by peeking one
// further token.
func (p *Parser) parseIdentifierLedStatement(first token.Token) (ast.Statement, error) {
	second, err := p.next()
	if err != nil {
		return nil, err
	}

	p.pushback(second)
	p.pushback(first)

	// A variable declaration of user-defined type looks like
	// "IDENT IDENT ..."; an assignment/call looks like "IDENT . ..." or
	// "IDENT = ..." or "IDENT ( ...", "IDENT [ ...".
	if second.Kind == token.KindIdentifier {
		return p.parseVariableStatement()
	}

	return p.parseAssignmentOrCall()
}

// parseVariableStatement parses `TYPE NAME [= expr];`.
func (p *Parser) parseVariableStatement() (ast.Statement, error) {
	typ, tok, err := p.parseType()
	if err != nil {
		return nil, err
	}

	name, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	next, err := p.next()
	if err != nil {
		return nil, err
	}

	var init ast.Expr

	if next.Kind == token.KindEquals {
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	} else {
		p.pushback(next)
	}

	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.Variable{Tok: tok, Name: name, Typ: typ, Init: init}, nil
}

// parseConstantStatement parses `const TYPE NAME = expr;`, nested inside a
// control body or action/apply block.
func (p *Parser) parseConstantStatement(constTok token.Token) (ast.Statement, error) {
	typ, _, err := p.parseType()
	if err != nil {
		return nil, err
	}

	name, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindEquals); err != nil {
		return nil, err
	}

	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.Constant{Tok: constTok, Name: name, Typ: typ, Init: init}, nil
}

// parseAssignmentOrCall parses `lval = expr;` or `lval(args);`.
func (p *Parser) parseAssignmentOrCall() (ast.Statement, error) {
	lv, err := p.parseLvalue()
	if err != nil {
		return nil, err
	}

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case token.KindEquals:
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.KindSemicolon); err != nil {
			return nil, err
		}

		return &ast.Assignment{Tok: lv.Tok, Lv: lv, Value: value}, nil
	case token.KindParenOpen:
		p.pushback(tok)

		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.KindSemicolon); err != nil {
			return nil, err
		}

		return &ast.CallStmt{Tok: lv.Tok, Call: &ast.Call{Tok: lv.Tok, Lv: lv, Args: args}}, nil
	default:
		return nil, p.errorf(tok, "found %s, expected '=' or '(' after lvalue", tok.String())
	}
}

// parseIf parses an if/else-if/else chain.
func (p *Parser) parseIf(ifTok token.Token) (ast.Statement, error) {
	cond, then, err := p.parseIfHead()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{Tok: ifTok, Cond: cond, Then: then}

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		if tok.Kind != token.KindElse {
			p.pushback(tok)

			return stmt, nil
		}

		next, err := p.next()
		if err != nil {
			return nil, err
		}

		if next.Kind == token.KindIf {
			cond, then, err := p.parseIfHead()
			if err != nil {
				return nil, err
			}

			stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIf{Tok: next, Cond: cond, Then: then})

			continue
		}

		p.pushback(next)

		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		stmt.Else = elseBlock

		return stmt, nil
	}
}

func (p *Parser) parseIfHead() (ast.Expr, *ast.Block, error) {
	if _, err := p.expect(token.KindParenOpen); err != nil {
		return nil, nil, err
	}

	cond, err := p.parseExpression()
	if err != nil {
		return nil, nil, err
	}

	if _, err := p.expect(token.KindParenClose); err != nil {
		return nil, nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, nil, err
	}

	return cond, then, nil
}

// parseReturn parses `return;` or `return expr;`.
func (p *Parser) parseReturn(retTok token.Token) (ast.Statement, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.KindSemicolon {
		return &ast.Return{Tok: retTok}, nil
	}

	p.pushback(tok)

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.Return{Tok: retTok, Value: value}, nil
}

// parseTransitionStatement parses `transition target;`, where target is
// either a bare state name or a select expression.
func (p *Parser) parseTransitionStatement(transitionTok token.Token) (ast.Statement, error) {
	target, err := p.parseTransitionTarget()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.Transition{Tok: transitionTok, Target: target}, nil
}

func (p *Parser) parseTransitionTarget() (ast.TransitionTarget, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.KindSelect {
		return p.parseSelect(tok)
	}

	if tok.Kind != token.KindIdentifier {
		return nil, p.errorf(tok, "found %s, expected a state name or 'select'", tok.String())
	}

	return &ast.StateRef{Tok: tok, Name: tok.Text}, nil
}

// parseSelect parses `select(keys) { keyset: target; ... }`.
func (p *Parser) parseSelect(selectTok token.Token) (ast.TransitionTarget, error) {
	if _, err := p.expect(token.KindParenOpen); err != nil {
		return nil, err
	}

	var keys []ast.Expr

	for {
		key, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		keys = append(keys, key)

		sep, err := p.next()
		if err != nil {
			return nil, err
		}

		if sep.Kind == token.KindParenClose {
			break
		}

		if sep.Kind != token.KindComma {
			return nil, p.errorf(sep, "found %s, expected ',' or ')'", sep.String())
		}
	}

	if _, err := p.expect(token.KindCurlyOpen); err != nil {
		return nil, err
	}

	var cases []*ast.SelectCase

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == token.KindCurlyClose {
			return &ast.Select{Tok: selectTok, Keys: keys, Cases: cases}, nil
		}

		p.pushback(tok)

		keyset, isDefault, err := p.parseKeyset()
		if err != nil {
			return nil, err
		}

		caseTok, err := p.expect(token.KindColon)
		if err != nil {
			return nil, err
		}

		target, err := p.parseTransitionTarget()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.KindSemicolon); err != nil {
			return nil, err
		}

		cases = append(cases, &ast.SelectCase{Tok: caseTok, Keyset: keyset, Default: isDefault, Target: target})
	}
}
