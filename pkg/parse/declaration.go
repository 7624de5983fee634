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

// parseConstDecl parses a top-level `const TYPE NAME = expr;`. constTok is
// the already-consumed "const" keyword.
func (p *Parser) parseConstDecl(constTok token.Token) (*ast.ConstDecl, error) {
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

	return &ast.ConstDecl{Tok: constTok, Name: name, Typ: typ, Init: init}, nil
}

// parseMembers parses the `{ TYPE NAME; ... }` member list shared by header
// and struct declarations.
func (p *Parser) parseMembers() ([]ast.Member, error) {
	if _, err := p.expect(token.KindCurlyOpen); err != nil {
		return nil, err
	}

	var members []ast.Member

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == token.KindCurlyClose {
			return members, nil
		}

		p.pushback(tok)

		typ, typTok, err := p.parseType()
		if err != nil {
			return nil, err
		}

		name, _, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.KindSemicolon); err != nil {
			return nil, err
		}

		members = append(members, ast.Member{Tok: typTok, Name: name, Typ: typ})
	}
}

// parseHeaderDecl parses a `header NAME { ... }` declaration. headerTok is
// the already-consumed "header" keyword.
func (p *Parser) parseHeaderDecl(headerTok token.Token) (*ast.HeaderDecl, error) {
	name, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	members, err := p.parseMembers()
	if err != nil {
		return nil, err
	}

	return &ast.HeaderDecl{Tok: headerTok, Name: name, Members: members}, nil
}

// parseStructDecl parses a `struct NAME { ... }` declaration. structTok is
// the already-consumed "struct" keyword.
func (p *Parser) parseStructDecl(structTok token.Token) (*ast.StructDecl, error) {
	name, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	members, err := p.parseMembers()
	if err != nil {
		return nil, err
	}

	return &ast.StructDecl{Tok: structTok, Name: name, Members: members}, nil
}

// parseTypedefDecl parses a `typedef TYPE NAME;` declaration. typedefTok is
// the already-consumed "typedef" keyword.
func (p *Parser) parseTypedefDecl(typedefTok token.Token) (*ast.TypedefDecl, error) {
	underlying, _, err := p.parseType()
	if err != nil {
		return nil, err
	}

	name, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.TypedefDecl{Tok: typedefTok, Name: name, Underlying: underlying}, nil
}

// parseExternDecl parses an `extern NAME { RET NAME<T>(params); ... }`
// declaration. externTok is the already-consumed "extern" keyword.
func (p *Parser) parseExternDecl(externTok token.Token) (*ast.ExternDecl, error) {
	name, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindCurlyOpen); err != nil {
		return nil, err
	}

	var methods []ast.ExternMethod

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == token.KindCurlyClose {
			return &ast.ExternDecl{Tok: externTok, Name: name, Methods: methods}, nil
		}

		p.pushback(tok)

		method, err := p.parseExternMethod()
		if err != nil {
			return nil, err
		}

		methods = append(methods, method)
	}
}

func (p *Parser) parseExternMethod() (ast.ExternMethod, error) {
	retType, retTok, err := p.parseType()
	if err != nil {
		return ast.ExternMethod{}, err
	}

	name, _, err := p.parseIdentifier()
	if err != nil {
		return ast.ExternMethod{}, err
	}

	typeParams, err := p.parseOptionalTypeParameters()
	if err != nil {
		return ast.ExternMethod{}, err
	}

	params, err := p.parseParameters(false)
	if err != nil {
		return ast.ExternMethod{}, err
	}

	if _, err := p.expect(token.KindSemicolon); err != nil {
		return ast.ExternMethod{}, err
	}

	return ast.ExternMethod{
		Tok:            retTok,
		ReturnType:     retType,
		Name:           name,
		TypeParameters: typeParams,
		Parameters:     params,
	}, nil
}

// parseOptionalTypeParameters parses an optional `<T1, T2, ...>` type
// parameter list, used by control/parser/extern-method declarations.
func (p *Parser) parseOptionalTypeParameters() ([]string, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Kind != token.KindAngleOpen {
		p.pushback(tok)

		return nil, nil
	}

	var params []string

	for {
		name, _, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		params = append(params, name)

		sep, err := p.next()
		if err != nil {
			return nil, err
		}

		if sep.Kind == token.KindAngleClose {
			return params, nil
		}

		if sep.Kind != token.KindComma {
			return nil, p.errorf(sep, "found %s, expected ',' or '>'", sep.String())
		}
	}
}

// parsePackageDecl parses a `package NAME(params);` declaration. packageTok
// is the already-consumed "package" keyword.
func (p *Parser) parsePackageDecl(packageTok token.Token) (*ast.PackageDecl, error) {
	name, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	params, err := p.parseParameters(false)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.PackageDecl{Tok: packageTok, Name: name, Parameters: params}, nil
}

// parsePackageInstance parses the (at most one) top-level
// `PackageName(args) instanceName;` instantiation. nameTok is the
// already-consumed package-name identifier.
func (p *Parser) parsePackageInstance(nameTok token.Token) (*ast.PackageInstanceDecl, error) {
	if _, err := p.expect(token.KindParenOpen); err != nil {
		return nil, err
	}

	var args []ast.Expr

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Kind != token.KindParenClose {
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
				break
			}

			if sep.Kind != token.KindComma {
				return nil, p.errorf(sep, "found %s, expected ',' or ')'", sep.String())
			}
		}
	}

	instName, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, err
	}

	return &ast.PackageInstanceDecl{Tok: nameTok, Name: instName, PackageName: nameTok.Text, Args: args}, nil
}

// parseActionDecl parses an `action NAME(params) { ... }` declaration,
// nested within a control. actionTok is the already-consumed "action"
// keyword.
func (p *Parser) parseActionDecl(actionTok token.Token) (*ast.ActionDecl, error) {
	name, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	params, err := p.parseParameters(false)
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.ActionDecl{Tok: actionTok, Name: name, Parameters: params, Body: body}, nil
}

// matchKinds maps the lexer's match-kind keyword tokens to their
// ast.MatchKind tag.
var matchKinds = map[token.Kind]ast.MatchKind{
	token.KindExact:   ast.MatchExact,
	token.KindTernary: ast.MatchTernary,
	token.KindLpm:     ast.MatchLpm,
	token.KindRange:   ast.MatchRange,
}

// parseTableDecl parses a `table NAME { ... }` declaration, nested within a
// control. tableTok is the already-consumed "table" keyword.
func (p *Parser) parseTableDecl(tableTok token.Token) (*ast.TableDecl, error) {
	name, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	decl := &ast.TableDecl{Tok: tableTok, Name: name}

	if _, err := p.expect(token.KindCurlyOpen); err != nil {
		return nil, err
	}

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case token.KindCurlyClose:
			return decl, nil
		case token.KindKey:
			keys, err := p.parseTableKeys()
			if err != nil {
				return nil, err
			}

			decl.Keys = keys
		case token.KindActions:
			actions, err := p.parseTableActions()
			if err != nil {
				return nil, err
			}

			decl.Actions = actions
		case token.KindDefaultAction:
			if _, err := p.expect(token.KindEquals); err != nil {
				return nil, err
			}

			name, _, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(token.KindSemicolon); err != nil {
				return nil, err
			}

			decl.DefaultAction = name
		case token.KindSize:
			if _, err := p.expect(token.KindEquals); err != nil {
				return nil, err
			}

			sizeTok, err := p.expect(token.KindIntLiteral)
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(token.KindSemicolon); err != nil {
				return nil, err
			}

			decl.Size = uint(sizeTok.IValue)
		case token.KindEntries:
			entries, err := p.parseTableConstEntries(len(decl.Keys))
			if err != nil {
				return nil, err
			}

			decl.ConstEntries = entries
		default:
			return nil, p.errorf(tok, "found %s, expected a table property", tok.String())
		}
	}
}

func (p *Parser) parseTableKeys() ([]ast.TableKey, error) {
	if _, err := p.expect(token.KindEquals); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindCurlyOpen); err != nil {
		return nil, err
	}

	var keys []ast.TableKey

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == token.KindCurlyClose {
			return keys, nil
		}

		p.pushback(tok)

		lv, err := p.parseLvalue()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.KindColon); err != nil {
			return nil, err
		}

		kindTok, err := p.next()
		if err != nil {
			return nil, err
		}

		mk, ok := matchKinds[kindTok.Kind]
		if !ok {
			return nil, p.errorf(kindTok, "found %s, expected a match kind", kindTok.String())
		}

		if _, err := p.expect(token.KindSemicolon); err != nil {
			return nil, err
		}

		keys = append(keys, ast.TableKey{Lv: lv, MatchKind: mk})
	}
}

func (p *Parser) parseTableActions() ([]string, error) {
	if _, err := p.expect(token.KindEquals); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindCurlyOpen); err != nil {
		return nil, err
	}

	var actions []string

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.KindCurlyClose {
		return actions, nil
	}

	p.pushback(tok)

	for {
		name, _, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		actions = append(actions, name)

		sep, err := p.next()
		if err != nil {
			return nil, err
		}

		if sep.Kind == token.KindCurlyClose {
			return actions, nil
		}

		if sep.Kind != token.KindSemicolon {
			return nil, p.errorf(sep, "found %s, expected ';' or '}'", sep.String())
		}
	}
}

// parseTableConstEntries parses a table's `const entries = { ... }` list.
// keyCount is the table's already-parsed key column count: a bare `_`
// default keyset (parseKeyset's isDefault result) carries no elements of
// its own, so it is expanded here into one wildcard per key column, per
// original_source/lang/p4rs/src/table.rs's Ternary::DontCare semantics for
// an elided keyset element.
func (p *Parser) parseTableConstEntries(keyCount int) ([]ast.ConstEntry, error) {
	if _, err := p.expect(token.KindEquals); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindCurlyOpen); err != nil {
		return nil, err
	}

	var entries []ast.ConstEntry

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == token.KindCurlyClose {
			return entries, nil
		}

		p.pushback(tok)

		keyset, isDefault, err := p.parseKeyset()
		if err != nil {
			return nil, err
		}

		if isDefault {
			keyset = make([]ast.Expr, keyCount)
			for i := range keyset {
				keyset[i] = &ast.LvalueExpr{Tok: tok, Lv: ast.NewLvalue("_", tok)}
			}
		}

		entryTok, err := p.expect(token.KindColon)
		if err != nil {
			return nil, err
		}

		actionCallLv, err := p.parseLvalue()
		if err != nil {
			return nil, err
		}

		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.KindSemicolon); err != nil {
			return nil, err
		}

		entries = append(entries, ast.ConstEntry{
			Tok:    entryTok,
			Keyset: keyset,
			Action: &ast.Call{Tok: actionCallLv.Tok, Lv: actionCallLv, Args: args},
		})
	}
}

// parseControlDecl parses a `control NAME<T>(params) { ... apply { ... } }`
// declaration. controlTok is the already-consumed "control" keyword.
func (p *Parser) parseControlDecl(controlTok token.Token) (*ast.ControlDecl, error) {
	name, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	typeParams, err := p.parseOptionalTypeParameters()
	if err != nil {
		return nil, err
	}

	params, err := p.parseParameters(true)
	if err != nil {
		return nil, err
	}

	decl := &ast.ControlDecl{Tok: controlTok, Name: name, TypeParameters: typeParams, Parameters: params}

	if _, err := p.expect(token.KindCurlyOpen); err != nil {
		return nil, err
	}

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case token.KindAction:
			action, err := p.parseActionDecl(tok)
			if err != nil {
				return nil, err
			}

			decl.Actions = append(decl.Actions, action)
		case token.KindTable:
			table, err := p.parseTableDecl(tok)
			if err != nil {
				return nil, err
			}

			decl.Tables = append(decl.Tables, table)
		case token.KindConst:
			stmt, err := p.parseConstantStatement(tok)
			if err != nil {
				return nil, err
			}

			decl.Constants = append(decl.Constants, stmt.(*ast.Constant))
		case token.KindApply:
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}

			decl.ApplyBlock = body
		case token.KindCurlyClose:
			return decl, nil
		default:
			p.pushback(tok)

			stmt, err := p.parseVariableStatement()
			if err != nil {
				return nil, err
			}

			decl.Variables = append(decl.Variables, stmt.(*ast.Variable))
		}
	}
}

// parseParserDecl parses a `parser NAME<T>(params) { state ... }`
// declaration. A body-less declaration (`parser NAME<T>(params);`, used to
// forward-declare a parser a package expects) sets DeclOnly. parserTok is
// the already-consumed "parser" keyword.
func (p *Parser) parseParserDecl(parserTok token.Token) (*ast.ParserDecl, error) {
	name, _, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	typeParams, err := p.parseOptionalTypeParameters()
	if err != nil {
		return nil, err
	}

	params, err := p.parseParameters(true)
	if err != nil {
		return nil, err
	}

	decl := &ast.ParserDecl{Tok: parserTok, Name: name, TypeParameters: typeParams, Parameters: params}

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.KindSemicolon {
		decl.DeclOnly = true

		return decl, nil
	}

	if tok.Kind != token.KindCurlyOpen {
		return nil, p.errorf(tok, "found %s, expected '{' or ';'", tok.String())
	}

	p.pushback(tok)

	if _, err := p.expect(token.KindCurlyOpen); err != nil {
		return nil, err
	}

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == token.KindCurlyClose {
			return decl, nil
		}

		if _, err := p.expect2(tok, token.KindState); err != nil {
			return nil, err
		}

		state, err := p.parseStateDecl()
		if err != nil {
			return nil, err
		}

		decl.States = append(decl.States, state)
	}
}

// expect2 validates an already-consumed token against an expected kind,
// letting callers that dispatch on a peeked/next()'d token reuse the same
// error-rendering path as expect.
func (p *Parser) expect2(tok token.Token, kind token.Kind) (token.Token, error) {
	if tok.Kind != kind {
		return tok, p.errorf(tok, "found %s, expected %s", tok.String(), token.Token{Kind: kind}.String())
	}

	return tok, nil
}

func (p *Parser) parseStateDecl() (*ast.StateDecl, error) {
	nameTok, err := p.expect(token.KindIdentifier)
	if err != nil {
		return nil, err
	}

	body, err := p.parseStateBody()
	if err != nil {
		return nil, err
	}

	return &ast.StateDecl{Tok: nameTok, Name: nameTok.Text, Body: body}, nil
}
