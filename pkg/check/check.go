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

package check

import (
	"github.com/oxidecomputer/p4c-go/pkg/ast"
	"github.com/oxidecomputer/p4c-go/pkg/diag"
	"github.com/oxidecomputer/p4c-go/pkg/token"
)

// Check walks tree's parsers, recording every diagnostic spec.md §4.5
// names: a missing "start" state, and any lvalue referenced within a state
// that fails to resolve.
func Check(tree *ast.AST) *diag.Bag {
	bag := diag.NewBag()

	for _, p := range tree.Parsers {
		checkParser(tree, bag, p)
	}

	return bag
}

func checkParser(tree *ast.AST, bag *diag.Bag, p *ast.ParserDecl) {
	if !p.DeclOnly && ast.FindStateByName(p, "start") == nil {
		bag.Errorf(posOf(p.Tok), "parser %s must contain a state named start", p.Name)
	}

	base := paramScope(p.Parameters)

	for _, state := range p.States {
		if state.Body == nil {
			continue
		}

		checkStatements(tree, bag, base, state.Body.Statements)
	}
}

func posOf(tok token.Token) diag.Position {
	return diag.Position{File: tok.File, Line: tok.Line, Col: tok.Col}
}

// checkStatements walks a statement list in order, threading the scope so
// that a Variable/Constant declaration is visible to every statement after
// it but none before it, per spec.md §4.6's scope-construction rule (the
// checker and the HLIR generator share this walk shape).
func checkStatements(tree *ast.AST, bag *diag.Bag, scope Scope, stmts []ast.Statement) {
	for _, stmt := range stmts {
		scope = checkStatement(tree, bag, scope, stmt)
	}
}

func checkStatement(tree *ast.AST, bag *diag.Bag, scope Scope, stmt ast.Statement) Scope {
	switch s := stmt.(type) {
	case *ast.Empty:
		return scope
	case *ast.Assignment:
		checkLvalue(tree, bag, scope, s.Lv)
		checkExpr(tree, bag, scope, s.Value)

		return scope
	case *ast.CallStmt:
		checkCall(tree, bag, scope, s.Call)

		return scope
	case *ast.If:
		checkExpr(tree, bag, scope, s.Cond)
		checkStatements(tree, bag, scope, s.Then.Statements)

		for _, elseIf := range s.ElseIfs {
			checkExpr(tree, bag, scope, elseIf.Cond)
			checkStatements(tree, bag, scope, elseIf.Then.Statements)
		}

		if s.Else != nil {
			checkStatements(tree, bag, scope, s.Else.Statements)
		}

		return scope
	case *ast.Variable:
		if s.Init != nil {
			checkExpr(tree, bag, scope, s.Init)
		}

		return scope.extended(s.Name, NameInfo{Type: s.Typ, Decl: ast.DeclLocal})
	case *ast.Constant:
		if s.Init != nil {
			checkExpr(tree, bag, scope, s.Init)
		}

		return scope.extended(s.Name, NameInfo{Type: s.Typ, Decl: ast.DeclLocal})
	case *ast.Return:
		if s.Value != nil {
			checkExpr(tree, bag, scope, s.Value)
		}

		return scope
	case *ast.Transition:
		checkTransitionTarget(tree, bag, scope, s.Target)

		return scope
	default:
		return scope
	}
}

func checkExpr(tree *ast.AST, bag *diag.Bag, scope Scope, e ast.Expr) {
	switch ex := e.(type) {
	case *ast.LvalueExpr:
		checkLvalue(tree, bag, scope, ex.Lv)
	case *ast.Binary:
		checkExpr(tree, bag, scope, ex.Lhs)
		checkExpr(tree, bag, scope, ex.Rhs)
	case *ast.Index:
		checkLvalue(tree, bag, scope, ex.Lv)
		checkExpr(tree, bag, scope, ex.Idx)
	case *ast.Slice:
		checkExpr(tree, bag, scope, ex.Hi)
		checkExpr(tree, bag, scope, ex.Lo)
	case *ast.Call:
		checkCall(tree, bag, scope, ex)
	case *ast.List:
		for _, item := range ex.Items {
			checkExpr(tree, bag, scope, item)
		}
	}
}

func checkCall(tree *ast.AST, bag *diag.Bag, scope Scope, call *ast.Call) {
	checkLvalue(tree, bag, scope, call.Lv)

	for _, arg := range call.Args {
		checkExpr(tree, bag, scope, arg)
	}
}

func checkLvalue(tree *ast.AST, bag *diag.Bag, scope Scope, lv *ast.Lvalue) {
	if _, err := resolveLvalue(tree, scope, lv); err != nil {
		cerr, ok := err.(*Error)
		if !ok {
			return
		}

		bag.Errorf(posOf(cerr.Tok), "%s", cerr.Message)
	}
}

func checkTransitionTarget(tree *ast.AST, bag *diag.Bag, scope Scope, target ast.TransitionTarget) {
	sel, ok := target.(*ast.Select)
	if !ok {
		return
	}

	for _, key := range sel.Keys {
		checkExpr(tree, bag, scope, key)
	}

	for _, c := range sel.Cases {
		for _, ks := range c.Keyset {
			checkExpr(tree, bag, scope, ks)
		}

		checkTransitionTarget(tree, bag, scope, c.Target)
	}
}
