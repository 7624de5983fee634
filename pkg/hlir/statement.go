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

package hlir

import "github.com/oxidecomputer/p4c-go/pkg/ast"

// walkStatements threads scope through stmts in order, per spec.md §4.6's
// "scope construction" rule: a Variable/Constant declaration extends a
// copy of the scope visible to every statement after it, never the ones
// before it.
func (c *ctx) walkStatements(scope Scope, stmts []ast.Statement) {
	for _, stmt := range stmts {
		scope = c.walkStatement(scope, stmt)
	}
}

func (c *ctx) walkStatement(scope Scope, stmt ast.Statement) Scope {
	switch s := stmt.(type) {
	case *ast.Empty:
		return scope

	case *ast.Assignment:
		c.resolveAndRecord(scope, s.Lv)
		c.typeOfExpr(scope, s.Value)

		return scope

	case *ast.CallStmt:
		c.typeOfExpr(scope, s.Call)

		return scope

	case *ast.If:
		c.typeOfExpr(scope, s.Cond)
		c.walkStatements(scope, s.Then.Statements)

		for _, elseIf := range s.ElseIfs {
			c.typeOfExpr(scope, elseIf.Cond)
			c.walkStatements(scope, elseIf.Then.Statements)
		}

		if s.Else != nil {
			c.walkStatements(scope, s.Else.Statements)
		}

		return scope

	case *ast.Variable:
		if s.Init != nil {
			c.typeOfExpr(scope, s.Init)
		}

		return scope.extended(s.Name, NameInfo{Type: s.Typ, Decl: ast.DeclLocal})

	case *ast.Constant:
		if s.Init != nil {
			c.typeOfExpr(scope, s.Init)
		}

		return scope.extended(s.Name, NameInfo{Type: s.Typ, Decl: ast.DeclLocal})

	case *ast.Return:
		if s.Value != nil {
			c.typeOfExpr(scope, s.Value)
		}

		return scope

	case *ast.Transition:
		c.walkTransitionTarget(scope, s.Target)

		return scope

	default:
		return scope
	}
}

func (c *ctx) walkTransitionTarget(scope Scope, target ast.TransitionTarget) {
	sel, ok := target.(*ast.Select)
	if !ok {
		return
	}

	for _, key := range sel.Keys {
		c.typeOfExpr(scope, key)
	}

	for _, sc := range sel.Cases {
		for _, ks := range sc.Keyset {
			c.typeOfExpr(scope, ks)
		}

		c.walkTransitionTarget(scope, sc.Target)
	}
}
