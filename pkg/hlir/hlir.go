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

import (
	"github.com/oxidecomputer/p4c-go/pkg/ast"
	"github.com/oxidecomputer/p4c-go/pkg/diag"
)

// Result is the artifact spec.md §4.6 names: a type recorded for every
// expression that typed successfully, and a DeclarationInfo recorded for
// every lvalue this pass could resolve. A missing entry means an earlier
// diagnostic already explains why; pkg/emit must consult these maps and
// skip rather than crash on an absent key.
type Result struct {
	ExpressionTypes map[ast.Expr]ast.Type
	LvalueDecls     map[*ast.Lvalue]ast.DeclarationInfo
}

func newResult() *Result {
	return &Result{
		ExpressionTypes: make(map[ast.Expr]ast.Type),
		LvalueDecls:     make(map[*ast.Lvalue]ast.DeclarationInfo),
	}
}

// Generate runs the HLIR pass over every parser and control in tree,
// returning the typed result plus any diagnostics raised along the way.
func Generate(tree *ast.AST) (*Result, *diag.Bag) {
	res := newResult()
	bag := diag.NewBag()

	for _, p := range tree.Parsers {
		generateParser(tree, res, bag, p)
	}

	for _, ctrl := range tree.Controls {
		generateControl(tree, res, bag, ctrl)
	}

	return res, bag
}

func generateParser(tree *ast.AST, res *Result, bag *diag.Bag, p *ast.ParserDecl) {
	c := &ctx{tree: tree, res: res, bag: bag}
	base := paramScope(p.Parameters)

	for _, state := range p.States {
		if state.Body == nil {
			continue
		}

		c.walkStatements(base, state.Body.Statements)
	}
}

func generateControl(tree *ast.AST, res *Result, bag *diag.Bag, ctrl *ast.ControlDecl) {
	actions := make(map[string]*ast.ActionDecl, len(ctrl.Actions))
	for _, a := range ctrl.Actions {
		actions[a.Name] = a
	}

	c := &ctx{tree: tree, res: res, bag: bag, actions: actions}
	base := paramScope(ctrl.Parameters)

	for _, a := range ctrl.Actions {
		actionScope := base
		for _, p := range a.Parameters {
			actionScope = actionScope.extended(p.Name, NameInfo{Type: p.Typ, Decl: ast.DeclActionParameter})
		}

		if a.Body != nil {
			c.walkStatements(actionScope, a.Body.Statements)
		}
	}

	applyScope := base

	for _, a := range ctrl.Actions {
		applyScope = applyScope.extended(a.Name, NameInfo{Type: &ast.ActionType{Name: a.Name}, Decl: ast.DeclMethod})
	}

	for _, t := range ctrl.Tables {
		applyScope = applyScope.extended(t.Name, NameInfo{Type: &ast.TableType{Name: t.Name}, Decl: ast.DeclMethod})

		for _, key := range t.Keys {
			c.resolveAndRecord(base, key.Lv)
		}

		for _, entry := range t.ConstEntries {
			for _, ks := range entry.Keyset {
				c.typeOfExpr(base, ks)
			}

			c.typeOfExpr(applyScope, entry.Action)
		}
	}

	if ctrl.ApplyBlock != nil {
		c.walkStatements(applyScope, ctrl.ApplyBlock.Statements)
	}
}
