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

// Package hlir runs the second, fully-typed pass over pkg/ast.AST described
// by spec.md §4.6: it re-derives the scope that pkg/check already validated
// structurally (a read-only AST cannot carry resolved bindings, so each
// read-only pass rebuilds its own view) and, walking with full type
// information, populates ExpressionTypes and LvalueDecls. Grounded on
// pkg/corset/compiler/typing.go's per-node-kind typing switch; the scope
// shape is pkg/check/scope.go's flat, copy-on-extend map repeated here
// rather than shared, since the two packages are independent passes over
// the same read-only tree producing disjoint artifacts (diagnostics vs.
// type maps).
package hlir

import "github.com/oxidecomputer/p4c-go/pkg/ast"

// NameInfo is what a scope remembers about a bound name: its type, the
// kind of declaration it came from (spec.md §3's DeclarationInfo), and the
// passing direction when Decl is a Parameter or ActionParameter.
type NameInfo struct {
	Type      ast.Type
	Decl      ast.DeclKind
	Direction ast.Direction
}

// Scope maps a name visible at some point in a statement block to what it
// denotes. Never mutated once handed to a callee.
type Scope map[string]NameInfo

func (s Scope) extended(name string, info NameInfo) Scope {
	next := make(Scope, len(s)+1)
	for k, v := range s {
		next[k] = v
	}

	next[name] = info

	return next
}

func paramScope(params []ast.Parameter) Scope {
	scope := make(Scope, len(params))
	for _, p := range params {
		scope[p.Name] = NameInfo{Type: p.Typ, Decl: ast.DeclParameter, Direction: p.Direction}
	}

	return scope
}

// memberScope resolves a user-defined type name against the AST's
// struct/header/extern tables and builds the scope of its members.
func memberScope(tree *ast.AST, name string) (Scope, bool) {
	for _, h := range tree.Headers {
		if h.Name == name {
			return membersToScope(h.Members, ast.DeclHeaderMember), true
		}
	}

	for _, s := range tree.Structs {
		if s.Name == name {
			return membersToScope(s.Members, ast.DeclStructMember), true
		}
	}

	for _, e := range tree.Externs {
		if e.Name == name {
			scope := make(Scope, len(e.Methods))
			for _, m := range e.Methods {
				scope[m.Name] = NameInfo{Type: &ast.ExternFunctionType{Extern: name, Method: m.Name}, Decl: ast.DeclMethod}
			}

			return scope, true
		}
	}

	return nil, false
}

func membersToScope(members []ast.Member, kind ast.DeclKind) Scope {
	scope := make(Scope, len(members))
	for _, m := range members {
		scope[m.Name] = NameInfo{Type: m.Typ, Decl: kind}
	}

	return scope
}

func isHeaderName(tree *ast.AST, name string) bool {
	for _, h := range tree.Headers {
		if h.Name == name {
			return true
		}
	}

	return false
}

func findExternMethod(tree *ast.AST, extern, method string) *ast.ExternMethod {
	for _, e := range tree.Externs {
		if e.Name != extern {
			continue
		}

		for i := range e.Methods {
			if e.Methods[i].Name == method {
				return &e.Methods[i]
			}
		}
	}

	return nil
}
