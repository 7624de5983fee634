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

// Package check implements the semantic checker: a read-only walk of
// pkg/ast.AST that records diagnostics without mutating the tree, per
// spec.md §4.5. It is grounded on pkg/corset/compiler/scope.go's
// threaded-scope shape, simplified from that module's recursive
// ModuleScope/LocalScope tree (which exists to resolve qualified paths
// across submodules) down to a single flat name table, since P4 has no
// module nesting: a scope is extended by copying, never mutated in place,
// exactly as spec.md §4.6 "Scope construction" prescribes.
package check

import "github.com/oxidecomputer/p4c-go/pkg/ast"

// NameInfo is what a scope remembers about a bound name: its type and the
// kind of declaration it came from (spec.md §3's DeclarationInfo), mirrored
// from pkg/hlir's scope shape (which also records a parameter Direction)
// since both packages resolve the same lvalues independently.
type NameInfo struct {
	Type ast.Type
	Decl ast.DeclKind
}

// Scope maps a name visible at some point in a statement block to what it
// denotes. Scopes are never mutated once handed to a callee: extending a
// scope produces a new map, so a nested block's declarations can never leak
// back out to its enclosing block.
type Scope map[string]NameInfo

// extended returns a new Scope containing every binding of s plus name.
func (s Scope) extended(name string, info NameInfo) Scope {
	next := make(Scope, len(s)+1)
	for k, v := range s {
		next[k] = v
	}

	next[name] = info

	return next
}

// paramScope builds the base scope for a parser or control body: its
// parameter list, and nothing else.
func paramScope(params []ast.Parameter) Scope {
	scope := make(Scope, len(params))
	for _, p := range params {
		scope[p.Name] = NameInfo{Type: p.Typ, Decl: ast.DeclParameter}
	}

	return scope
}

// memberScope resolves a user-defined type name against the AST's
// header/struct/extern tables and builds the scope of its members, per
// spec.md §4.5 step 4. Header and struct members map to their declared
// type; extern methods map to an ExternFunctionType reference.
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
