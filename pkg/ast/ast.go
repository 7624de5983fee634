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

// Package ast defines the untyped syntax tree produced by pkg/parse and
// consumed read-only by pkg/check, pkg/hlir, and pkg/emit, per spec.md §3.
// Tagged variants (Type, Expr, Statement, Declaration, TransitionTarget)
// are modeled as a marker interface with one concrete struct per variant,
// each carrying the token.Token it was parsed from.
package ast

// AST is the root of a parsed P4 program: ordered sequences of every
// top-level declaration kind, plus at most one package instantiation.
type AST struct {
	Constants       []*ConstDecl
	Headers         []*HeaderDecl
	Structs         []*StructDecl
	Typedefs        []*TypedefDecl
	Controls        []*ControlDecl
	Parsers         []*ParserDecl
	Packages        []*PackageDecl
	Externs         []*ExternDecl
	PackageInstance *PackageInstanceDecl
}

// New returns an empty AST ready to be populated by the parser.
func New() *AST {
	return &AST{}
}

// TopLevelDecls returns every declaration participating in the
// cross-kind uniqueness invariant of spec.md §3 invariant (4): no two of
// typedefs, structs, headers, controls, parsers, and externs may share a
// name. Constants and the package instance are excluded; they live in a
// disjoint namespace.
func (a *AST) TopLevelDecls() []Declaration {
	decls := make([]Declaration, 0, len(a.Typedefs)+len(a.Structs)+len(a.Headers)+len(a.Controls)+len(a.Parsers)+len(a.Externs))

	for _, d := range a.Typedefs {
		decls = append(decls, d)
	}

	for _, d := range a.Structs {
		decls = append(decls, d)
	}

	for _, d := range a.Headers {
		decls = append(decls, d)
	}

	for _, d := range a.Controls {
		decls = append(decls, d)
	}

	for _, d := range a.Parsers {
		decls = append(decls, d)
	}

	for _, d := range a.Externs {
		decls = append(decls, d)
	}

	return decls
}

// FindStateByName returns the state with the given name within p, or nil.
func FindStateByName(p *ParserDecl, name string) *StateDecl {
	for _, s := range p.States {
		if s.Name == name {
			return s
		}
	}

	return nil
}
