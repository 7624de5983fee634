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
	"fmt"

	"github.com/oxidecomputer/p4c-go/pkg/ast"
	"github.com/oxidecomputer/p4c-go/pkg/token"
)

// Error is a resolution failure recorded while walking an lvalue path.
type Error struct {
	Tok     token.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Tok.File, e.Tok.Line+1, e.Tok.Col+1, e.Message)
}

// resolveLvalue repeats spec.md §4.5's shared lvalue-resolution algorithm
// (see pkg/check/lvalue.go), extended with the two built-in member forms
// spec.md §4.7 requires the emitter to be able to lower: a header's
// isValid()/setValid()/setInvalid() methods, and a table's apply() method.
// Neither is a declared Member, so both are recognized structurally rather
// than via memberScope.
func resolveLvalue(tree *ast.AST, scope Scope, lv *ast.Lvalue) (NameInfo, error) {
	root := lv.Root()

	info, ok := scope[root]
	if !ok {
		return NameInfo{}, &Error{Tok: lv.Tok, Message: fmt.Sprintf("'%s' is undefined", root)}
	}

	if lv.Degree() == 1 {
		return info, nil
	}

	rest := lv.PopLeft()

	if tbl, ok := info.Type.(*ast.TableType); ok {
		if rest.Degree() == 1 && rest.Root() == "apply" {
			return NameInfo{Type: &ast.TableApplyType{Table: tbl.Name}, Decl: ast.DeclMethod}, nil
		}

		return NameInfo{}, &Error{Tok: lv.Tok, Message: fmt.Sprintf("table %s has no member other than apply()", tbl.Name)}
	}

	udt, ok := info.Type.(*ast.UserDefinedType)
	if !ok {
		return NameInfo{}, &Error{Tok: lv.Tok, Message: fmt.Sprintf("value of type %s has no members", info.Type.String())}
	}

	if rest.Degree() == 1 {
		switch rest.Root() {
		case "isValid":
			if isHeaderName(tree, udt.Name) {
				return NameInfo{Type: &ast.HeaderMethodType{Method: "isValid"}, Decl: ast.DeclMethod}, nil
			}
		case "setValid", "setInvalid":
			if isHeaderName(tree, udt.Name) {
				return NameInfo{Type: &ast.HeaderMethodType{Method: rest.Root()}, Decl: ast.DeclMethod}, nil
			}
		}
	}

	members, ok := memberScope(tree, udt.Name)
	if !ok {
		return NameInfo{}, &Error{Tok: lv.Tok, Message: fmt.Sprintf("type %s is not defined", udt.Name)}
	}

	return resolveLvalue(tree, members, rest)
}
