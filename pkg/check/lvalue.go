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

// resolveLvalue implements spec.md §4.5's shared lvalue-resolution
// algorithm: look up the root in scope, then walk one dotted segment at a
// time through struct/header/extern member tables, descending into
// pop_left() each time so a failing segment's diagnostic points at its own
// source column (PopLeft already advances the token's column for us).
func resolveLvalue(tree *ast.AST, scope Scope, lv *ast.Lvalue) (NameInfo, error) {
	root := lv.Root()

	info, ok := scope[root]
	if !ok {
		return NameInfo{}, &Error{Tok: lv.Tok, Message: fmt.Sprintf("'%s' is undefined", root)}
	}

	if lv.Degree() == 1 {
		return info, nil
	}

	udt, ok := info.Type.(*ast.UserDefinedType)
	if !ok {
		return NameInfo{}, &Error{Tok: lv.Tok, Message: fmt.Sprintf("value of type %s has no members", info.Type.String())}
	}

	members, ok := memberScope(tree, udt.Name)
	if !ok {
		return NameInfo{}, &Error{Tok: lv.Tok, Message: fmt.Sprintf("type %s is not defined", udt.Name)}
	}

	return resolveLvalue(tree, members, lv.PopLeft())
}
