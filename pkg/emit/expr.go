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

package emit

import (
	"fmt"
	"strings"

	"github.com/oxidecomputer/p4c-go/pkg/ast"
)

// renderExpr lowers an expression to a host-language-agnostic arithmetic
// form shared by the rust and redhawk targets: both read field paths and
// operators the same way, they only differ in statement/declaration shape
// (see rust.go and redhawk.go).
func renderExpr(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.BoolLit:
		if ex.Value {
			return "true"
		}

		return "false"
	case *ast.IntegerLit:
		return ex.Value.String()
	case *ast.BitLit:
		return ex.Value.String()
	case *ast.SignedLit:
		return ex.Value.String()
	case *ast.LvalueExpr:
		return renderLvalue(ex.Lv)
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", renderExpr(ex.Lhs), ex.Op.String(), renderExpr(ex.Rhs))
	case *ast.Index:
		return fmt.Sprintf("%s[%s]", renderLvalue(ex.Lv), renderExpr(ex.Idx))
	case *ast.Slice:
		return fmt.Sprintf("%s:%s", renderExpr(ex.Hi), renderExpr(ex.Lo))
	case *ast.Call:
		args := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = renderExpr(a)
		}

		return fmt.Sprintf("%s(%s)", renderLvalue(ex.Lv), strings.Join(args, ", "))
	case *ast.List:
		items := make([]string, len(ex.Items))
		for i, it := range ex.Items {
			items[i] = renderExpr(it)
		}

		return fmt.Sprintf("{%s}", strings.Join(items, ", "))
	default:
		return "/* unrenderable expression */"
	}
}

// renderLvalue renders a dotted lvalue path as a field-access chain. Every
// generated header/struct type exposes its members under the same names
// they were declared with, so the dotted path translates directly.
func renderLvalue(lv *ast.Lvalue) string {
	return lv.Name
}
