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
	"github.com/oxidecomputer/p4c-go/pkg/token"
)

func posOf(tok token.Token) diag.Position {
	return diag.Position{File: tok.File, Line: tok.Line, Col: tok.Col}
}

// ctx threads the read-only AST, this pass's output maps, the diagnostic
// bag, and the enclosing control's action table (nil outside a control
// body, where no action can legally be invoked) through the expression and
// statement walks.
type ctx struct {
	tree    *ast.AST
	res     *Result
	bag     *diag.Bag
	actions map[string]*ast.ActionDecl
}

// typeOfExpr assigns a type to e per spec.md §4.6's primary-typing table
// and index/slice rules, recording the result in ExpressionTypes. A nil
// return means typing failed; the caller must not record an entry and must
// propagate nil rather than guess.
func (c *ctx) typeOfExpr(scope Scope, e ast.Expr) ast.Type {
	var t ast.Type

	switch ex := e.(type) {
	case *ast.BoolLit:
		t = &ast.BoolType{}
	case *ast.IntegerLit:
		t = &ast.IntType{Width: 128}
	case *ast.BitLit:
		t = &ast.BitType{Width: ex.Width}
	case *ast.SignedLit:
		t = &ast.IntType{Width: ex.Width}
	case *ast.LvalueExpr:
		t = c.typeOfLvalueExpr(scope, ex)
	case *ast.Binary:
		t = c.typeOfBinary(scope, ex)
	case *ast.Index:
		t = c.typeOfIndex(scope, ex)
	case *ast.Call:
		t = c.typeOfCall(scope, ex)
	case *ast.List:
		t = c.typeOfList(scope, ex)
	case *ast.Slice:
		// A bare Slice only ever appears nested inside an Index's Idx
		// field (spec.md §4.4); it has no standalone type.
		return nil
	default:
		return nil
	}

	if t != nil {
		c.res.ExpressionTypes[e] = t
	}

	return t
}

func (c *ctx) typeOfLvalueExpr(scope Scope, ex *ast.LvalueExpr) ast.Type {
	info, ok := c.resolveAndRecord(scope, ex.Lv)
	if !ok {
		return nil
	}

	return info.Type
}

func (c *ctx) typeOfBinary(scope Scope, ex *ast.Binary) ast.Type {
	lhs := c.typeOfExpr(scope, ex.Lhs)
	rhs := c.typeOfExpr(scope, ex.Rhs)

	if lhs == nil || rhs == nil {
		return nil
	}

	if !lhs.Equals(rhs) {
		c.bag.Errorf(posOf(ex.Tok), "operand type mismatch: %s %s %s", lhs.String(), ex.Op.String(), rhs.String())
	}

	return lhs
}

// typeOfIndex implements spec.md §4.6's index semantics: the index must be
// a Slice of two IntegerLit bounds, 0 ≤ lo ≤ hi < W, against a Bit/Varbit/
// Int base; the result keeps the base's kind at width hi-lo+1.
func (c *ctx) typeOfIndex(scope Scope, ex *ast.Index) ast.Type {
	base, ok := c.resolveAndRecord(scope, ex.Lv)
	if !ok {
		return nil
	}

	slice, ok := ex.Idx.(*ast.Slice)
	if !ok {
		c.bag.Errorf(posOf(ex.Tok), "index must be a [hi:lo] slice")
		return nil
	}

	hiLit, hiOk := slice.Hi.(*ast.IntegerLit)
	loLit, loOk := slice.Lo.(*ast.IntegerLit)

	if !hiOk || !loOk {
		c.bag.Errorf(posOf(ex.Tok), "slice bounds must be compile-time integer literals")
		return nil
	}

	hi := hiLit.Value.Uint64()
	lo := loLit.Value.Uint64()

	width, ok := baseWidth(base.Type)
	if !ok {
		c.bag.Errorf(posOf(ex.Tok), "value of type %s cannot be sliced", base.Type.String())
		return nil
	}

	if lo > hi || hi >= uint64(width) {
		c.bag.Errorf(posOf(ex.Tok), "slice [%d:%d] out of range for a %d-bit value", hi, lo, width)
		return nil
	}

	resultWidth := uint16(hi-lo) + 1

	switch base.Type.(type) {
	case *ast.BitType:
		return &ast.BitType{Width: resultWidth}
	case *ast.VarbitType:
		return &ast.VarbitType{Width: resultWidth}
	case *ast.IntType:
		return &ast.IntType{Width: resultWidth}
	default:
		return nil
	}
}

func baseWidth(t ast.Type) (uint16, bool) {
	switch bt := t.(type) {
	case *ast.BitType:
		return bt.Width, true
	case *ast.VarbitType:
		return bt.Width, true
	case *ast.IntType:
		return bt.Width, true
	default:
		return 0, false
	}
}

func (c *ctx) typeOfList(scope Scope, ex *ast.List) ast.Type {
	elems := make([]ast.Type, 0, len(ex.Items))

	for _, item := range ex.Items {
		et := c.typeOfExpr(scope, item)
		if et == nil {
			return nil
		}

		elems = append(elems, et)
	}

	return &ast.ListType{Elems: elems}
}

// typeOfCall resolves the callee lvalue and types a Call per SPEC_FULL.md's
// "fully lowered Call expressions" decision (Open Question #3): it checks
// arity against the callee's declared parameters and assigns the callee's
// declared return type, rather than leaving Call untyped for the emitter to
// paper over.
func (c *ctx) typeOfCall(scope Scope, ex *ast.Call) ast.Type {
	info, ok := c.resolveAndRecord(scope, ex.Lv)
	if !ok {
		return nil
	}

	for _, arg := range ex.Args {
		c.typeOfExpr(scope, arg)
	}

	switch callee := info.Type.(type) {
	case *ast.TableApplyType:
		c.checkArity(ex, 0, callee.Table+".apply")
		return &ast.VoidType{}

	case *ast.HeaderMethodType:
		c.checkArity(ex, 0, callee.Method)

		if callee.Method == "isValid" {
			return &ast.BoolType{}
		}

		return &ast.VoidType{}

	case *ast.ExternFunctionType:
		method := findExternMethod(c.tree, callee.Extern, callee.Method)
		if method == nil {
			c.bag.Errorf(posOf(ex.Tok), "extern %s has no method %s", callee.Extern, callee.Method)
			return nil
		}

		c.checkArity(ex, len(method.Parameters), callee.Extern+"."+callee.Method)

		return method.ReturnType

	case *ast.ActionType:
		action, ok := c.actions[callee.Name]
		if !ok {
			c.bag.Errorf(posOf(ex.Tok), "action %s is not declared in this control", callee.Name)
			return nil
		}

		c.checkArity(ex, len(action.Parameters), callee.Name)

		return &ast.VoidType{}

	default:
		c.bag.Errorf(posOf(ex.Tok), "value of type %s is not callable", info.Type.String())
		return nil
	}
}

func (c *ctx) checkArity(ex *ast.Call, want int, name string) {
	if len(ex.Args) != want {
		c.bag.Errorf(posOf(ex.Tok), "%s takes %d argument(s), got %d", name, want, len(ex.Args))
	}
}

func (c *ctx) resolveAndRecord(scope Scope, lv *ast.Lvalue) (NameInfo, bool) {
	info, err := resolveLvalue(c.tree, scope, lv)
	if err != nil {
		if herr, ok := err.(*Error); ok {
			c.bag.Errorf(posOf(herr.Tok), "%s", herr.Message)
		}

		return NameInfo{}, false
	}

	c.res.LvalueDecls[lv] = ast.DeclarationInfo{Kind: info.Decl, Direction: info.Direction, Type: info.Type}

	return info, true
}
