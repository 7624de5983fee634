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

package ast

import (
	"math/big"

	"github.com/oxidecomputer/p4c-go/pkg/token"
)

// Expr is the tagged variant of P4 expressions, per spec.md §3: BoolLit,
// IntegerLit, BitLit, SignedLit, Lvalue, Binary, Index, Slice, Call, List.
// Each is its own struct carrying the token it was parsed from, so that
// diagnostics raised against it during checking or HLIR generation always
// have a source position.
type Expr interface {
	Token() token.Token

	isExpr()
}

// ============================================================================
// Literals
// ============================================================================

// BoolLit is a `true`/`false` literal.
type BoolLit struct {
	Tok   token.Token
	Value bool
}

func (e *BoolLit) isExpr()            {}
func (e *BoolLit) Token() token.Token { return e.Tok }

// IntegerLit is an unsized decimal or hex integer literal, e.g. `42`.
// Per spec.md §4.6 it is assigned the unsized Int(128) type.
type IntegerLit struct {
	Tok   token.Token
	Value *big.Int
}

func (e *IntegerLit) isExpr()            {}
func (e *IntegerLit) Token() token.Token { return e.Tok }

// BitLit is a sized unsigned literal, e.g. `16w0x2A`.
type BitLit struct {
	Tok   token.Token
	Width uint16
	Value *big.Int
}

func (e *BitLit) isExpr()            {}
func (e *BitLit) Token() token.Token { return e.Tok }

// SignedLit is a sized signed literal, e.g. `8s-3`.
type SignedLit struct {
	Tok   token.Token
	Width uint16
	Value *big.Int
}

func (e *SignedLit) isExpr()            {}
func (e *SignedLit) Token() token.Token { return e.Tok }

// ============================================================================
// Lvalue reference
// ============================================================================

// LvalueExpr wraps an Lvalue so it can appear wherever an Expr is expected
// (e.g. as the right-hand side of an assignment, or an operand of a Binary).
type LvalueExpr struct {
	Tok token.Token
	Lv  *Lvalue
}

func (e *LvalueExpr) isExpr()            {}
func (e *LvalueExpr) Token() token.Token { return e.Tok }

// ============================================================================
// Binary
// ============================================================================

// BinaryOp enumerates the binary operators of spec.md §3.
type BinaryOp uint8

// Binary operator kinds.
const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpShl
	OpShr
	OpBitAnd
	OpBitOr
	OpXor
	OpEq
	OpNotEq
	OpGeq
	OpLeq
	OpGt
	OpLt
	OpAnd
	OpOr
	OpMask
)

// String renders a BinaryOp using its P4 surface-syntax spelling.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpShl:
		return "<<"
	case OpShr:
		return ">>"
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpXor:
		return "^"
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpGeq:
		return ">="
	case OpLeq:
		return "<="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpMask:
		return "&&&"
	default:
		return "?"
	}
}

// Binary is a binary operator expression.
type Binary struct {
	Tok token.Token
	Lhs Expr
	Op  BinaryOp
	Rhs Expr
}

func (e *Binary) isExpr()            {}
func (e *Binary) Token() token.Token { return e.Tok }

// ============================================================================
// Index, Slice, Call, List
// ============================================================================

// Index is `lval[expr]`, or `lval[hi:lo]` when Idx is a Slice. pkg/hlir
// accepts only the slice form, on a bit/varbit/int lvalue.
type Index struct {
	Tok token.Token
	Lv  *Lvalue
	Idx Expr
}

func (e *Index) isExpr()            {}
func (e *Index) Token() token.Token { return e.Tok }

// Slice is `lval[hi:lo]`. It only ever appears inside an Index's Idx field,
// per spec.md §4.4 ("Slices appear only inside an index").
type Slice struct {
	Tok token.Token
	Hi  Expr
	Lo  Expr
}

func (e *Slice) isExpr()            {}
func (e *Slice) Token() token.Token { return e.Tok }

// Call is `lval(args)`: an action invocation, extern method call, or
// header method call.
type Call struct {
	Tok  token.Token
	Lv   *Lvalue
	Args []Expr
}

func (e *Call) isExpr()            {}
func (e *Call) Token() token.Token { return e.Tok }

// List is a brace-delimited expression list, `{a, b, c}`, used to
// initialize a header/struct-typed local or as a table const-entry's
// keyset.
type List struct {
	Tok   token.Token
	Items []Expr
}

func (e *List) isExpr()            {}
func (e *List) Token() token.Token { return e.Tok }
