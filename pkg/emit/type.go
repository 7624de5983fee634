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

	"github.com/oxidecomputer/p4c-go/pkg/ast"
)

// rustType lowers a P4 type to the narrowest Rust integer type that can
// hold it (unsigned for bit/varbit, signed for int), per
// original_source/codegen/rust/src's representation
// of bit<W>/int<W> fields as the host's native integer types.
func rustType(t ast.Type) string {
	switch typ := t.(type) {
	case *ast.BoolType:
		return "bool"
	case *ast.BitType:
		return unsignedRustWidth(typ.Width)
	case *ast.VarbitType:
		return unsignedRustWidth(typ.Width)
	case *ast.IntType:
		return signedRustWidth(typ.Width)
	case *ast.UserDefinedType:
		return typ.Name
	case *ast.VoidType:
		return "()"
	default:
		return "()"
	}
}

func unsignedRustWidth(width uint16) string {
	switch {
	case width == 0:
		return "u128"
	case width <= 8:
		return "u8"
	case width <= 16:
		return "u16"
	case width <= 32:
		return "u32"
	case width <= 64:
		return "u64"
	default:
		return "u128"
	}
}

func signedRustWidth(width uint16) string {
	switch {
	case width == 0:
		return "i128"
	case width <= 8:
		return "i8"
	case width <= 16:
		return "i16"
	case width <= 32:
		return "i32"
	case width <= 64:
		return "i64"
	default:
		return "i128"
	}
}

// matchKindName renders a MatchKind the way a generated table constructor
// names its match-kind tuple entries.
func matchKindName(m ast.MatchKind) string {
	switch m {
	case ast.MatchExact:
		return "Exact"
	case ast.MatchTernary:
		return "Ternary"
	case ast.MatchLpm:
		return "Lpm"
	case ast.MatchRange:
		return "Range"
	default:
		return fmt.Sprintf("MatchKind(%d)", m)
	}
}
