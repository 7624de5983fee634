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

import "fmt"

// Type is the tagged variant of P4 types this compiler reasons about, per
// spec.md §3: Bool, Error, Bit(n), Varbit(n), Int(n), String,
// UserDefined(name), Sync(inner), Table, Action, ExternFunction,
// HeaderMethod, List(elems), Void, State. Each variant is its own struct,
// following the same shape as Expr/Declaration below.
type Type interface {
	// Equals reports whether this type and other denote the same type.
	Equals(other Type) bool
	String() string

	isType()
}

// BoolType is the type of logical conditions.
type BoolType struct{}

func (*BoolType) isType()              {}
func (*BoolType) String() string       { return "bool" }
func (*BoolType) Equals(o Type) bool   { _, ok := o.(*BoolType); return ok }

// ErrorType is P4's built-in "error" type, whose values name parser errors.
type ErrorType struct{}

func (*ErrorType) isType()            {}
func (*ErrorType) String() string     { return "error" }
func (*ErrorType) Equals(o Type) bool { _, ok := o.(*ErrorType); return ok }

// BitType is an unsigned fixed-width integer, bit<Width>.
type BitType struct{ Width uint16 }

func (*BitType) isType() {}
func (t *BitType) String() string {
	return fmt.Sprintf("bit<%d>", t.Width)
}

func (t *BitType) Equals(o Type) bool {
	other, ok := o.(*BitType)
	return ok && other.Width == t.Width
}

// VarbitType is a variable-width bitstring with a declared maximum width,
// varbit<Width>.
type VarbitType struct{ Width uint16 }

func (*VarbitType) isType() {}
func (t *VarbitType) String() string {
	return fmt.Sprintf("varbit<%d>", t.Width)
}

func (t *VarbitType) Equals(o Type) bool {
	other, ok := o.(*VarbitType)
	return ok && other.Width == t.Width
}

// IntType is a signed fixed-width integer, int<Width>. pkg/hlir types an
// IntegerLit expression as int<128> (P4 §8.9.1/2, spec.md §4.6).
type IntType struct{ Width uint16 }

func (*IntType) isType() {}
func (t *IntType) String() string {
	if t.Width == 0 {
		return "int"
	}

	return fmt.Sprintf("int<%d>", t.Width)
}

func (t *IntType) Equals(o Type) bool {
	other, ok := o.(*IntType)
	return ok && other.Width == t.Width
}

// StringType is P4's string literal type, used only in annotations/externs.
type StringType struct{}

func (*StringType) isType()            {}
func (*StringType) String() string     { return "string" }
func (*StringType) Equals(o Type) bool { _, ok := o.(*StringType); return ok }

// UserDefinedType names a header, struct, typedef, or extern by identifier.
// No pass in this module assigns Resolved, so it is always nil.
type UserDefinedType struct {
	Name     string
	Resolved Declaration
}

func (*UserDefinedType) isType() {}
func (t *UserDefinedType) String() string {
	return t.Name
}

func (t *UserDefinedType) Equals(o Type) bool {
	other, ok := o.(*UserDefinedType)
	return ok && other.Name == t.Name
}

// SyncType wraps the type of an extern method's return value or header
// member that is only meaningful within a synchronized parser/control
// boundary; Inner is the underlying type.
type SyncType struct{ Inner Type }

func (*SyncType) isType() {}
func (t *SyncType) String() string {
	return fmt.Sprintf("sync(%s)", t.Inner.String())
}

func (t *SyncType) Equals(o Type) bool {
	other, ok := o.(*SyncType)
	return ok && other.Inner.Equals(t.Inner)
}

// TableType is assigned to a table declaration's name when it appears as a
// value (e.g. table.apply()).
type TableType struct{ Name string }

func (*TableType) isType()            {}
func (t *TableType) String() string   { return fmt.Sprintf("table %s", t.Name) }
func (t *TableType) Equals(o Type) bool {
	other, ok := o.(*TableType)
	return ok && other.Name == t.Name
}

// TableApplyType is assigned to a table's apply() method when referenced
// as a call callee, e.g. `my_table.apply();`.
type TableApplyType struct{ Table string }

func (*TableApplyType) isType() {}
func (t *TableApplyType) String() string {
	return fmt.Sprintf("table %s.apply", t.Table)
}

func (t *TableApplyType) Equals(o Type) bool {
	other, ok := o.(*TableApplyType)
	return ok && other.Table == t.Table
}

// ActionType is assigned to an action's name when referenced as a value
// (e.g. in a table's actions list).
type ActionType struct{ Name string }

func (*ActionType) isType()          {}
func (t *ActionType) String() string { return fmt.Sprintf("action %s", t.Name) }
func (t *ActionType) Equals(o Type) bool {
	other, ok := o.(*ActionType)
	return ok && other.Name == t.Name
}

// ExternFunctionType is assigned to an extern method reference.
type ExternFunctionType struct {
	Extern string
	Method string
}

func (*ExternFunctionType) isType() {}
func (t *ExternFunctionType) String() string {
	return fmt.Sprintf("extern %s.%s", t.Extern, t.Method)
}

func (t *ExternFunctionType) Equals(o Type) bool {
	other, ok := o.(*ExternFunctionType)
	return ok && other.Extern == t.Extern && other.Method == t.Method
}

// HeaderMethodType is assigned to the built-in header methods isValid(),
// setValid(), and setInvalid().
type HeaderMethodType struct{ Method string }

func (*HeaderMethodType) isType() {}
func (t *HeaderMethodType) String() string {
	return fmt.Sprintf("header method %s", t.Method)
}

func (t *HeaderMethodType) Equals(o Type) bool {
	other, ok := o.(*HeaderMethodType)
	return ok && other.Method == t.Method
}

// ListType is assigned to a List expression; Elems gives the type of each
// positional element.
type ListType struct{ Elems []Type }

func (*ListType) isType() {}
func (t *ListType) String() string {
	s := "{"

	for i, e := range t.Elems {
		if i > 0 {
			s += ", "
		}

		s += e.String()
	}

	return s + "}"
}

func (t *ListType) Equals(o Type) bool {
	other, ok := o.(*ListType)
	if !ok || len(other.Elems) != len(t.Elems) {
		return false
	}

	for i := range t.Elems {
		if !t.Elems[i].Equals(other.Elems[i]) {
			return false
		}
	}

	return true
}

// VoidType is the return type of an action or a method with no result.
type VoidType struct{}

func (*VoidType) isType()            {}
func (*VoidType) String() string     { return "void" }
func (*VoidType) Equals(o Type) bool { _, ok := o.(*VoidType); return ok }

// StateType is assigned to a parser state's name when referenced as a
// transition target.
type StateType struct{ Name string }

func (*StateType) isType()          {}
func (t *StateType) String() string { return fmt.Sprintf("state %s", t.Name) }
func (t *StateType) Equals(o Type) bool {
	other, ok := o.(*StateType)
	return ok && other.Name == t.Name
}
