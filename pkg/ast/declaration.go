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

import "github.com/oxidecomputer/p4c-go/pkg/token"

// Declaration is the tagged variant of top-level (and action/table/extern
// nested) declarations, per spec.md §3.
type Declaration interface {
	Token() token.Token
	// DeclName returns the identifier this declaration introduces.
	DeclName() string

	isDeclaration()
}

// Direction is a parameter's passing mode.
type Direction uint8

// Parameter directions.
const (
	DirUnspecified Direction = iota
	DirIn
	DirOut
	DirInOut
)

func (d Direction) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	case DirInOut:
		return "inout"
	default:
		return ""
	}
}

// Parameter is one entry in a control/parser/action/extern-method
// parameter list.
type Parameter struct {
	Tok       token.Token
	Name      string
	Typ       Type
	Direction Direction
}

// Member is one field of a header or struct declaration. Order within the
// declaration's Members slice is semantically significant: it determines
// binary layout and field offsets.
type Member struct {
	Tok  token.Token
	Name string
	Typ  Type
}

// ============================================================================
// ConstDecl
// ============================================================================

// ConstDecl is a top-level `const TYPE NAME = expr;` declaration.
type ConstDecl struct {
	Tok  token.Token
	Name string
	Typ  Type
	Init Expr
}

func (d *ConstDecl) isDeclaration()       {}
func (d *ConstDecl) Token() token.Token   { return d.Tok }
func (d *ConstDecl) DeclName() string     { return d.Name }

// ============================================================================
// HeaderDecl / StructDecl
// ============================================================================

// HeaderDecl is a `header NAME { ... }` declaration. Invariant: member
// names are unique within the declaration.
type HeaderDecl struct {
	Tok     token.Token
	Name    string
	Members []Member
}

func (d *HeaderDecl) isDeclaration()     {}
func (d *HeaderDecl) Token() token.Token { return d.Tok }
func (d *HeaderDecl) DeclName() string   { return d.Name }

// StructDecl is a `struct NAME { ... }` declaration. Invariant: member
// names are unique within the declaration.
type StructDecl struct {
	Tok     token.Token
	Name    string
	Members []Member
}

func (d *StructDecl) isDeclaration()     {}
func (d *StructDecl) Token() token.Token { return d.Tok }
func (d *StructDecl) DeclName() string   { return d.Name }

// ============================================================================
// TypedefDecl
// ============================================================================

// TypedefDecl is a `typedef TYPE NAME;` declaration.
type TypedefDecl struct {
	Tok        token.Token
	Name       string
	Underlying Type
}

func (d *TypedefDecl) isDeclaration()     {}
func (d *TypedefDecl) Token() token.Token { return d.Tok }
func (d *TypedefDecl) DeclName() string   { return d.Name }

// ============================================================================
// ActionDecl
// ============================================================================

// ActionDecl is an `action NAME(params) { ... }` declaration, nested
// within a control. Action parameters carry no direction.
type ActionDecl struct {
	Tok        token.Token
	Name       string
	Parameters []Parameter
	Body       *Block
}

func (d *ActionDecl) isDeclaration()     {}
func (d *ActionDecl) Token() token.Token { return d.Tok }
func (d *ActionDecl) DeclName() string   { return d.Name }

// ============================================================================
// TableDecl
// ============================================================================

// MatchKind is the match semantics of one table key.
type MatchKind uint8

// Match kinds.
const (
	MatchExact MatchKind = iota
	MatchTernary
	MatchLpm
	MatchRange
)

func (m MatchKind) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchTernary:
		return "ternary"
	case MatchLpm:
		return "lpm"
	case MatchRange:
		return "range"
	default:
		return "?"
	}
}

// TableKey is one `key = { lval: match_kind; ... }` entry.
type TableKey struct {
	Lv        *Lvalue
	MatchKind MatchKind
}

// ConstEntry is one row of a table's `const entries = { ... }` list: a
// keyset value per key, and the action invocation to run on a match.
type ConstEntry struct {
	Tok     token.Token
	Keyset  []Expr
	Action  *Call
}

// TableDecl is a `table NAME { ... }` declaration, nested within a control.
type TableDecl struct {
	Tok           token.Token
	Name          string
	Keys          []TableKey
	Actions       []string
	DefaultAction string
	ConstEntries  []ConstEntry
	// Size is the table's declared maximum entry count, or 0 if
	// unspecified (implementation-defined default applies).
	Size uint
}

func (d *TableDecl) isDeclaration()     {}
func (d *TableDecl) Token() token.Token { return d.Tok }
func (d *TableDecl) DeclName() string   { return d.Name }

// ============================================================================
// ControlDecl
// ============================================================================

// ControlDecl is a `control NAME(params) { ... }` declaration.
type ControlDecl struct {
	Tok            token.Token
	Name           string
	TypeParameters []string
	Parameters     []Parameter
	Actions        []*ActionDecl
	Tables         []*TableDecl
	Variables      []*Variable
	Constants      []*Constant
	ApplyBlock     *Block
}

func (d *ControlDecl) isDeclaration()     {}
func (d *ControlDecl) Token() token.Token { return d.Tok }
func (d *ControlDecl) DeclName() string   { return d.Name }

// ============================================================================
// ParserDecl / StateDecl
// ============================================================================

// StateDecl is a `state NAME { ... transition ...; }` declaration, nested
// within a parser. The trailing transition statement, when present, is the
// last entry of Body.Statements (a *Transition) rather than a separate
// field: a state's body is parsed by a dedicated production that only
// accepts a Transition statement in tail position, so this can never be
// violated by construction (SPEC_FULL.md Open Question #4).
type StateDecl struct {
	Tok  token.Token
	Name string
	Body *Block
}

func (d *StateDecl) isDeclaration()     {}
func (d *StateDecl) Token() token.Token { return d.Tok }
func (d *StateDecl) DeclName() string   { return d.Name }

// Transition returns this state's trailing transition target, or nil if
// the body has no transition statement (a declaration-only parser's states
// never do).
func (d *StateDecl) Transition() TransitionTarget {
	if d.Body == nil || len(d.Body.Statements) == 0 {
		return nil
	}

	if t, ok := d.Body.Statements[len(d.Body.Statements)-1].(*Transition); ok {
		return t.Target
	}

	return nil
}

// ParserDecl is a `parser NAME(params) { ... }` declaration. A
// non-declaration-only parser must contain a state named "start".
type ParserDecl struct {
	Tok            token.Token
	Name           string
	TypeParameters []string
	Parameters     []Parameter
	States         []*StateDecl
	DeclOnly       bool
}

func (d *ParserDecl) isDeclaration()     {}
func (d *ParserDecl) Token() token.Token { return d.Tok }
func (d *ParserDecl) DeclName() string   { return d.Name }

// ============================================================================
// ExternDecl
// ============================================================================

// ExternMethod is one method signature within an extern declaration.
type ExternMethod struct {
	Tok            token.Token
	ReturnType     Type
	Name           string
	TypeParameters []string
	Parameters     []Parameter
}

// ExternDecl is an `extern NAME { ... }` declaration naming a set of
// method signatures implemented by the host runtime.
type ExternDecl struct {
	Tok     token.Token
	Name    string
	Methods []ExternMethod
}

func (d *ExternDecl) isDeclaration()     {}
func (d *ExternDecl) Token() token.Token { return d.Tok }
func (d *ExternDecl) DeclName() string   { return d.Name }

// ============================================================================
// PackageDecl / PackageInstanceDecl
// ============================================================================

// PackageDecl is a `package NAME(params);` declaration naming the
// top-level pipeline shape (e.g. which parser/control slots a conforming
// program must instantiate).
type PackageDecl struct {
	Tok        token.Token
	Name       string
	Parameters []Parameter
}

func (d *PackageDecl) isDeclaration()     {}
func (d *PackageDecl) Token() token.Token { return d.Tok }
func (d *PackageDecl) DeclName() string   { return d.Name }

// PackageInstanceDecl is the (at most one) top-level `PackageName(args) main;`
// instantiation binding concrete parsers/controls into the package's slots.
type PackageInstanceDecl struct {
	Tok         token.Token
	Name        string
	PackageName string
	Args        []Expr
}

func (d *PackageInstanceDecl) isDeclaration()     {}
func (d *PackageInstanceDecl) Token() token.Token { return d.Tok }
func (d *PackageInstanceDecl) DeclName() string   { return d.Name }
