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

// Statement is the tagged variant of statements that may appear in a
// statement block, per spec.md §3: Empty, Assignment, Call, If, Variable,
// Constant, Transition, Return.
type Statement interface {
	Token() token.Token

	isStatement()
}

// Block is a brace-delimited sequence of statements.
type Block struct {
	Tok        token.Token
	Statements []Statement
}

// Empty is a bare `;` statement.
type Empty struct{ Tok token.Token }

func (s *Empty) isStatement()         {}
func (s *Empty) Token() token.Token   { return s.Tok }

// Assignment is `lval = expr;`.
type Assignment struct {
	Tok   token.Token
	Lv    *Lvalue
	Value Expr
}

func (s *Assignment) isStatement()       {}
func (s *Assignment) Token() token.Token { return s.Tok }

// CallStmt is a call expression used as a statement, `lval(args);`.
type CallStmt struct {
	Tok  token.Token
	Call *Call
}

func (s *CallStmt) isStatement()       {}
func (s *CallStmt) Token() token.Token { return s.Tok }

// ElseIf is one `else if (cond) { ... }` arm of an If chain.
type ElseIf struct {
	Tok  token.Token
	Cond Expr
	Then *Block
}

// If is an `if (cond) { ... } else if (...) { ... } ... else { ... }` chain.
type If struct {
	Tok      token.Token
	Cond     Expr
	Then     *Block
	ElseIfs  []*ElseIf
	Else     *Block
}

func (s *If) isStatement()       {}
func (s *If) Token() token.Token { return s.Tok }

// Variable is a local variable declaration statement, e.g.
// `bit<8> x = 0;`.
type Variable struct {
	Tok  token.Token
	Name string
	Typ  Type
	Init Expr
}

func (s *Variable) isStatement()       {}
func (s *Variable) Token() token.Token { return s.Tok }

// Constant is a local constant declaration statement, e.g.
// `const bit<8> x = 0;`, nested inside a control's apply block or an
// action body rather than at the top level.
type Constant struct {
	Tok  token.Token
	Name string
	Typ  Type
	Init Expr
}

func (s *Constant) isStatement()       {}
func (s *Constant) Token() token.Token { return s.Tok }

// Transition is `transition target;`, valid only at the tail of a parser
// state's statement block (enforced at parse time; see SPEC_FULL.md Open
// Question #4).
type Transition struct {
	Tok    token.Token
	Target TransitionTarget
}

func (s *Transition) isStatement()       {}
func (s *Transition) Token() token.Token { return s.Tok }

// Return is `return;` or `return expr;`. Value is nil for the bare form.
type Return struct {
	Tok   token.Token
	Value Expr
}

func (s *Return) isStatement()       {}
func (s *Return) Token() token.Token { return s.Tok }

// TransitionTarget is the tagged variant of a parser state transition's
// destination: either a bare state-name reference, or a select expression
// mapping keyset patterns to further targets.
type TransitionTarget interface {
	Token() token.Token

	isTransitionTarget()
}

// StateRef is `transition next_state;`.
type StateRef struct {
	Tok  token.Token
	Name string
}

func (t *StateRef) isTransitionTarget() {}
func (t *StateRef) Token() token.Token  { return t.Tok }

// SelectCase is one `keyset: target;` arm of a select expression. A
// wildcard arm (`default: target;` or `_: target;`) sets Default true and
// leaves Keyset empty.
type SelectCase struct {
	Tok     token.Token
	Keyset  []Expr
	Default bool
	Target  TransitionTarget
}

// Select is `select(keys) { case; case; ... }`.
type Select struct {
	Tok   token.Token
	Keys  []Expr
	Cases []*SelectCase
}

func (t *Select) isTransitionTarget() {}
func (t *Select) Token() token.Token  { return t.Tok }
