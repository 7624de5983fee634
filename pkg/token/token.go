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

// Package token defines the P4 terminal symbols produced by pkg/lex and
// consumed by pkg/parse. A Token is immutable and hashable, per spec.md §3.
package token

import "fmt"

//go:generate go run ./internal/gen

// Kind enumerates every terminal in the P4-16 grammar this compiler
// accepts. It is a tagged variant in spirit: literal-carrying kinds store
// their payload in the Token's Width/IValue/UValue/Text fields rather than
// in Kind itself, since Go enums can't carry data directly.
type Kind uint8

// Keyword kinds.
const (
	KindConst Kind = iota
	KindHeader
	KindTypedef
	KindControl
	KindStruct
	KindAction
	KindParser
	KindTable
	KindSize
	KindKey
	KindExact
	KindTernary
	KindLpm
	KindRange
	KindActions
	KindDefaultAction
	KindEntries
	KindIn
	KindInOut
	KindOut
	KindTransition
	KindState
	KindSelect
	KindApply
	KindPackage
	KindExtern
	KindIf
	KindElse
	KindReturn

	// Type keywords.
	KindBool
	KindError
	KindBit
	KindVarbit
	KindInt
	KindString

	// Punctuation.
	KindAngleOpen
	KindAngleClose
	KindCurlyOpen
	KindCurlyClose
	KindParenOpen
	KindParenClose
	KindSquareOpen
	KindSquareClose
	KindSemicolon
	KindComma
	KindColon
	KindUnderscore

	// Preprocessor-era kinds retained only for their labels; the
	// preprocessor consumes these constructs before the lexer ever runs,
	// and the lexer never emits these kinds: a stray '#' is a lex error.
	KindPoundInclude
	KindPoundDefine

	// Operators.
	KindDoubleEquals
	KindNotEquals
	KindEquals
	KindPlus
	KindMinus
	KindStar
	KindDot
	KindMask
	KindLogicalAnd
	KindLogicalOr
	KindAnd
	KindBang
	KindTilde
	KindShl
	KindShr
	KindPipe
	KindCarat
	KindGreaterThanEquals
	KindLessThanEquals
	KindBackslash
	KindForwardslash

	// Literals.
	KindIntLiteral
	KindBitLiteral
	KindSignedLiteral
	KindIdentifier
	KindTrueLiteral
	KindFalseLiteral
	KindStringLiteral

	// KindEof is returned repeatedly once the lexer reaches end of input.
	KindEof

	// KindTokenError labels an unrecognized character sequence. pkg/lex
	// never returns a token of this kind; it reports the sequence as a
	// fatal *lex.Error instead.
	KindTokenError
)

// keywords maps exact (case-sensitive) identifier text to its keyword Kind.
// Built once; consulted by the lexer after the identifier production
// matches, since keywords are a subset of the identifier shape.
var keywords = map[string]Kind{
	"const":          KindConst,
	"header":         KindHeader,
	"typedef":        KindTypedef,
	"control":        KindControl,
	"struct":         KindStruct,
	"action":         KindAction,
	"parser":         KindParser,
	"table":          KindTable,
	"size":           KindSize,
	"key":            KindKey,
	"exact":          KindExact,
	"ternary":        KindTernary,
	"lpm":            KindLpm,
	"range":          KindRange,
	"actions":        KindActions,
	"default_action": KindDefaultAction,
	"entries":        KindEntries,
	"in":             KindIn,
	"inout":          KindInOut,
	"out":            KindOut,
	"transition":     KindTransition,
	"state":          KindState,
	"select":         KindSelect,
	"apply":          KindApply,
	"package":        KindPackage,
	"extern":         KindExtern,
	"if":             KindIf,
	"else":           KindElse,
	"return":         KindReturn,
	"bool":           KindBool,
	"error":          KindError,
	"bit":            KindBit,
	"varbit":         KindVarbit,
	"int":            KindInt,
	"string":         KindString,
	"true":           KindTrueLiteral,
	"false":          KindFalseLiteral,
}

// LookupKeyword returns the keyword Kind for an identifier's exact text, and
// whether it is a keyword at all.
func LookupKeyword(text string) (Kind, bool) {
	k, ok := keywords[text]
	return k, ok
}

// Token is a single lexical unit: its Kind, the literal payload appropriate
// to that Kind, and the position at which it starts. Tokens are immutable
// once constructed and are comparable (hashable), per spec.md §3.
type Token struct {
	Kind Kind
	// Text is the identifier name (KindIdentifier), the string literal's
	// content without quotes (KindStringLiteral), or empty otherwise.
	Text string
	// Width is the bit width for KindBitLiteral/KindSignedLiteral.
	Width uint16
	// IValue is the value for KindIntLiteral/KindSignedLiteral (signed).
	IValue int64
	// UValue is the value for KindBitLiteral (unsigned; P4 bit widths this
	// compiler accepts fit comfortably in 64 bits).
	UValue uint64
	File   string
	Line   int
	Col    int
}

// String renders a Token the way spec.md §3/§4.3 diagnostics refer to it:
// "keyword const", "identifier 'x'", "bit literal '8w10'", etc.
func (t Token) String() string {
	switch t.Kind {
	case KindIdentifier:
		return fmt.Sprintf("identifier '%s'", t.Text)
	case KindStringLiteral:
		return fmt.Sprintf("string literal '%s'", t.Text)
	case KindIntLiteral:
		return fmt.Sprintf("int literal '%d'", t.IValue)
	case KindBitLiteral:
		return fmt.Sprintf("bit literal '%dw%d'", t.Width, t.UValue)
	case KindSignedLiteral:
		return fmt.Sprintf("signed literal '%ds%d'", t.Width, t.IValue)
	case KindTrueLiteral:
		return "boolean literal true"
	case KindFalseLiteral:
		return "boolean literal false"
	case KindEof:
		return "end of file"
	default:
		if name, ok := kindNames[t.Kind]; ok {
			return name
		}

		return fmt.Sprintf("token kind %d", t.Kind)
	}
}
