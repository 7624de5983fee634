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

// Package diag implements the compiler's diagnostics: a single growable,
// ordered collection of leveled messages carrying a source token so they can
// be rendered with a source snippet and a caret.
package diag

import (
	"fmt"
	"io"
	"strings"
)

// Level identifies the severity of a Diagnostic.
type Level uint8

const (
	// Info is a purely informational message; never aborts a stage.
	Info Level = iota
	// Deprecation flags use of a deprecated construct; never aborts a stage.
	Deprecation
	// Warning flags a likely mistake; never aborts a stage.
	Warning
	// Error is a hard failure; any Error-level diagnostic aborts the
	// compile after the stage that produced it finishes.
	Error
)

// String renders the level as the word used in diagnostic output.
func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Deprecation:
		return "deprecation"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Position identifies where in a source file a Diagnostic originates.
// Mirrors token.Token's positional fields without importing pkg/token, so
// pkg/token can in turn depend on pkg/diag if it ever needs to (it doesn't
// today, but this keeps the dependency graph acyclic by construction).
type Position struct {
	File string
	Line int
	Col  int
}

// Diagnostic is a single leveled message tied to a position in a source file.
type Diagnostic struct {
	Level   Level
	Message string
	Pos     Position
}

// Bag is a single growable, ordered collection of Diagnostics, shared across
// compiler stages. Nothing is ever removed from a Bag; stages only append.
type Bag struct {
	entries []Diagnostic
}

// NewBag constructs an empty diagnostics bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a new diagnostic to the bag.
func (b *Bag) Add(level Level, pos Position, format string, args ...any) {
	b.entries = append(b.entries, Diagnostic{level, fmt.Sprintf(format, args...), pos})
}

// Errorf appends an Error-level diagnostic.
func (b *Bag) Errorf(pos Position, format string, args ...any) {
	b.Add(Error, pos, format, args...)
}

// Warnf appends a Warning-level diagnostic.
func (b *Bag) Warnf(pos Position, format string, args ...any) {
	b.Add(Warning, pos, format, args...)
}

// Entries returns all diagnostics accumulated so far, in report order.
func (b *Bag) Entries() []Diagnostic {
	return b.entries
}

// HasErrors reports whether any Error-level diagnostic has been recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.entries {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics recorded so far.
func (b *Bag) Len() int {
	return len(b.entries)
}

// Extend appends every diagnostic from another bag onto this one, preserving
// order. pkg/cmd uses it to merge the HLIR stage's diagnostics into the
// checker's bag.
func (b *Bag) Extend(other *Bag) {
	if other == nil {
		return
	}
	b.entries = append(b.entries, other.entries...)
}

// Render writes every diagnostic in the bag to w, each with a source snippet
// and a caret, separated by a blank line, per spec.md's "no error is
// silently swallowed" propagation policy. lines is the preprocessed line
// array the positions were recorded against. color enables ANSI coloring of
// the level prefix.
func Render(w io.Writer, bag *Bag, lines []string, color bool) {
	for i, d := range bag.Entries() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderOne(w, d, lines, color)
	}
}

func renderOne(w io.Writer, d Diagnostic, lines []string, color bool) {
	prefix := levelPrefix(d.Level, color)
	fmt.Fprintf(w, "%s: %s\n", prefix, d.Message)
	fmt.Fprintf(w, "  --> %s:%d:%d\n", d.Pos.File, d.Pos.Line+1, d.Pos.Col+1)

	if d.Pos.Line < 0 || d.Pos.Line >= len(lines) {
		return
	}

	line := lines[d.Pos.Line]
	fmt.Fprintf(w, "   | %s\n", line)
	fmt.Fprintf(w, "   | %s^\n", caretPadding(line, d.Pos.Col))
}

// caretPadding builds the whitespace preceding a caret so that it lines up
// under column col of line, copying each tab through as a tab and writing
// one space for every other character (the
// caller's "   | " gutter already accounts for the snippet's own leading
// margin; this only needs to track line's original columns one-for-one).
func caretPadding(line string, col int) string {
	var b strings.Builder

	for i, r := range line {
		if i >= col {
			break
		}

		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	// If col runs past the line's rune count (e.g. an EOF diagnostic),
	// pad with plain spaces for the remainder.
	if n := len([]rune(line)); col > n {
		b.WriteString(strings.Repeat(" ", col-n))
	}

	return b.String()
}

func levelPrefix(l Level, color bool) string {
	if !color {
		return l.String()
	}

	var code uint

	switch l {
	case Error:
		code = termRed
	case Warning:
		code = termYellow
	case Deprecation:
		code = termMagenta
	default:
		code = termCyan
	}

	return newAnsiEscape().bold().fgColour(code).String() + l.String() + resetAnsiEscape().String()
}
