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

	"github.com/bits-and-blooms/bitset"
	"github.com/oxidecomputer/p4c-go/pkg/ast"
)

// memberLayout is one header/struct member's position within its parent's
// contiguous bit-sequence: Offset is the number of bits preceding it in
// declaration order, Width is its own bit width.
type memberLayout struct {
	Member ast.Member
	Offset uint
	Width  uint
}

// layoutMembers assigns each member a contiguous bit range in declaration
// order (spec.md §4.7's "members preserve declaration order; bit-width
// members store a contiguous bit-sequence"), using a bitset to catch an
// overlap a bug in this computation would otherwise introduce silently.
func layoutMembers(members []ast.Member) ([]memberLayout, uint, error) {
	var (
		layouts []memberLayout
		offset  uint
		total   uint
	)

	for _, m := range members {
		width, ok := bitWidth(m.Typ)
		if !ok {
			return nil, 0, fmt.Errorf("member %s has no fixed-width codegen representation (type %s)", m.Name, m.Typ.String())
		}

		layouts = append(layouts, memberLayout{Member: m, Offset: offset, Width: width})
		offset += width
	}

	total = offset

	if total > 0 {
		seen := bitset.New(total)

		for _, l := range layouts {
			span := bitset.New(total)
			for i := l.Offset; i < l.Offset+l.Width; i++ {
				span.Set(i)
			}

			if seen.IntersectionCardinality(span) != 0 {
				return nil, 0, fmt.Errorf("member %s overlaps a preceding member's bit range", l.Member.Name)
			}

			seen.InPlaceUnion(span)
		}
	}

	return layouts, total, nil
}

// bitWidth returns the fixed bit width a type occupies in a generated
// header/struct layout, or false if the type has none (e.g. a nested
// extern reference).
func bitWidth(t ast.Type) (uint, bool) {
	switch typ := t.(type) {
	case *ast.BoolType:
		return 1, true
	case *ast.BitType:
		return uint(typ.Width), true
	case *ast.VarbitType:
		return uint(typ.Width), true
	case *ast.IntType:
		return uint(typ.Width), true
	default:
		return 0, false
	}
}

// outputWriter is a small indent-tracking string builder, grounded on
// clarete-langlang's gen.go outputWriter: every target emitter wraps one of
// these rather than concatenating strings ad hoc.
type outputWriter struct {
	buf         []byte
	indentLevel int
	space       string
}

func newOutputWriter(space string) *outputWriter {
	return &outputWriter{space: space}
}

func (o *outputWriter) indent()   { o.indentLevel++ }
func (o *outputWriter) unindent() { o.indentLevel-- }

func (o *outputWriter) writeIndent() {
	for i := 0; i < o.indentLevel; i++ {
		o.buf = append(o.buf, o.space...)
	}
}

func (o *outputWriter) write(s string) {
	o.buf = append(o.buf, s...)
}

func (o *outputWriter) writei(s string) {
	o.writeIndent()
	o.write(s)
}

func (o *outputWriter) writelinei(format string, args ...any) {
	o.writeIndent()
	o.buf = append(o.buf, fmt.Sprintf(format, args...)...)
	o.buf = append(o.buf, '\n')
}

func (o *outputWriter) writeline(format string, args ...any) {
	o.buf = append(o.buf, fmt.Sprintf(format, args...)...)
	o.buf = append(o.buf, '\n')
}

func (o *outputWriter) String() string {
	return string(o.buf)
}
