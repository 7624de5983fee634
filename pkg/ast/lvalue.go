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
	"strings"

	"github.com/oxidecomputer/p4c-go/pkg/token"
)

// Lvalue is a dotted path naming a storage location: a header field, a
// struct member, a local variable, a parameter, or an extern instance. Per
// spec.md §3, lvalues are ordered by string name and support a
// root/pop_left decomposition used by the checker's shared
// lvalue-resolution algorithm.
type Lvalue struct {
	Name string
	Tok  token.Token
}

// NewLvalue constructs an Lvalue from its dotted-path text and the token of
// its first segment.
func NewLvalue(name string, tok token.Token) *Lvalue {
	return &Lvalue{Name: name, Tok: tok}
}

// Token returns the token this lvalue's first segment was parsed from.
func (l *Lvalue) Token() token.Token { return l.Tok }

// Root returns the leftmost path segment, e.g. "hdr" for "hdr.ipv6.src_addr".
func (l *Lvalue) Root() string {
	if i := strings.IndexByte(l.Name, '.'); i >= 0 {
		return l.Name[:i]
	}

	return l.Name
}

// Degree returns the number of dot-separated segments in this lvalue.
func (l *Lvalue) Degree() int {
	if l.Name == "" {
		return 0
	}

	return strings.Count(l.Name, ".") + 1
}

// PopLeft returns a new Lvalue with the root segment removed, its token's
// column advanced past the removed segment and its separating dot so that
// diagnostics raised against the returned value still point at real source
// text. Panics if this lvalue has degree 1 (nothing left to pop).
func (l *Lvalue) PopLeft() *Lvalue {
	i := strings.IndexByte(l.Name, '.')
	if i < 0 {
		panic("cannot pop left of a degree-1 lvalue")
	}

	tok := l.Tok
	tok.Col += i + 1

	return &Lvalue{Name: l.Name[i+1:], Tok: tok}
}

// LvalueList implements sort.Interface, ordering lvalues by string name per
// spec.md §3.
type LvalueList []*Lvalue

func (s LvalueList) Len() int           { return len(s) }
func (s LvalueList) Less(i, j int) bool { return s[i].Name < s[j].Name }
func (s LvalueList) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
