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

// Package emit lowers a checked program to one of three output targets, per
// spec.md §4.7: rust (the primary host-language lowering), redhawk (a
// second pseudo-assembly-like host target), and docs (a Markdown reference
// document). Emission only runs once pkg/check and pkg/hlir have reported no
// errors, per spec.md §7's error-propagation policy; this package assumes
// that invariant holds and does not re-validate it.
package emit

import (
	"fmt"

	"github.com/oxidecomputer/p4c-go/pkg/ast"
	"github.com/oxidecomputer/p4c-go/pkg/hlir"
)

// Target names the three emission backends a program may be lowered to.
type Target string

// Supported emission targets.
const (
	TargetRust    Target = "rust"
	TargetRedhawk Target = "redhawk"
	TargetDocs    Target = "docs"
)

// Emit lowers tree to the given target's textual representation. A codegen
// error here (e.g. a header whose members overlap once laid out bit by bit)
// is fatal per spec.md §7: it is not a diagnostic to accumulate alongside
// others, since it means the program cannot be lowered at all. hres is the
// HLIR result produced alongside tree; only the rust target consumes it, to
// tell a table apply() or a header isValid()/setValid()/setInvalid() call
// apart from an ordinary function call.
func Emit(tree *ast.AST, hres *hlir.Result, target Target) (string, error) {
	switch target {
	case TargetRust:
		return emitRust(tree, hres)
	case TargetRedhawk:
		return emitRedhawk(tree)
	case TargetDocs:
		return emitDocs(tree)
	default:
		return "", fmt.Errorf("unknown emission target %q", target)
	}
}
