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

package cmd

import (
	"fmt"
	"io"

	"github.com/oxidecomputer/p4c-go/pkg/ast"
	"github.com/oxidecomputer/p4c-go/pkg/hlir"
)

// dumpPreprocessed prints the flat, macro-substituted line array that the
// lexer and parser will see, for --show-pre.
func dumpPreprocessed(w io.Writer, lines []string) {
	for i, line := range lines {
		fmt.Fprintf(w, "%4d | %s\n", i+1, line)
	}
}

// dumpAST prints a declaration-level outline of tree, for --show-ast.
func dumpAST(w io.Writer, tree *ast.AST) {
	for _, d := range tree.Typedefs {
		fmt.Fprintf(w, "typedef %s\n", d.Name)
	}

	for _, d := range tree.Structs {
		fmt.Fprintf(w, "struct %s (%d members)\n", d.Name, len(d.Members))
	}

	for _, d := range tree.Headers {
		fmt.Fprintf(w, "header %s (%d members)\n", d.Name, len(d.Members))
	}

	for _, d := range tree.Externs {
		fmt.Fprintf(w, "extern %s (%d methods)\n", d.Name, len(d.Methods))
	}

	for _, d := range tree.Parsers {
		fmt.Fprintf(w, "parser %s (%d states)\n", d.Name, len(d.States))

		for _, st := range d.States {
			fmt.Fprintf(w, "  state %s\n", st.Name)
		}
	}

	for _, d := range tree.Controls {
		fmt.Fprintf(w, "control %s (%d actions, %d tables)\n", d.Name, len(d.Actions), len(d.Tables))
	}

	if tree.PackageInstance != nil {
		fmt.Fprintf(w, "package instance %s : %s\n", tree.PackageInstance.Name, tree.PackageInstance.PackageName)
	}
}

// dumpHLIR prints a summary of the typed HLIR result, for --show-hlir.
func dumpHLIR(w io.Writer, res *hlir.Result) {
	fmt.Fprintf(w, "%d expressions typed, %d lvalues resolved\n", len(res.ExpressionTypes), len(res.LvalueDecls))

	for lv, info := range res.LvalueDecls {
		fmt.Fprintf(w, "  %s : %s (%s)\n", lv.Name, info.Type.String(), info.Kind)
	}
}
