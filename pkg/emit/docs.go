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
	"strings"

	"github.com/oxidecomputer/p4c-go/pkg/ast"
)

// emitDocs renders a Markdown reference document for tree: a member table
// per header/struct, a state graph per parser, and a table section per
// control, per SPEC_FULL.md's docs target.
func emitDocs(tree *ast.AST) (string, error) {
	var b strings.Builder

	b.WriteString("# Generated pipeline reference\n\n")

	if len(tree.Headers) > 0 || len(tree.Structs) > 0 {
		b.WriteString("## Types\n\n")
	}

	for _, h := range tree.Headers {
		if err := writeMemberTable(&b, "header", h.Name, h.Members); err != nil {
			return "", err
		}
	}

	for _, s := range tree.Structs {
		if err := writeMemberTable(&b, "struct", s.Name, s.Members); err != nil {
			return "", err
		}
	}

	for _, p := range tree.Parsers {
		writeParserSection(&b, p)
	}

	for _, c := range tree.Controls {
		writeControlSection(&b, c)
	}

	return b.String(), nil
}

func writeMemberTable(b *strings.Builder, kind, name string, members []ast.Member) error {
	layouts, total, err := layoutMembers(members)
	if err != nil {
		return fmt.Errorf("%s %s: %w", kind, name, err)
	}

	fmt.Fprintf(b, "### %s `%s` (%d bits)\n\n", kind, name, total)
	b.WriteString("| name | type | bit offset | bit width |\n")
	b.WriteString("|---|---|---|---|\n")

	for _, l := range layouts {
		fmt.Fprintf(b, "| %s | %s | %d | %d |\n", l.Member.Name, l.Member.Typ.String(), l.Offset, l.Width)
	}

	b.WriteString("\n")

	return nil
}

func writeParserSection(b *strings.Builder, p *ast.ParserDecl) {
	fmt.Fprintf(b, "## parser `%s`\n\n", p.Name)

	if p.DeclOnly {
		b.WriteString("Declaration only; no states.\n\n")
		return
	}

	b.WriteString("| state | transitions to |\n")
	b.WriteString("|---|---|\n")

	for _, st := range p.States {
		targets := transitionTargets(st.Transition())
		fmt.Fprintf(b, "| %s | %s |\n", st.Name, strings.Join(targets, ", "))
	}

	b.WriteString("\n")
}

func transitionTargets(target ast.TransitionTarget) []string {
	switch t := target.(type) {
	case *ast.StateRef:
		return []string{t.Name}
	case *ast.Select:
		var out []string

		for _, c := range t.Cases {
			out = append(out, transitionTargets(c.Target)...)
		}

		return out
	default:
		return nil
	}
}

func writeControlSection(b *strings.Builder, c *ast.ControlDecl) {
	fmt.Fprintf(b, "## control `%s`\n\n", c.Name)

	if len(c.Actions) > 0 {
		b.WriteString("Actions: ")

		names := make([]string, len(c.Actions))
		for i, a := range c.Actions {
			names[i] = fmt.Sprintf("`%s`", a.Name)
		}

		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n\n")
	}

	for _, t := range c.Tables {
		fmt.Fprintf(b, "### table `%s`\n\n", t.Name)
		b.WriteString("| key | match kind |\n")
		b.WriteString("|---|---|\n")

		for _, k := range t.Keys {
			fmt.Fprintf(b, "| %s | %s |\n", renderLvalue(k.Lv), k.MatchKind.String())
		}

		b.WriteString("\n")

		if len(t.Actions) > 0 {
			fmt.Fprintf(b, "Actions: %s\n\n", strings.Join(t.Actions, ", "))
		}

		if t.DefaultAction != "" {
			fmt.Fprintf(b, "Default action: `%s`\n\n", t.DefaultAction)
		}
	}
}
