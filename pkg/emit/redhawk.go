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

// redhawkEmitter renders the same structural content as rustEmitter (header
// layouts, parser states, actions, table constructors, the apply function,
// the pipeline object) as a directive-based pseudo-assembly text, since no
// retrieved reference source describes a concrete "redhawk" IR to mirror
// directly.
type redhawkEmitter struct {
	tree *ast.AST
	w    *outputWriter
}

func emitRedhawk(tree *ast.AST) (string, error) {
	e := &redhawkEmitter{tree: tree, w: newOutputWriter("  ")}

	e.w.writeline("; generated pipeline module")
	e.w.writeline("")

	for _, h := range tree.Headers {
		if err := e.emitLayout(".header", h.Name, h.Members); err != nil {
			return "", err
		}
	}

	for _, s := range tree.Structs {
		if err := e.emitLayout(".struct", s.Name, s.Members); err != nil {
			return "", err
		}
	}

	for _, p := range tree.Parsers {
		e.emitParser(p)
	}

	for _, c := range tree.Controls {
		e.emitControl(c)
	}

	e.emitPipeline()

	return e.w.String(), nil
}

func (e *redhawkEmitter) emitLayout(directive, name string, members []ast.Member) error {
	layouts, total, err := layoutMembers(members)
	if err != nil {
		return fmt.Errorf("%s %s: %w", directive, name, err)
	}

	e.w.writeline("%s %s ; %d bits", directive, name, total)
	e.w.indent()

	for _, l := range layouts {
		e.w.writelinei("field %s @%d:%d", l.Member.Name, l.Offset, l.Width)
	}

	e.w.unindent()
	e.w.writeline(".end")
	e.w.writeline("")

	return nil
}

func redhawkParamList(params []ast.Parameter) string {
	parts := make([]string, len(params))

	for i, p := range params {
		parts[i] = fmt.Sprintf("%s:%s", p.Name, redhawkType(p.Typ))
	}

	return strings.Join(parts, ", ")
}

func redhawkType(t ast.Type) string {
	switch typ := t.(type) {
	case *ast.BoolType:
		return "bool"
	case *ast.BitType:
		return fmt.Sprintf("u%d", typ.Width)
	case *ast.VarbitType:
		return fmt.Sprintf("u%d", typ.Width)
	case *ast.IntType:
		return fmt.Sprintf("i%d", typ.Width)
	case *ast.UserDefinedType:
		return typ.Name
	default:
		return "void"
	}
}

func (e *redhawkEmitter) emitParser(p *ast.ParserDecl) {
	if p.DeclOnly {
		return
	}

	e.w.writeline(".parser %s(%s)", p.Name, redhawkParamList(p.Parameters))
	e.w.indent()

	for _, st := range p.States {
		e.emitState(st)
	}

	e.w.unindent()
	e.w.writeline(".end")
	e.w.writeline("")
}

func (e *redhawkEmitter) emitState(st *ast.StateDecl) {
	e.w.writelinei(".state %s", st.Name)
	e.w.indent()

	if st.Body != nil {
		for _, stmt := range st.Body.Statements {
			e.emitStatement(stmt)
		}
	}

	e.w.unindent()
	e.w.writelinei(".end")
}

func (e *redhawkEmitter) emitStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Empty:
		return
	case *ast.Assignment:
		e.w.writelinei("mov %s, %s", renderLvalue(s.Lv), renderExpr(s.Value))
	case *ast.CallStmt:
		e.w.writelinei("call %s", renderExpr(s.Call))
	case *ast.Variable:
		if s.Init != nil {
			e.w.writelinei("local %s:%s = %s", s.Name, redhawkType(s.Typ), renderExpr(s.Init))
		} else {
			e.w.writelinei("local %s:%s", s.Name, redhawkType(s.Typ))
		}
	case *ast.Constant:
		if s.Init != nil {
			e.w.writelinei("const %s:%s = %s", s.Name, redhawkType(s.Typ), renderExpr(s.Init))
		}
	case *ast.If:
		e.w.writelinei("if %s", renderExpr(s.Cond))
		e.w.indent()

		for _, st := range s.Then.Statements {
			e.emitStatement(st)
		}

		e.w.unindent()

		for _, elif := range s.ElseIfs {
			e.w.writelinei("elif %s", renderExpr(elif.Cond))
			e.w.indent()

			for _, st := range elif.Then.Statements {
				e.emitStatement(st)
			}

			e.w.unindent()
		}

		if s.Else != nil {
			e.w.writelinei("else")
			e.w.indent()

			for _, st := range s.Else.Statements {
				e.emitStatement(st)
			}

			e.w.unindent()
		}

		e.w.writelinei("endif")
	case *ast.Return:
		if s.Value != nil {
			e.w.writelinei("ret %s", renderExpr(s.Value))
		} else {
			e.w.writelinei("ret")
		}
	case *ast.Transition:
		e.emitTransition(s.Target)
	}
}

func (e *redhawkEmitter) emitTransition(target ast.TransitionTarget) {
	switch t := target.(type) {
	case *ast.StateRef:
		e.w.writelinei("goto %s", t.Name)
	case *ast.Select:
		keys := make([]string, len(t.Keys))
		for i, k := range t.Keys {
			keys[i] = renderExpr(k)
		}

		e.w.writelinei("select %s", strings.Join(keys, ", "))
		e.w.indent()

		for _, c := range t.Cases {
			if c.Default {
				e.w.writelinei("default -> %s", redhawkTargetLiteral(c.Target))
				continue
			}

			ks := make([]string, len(c.Keyset))
			for i, k := range c.Keyset {
				ks[i] = renderExpr(k)
			}

			e.w.writelinei("%s -> %s", strings.Join(ks, ", "), redhawkTargetLiteral(c.Target))
		}

		e.w.unindent()
	}
}

func redhawkTargetLiteral(target ast.TransitionTarget) string {
	if ref, ok := target.(*ast.StateRef); ok {
		return ref.Name
	}

	return "reject"
}

func (e *redhawkEmitter) emitControl(c *ast.ControlDecl) {
	e.w.writeline(".control %s(%s)", c.Name, redhawkParamList(c.Parameters))
	e.w.indent()

	for _, a := range c.Actions {
		e.w.writelinei(".action %s(%s)", a.Name, redhawkParamList(a.Parameters))
		e.w.indent()

		if a.Body != nil {
			for _, stmt := range a.Body.Statements {
				e.emitStatement(stmt)
			}
		}

		e.w.unindent()
		e.w.writelinei(".end")
	}

	for _, t := range c.Tables {
		e.emitTable(t)
	}

	e.w.writelinei(".apply")
	e.w.indent()

	if c.ApplyBlock != nil {
		for _, stmt := range c.ApplyBlock.Statements {
			e.emitStatement(stmt)
		}
	}

	e.w.unindent()
	e.w.writelinei(".end")

	e.w.unindent()
	e.w.writeline(".end")
	e.w.writeline("")
}

func (e *redhawkEmitter) emitTable(t *ast.TableDecl) {
	e.w.writelinei(".table %s ; size=%d", t.Name, t.Size)
	e.w.indent()

	for _, k := range t.Keys {
		e.w.writelinei("key %s %s", renderLvalue(k.Lv), k.MatchKind.String())
	}

	for _, a := range t.Actions {
		e.w.writelinei("action %s", a)
	}

	if t.DefaultAction != "" {
		e.w.writelinei("default %s", t.DefaultAction)
	}

	for _, entry := range t.ConstEntries {
		keys := make([]string, len(entry.Keyset))
		for i, ks := range entry.Keyset {
			keys[i] = renderExpr(ks)
		}

		e.w.writelinei("entry (%s) -> %s", strings.Join(keys, ", "), renderExpr(entry.Action))
	}

	e.w.unindent()
	e.w.writelinei(".end")
}

func (e *redhawkEmitter) emitPipeline() {
	e.w.writeline(".pipeline")
	e.w.indent()
	e.w.writelinei("process_packet(port, packet) -> (packet, port)?")
	e.w.writelinei("add_table_entry(table, keys, action)")
	e.w.writelinei("remove_table_entry(table, keys)")
	e.w.unindent()
	e.w.writeline(".end")
}
