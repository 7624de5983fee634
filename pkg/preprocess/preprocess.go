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

// Package preprocess implements the P4 preprocessor: #include and simple
// #define macro handling, producing a flat line array with origin tracking,
// per spec.md §4.2.
package preprocess

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Error is a fatal preprocessor error: malformed #include or unterminated
// macro continuation, per spec.md §7.1.
type Error struct {
	File    string
	Line    int
	Message string
	Source  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line+1, e.Message)
}

// Elements captures the non-line-array output of a Run: every #include path
// in the order encountered (a file included twice is listed twice).
type Elements struct {
	Includes []string
	// MacroNames lists each #define name in declaration order; MacroBody
	// maps each name to its (possibly multi-line, joined with "\n") body.
	MacroNames []string
	MacroBody  map[string]string
}

// Result is the output of Run: the flat, macro-substituted line array ready
// for lexing, plus the include and macro bookkeeping in Elements.
type Result struct {
	Lines    []string
	Elements Elements
}

type macro struct {
	name string
	body string
}

// Run preprocesses source (the contents of filename), recursively resolving
// #include directives and substituting #define macros textually. Per
// spec.md §4.2, line numbers in the returned Lines correspond to the
// post-include, pre-substitution view, so diagnostics raised by later
// stages stay stable across macro expansion.
func Run(source, filename string) (*Result, error) {
	return RunWithSearchDirs(source, filename, nil)
}

// RunWithSearchDirs is Run extended with an additional list of directories
// to search for an #include target that isn't found relative to the
// including file, per a project's .p4c.toml "include_dirs" setting (see
// pkg/config). Directories are tried in order; the first one containing
// the included file wins.
func RunWithSearchDirs(source, filename string, searchDirs []string) (*Result, error) {
	return run(source, filename, searchDirs, make(map[string]bool))
}

// run is the recursive worker; active guards against a pathological
// include cycle turning into infinite recursion (the spec does not require
// include-guard semantics, but it also doesn't require us to hang forever
// on a literal self-include).
func run(source, filename string, searchDirs []string, active map[string]bool) (*Result, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		abs = filename
	}

	if active[abs] {
		return nil, &Error{filename, 0, fmt.Sprintf("recursive #include of %q", filename), ""}
	}

	active[abs] = true
	defer delete(active, abs)

	var (
		rawLines   = strings.Split(strings.TrimSuffix(source, "\n"), "\n")
		out        []string
		includes   []string
		macroNames []string
		macroBody  = map[string]string{}
		current    *macro
	)

	for i, line := range rawLines {
		if current != nil {
			if strings.HasSuffix(line, `\`) {
				current.body += "\n" + strings.TrimSuffix(line, `\`)
				continue
			}

			current.body += "\n" + line
			macroNames = append(macroNames, current.name)
			macroBody[current.name] = current.body
			current = nil

			continue
		}

		trimmed := strings.TrimLeft(line, " \t")

		switch {
		case strings.HasPrefix(trimmed, "#include"):
			path, err := parseInclude(trimmed, i, filename)
			if err != nil {
				return nil, err
			}

			includes = append(includes, path)

			resolved := resolveInclude(path, filename, searchDirs)

			bytes, err := os.ReadFile(resolved)
			if err != nil {
				return nil, &Error{filename, i, fmt.Sprintf("cannot read included file %q: %s", path, err), line}
			}

			sub, err := run(string(bytes), resolved, searchDirs, active)
			if err != nil {
				return nil, err
			}

			out = append(out, sub.Lines...)
			includes = append(includes, sub.Elements.Includes...)
			macroNames = append(macroNames, sub.Elements.MacroNames...)

			for k, v := range sub.Elements.MacroBody {
				macroBody[k] = v
			}
		case strings.HasPrefix(trimmed, "#define"):
			name, body, err := parseMacroBegin(trimmed, i, filename)
			if err != nil {
				return nil, err
			}

			if strings.HasSuffix(line, `\`) {
				current = &macro{name, strings.TrimSuffix(body, `\`)}
				continue
			}

			macroNames = append(macroNames, name)
			macroBody[name] = body
		default:
			out = append(out, line)
		}
	}

	if current != nil {
		return nil, &Error{filename, len(rawLines) - 1, "unterminated macro continuation", rawLines[len(rawLines)-1]}
	}

	substituted := make([]string, len(out))
	for i, line := range out {
		substituted[i] = substitute(line, macroNames, macroBody)
	}

	return &Result{substituted, Elements{includes, macroNames, macroBody}}, nil
}

// resolveInclude picks the file an #include path refers to: itself if
// absolute, relative to the including file if that exists, otherwise the
// first searchDirs entry that has it. Falls back to the including-file-
// relative path so the caller's os.ReadFile produces the original
// not-found error when nothing matches.
func resolveInclude(path, filename string, searchDirs []string) string {
	if filepath.IsAbs(path) {
		return path
	}

	relative := filepath.Join(filepath.Dir(filename), path)
	if _, err := os.Stat(relative); err == nil {
		return relative
	}

	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return relative
}

// substitute performs whole-word textual replacement of every macro name
// found in line, per spec.md §4.2's "simple whole-word replacement".
// Macros are applied in declaration order so that a macro whose body
// mentions an earlier macro's name is NOT recursively expanded (the spec
// describes a single textual pass, not fixpoint expansion).
func substitute(line string, names []string, body map[string]string) string {
	for _, name := range names {
		line = replaceWholeWord(line, name, body[name])
	}

	return line
}

// replaceWholeWord replaces every occurrence of name in s that is not
// adjacent to another identifier character, so that substituting "X" does
// not corrupt an occurrence of "XY" or "AX".
func replaceWholeWord(s, name, value string) string {
	if name == "" {
		return s
	}

	var b strings.Builder

	for {
		idx := strings.Index(s, name)
		if idx < 0 {
			b.WriteString(s)
			break
		}

		before := idx == 0 || !isWordChar(rune(s[idx-1]))
		afterIdx := idx + len(name)
		after := afterIdx >= len(s) || !isWordChar(rune(s[afterIdx]))

		if before && after {
			b.WriteString(s[:idx])
			b.WriteString(value)
			s = s[afterIdx:]
		} else {
			b.WriteString(s[:idx+1])
			s = s[idx+1:]
		}
	}

	return b.String()
}

func isWordChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// parseInclude extracts the path delimited by <...> or "...", failing on an
// unterminated delimiter or non-whitespace trailing content, per spec.md
// §4.2 rule 1.
func parseInclude(line string, lineno int, filename string) (string, error) {
	var open, close byte = '<', '>'

	begin := strings.IndexByte(line, '<')
	if begin < 0 {
		begin = strings.IndexByte(line, '"')
		open, close = '"', '"'
	}

	if begin < 0 {
		return "", &Error{filename, lineno, "invalid #include: expected '<' or '\"'", line}
	}

	end := strings.IndexByte(line[begin+1:], close)
	if end < 0 {
		return "", &Error{filename, lineno, fmt.Sprintf("unterminated '%c'", open), line}
	}

	end += begin + 1

	for _, c := range line[end+1:] {
		if c != ' ' && c != '\t' && c != '\r' {
			return "", &Error{filename, lineno, fmt.Sprintf("unexpected character after #include '%c'", c), line}
		}
	}

	return line[begin+1 : end], nil
}

// parseMacroBegin extracts the macro name and (possibly empty) first line
// of its body from a "#define NAME VALUE" line, per spec.md §4.2 rule 2.
func parseMacroBegin(line string, lineno int, filename string) (name, body string, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", &Error{filename, lineno, "macros must have a name", line}
	}

	name = fields[1]
	if len(fields) > 2 {
		idx := strings.Index(line, fields[2])
		body = line[idx:]
	}

	return name, body, nil
}
