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
package diag

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Terminal color codes, as foreground offsets (see ansiEscape.fgColour).
const (
	termRed     = uint(1)
	termYellow  = uint(3)
	termMagenta = uint(5)
	termCyan    = uint(6)
)

// ansiEscape builds up an ANSI escape sequence one attribute at a time.
// Modeled on the teacher's AnsiEscape builder in pkg/util/termio/escapes.go.
type ansiEscape struct {
	escape string
	count  uint
}

func newAnsiEscape() ansiEscape {
	return ansiEscape{"\033", 0}
}

func resetAnsiEscape() ansiEscape {
	return ansiEscape{"\033[0", 1}
}

func (a ansiEscape) bold() ansiEscape {
	return a.append(1)
}

func (a ansiEscape) fgColour(col uint) ansiEscape {
	return a.append(col + 30)
}

func (a ansiEscape) append(code uint) ansiEscape {
	if a.count > 0 {
		return ansiEscape{fmt.Sprintf("%s;%d", a.escape, code), a.count + 1}
	}

	return ansiEscape{fmt.Sprintf("%s[%d", a.escape, code), 1}
}

// String terminates the escape sequence with the trailing "m".
func (a ansiEscape) String() string {
	return a.escape + "m"
}

// StdoutIsTerminal reports whether standard output is attached to a
// terminal, per spec.md §6's "ANSI color when the stream is a terminal".
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
