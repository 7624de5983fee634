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

// Package lex implements the P4 lexer: character stream to token stream,
// per spec.md §4.3. It is grounded on the teacher's generic
// pkg/util/source.Lexer[T]/Scanner[T] shape (a scanner that recognizes one
// token at a time from the remainder of the input, a lexer that buffers
// exactly one lookahead token), specialized here to runes and
// token.Kind/token.Token rather than being generic, since P4's token
// recognition rules (sized literals, multi-line block comments) don't
// generalize cleanly over an arbitrary item type.
package lex

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/oxidecomputer/p4c-go/pkg/token"
)

// Error is a fatal token error: an unrecognized character sequence, per
// spec.md §4.3 "On no match, emit a TokenError".
type Error struct {
	File   string
	Line   int
	Col    int
	Len    int
	Source string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: unrecognized token %q", e.File, e.Line+1, e.Col+1, e.Source[e.Col:e.Col+e.Len])
}

// separators terminate an identifier/number token, per spec.md §4.3.
const separators = " \t\r,;:*+-<>{}=()[]&.!^|~\\/"

// multiCharOps are tried, longest first, before single-character
// punctuation and before the keyword table, per spec.md §4.3 rule 1.
var multiCharOps = []struct {
	text string
	kind token.Kind
}{
	{"&&&", token.KindMask},
	{">=", token.KindGreaterThanEquals},
	{"<=", token.KindLessThanEquals},
	{"==", token.KindDoubleEquals},
	{"!=", token.KindNotEquals},
	{"<<", token.KindShl},
	{">>", token.KindShr},
	{"&&", token.KindLogicalAnd},
	{"||", token.KindLogicalOr},
}

// singleCharOps are the fallback single-character punctuation/operators,
// per spec.md §4.3 rule 5.
var singleCharOps = map[byte]token.Kind{
	'<': token.KindAngleOpen,
	'>': token.KindAngleClose,
	'{': token.KindCurlyOpen,
	'}': token.KindCurlyClose,
	'(': token.KindParenOpen,
	')': token.KindParenClose,
	'[': token.KindSquareOpen,
	']': token.KindSquareClose,
	';': token.KindSemicolon,
	',': token.KindComma,
	':': token.KindColon,
	'.': token.KindDot,
	'=': token.KindEquals,
	'+': token.KindPlus,
	'-': token.KindMinus,
	'*': token.KindStar,
	'&': token.KindAnd,
	'!': token.KindBang,
	'~': token.KindTilde,
	'|': token.KindPipe,
	'^': token.KindCarat,
	'\\': token.KindBackslash,
	'/': token.KindForwardslash,
}

// Lexer scans a preprocessed line array into a stream of tokens. State is
// simply a cursor into lines; there is no lookahead buffer beyond what
// pkg/parse's own pushback provides.
type Lexer struct {
	file       string
	lines      []string
	line, col  int
	traceToken bool
}

// New constructs a lexer over the given preprocessed lines. traceToken
// enables logging each token at Debug level, for --show-tokens.
func New(file string, lines []string, traceToken bool) *Lexer {
	return &Lexer{file: file, lines: lines, traceToken: traceToken}
}

// Next produces exactly one token. At end of input it returns KindEof
// tokens repeatedly, per spec.md §4.3.
func (l *Lexer) Next() (token.Token, error) {
	tok, err := l.next()
	if err != nil {
		return tok, err
	}

	if l.traceToken {
		log.Debugf("%d:%d: %s", tok.Line+1, tok.Col+1, tok.String())
	}

	return tok, nil
}

func (l *Lexer) next() (token.Token, error) {
	for {
		l.skipWhitespace()

		skippedComment, err := l.skipComment()
		if err != nil {
			return token.Token{}, err
		}

		if !skippedComment {
			break
		}
	}

	if l.line >= len(l.lines) {
		return l.at(token.KindEof), nil
	}

	start := l.line
	startCol := l.col
	rest := l.lines[l.line][l.col:]

	if rest == "" {
		// Blank remainder mid-scan: advance to the next line and retry.
		l.line++
		l.col = 0

		return l.next()
	}

	if tok, ok := l.matchMultiCharOp(rest); ok {
		return tok, nil
	}

	if tok, ok, err := l.matchNumericLiteral(rest); err != nil {
		return token.Token{}, err
	} else if ok {
		return tok, nil
	}

	if tok, ok := l.matchStringLiteral(rest); ok {
		return tok, nil
	}

	if kind, ok := singleCharOps[rest[0]]; ok {
		tok := l.at(kind)
		l.advance(1)

		return tok, nil
	}

	if tok, ok := l.matchIdentifier(rest); ok {
		return tok, nil
	}

	// Nothing matched: consume one separator-terminated run as the
	// offending span and report a fatal TokenError.
	n := identifierRunLength(rest)
	if n == 0 {
		n = 1
	}

	err := &Error{l.file, start, startCol, n, l.lines[start]}
	l.advance(n)

	return token.Token{}, err
}

func (l *Lexer) at(kind token.Kind) token.Token {
	return token.Token{Kind: kind, File: l.file, Line: l.line, Col: l.col}
}

func (l *Lexer) advance(n int) {
	l.col += n
}

func (l *Lexer) skipWhitespace() {
	for l.line < len(l.lines) {
		line := l.lines[l.line]
		for l.col < len(line) && (line[l.col] == ' ' || line[l.col] == '\t' || line[l.col] == '\r') {
			l.col++
		}

		if l.col >= len(line) {
			l.line++
			l.col = 0

			continue
		}

		break
	}
}

// skipComment consumes a single "// line" or "/* block */" comment
// starting at the current position, reporting whether it consumed one.
// Block comments may span lines but do not nest, per spec.md §4.3.
func (l *Lexer) skipComment() (bool, error) {
	if l.line >= len(l.lines) {
		return false, nil
	}

	rest := l.lines[l.line][l.col:]

	if strings.HasPrefix(rest, "//") {
		l.line++
		l.col = 0

		return true, nil
	}

	if strings.HasPrefix(rest, "/*") {
		startLine, startCol := l.line, l.col
		l.advance(2)

		for {
			if l.line >= len(l.lines) {
				return false, &Error{l.file, startLine, startCol, 2, l.lines[startLine]}
			}

			line := l.lines[l.line]
			idx := strings.Index(line[l.col:], "*/")

			if idx < 0 {
				l.line++
				l.col = 0

				continue
			}

			l.col += idx + 2

			return true, nil
		}
	}

	return false, nil
}

func (l *Lexer) matchMultiCharOp(rest string) (token.Token, bool) {
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op.text) {
			tok := l.at(op.kind)
			l.advance(len(op.text))

			return tok, true
		}
	}

	return token.Token{}, false
}

func (l *Lexer) matchStringLiteral(rest string) (token.Token, bool) {
	if rest[0] != '"' {
		return token.Token{}, false
	}

	end := strings.IndexByte(rest[1:], '"')
	if end < 0 {
		return token.Token{}, false
	}

	tok := l.at(token.KindStringLiteral)
	tok.Text = rest[1 : end+1]
	l.advance(end + 2)

	return tok, true
}

// matchNumericLiteral recognizes sized literals (<digits>{w|s}<value>),
// hex literals, and decimal literals, per spec.md §4.3 rules 3-4. It scans
// explicitly by character class rather than via identifierRunLength,
// because '-' is a general separator everywhere EXCEPT between a sized
// literal's 's' marker and its value digits (8s-3 is one SignedLiteral
// token, but a bare "5-3" is IntLiteral(5), Minus, IntLiteral(3); see
// SPEC_FULL.md Open Question #1).
func (l *Lexer) matchNumericLiteral(rest string) (token.Token, bool, error) {
	if !isDigit(rest[0]) {
		return token.Token{}, false, nil
	}

	i := 0
	for i < len(rest) && isDigit(rest[i]) {
		i++
	}

	widthDigits := rest[:i]

	if i < len(rest) && (rest[i] == 'w' || rest[i] == 's') {
		sep := rest[i]
		i++

		hasMinus := false
		if sep == 's' && i < len(rest) && rest[i] == '-' {
			hasMinus = true
			i++
		}

		valStart := i

		if i+1 < len(rest) && rest[i] == '0' && (rest[i+1] == 'x' || rest[i+1] == 'X') {
			i += 2
			for i < len(rest) && isHexDigit(rest[i]) {
				i++
			}
		} else {
			for i < len(rest) && isDigit(rest[i]) {
				i++
			}
		}

		if i == valStart {
			return token.Token{}, false, &Error{l.file, l.line, l.col, i, l.lines[l.line]}
		}

		width, err := strconv.ParseUint(widthDigits, 10, 16)
		if err != nil {
			return token.Token{}, false, &Error{l.file, l.line, l.col, i, l.lines[l.line]}
		}

		magnitude, err := parseUintWord(rest[valStart:i])
		if err != nil {
			return token.Token{}, false, &Error{l.file, l.line, l.col, i, l.lines[l.line]}
		}

		var kind token.Kind
		if sep == 'w' {
			kind = token.KindBitLiteral
		} else {
			kind = token.KindSignedLiteral
		}

		tok := l.at(kind)
		tok.Width = uint16(width)

		switch {
		case kind == token.KindBitLiteral && hasMinus:
			return token.Token{}, false, &Error{l.file, l.line, l.col, i, l.lines[l.line]}
		case kind == token.KindBitLiteral:
			tok.UValue = magnitude
		case hasMinus:
			tok.IValue = -int64(magnitude)
		default:
			tok.IValue = int64(magnitude)
		}

		l.advance(i)

		return tok, true, nil
	}

	if i == 1 && widthDigits == "0" && i < len(rest) && (rest[i] == 'x' || rest[i] == 'X') {
		j := i + 2
		for j < len(rest) && isHexDigit(rest[j]) {
			j++
		}

		value, err := parseUintWord(rest[:j])
		if err != nil {
			return token.Token{}, false, &Error{l.file, l.line, l.col, j, l.lines[l.line]}
		}

		tok := l.at(token.KindIntLiteral)
		tok.IValue = int64(value)
		l.advance(j)

		return tok, true, nil
	}

	value, err := parseUintWord(widthDigits)
	if err != nil {
		return token.Token{}, false, &Error{l.file, l.line, l.col, i, l.lines[l.line]}
	}

	tok := l.at(token.KindIntLiteral)
	tok.IValue = int64(value)
	l.advance(i)

	return tok, true, nil
}

// parseUintWord parses a decimal or 0x-prefixed hex unsigned integer.
func parseUintWord(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}

	return strconv.ParseUint(s, 10, 64)
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (l *Lexer) matchIdentifier(rest string) (token.Token, bool) {
	if !isLetter(rest[0]) {
		return token.Token{}, false
	}

	n := 1
	for n < len(rest) && (isLetter(rest[n]) || isDigit(rest[n])) {
		n++
	}

	text := rest[:n]

	if text == "_" {
		tok := l.at(token.KindUnderscore)
		l.advance(n)

		return tok, true
	}

	if kind, ok := token.LookupKeyword(text); ok {
		tok := l.at(kind)
		l.advance(n)

		return tok, true
	}

	tok := l.at(token.KindIdentifier)
	tok.Text = text
	l.advance(n)

	return tok, true
}

// identifierRunLength returns the length of the maximal prefix of rest that
// doesn't hit whitespace or a separator character, per spec.md §4.3's
// separator set.
func identifierRunLength(rest string) int {
	n := 0

	for n < len(rest) && !strings.ContainsRune(separators, rune(rest[n])) {
		n++
	}

	return n
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}
