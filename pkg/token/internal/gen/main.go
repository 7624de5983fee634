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

// Command gen renders pkg/token/kind_string.go from templates/kind_string.go.tmpl
// using bavard, the same batch code-generator the teacher repo uses (see
// field/internal/generator) to render its field-element sources. It is
// invoked via "go generate" from pkg/token/token.go and is not part of the
// compiler's runtime import graph.
package main

import (
	"fmt"
	"os"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Oxide Computer Company"

// kindName pairs a token.Kind identifier with the human-readable label
// Token.String falls back to for kinds that aren't literals (literals render
// their payload directly in token.go's String method).
type kindName struct {
	Kind  string
	Label string
}

// names lists every non-literal Kind that needs a plain label. Keep this in
// sync with the Kind constants declared in token.go.
var names = []kindName{
	{"KindConst", "keyword const"},
	{"KindHeader", "keyword header"},
	{"KindTypedef", "keyword typedef"},
	{"KindControl", "keyword control"},
	{"KindStruct", "keyword struct"},
	{"KindAction", "keyword action"},
	{"KindParser", "keyword parser"},
	{"KindTable", "keyword table"},
	{"KindSize", "keyword size"},
	{"KindKey", "keyword key"},
	{"KindExact", "keyword exact"},
	{"KindTernary", "keyword ternary"},
	{"KindLpm", "keyword lpm"},
	{"KindRange", "keyword range"},
	{"KindActions", "keyword actions"},
	{"KindDefaultAction", "keyword default_action"},
	{"KindEntries", "keyword entries"},
	{"KindIn", "keyword in"},
	{"KindInOut", "keyword inout"},
	{"KindOut", "keyword out"},
	{"KindTransition", "keyword transition"},
	{"KindState", "keyword state"},
	{"KindSelect", "keyword select"},
	{"KindApply", "keyword apply"},
	{"KindPackage", "keyword package"},
	{"KindExtern", "keyword extern"},
	{"KindIf", "keyword if"},
	{"KindElse", "keyword else"},
	{"KindReturn", "keyword return"},
	{"KindBool", "type bool"},
	{"KindError", "type error"},
	{"KindBit", "type bit"},
	{"KindVarbit", "type varbit"},
	{"KindInt", "type int"},
	{"KindString", "type string"},
	{"KindAngleOpen", "'<'"},
	{"KindAngleClose", "'>'"},
	{"KindCurlyOpen", "'{'"},
	{"KindCurlyClose", "'}'"},
	{"KindParenOpen", "'('"},
	{"KindParenClose", "')'"},
	{"KindSquareOpen", "'['"},
	{"KindSquareClose", "']'"},
	{"KindSemicolon", "';'"},
	{"KindComma", "','"},
	{"KindColon", "':'"},
	{"KindUnderscore", "'_'"},
	{"KindPoundInclude", "preprocessor directive #include"},
	{"KindPoundDefine", "preprocessor directive #define"},
	{"KindDoubleEquals", "operator '=='"},
	{"KindNotEquals", "operator '!='"},
	{"KindEquals", "operator '='"},
	{"KindPlus", "operator '+'"},
	{"KindMinus", "operator '-'"},
	{"KindStar", "operator '*'"},
	{"KindDot", "operator '.'"},
	{"KindMask", "operator '&&&'"},
	{"KindLogicalAnd", "operator '&&'"},
	{"KindLogicalOr", "operator '||'"},
	{"KindAnd", "operator '&'"},
	{"KindBang", "operator '!'"},
	{"KindTilde", "operator '~'"},
	{"KindShl", "operator '<<'"},
	{"KindShr", "operator '>>'"},
	{"KindPipe", "operator '|'"},
	{"KindCarat", "operator '^'"},
	{"KindGreaterThanEquals", "operator '>='"},
	{"KindLessThanEquals", "operator '<='"},
	{"KindBackslash", "'\\\\'"},
	{"KindForwardslash", "'/'"},
	{"KindTokenError", "unrecognized token"},
}

func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2026, "p4c-go")

	err := bgen.Generate(names, "token", "templates",
		bavard.Entry{
			File:      "../../kind_string.go",
			Templates: []string{"kind_string.go.tmpl"},
		},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
