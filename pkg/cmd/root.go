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

// Package cmd implements the p4c command-line front end: one flat command
// driving the preprocessor -> lexer/parser -> checker -> HLIR -> emitter
// pipeline, per spec.md §6.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/oxidecomputer/p4c-go/pkg/check"
	"github.com/oxidecomputer/p4c-go/pkg/config"
	"github.com/oxidecomputer/p4c-go/pkg/diag"
	"github.com/oxidecomputer/p4c-go/pkg/emit"
	"github.com/oxidecomputer/p4c-go/pkg/hlir"
	"github.com/oxidecomputer/p4c-go/pkg/parse"
	"github.com/oxidecomputer/p4c-go/pkg/preprocess"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled in when building via the project's Makefile, but not
// when installed with "go install".
var Version string

var rootCmd = &cobra.Command{
	Use:   "p4c <filename>",
	Short: "A compiler front end and code generator for P4-16 packet pipelines.",
	Long: `p4c reads a P4-16 source file, checks it, and lowers it to one of
three targets: rust (the default), redhawk, or a Markdown docs page.`,
	Args: cobra.ExactArgs(1),
	Run:  runCompile,
}

// Execute runs the root command. Called once from cmd/p4c/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.Bool("version", false, "print the compiler version and exit")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.Bool("show-tokens", false, "trace every token the lexer produces")
	flags.Bool("show-pre", false, "print the preprocessed source")
	flags.Bool("show-ast", false, "print a summary of the parsed syntax tree")
	flags.Bool("show-hlir", false, "print a summary of the typed HLIR")
	flags.Bool("check", false, "run the checker and HLIR pass, then stop without emitting")
	flags.StringP("output", "o", "", "output file path (default out.rs, or the target's .p4c.toml default)")
	flags.String("target", "", `emission target: "rust", "redhawk", or "docs" (default from .p4c.toml or "rust")`)
}

func runCompile(cmd *cobra.Command, args []string) {
	if GetFlag(cmd, "version") {
		printVersion()
		return
	}

	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}

	filename := args[0]

	source, err := os.ReadFile(filename) // #nosec G304 -- filename is a user-supplied CLI argument
	if err != nil {
		fmt.Fprintf(os.Stderr, "p4c: cannot read %s: %s\n", filename, err)
		os.Exit(1)
	}

	cfg, err := config.Load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "p4c: %s\n", err)
		os.Exit(1)
	}

	target := cfg.Emit.Target
	if FlagWasSet(cmd, "target") {
		target = GetString(cmd, "target")
	}

	output := cfg.Emit.Output
	if FlagWasSet(cmd, "output") {
		output = GetString(cmd, "output")
	}

	if output == "" {
		output = "out.rs"
	}

	log.Debugf("compiling %s with target %s", filename, target)

	withDefines := applyDefines(string(source), cfg.Preprocess.Defines)

	pre, err := preprocess.RunWithSearchDirs(withDefines, filename, cfg.Preprocess.IncludeDirs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "p4c: %s\n", err)
		os.Exit(1)
	}

	if GetFlag(cmd, "show-pre") {
		dumpPreprocessed(os.Stdout, pre.Lines)
	}

	tree, err := parse.Parse(filename, pre.Lines, GetFlag(cmd, "show-tokens"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "p4c: %s\n", err)
		os.Exit(1)
	}

	if GetFlag(cmd, "show-ast") {
		dumpAST(os.Stdout, tree)
	}

	bag := check.Check(tree)

	hlirRes, hbag := hlir.Generate(tree)
	bag.Extend(hbag)

	if GetFlag(cmd, "show-hlir") {
		dumpHLIR(os.Stdout, hlirRes)
	}

	if bag.HasErrors() {
		diag.Render(os.Stdout, bag, pre.Lines, diag.StdoutIsTerminal())
		os.Exit(1)
	}

	if GetFlag(cmd, "check") {
		fmt.Println("no errors")
		return
	}

	rendered, err := emit.Emit(tree, hlirRes, emit.Target(target))
	if err != nil {
		fmt.Fprintf(os.Stderr, "p4c: %s\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil { //nolint:gosec // compiler output, not sensitive
		fmt.Fprintf(os.Stderr, "p4c: cannot write %s: %s\n", output, err)
		os.Exit(1)
	}
}

// applyDefines synthesizes a leading `#define NAME VALUE` line per entry in
// defines, so a project's .p4c.toml predefined macros reach the
// preprocessor without every source file declaring them itself.
func applyDefines(source string, defines map[string]string) string {
	if len(defines) == 0 {
		return source
	}

	var b strings.Builder

	for name, value := range defines {
		fmt.Fprintf(&b, "#define %s %s\n", name, value)
	}

	b.WriteString(source)

	return b.String()
}

func printVersion() {
	fmt.Print("p4c ")

	if Version != "" {
		fmt.Print(Version)
	} else {
		fmt.Print("(development build)")
	}

	fmt.Println()
}
