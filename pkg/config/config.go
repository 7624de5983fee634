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

// Package config reads a project's optional .p4c.toml, supplying defaults
// that pkg/cmd falls back to when a flag wasn't given explicitly on the
// command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the .p4c.toml schema.
type Config struct {
	Emit struct {
		// Target is the default --target value.
		Target string `toml:"target"`
		// Output is the default -o value.
		Output string `toml:"output"`
	} `toml:"emit"`

	Preprocess struct {
		// IncludeDirs are searched, in order, for an #include target not
		// found relative to the including file.
		IncludeDirs []string `toml:"include_dirs"`
		// Defines are synthesized as leading `#define NAME VALUE` lines
		// before the source is handed to the preprocessor, so a project
		// can predefine macros without editing every source file.
		Defines map[string]string `toml:"defines"`
	} `toml:"preprocess"`
}

// DefaultConfig returns the configuration a project gets when no .p4c.toml
// is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Emit.Target = "rust"
	cfg.Emit.Output = "out.rs"

	return cfg
}

// Load looks for .p4c.toml next to sourcePath, then in the current working
// directory, and falls back to DefaultConfig if neither exists.
func Load(sourcePath string) (*Config, error) {
	candidates := []string{filepath.Join(filepath.Dir(sourcePath), ".p4c.toml")}

	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, ".p4c.toml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return LoadFrom(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFrom reads and parses the .p4c.toml at path, applied on top of
// DefaultConfig so an unset field keeps its default.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
