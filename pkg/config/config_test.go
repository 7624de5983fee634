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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Emit.Target != "rust" {
		t.Errorf("expected default target rust, got %s", cfg.Emit.Target)
	}

	if cfg.Emit.Output != "out.rs" {
		t.Errorf("expected default output out.rs, got %s", cfg.Emit.Output)
	}
}

func TestLoadNonExistentFallsBackToDefault(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := Load(filepath.Join(tempDir, "pipeline.p4"))
	if err != nil {
		t.Fatalf("Load should not error when no .p4c.toml is present: %v", err)
	}

	if cfg.Emit.Target != "rust" {
		t.Errorf("expected default config, got target %s", cfg.Emit.Target)
	}
}

func TestLoadFromReadsProjectSettings(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".p4c.toml")

	contents := `
[emit]
target = "docs"
output = "pipeline.md"

[preprocess]
include_dirs = ["/opt/p4/include"]

[preprocess.defines]
DEBUG = "1"
`
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Emit.Target != "docs" {
		t.Errorf("expected target docs, got %s", cfg.Emit.Target)
	}

	if cfg.Emit.Output != "pipeline.md" {
		t.Errorf("expected output pipeline.md, got %s", cfg.Emit.Output)
	}

	if len(cfg.Preprocess.IncludeDirs) != 1 || cfg.Preprocess.IncludeDirs[0] != "/opt/p4/include" {
		t.Errorf("expected one include dir, got %v", cfg.Preprocess.IncludeDirs)
	}

	if cfg.Preprocess.Defines["DEBUG"] != "1" {
		t.Errorf("expected DEBUG=1, got %v", cfg.Preprocess.Defines)
	}
}

func TestLoadInvalidTOMLIsError(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".p4c.toml")

	if err := os.WriteFile(configPath, []byte("emit = [this is not valid"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected an error loading malformed TOML")
	}
}

func TestLoadPrefersFileNextToSource(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".p4c.toml")

	if err := os.WriteFile(configPath, []byte("[emit]\ntarget = \"redhawk\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(filepath.Join(tempDir, "pipeline.p4"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Emit.Target != "redhawk" {
		t.Errorf("expected target redhawk from project config, got %s", cfg.Emit.Target)
	}
}
