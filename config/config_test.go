/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Vgrid Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/filter"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config does not validate: %v", err)
	}
	if cfg.Server.Addr != ":8097" {
		t.Errorf("Default Addr should be ':8097', got '%s'", cfg.Server.Addr)
	}
	if cfg.Source.Type != "sample" || cfg.Source.Rows != 2000 || cfg.Source.Columns != 80 {
		t.Errorf("Unexpected default source %+v", cfg.Source)
	}

	opts := cfg.GridOptions()
	if opts.PageSize != 10 || !opts.Paginate || opts.RowHeight != 40 || opts.Overscan != 5 || opts.ViewportHeight != 580 {
		t.Errorf("Unexpected default grid options %+v", opts)
	}
	if opts.Filter != nil || opts.NewFilter != nil {
		t.Error("Default filter should be left to the engine")
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
version: "1.2"
server:
  addr: ":9000"
  max_sessions: 200
  session_ttl: 5m
grid:
  page_size: 25
  paginate: false
  indexed_filter: true
source:
  type: csv
  file_path: people.csv
  delimiter: ";"
columns:
  - id: name
    display_name: Full name
    width: 220
    pinnable: false
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Server.Addr != ":9000" || cfg.Grid.PageSize != 25 || cfg.Grid.Paginate {
		t.Errorf("Unexpected server/grid %+v %+v", cfg.Server, cfg.Grid)
	}
	if cfg.Server.MaxSessions != 200 || cfg.Server.SessionTTL != 5*time.Minute {
		t.Errorf("Unexpected session limits %d %v", cfg.Server.MaxSessions, cfg.Server.SessionTTL)
	}
	// unset fields keep their defaults
	if cfg.Grid.RowHeight != 40 || cfg.Source.HasHeader != true {
		t.Errorf("Expected defaults for unset fields, got %+v %+v", cfg.Grid, cfg.Source)
	}
	opts := cfg.GridOptions()
	if opts.Filter != nil || opts.NewFilter == nil {
		t.Fatal("Expected an indexed filter factory")
	}
	first, second := opts.NewFilter(), opts.NewFilter()
	if first == second {
		t.Error("Expected every engine to get its own index")
	}
	if _, ok := first.(*filter.Index); !ok {
		t.Errorf("Expected *filter.Index, got %T", first)
	}

	loader := cfg.LoaderConfig()
	if loader["file_path"] != "people.csv" || loader["delimiter"] != ";" || loader["has_header"] != "true" {
		t.Errorf("Unexpected loader config %v", loader)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "grid: [1, 2"},
		{"too new", `version: "2.0"`},
		{"not a version", `version: "banana"`},
		{"bad page size", "grid:\n  page_size: 0"},
		{"negative overscan", "grid:\n  overscan: -1"},
		{"no sessions", "server:\n  max_sessions: 0"},
		{"bad session ttl", "server:\n  session_ttl: soon"},
		{"unknown source", "source:\n  type: ftp"},
		{"source without name", "source:\n  name: \"\""},
		{"reserved source name", "source:\n  name: _columns"},
		{"csv without file", "source:\n  type: csv"},
		{"sqlite without table", "source:\n  type: sqlite\n  file_path: x.db"},
		{"override without id", "columns:\n  - width: 10"},
		{"duplicate override", "columns:\n  - id: a\n  - id: a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Expected an error for %q", tt.yaml)
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	for _, v := range []string{"1.0", "1.9.3", "1"} {
		if err := CheckVersion(v); err != nil {
			t.Errorf("CheckVersion(%q) = %v, want nil", v, err)
		}
	}
	if err := CheckVersion("2.1"); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion, got %v", err)
	}
	if err := CheckVersion("0.9"); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil || cfg.Source.Type != "sample" {
			t.Errorf("Expected defaults, got %+v, %v", cfg, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil || cfg.Server.Addr != ":8097" {
			t.Errorf("Expected defaults, got %+v, %v", cfg, err)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vgrid.yaml")
		if err := os.WriteFile(path, []byte("server:\n  addr: \":1234\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Server.Addr != ":1234" || cfg.Version != CurrentVersion {
			t.Errorf("Unexpected config %+v", cfg)
		}
	})
}

func TestApplyOverrides(t *testing.T) {
	no := false
	cfg := Default()
	cfg.Columns = []ColumnOverride{
		{ID: "b", DisplayName: "Bee", Width: 300, Resizable: &no},
		{ID: "zzz", Width: 10},
	}
	defs := []*columns.ColumnDef{
		columns.NewColumnDef("a", "A", 0, 0),
		columns.NewColumnDef("b", "B", 0, 0),
	}

	out := cfg.ApplyOverrides(defs)
	if out[0] != defs[0] {
		t.Error("Expected untouched definitions to be kept")
	}
	b := out[1]
	if b.DisplayName() != "Bee" || b.BaseWidth() != 300 || b.CanResize() || !b.CanPin() {
		t.Errorf("Unexpected override result %q %d %v %v", b.DisplayName(), b.BaseWidth(), b.CanResize(), b.CanPin())
	}
	if b.MinWidth() != columns.DefaultMinWidth {
		t.Errorf("Expected the original minimum width, got %d", b.MinWidth())
	}
}
