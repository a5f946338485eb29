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

// Package config provides YAML configuration for the grid server and the
// terminal grid.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/filter"
	"github.com/google/vgrid/core/grid"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the range of config file versions this build reads.
const SupportedVersions = ">= 1.0, < 2.0"

// CurrentVersion is written by Default and assumed when a file has no version.
const CurrentVersion = "1.0"

var ErrUnsupportedVersion = errors.New("unsupported config version")

// Config represents the vgrid configuration
type Config struct {
	Version string           `yaml:"version"`
	Server  ServerConfig     `yaml:"server"`
	Grid    GridConfig       `yaml:"grid"`
	Source  SourceConfig     `yaml:"source"`
	Columns []ColumnOverride `yaml:"columns"`
}

// ServerConfig controls the HTTP server
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	Title       string        `yaml:"title"`
	Subtitle    string        `yaml:"subtitle"`
	MaxSessions int           `yaml:"max_sessions"`
	SessionTTL  time.Duration `yaml:"session_ttl"` // e.g. "30m"
}

// GridConfig controls the engine of every grid
type GridConfig struct {
	PageSize       int     `yaml:"page_size"`
	Paginate       bool    `yaml:"paginate"`
	RowHeight      float64 `yaml:"row_height"`
	Overscan       int     `yaml:"overscan"`
	ViewportHeight float64 `yaml:"viewport_height"`
	IndexedFilter  bool    `yaml:"indexed_filter"` // pre-fold cells once instead of per query
}

// SourceConfig selects the dataset
type SourceConfig struct {
	Type        string `yaml:"type"` // "csv", "sqlite" or "sample"
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	FilePath    string `yaml:"file_path"`
	Table       string `yaml:"table"` // sqlite table
	HasHeader   bool   `yaml:"has_header"`
	Delimiter   string `yaml:"delimiter"`
	Rows        int    `yaml:"rows"`    // sample rows
	Columns     int    `yaml:"columns"` // sample columns
	Watch       bool   `yaml:"watch"`   // reload the file when it changes
}

// ColumnOverride changes the definition of one loaded column
type ColumnOverride struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	Width       int    `yaml:"width"`
	MinWidth    int    `yaml:"min_width"`
	Resizable   *bool  `yaml:"resizable"`
	Pinnable    *bool  `yaml:"pinnable"`
}

// Default returns the default configuration: the 2000 x 80 sample grid on :8097
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Server: ServerConfig{
			Addr:        ":8097",
			Title:       "Vgrid",
			Subtitle:    "Virtualized grids with column reordering, pinning, resizing and filtering",
			MaxSessions: 1000,
			SessionTTL:  30 * time.Minute,
		},
		Grid: GridConfig{
			PageSize:       10,
			Paginate:       true,
			RowHeight:      40,
			Overscan:       5,
			ViewportHeight: 580,
		},
		Source: SourceConfig{
			Type:        "sample",
			Name:        "sample",
			Description: "Generated sample rows",
			HasHeader:   true,
			Delimiter:   ",",
			Rows:        2000,
			Columns:     80,
		},
	}
}

// Load loads configuration from path. An empty path or a missing file gives
// the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return loadFile(path)
}

// loadFile loads configuration from a specific file
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse reads a YAML document over the defaults and validates it
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Version = ""
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CheckVersion reports whether version is within SupportedVersions
func CheckVersion(version string) error {
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid config version %q: %w", version, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("config version %s, want %s: %w", version, SupportedVersions, ErrUnsupportedVersion)
	}
	return nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := CheckVersion(c.Version); err != nil {
		return err
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("server.max_sessions must be positive, got %d", c.Server.MaxSessions)
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive, got %v", c.Server.SessionTTL)
	}
	if c.Grid.PageSize <= 0 {
		return fmt.Errorf("grid.page_size must be positive, got %d", c.Grid.PageSize)
	}
	if c.Grid.RowHeight <= 0 {
		return fmt.Errorf("grid.row_height must be positive, got %v", c.Grid.RowHeight)
	}
	if c.Grid.Overscan < 0 {
		return fmt.Errorf("grid.overscan must not be negative, got %d", c.Grid.Overscan)
	}
	if c.Grid.ViewportHeight <= 0 {
		return fmt.Errorf("grid.viewport_height must be positive, got %v", c.Grid.ViewportHeight)
	}

	if c.Source.Name == "" {
		return fmt.Errorf("source.name is required")
	}
	if strings.HasPrefix(c.Source.Name, "_") {
		return fmt.Errorf("source.name %q: names starting with '_' are reserved", c.Source.Name)
	}
	switch c.Source.Type {
	case "sample":
	case "csv", "sqlite":
		if c.Source.FilePath == "" {
			return fmt.Errorf("source.file_path is required for %s sources", c.Source.Type)
		}
		if c.Source.Type == "sqlite" && c.Source.Table == "" {
			return fmt.Errorf("source.table is required for sqlite sources")
		}
	default:
		return fmt.Errorf("unknown source type %q", c.Source.Type)
	}
	if c.Source.Type == "csv" && len([]rune(c.Source.Delimiter)) > 1 {
		return fmt.Errorf("source.delimiter must be a single character, got %q", c.Source.Delimiter)
	}

	seen := make(map[string]bool)
	for i, override := range c.Columns {
		if override.ID == "" {
			return fmt.Errorf("column override at index %d: id is required", i)
		}
		if seen[override.ID] {
			return fmt.Errorf("column override %q: duplicate id", override.ID)
		}
		seen[override.ID] = true
	}
	return nil
}

// GridOptions returns the engine options for the grid section
func (c *Config) GridOptions() grid.Options {
	opts := grid.Options{
		PageSize:       c.Grid.PageSize,
		Paginate:       c.Grid.Paginate,
		RowHeight:      c.Grid.RowHeight,
		Overscan:       c.Grid.Overscan,
		ViewportHeight: c.Grid.ViewportHeight,
	}
	if c.Grid.IndexedFilter {
		opts.NewFilter = func() filter.Engine { return filter.NewIndex() }
	}
	return opts
}

// LoaderConfig returns the source section in the key/value form loaders read
func (c *Config) LoaderConfig() map[string]string {
	s := c.Source
	return map[string]string{
		"file_path":  s.FilePath,
		"table":      s.Table,
		"has_header": strconv.FormatBool(s.HasHeader),
		"delimiter":  s.Delimiter,
		"rows":       strconv.Itoa(s.Rows),
		"columns":    strconv.Itoa(s.Columns),
	}
}

// ApplyOverrides returns defs with the configured overrides applied. Overrides
// for unknown ids are ignored.
func (c *Config) ApplyOverrides(defs []*columns.ColumnDef) []*columns.ColumnDef {
	if len(c.Columns) == 0 {
		return defs
	}
	byID := make(map[string]ColumnOverride, len(c.Columns))
	for _, override := range c.Columns {
		byID[override.ID] = override
	}

	result := make([]*columns.ColumnDef, len(defs))
	for i, def := range defs {
		override, ok := byID[def.ID()]
		if !ok {
			result[i] = def
			continue
		}
		displayName := def.DisplayName()
		if override.DisplayName != "" {
			displayName = override.DisplayName
		}
		width := def.BaseWidth()
		if override.Width > 0 {
			width = override.Width
		}
		minWidth := def.MinWidth()
		if override.MinWidth > 0 {
			minWidth = override.MinWidth
		}
		canResize := def.CanResize()
		if override.Resizable != nil {
			canResize = *override.Resizable
		}
		canPin := def.CanPin()
		if override.Pinnable != nil {
			canPin = *override.Pinnable
		}
		result[i] = columns.NewColumnDefWithOptions(def.ID(), displayName, width, minWidth, canResize, canPin)
	}
	return result
}
