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

// Package datasources provides a unified interface for loading grid datasets
// from various sources (CSV files, SQLite databases, generated samples).
package datasources

import (
	"fmt"
	"strings"

	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/tables"
)

// ColumnSchema represents a single column's schema discovered from a data source.
type ColumnSchema struct {
	// ID is the column id used in URLs and commands.
	ID string
	// Name is the column name as the source spells it.
	Name string
}

// TableSchema represents the full table schema discovered from a data source.
type TableSchema struct {
	Columns []*ColumnSchema
}

// DataSourceLoader is the interface that all data source loaders must implement.
// Vgrid provides built-in loaders for "csv", "sqlite" and "sample".
type DataSourceLoader interface {
	// SourceType returns the type identifier used in config (e.g., "csv", "sqlite").
	SourceType() string

	// DiscoverSchema returns the schema discovered from the data source.
	// This is called first to determine column ids and names.
	DiscoverSchema(config map[string]string) (*TableSchema, error)

	// Load retrieves data and returns a DataTable with the given schema.
	Load(config map[string]string, schema *TableSchema) (*tables.DataTable, error)
}

// NewSchema builds a schema from source column names. Ids are the names with
// the characters URLs reserve for grid state replaced by '_'; empty names become
// col_N and repeated ids get a numeric suffix.
func NewSchema(names []string) *TableSchema {
	schema := &TableSchema{Columns: make([]*ColumnSchema, len(names))}
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		id := columnID(name)
		if id == "" {
			id = fmt.Sprintf("col_%d", i+1)
		}
		for base, n := id, 2; seen[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		seen[id] = true
		schema.Columns[i] = &ColumnSchema{ID: id, Name: name}
	}
	return schema
}

func columnID(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '&', '=', ':', ',', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
}

// CreateColumnDefs creates the column definitions for a schema.
func CreateColumnDefs(schema *TableSchema) []*columns.ColumnDef {
	defs := make([]*columns.ColumnDef, len(schema.Columns))
	for i, col := range schema.Columns {
		defs[i] = columns.NewColumnDef(col.ID, col.Name, 0, 0)
	}
	return defs
}

// CreateTable creates an empty DataTable for a schema.
func CreateTable(schema *TableSchema) (*tables.DataTable, error) {
	return tables.NewDataTable(CreateColumnDefs(schema))
}
