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

// Package models builds the system tables that describe the tables a server
// offers.
package models

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/tables"
)

// System table name constants
const (
	ColumnsTableName = "_columns"
)

// BuildColumnsTable creates a system table containing metadata about all columns
// of the given tables. Each row represents one column from any table. Tables are
// listed by name; columns keep their natural order.
//
// Schema:
//   - table_name: The table this column belongs to
//   - column_id: The column's id
//   - display_name: The column's display name
//   - position: Column index within the table
//   - width: Initial width in pixels
//   - min_width: Minimum width in pixels
//   - resizable: "true" or "false"
//   - pinnable: "true" or "false"
//   - row_count: Number of rows in the table
func BuildColumnsTable(all map[string]*tables.DataTable) *tables.DataTable {
	defs := []*columns.ColumnDef{
		columns.NewColumnDef("table_name", "Table", 0, 0),
		columns.NewColumnDef("column_id", "Column", 0, 0),
		columns.NewColumnDef("display_name", "Display Name", 0, 0),
		columns.NewColumnDef("position", "Position", 100, 0),
		columns.NewColumnDef("width", "Width", 100, 0),
		columns.NewColumnDef("min_width", "Min Width", 100, 0),
		columns.NewColumnDef("resizable", "Resizable", 100, 0),
		columns.NewColumnDef("pinnable", "Pinnable", 100, 0),
		columns.NewColumnDef("row_count", "Row Count", 100, 0),
	}
	columnsTable, err := tables.NewDataTable(defs)
	if err != nil {
		// the defs above are fixed and valid
		panic(err)
	}

	// Get all tables and sort by name for consistent ordering
	tableNames := make([]string, 0, len(all))
	for name := range all {
		// Skip system tables
		if IsSystemTable(name) {
			continue
		}
		tableNames = append(tableNames, name)
	}
	sort.Strings(tableNames)

	for _, tableName := range tableNames {
		table := all[tableName]
		rowCount := strconv.Itoa(table.Length())
		for position, def := range table.ColumnDefs() {
			// values match defs, so AppendRow cannot fail
			_ = columnsTable.AppendRow(
				tableName,
				def.ID(),
				def.DisplayName(),
				strconv.Itoa(position),
				strconv.Itoa(def.InitialWidth()),
				strconv.Itoa(def.MinWidth()),
				strconv.FormatBool(def.CanResize()),
				strconv.FormatBool(def.CanPin()),
				rowCount,
			)
		}
	}
	return columnsTable
}

// IsSystemTable returns true if the table name is a system table
func IsSystemTable(name string) bool {
	return strings.HasPrefix(name, "_")
}
