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

package tables

import (
	"fmt"

	"github.com/google/vgrid/core/columns"
)

// DataTable is an immutable-once-loaded dataset with a fixed column schema.
// Rows keep their append order, which is the natural row order of the grid.
type DataTable struct {
	defs    []*columns.ColumnDef
	columns map[string]*columns.StringColumn
	ordered []*columns.StringColumn
	length  int
}

// NewDataTable creates an empty table for the given column definitions.
func NewDataTable(defs []*columns.ColumnDef) (*DataTable, error) {
	if err := columns.ValidateDefs(defs); err != nil {
		return nil, err
	}
	dt := &DataTable{
		defs:    append([]*columns.ColumnDef(nil), defs...),
		columns: make(map[string]*columns.StringColumn, len(defs)),
		ordered: make([]*columns.StringColumn, len(defs)),
	}
	for i, def := range defs {
		col := columns.NewStringColumn(def)
		dt.columns[def.ID()] = col
		dt.ordered[i] = col
	}
	return dt, nil
}

// AppendRow adds a row given its values in schema order. Missing trailing values
// are stored as empty strings; extra values are an error.
func (dt *DataTable) AppendRow(values ...string) error {
	if len(values) > len(dt.ordered) {
		return fmt.Errorf("row %d has %d values, table has %d columns", dt.length, len(values), len(dt.ordered))
	}
	for i, col := range dt.ordered {
		if i < len(values) {
			col.Append(values[i])
		} else {
			col.Append("")
		}
	}
	dt.length++
	return nil
}

// AppendRecord adds a row given as a mapping from column id to value. Unknown
// ids are an error; absent ids are stored as empty strings.
func (dt *DataTable) AppendRecord(record map[string]string) error {
	for id := range record {
		if _, ok := dt.columns[id]; !ok {
			return fmt.Errorf("row %d: unknown column %q", dt.length, id)
		}
	}
	for _, col := range dt.ordered {
		col.Append(record[col.ColumnDef().ID()])
	}
	dt.length++
	return nil
}

// WithColumnDefs returns a table over the same rows with redefined columns.
// defs must carry the table's column ids in schema order; display names, widths
// and capabilities may differ. The returned table shares storage with dt and
// neither may be appended to afterwards.
func (dt *DataTable) WithColumnDefs(defs []*columns.ColumnDef) (*DataTable, error) {
	if err := columns.ValidateDefs(defs); err != nil {
		return nil, err
	}
	if len(defs) != len(dt.defs) {
		return nil, fmt.Errorf("got %d column definitions, table has %d columns", len(defs), len(dt.defs))
	}
	out := &DataTable{
		defs:    append([]*columns.ColumnDef(nil), defs...),
		columns: make(map[string]*columns.StringColumn, len(defs)),
		ordered: make([]*columns.StringColumn, len(defs)),
		length:  dt.length,
	}
	for i, def := range defs {
		if def.ID() != dt.defs[i].ID() {
			return nil, fmt.Errorf("column %d: got id %q, table has %q", i, def.ID(), dt.defs[i].ID())
		}
		col := dt.ordered[i].WithColumnDef(def)
		out.columns[def.ID()] = col
		out.ordered[i] = col
	}
	return out, nil
}

// ColumnDefs returns the schema in natural column order.
func (dt *DataTable) ColumnDefs() []*columns.ColumnDef {
	return append([]*columns.ColumnDef(nil), dt.defs...)
}

// Columns returns the stored columns in schema order.
func (dt *DataTable) Columns() []*columns.StringColumn {
	return append([]*columns.StringColumn(nil), dt.ordered...)
}

func (dt *DataTable) ColumnCount() int {
	return len(dt.ordered)
}

// Length returns the number of rows in the table
func (dt *DataTable) Length() int {
	return dt.length
}

// Indices returns the full row subset 0..Length-1 in natural order.
func (dt *DataTable) Indices() []int {
	indices := make([]int, dt.length)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// Value returns the cell at row i of column id.
func (dt *DataTable) Value(i int, id string) (string, bool) {
	col, ok := dt.columns[id]
	if !ok || i < 0 || i >= dt.length {
		return "", false
	}
	return col.Value(i), true
}

// Row returns a handle on row i. The handle is only valid for 0 <= i < Length.
func (dt *DataTable) Row(i int) Row {
	return Row{table: dt, index: i}
}

// Row is a typed record: a row of a DataTable looked up by column id.
type Row struct {
	table *DataTable
	index int
}

// Index is the row's position in natural order.
func (r Row) Index() int {
	return r.index
}

// Get returns the value of column id.
func (r Row) Get(id string) (string, bool) {
	return r.table.Value(r.index, id)
}

// Values returns the cells in schema order.
func (r Row) Values() []string {
	values := make([]string, len(r.table.ordered))
	for i, col := range r.table.ordered {
		values[i] = col.Value(r.index)
	}
	return values
}

// Cells returns the cells for the given column ids, in that order.
func (r Row) Cells(ids []string) []string {
	cells := make([]string, len(ids))
	for i, id := range ids {
		cells[i], _ = r.Get(id)
	}
	return cells
}
