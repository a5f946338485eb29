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

package columns

// StringColumn stores the cell values of one column in row order.
type StringColumn struct {
	columnDef *ColumnDef
	data      []string
}

// NewStringColumn creates an empty column for columnDef.
func NewStringColumn(columnDef *ColumnDef) *StringColumn {
	return &StringColumn{
		columnDef: columnDef,
		data:      make([]string, 0),
	}
}

func (c *StringColumn) Append(value string) {
	c.data = append(c.data, value)
}

func (c *StringColumn) Length() int {
	return len(c.data)
}

func (c *StringColumn) ColumnDef() *ColumnDef {
	return c.columnDef
}

// Value returns the value at index i, or "" when i is out of range.
func (c *StringColumn) Value(i int) string {
	if i < 0 || i >= len(c.data) {
		return ""
	}
	return c.data[i]
}

// WithColumnDef returns a column with a different definition over the same
// values. The values are shared, so neither column may be appended to after.
func (c *StringColumn) WithColumnDef(columnDef *ColumnDef) *StringColumn {
	return &StringColumn{
		columnDef: columnDef,
		data:      c.data,
	}
}
