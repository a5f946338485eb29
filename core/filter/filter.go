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

// Package filter derives the subset of rows matching a global text query.
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/google/vgrid/core/tables"
)

// Engine filters a row subset of a table by a global query. Implementations must
// preserve subset order, return every row for the empty query, and be idempotent.
type Engine interface {
	Apply(t *tables.DataTable, rows []int, query string) []int
}

// Substring matches a row when any cell contains the query, ignoring case. It
// recomputes from scratch on every call.
type Substring struct{}

func NewSubstring() *Substring {
	return &Substring{}
}

func (f *Substring) Apply(t *tables.DataTable, rows []int, query string) []int {
	if query == "" {
		return append(make([]int, 0, len(rows)), rows...)
	}
	fold := cases.Fold()
	needle := fold.String(query)
	cols := t.Columns()

	result := make([]int, 0)
	for _, i := range rows {
		for _, col := range cols {
			if strings.Contains(fold.String(col.Value(i)), needle) {
				result = append(result, i)
				break
			}
		}
	}
	return result
}

// Index answers the same queries as Substring from case-folded copies of every
// cell, built once per table.
type Index struct {
	table  *tables.DataTable
	folded [][]string // row -> folded cells in schema order
}

func NewIndex() *Index {
	return &Index{}
}

func (f *Index) Apply(t *tables.DataTable, rows []int, query string) []int {
	if query == "" {
		return append(make([]int, 0, len(rows)), rows...)
	}
	f.build(t)
	needle := cases.Fold().String(query)

	result := make([]int, 0)
	for _, i := range rows {
		if i < 0 || i >= len(f.folded) {
			continue
		}
		for _, cell := range f.folded[i] {
			if strings.Contains(cell, needle) {
				result = append(result, i)
				break
			}
		}
	}
	return result
}

func (f *Index) build(t *tables.DataTable) {
	if f.table == t && len(f.folded) == t.Length() {
		return
	}
	fold := cases.Fold()
	cols := t.Columns()
	f.folded = make([][]string, t.Length())
	for i := range f.folded {
		cells := make([]string, len(cols))
		for j, col := range cols {
			cells[j] = fold.String(col.Value(i))
		}
		f.folded[i] = cells
	}
	f.table = t
}
