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

package grid

import (
	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/drag"
	"github.com/google/vgrid/core/pagination"
	"github.com/google/vgrid/core/tables"
)

// RowSlot is one materialized row of the view.
type RowSlot struct {
	// Position is the row's index within the virtualized subset.
	Position int
	// RowIndex is the row's index in the dataset's natural order.
	RowIndex int
	// Offset is the vertical offset of the row's top edge.
	Offset float64
	Height float64
	Row    tables.Row
	// Cells are the row's values in projected column order.
	Cells []string
}

// ViewModel is everything a renderer needs for one frame.
type ViewModel struct {
	Columns       []columns.Projection
	Rows          []RowSlot
	TopPadding    float64
	BottomPadding float64
	TotalHeight   float64
	TotalWidth    int
	ScrollOffset  float64
	Pagination    pagination.Summary
	PageButtons   []pagination.Button
	Paginated     bool
	Query         string
	Drag          drag.State
	VisibleCount  int
	ColumnCount   int
}

// View assembles the current frame. It does not change state.
func (e *Engine) View() ViewModel {
	projected := e.columns.Project()
	ids := make([]string, len(projected))
	for i, p := range projected {
		ids[i] = p.ID
	}

	items := e.window.Items()
	rows := make([]RowSlot, 0, len(items))
	for _, item := range items {
		rowIndex := e.subset[item.Index]
		row := e.table.Row(rowIndex)
		rows = append(rows, RowSlot{
			Position: item.Index,
			RowIndex: rowIndex,
			Offset:   item.Start,
			Height:   item.Size,
			Row:      row,
			Cells:    row.Cells(ids),
		})
	}

	summary := e.pager.Summarize(e.table.Length())
	if !e.opts.Paginate {
		// the whole filtered subset is one scrolling page
		summary = pagination.Summary{
			PageCount:     1,
			FilteredCount: len(e.filtered),
			TotalCount:    e.table.Length(),
		}
		if n := len(e.filtered); n > 0 {
			summary.FirstRow, summary.LastRow = 1, n
		}
	}
	return ViewModel{
		Columns:       projected,
		Rows:          rows,
		TopPadding:    e.window.TopPadding,
		BottomPadding: e.window.BottomPadding,
		TotalHeight:   e.window.TotalHeight,
		TotalWidth:    e.columns.TotalWidth(),
		ScrollOffset:  e.scrollOffset,
		Pagination:    summary,
		PageButtons:   pagination.Buttons(summary.PageIndex, summary.PageCount, pagination.DefaultMaxButtons),
		Paginated:     e.opts.Paginate,
		Query:         e.query,
		Drag:          e.drag.State(),
		VisibleCount:  e.columns.VisibleCount(),
		ColumnCount:   e.columns.TotalCount(),
	}
}
