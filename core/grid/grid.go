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

// Package grid composes column state, filtering, pagination, virtualization and
// drag reordering into one engine per grid session.
//
// An Engine is not safe for concurrent use. All commands are synchronous and
// keep the state valid: invalid input is ignored or clamped, never reported.
package grid

import (
	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/drag"
	"github.com/google/vgrid/core/filter"
	"github.com/google/vgrid/core/pagination"
	"github.com/google/vgrid/core/tables"
	"github.com/google/vgrid/core/virtual"
)

const DefaultViewportHeight = 580.0

// Options configure an Engine. Zero values fall back to the defaults.
type Options struct {
	PageSize int
	// Paginate virtualizes the current page; otherwise the whole filtered subset
	// is virtualized.
	Paginate       bool
	RowHeight      float64
	Overscan       int
	ViewportHeight float64
	// Filter is used as is by every engine built from these options. When it
	// is nil, NewFilter builds one per engine, so stateful filters such as
	// filter.Index are never shared.
	Filter    filter.Engine
	NewFilter func() filter.Engine
}

// DefaultOptions: 10 rows per page, 40px rows, 5 rows of overscan.
func DefaultOptions() Options {
	return Options{
		PageSize:       pagination.DefaultPageSize,
		Paginate:       true,
		RowHeight:      virtual.DefaultRowHeight,
		Overscan:       virtual.DefaultOverscan,
		ViewportHeight: DefaultViewportHeight,
	}
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = pagination.DefaultPageSize
	}
	if o.RowHeight <= 0 {
		o.RowHeight = virtual.DefaultRowHeight
	}
	if o.Overscan < 0 {
		o.Overscan = 0
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = DefaultViewportHeight
	}
	if o.Filter == nil && o.NewFilter != nil {
		o.Filter = o.NewFilter()
	}
	if o.Filter == nil {
		o.Filter = filter.NewSubstring()
	}
	return o
}

// Engine owns the state of one grid over one dataset.
type Engine struct {
	table   *tables.DataTable
	opts    Options
	columns *columns.State
	pager   *pagination.Controller
	drag    *drag.Controller

	query          string
	scrollOffset   float64
	viewportHeight float64

	all      []int
	filtered []int
	subset   []int // rows being virtualized: the current page or all filtered rows
	window   virtual.Window
	stale    bool // filter must be recomputed
}

// New creates an engine over table. The column definitions are the table's schema.
func New(table *tables.DataTable, opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	state, err := columns.NewState(table.ColumnDefs())
	if err != nil {
		return nil, err
	}
	e := &Engine{
		table:   table,
		opts:    opts,
		columns: state,
		pager:   pagination.NewController(opts.PageSize),
		all:     table.Indices(),
	}
	e.drag = drag.NewController(state)
	e.Reset()
	return e, nil
}

// Reset is a full remount: every piece of state returns to its default.
func (e *Engine) Reset() {
	e.columns.Reset()
	e.pager.Reset()
	e.drag.End()
	e.query = ""
	e.scrollOffset = 0
	e.viewportHeight = e.opts.ViewportHeight
	e.stale = true
	e.derive()
}

// derive recomputes outputs in dependency order: filter, then the page clamp,
// then the row window.
func (e *Engine) derive() {
	if e.stale {
		e.filtered = e.opts.Filter.Apply(e.table, e.all, e.query)
		e.stale = false
	}
	if e.opts.Paginate {
		e.subset = e.pager.Slice(e.filtered)
	} else {
		e.pager.SetRowCount(len(e.filtered))
		e.subset = e.filtered
	}
	maxScroll := virtual.MaxScroll(len(e.subset), e.opts.RowHeight, e.viewportHeight)
	if e.scrollOffset > maxScroll {
		e.scrollOffset = maxScroll
	}
	e.window = virtual.Compute(virtual.Params{
		Count:          len(e.subset),
		ScrollOffset:   e.scrollOffset,
		ViewportHeight: e.viewportHeight,
		RowHeight:      e.opts.RowHeight,
		Overscan:       e.opts.Overscan,
	})
}

func (e *Engine) Table() *tables.DataTable {
	return e.table
}

func (e *Engine) Options() Options {
	return e.opts
}

// Columns exposes the column state for reads. Mutate it through the engine.
func (e *Engine) Columns() *columns.State {
	return e.columns
}

func (e *Engine) Query() string {
	return e.query
}

func (e *Engine) PageIndex() int {
	return e.pager.PageIndex()
}

func (e *Engine) PageCount() int {
	if !e.opts.Paginate {
		return 1
	}
	return e.pager.PageCount()
}

func (e *Engine) ScrollOffset() float64 {
	return e.scrollOffset
}

func (e *Engine) ViewportHeight() float64 {
	return e.viewportHeight
}

// FilteredCount is the number of rows matching the query.
func (e *Engine) FilteredCount() int {
	return len(e.filtered)
}

func (e *Engine) Window() virtual.Window {
	return e.window
}

func (e *Engine) DragState() drag.State {
	return e.drag.State()
}

// SetQuery changes the global filter. The page index is clamped to the new
// number of pages.
func (e *Engine) SetQuery(q string) bool {
	if q == e.query {
		return false
	}
	e.query = q
	e.stale = true
	e.derive()
	return true
}

func (e *Engine) ClearQuery() bool {
	return e.SetQuery("")
}

func (e *Engine) SetPageIndex(i int) bool {
	return e.pageCommand(func() bool { return e.pager.SetPageIndex(i) })
}

func (e *Engine) NextPage() bool {
	return e.pageCommand(e.pager.NextPage)
}

func (e *Engine) PreviousPage() bool {
	return e.pageCommand(e.pager.PreviousPage)
}

func (e *Engine) FirstPage() bool {
	return e.pageCommand(e.pager.FirstPage)
}

func (e *Engine) LastPage() bool {
	return e.pageCommand(e.pager.LastPage)
}

// pageCommand runs a pager command. Without pagination there is one page and
// page commands do nothing.
func (e *Engine) pageCommand(cmd func() bool) bool {
	if !e.opts.Paginate || !cmd() {
		return false
	}
	e.derive()
	return true
}

// SetViewport records the host's viewport height. Non-positive heights are ignored.
func (e *Engine) SetViewport(height float64) bool {
	if height <= 0 || height == e.viewportHeight {
		return false
	}
	e.viewportHeight = height
	e.derive()
	return true
}

// Scroll records the host's scroll offset, clamped to the scrollable range.
func (e *Engine) Scroll(offset float64) bool {
	if offset < 0 {
		offset = 0
	}
	prev := e.scrollOffset
	e.scrollOffset = offset
	e.derive()
	return e.scrollOffset != prev
}

func (e *Engine) SetOrder(order []string) bool {
	return e.columns.SetOrder(order)
}

func (e *Engine) MoveColumn(from, to int) bool {
	return e.columns.MoveColumn(from, to)
}

// ToggleVisibility hides or shows a column. Any visibility change re-indexes
// the visible order, so it ends a drag in progress.
func (e *Engine) ToggleVisibility(id string) bool {
	if !e.columns.ToggleVisibility(id) {
		return false
	}
	if e.drag.Dragging() {
		e.drag.End()
	}
	return true
}

func (e *Engine) SetPin(id string, side columns.PinSide) bool {
	return e.columns.SetPin(id, side)
}

func (e *Engine) Resize(id string, width int) bool {
	return e.columns.Resize(id, width)
}

// DragStart begins dragging the column at a visible leaf index.
func (e *Engine) DragStart(visibleIndex int) bool {
	return e.drag.Start(visibleIndex)
}

// DragHover moves the dragged column to the hovered visible leaf index.
func (e *Engine) DragHover(visibleIndex int) bool {
	return e.drag.Hover(visibleIndex)
}

func (e *Engine) DragEnd() {
	e.drag.End()
}
