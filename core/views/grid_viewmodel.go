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

package views

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/safehtml"
	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/grid"
	"github.com/google/vgrid/core/pagination"
	"github.com/google/vgrid/core/query"
)

// ResizeStep is the width change applied by the wider/narrower header links.
const ResizeStep = 20

// GridViewModel contains one grid frame formatted for template consumption
type GridViewModel struct {
	Title      string
	Session    string
	Query      string       // Current filter text
	CurrentURL safehtml.URL // Current URL for building links
	ClearURL   safehtml.URL // URL with the filter removed

	Form FormState // State carried by the filter form

	Headers []HeaderInfo // Rendered columns in projected order
	Rows    []RowInfo    // Materialized row window

	// Spacer geometry around the row window
	TopSpacer    safehtml.Style
	BottomSpacer safehtml.Style
	TotalHeight  float64
	TotalWidth   int
	ScrollOffset float64

	// Pagination info
	Paginated  bool
	Summary    string // "Showing X to Y of Z"
	PageLinks  []PageLink
	HasPrev    bool
	HasNext    bool
	PrevURL    safehtml.URL
	NextURL    safehtml.URL
	FilteredOf string // "N of M rows" when a filter is active

	// Column menu
	AllColumns   []ColumnInfo
	VisibleCount int
	ColumnCount  int

	Timings []TimingInfo
}

// FormState holds the URL-encoded column state the filter form resubmits, so
// changing the filter keeps the current layout
type FormState struct {
	Table    string
	Session  string
	Order    string
	Hidden   string
	Pin      string
	Widths   string
	Viewport string
}

// HeaderInfo is a rendered column header with its action links
type HeaderInfo struct {
	ID           string
	DisplayName  string
	Width        int
	Start        int
	VisibleIndex int
	PinnedLeft   bool
	PinnedRight  bool
	CanPin       bool
	CanResize    bool
	Style        safehtml.Style

	HideURL      safehtml.URL
	PinLeftURL   safehtml.URL
	PinRightURL  safehtml.URL
	UnpinURL     safehtml.URL
	MoveLeftURL  safehtml.URL
	MoveRightURL safehtml.URL
	WiderURL     safehtml.URL
	NarrowerURL  safehtml.URL
	IsFirst      bool // First in visible order, cannot move left
	IsLast       bool // Last in visible order, cannot move right
}

// RowInfo is one materialized row
type RowInfo struct {
	Index    int     // Dataset index
	Position int     // Position within the virtualized subset
	Offset   float64 // Vertical offset of the row's top edge
	Cells    []CellInfo
}

// CellInfo is one cell of a row
type CellInfo struct {
	Value       string
	Style       safehtml.Style
	PinnedLeft  bool
	PinnedRight bool
}

// PageLink is one entry of the page button strip
type PageLink struct {
	Label    string
	URL      safehtml.URL
	Current  bool
	Ellipsis bool
}

// ColumnInfo contains information about a column for the column menu
type ColumnInfo struct {
	ID              string
	DisplayName     string
	IsVisible       bool
	ToggleColumnURL safehtml.URL // URL to toggle column visibility (preserves all query params)
}

// TimingInfo is one timing line shown in the page footer
type TimingInfo struct {
	Name       string
	DurationMs float64
}

// LandingViewModel lists the grids a server offers
type LandingViewModel struct {
	Title    string
	Subtitle string
	Tables   []TableInfo
}

// TableInfo describes one grid on the landing page
type TableInfo struct {
	Name        string
	Description string
	URL         safehtml.URL
	SourceType  string
	RecordCount int
	ColumnCount int
}

// BuildGridViewModel builds the template view model for the engine's current
// frame. q must describe the engine's state (see query.Capture) so that every
// link is the current URL plus one change.
func BuildGridViewModel(title string, e *grid.Engine, q *query.Query) GridViewModel {
	frame := e.View()

	vm := GridViewModel{
		Title:        title,
		Session:      q.Session,
		Query:        frame.Query,
		CurrentURL:   q.ToSafeURL(),
		ClearURL:     q.WithQueryText(""),
		Headers:      make([]HeaderInfo, 0, len(frame.Columns)),
		Rows:         make([]RowInfo, 0, len(frame.Rows)),
		TopSpacer:    heightStyle(frame.TopPadding),
		BottomSpacer: heightStyle(frame.BottomPadding),
		TotalHeight:  frame.TotalHeight,
		TotalWidth:   frame.TotalWidth,
		ScrollOffset: frame.ScrollOffset,
		Paginated:    frame.Paginated,
		Summary:      Summary(frame.Pagination),
		VisibleCount: frame.VisibleCount,
		ColumnCount:  frame.ColumnCount,
	}

	if u, err := url.Parse(q.ToURL()); err == nil {
		values := u.Query()
		vm.Form = FormState{
			Table:    values.Get("table"),
			Session:  values.Get("session"),
			Order:    values.Get("order"),
			Hidden:   values.Get("hidden"),
			Pin:      values.Get("pin"),
			Widths:   values.Get("widths"),
			Viewport: values.Get("viewport"),
		}
	}

	natural := make([]string, 0, frame.ColumnCount)
	for _, def := range e.Columns().Defs() {
		natural = append(natural, def.ID())
	}

	for _, col := range frame.Columns {
		narrower := col.Width - ResizeStep
		if def := e.Columns().Def(col.ID); def != nil {
			narrower = max(narrower, def.MinWidth())
		}
		vm.Headers = append(vm.Headers, HeaderInfo{
			ID:           col.ID,
			DisplayName:  col.DisplayName,
			Width:        col.Width,
			Start:        col.Start,
			VisibleIndex: col.VisibleIndex,
			PinnedLeft:   col.Pin == columns.PinLeft,
			PinnedRight:  col.Pin == columns.PinRight,
			CanPin:       col.CanPin,
			CanResize:    col.CanResize,
			Style:        widthStyle(col.Width),
			HideURL:      q.WithColumnToggled(col.ID),
			PinLeftURL:   q.WithPin(col.ID, columns.PinLeft),
			PinRightURL:  q.WithPin(col.ID, columns.PinRight),
			UnpinURL:     q.WithPin(col.ID, columns.PinNone),
			MoveLeftURL:  q.WithMove(natural, col.VisibleIndex, col.VisibleIndex-1),
			MoveRightURL: q.WithMove(natural, col.VisibleIndex, col.VisibleIndex+1),
			WiderURL:     q.WithWidth(col.ID, col.Width+ResizeStep),
			NarrowerURL:  q.WithWidth(col.ID, narrower),
			IsFirst:      col.VisibleIndex == 0,
			IsLast:       col.VisibleIndex == frame.VisibleCount-1,
		})
	}

	for _, slot := range frame.Rows {
		row := RowInfo{
			Index:    slot.RowIndex,
			Position: slot.Position,
			Offset:   slot.Offset,
			Cells:    make([]CellInfo, len(slot.Cells)),
		}
		for i, value := range slot.Cells {
			col := frame.Columns[i]
			row.Cells[i] = CellInfo{
				Value:       value,
				Style:       widthStyle(col.Width),
				PinnedLeft:  col.Pin == columns.PinLeft,
				PinnedRight: col.Pin == columns.PinRight,
			}
		}
		vm.Rows = append(vm.Rows, row)
	}

	summary := frame.Pagination
	if summary.FilteredCount != summary.TotalCount {
		vm.FilteredOf = fmt.Sprintf("%d of %d rows", summary.FilteredCount, summary.TotalCount)
	}
	if frame.Paginated {
		vm.HasPrev = summary.PageIndex > 0
		vm.HasNext = summary.PageIndex < summary.PageCount-1
		vm.PrevURL = q.WithPage(summary.PageIndex - 1)
		vm.NextURL = q.WithPage(summary.PageIndex + 1)
		for _, button := range frame.PageButtons {
			link := PageLink{Ellipsis: button.Ellipsis, Current: button.Current}
			if !button.Ellipsis {
				link.Label = strconv.Itoa(button.Page + 1)
				link.URL = q.WithPage(button.Page)
			} else {
				link.Label = "…"
			}
			vm.PageLinks = append(vm.PageLinks, link)
		}
	}

	// Column menu lists every column in its current order, hidden ones included
	for _, id := range e.Columns().Order() {
		def := e.Columns().Def(id)
		vm.AllColumns = append(vm.AllColumns, ColumnInfo{
			ID:              id,
			DisplayName:     def.DisplayName(),
			IsVisible:       !q.IsColumnHidden(id),
			ToggleColumnURL: q.WithColumnToggled(id),
		})
	}

	return vm
}

// Summary formats the "Showing X to Y of Z" line.
func Summary(s pagination.Summary) string {
	if s.FilteredCount == 0 {
		return "No matching rows"
	}
	return fmt.Sprintf("Showing %d to %d of %d", s.FirstRow, s.LastRow, s.FilteredCount)
}

func widthStyle(width int) safehtml.Style {
	return safehtml.StyleFromProperties(safehtml.StyleProperties{
		Width: strconv.Itoa(width) + "px",
	})
}

func heightStyle(height float64) safehtml.Style {
	return safehtml.StyleFromProperties(safehtml.StyleProperties{
		Height: strconv.FormatFloat(height, 'f', -1, 64) + "px",
	})
}
