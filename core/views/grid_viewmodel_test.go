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
	"testing"

	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/grid"
	"github.com/google/vgrid/core/pagination"
	"github.com/google/vgrid/core/query"
	"github.com/google/vgrid/core/tables"
)

func newTestEngine(t *testing.T, rows, cols int) *grid.Engine {
	t.Helper()
	defs := make([]*columns.ColumnDef, cols)
	for c := range defs {
		defs[c] = columns.NewColumnDef(fmt.Sprintf("col_%d", c+1), fmt.Sprintf("Column %d", c+1), 0, 0)
	}
	table, err := tables.NewDataTable(defs)
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < rows; r++ {
		values := make([]string, cols)
		for c := range values {
			values[c] = fmt.Sprintf("%d.%d", r, c+1)
		}
		if err := table.AppendRow(values...); err != nil {
			t.Fatal(err)
		}
	}
	e, err := grid.New(table, grid.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func followLink(t *testing.T, link fmt.Stringer) *query.Query {
	t.Helper()
	u, err := url.Parse(link.String())
	if err != nil {
		t.Fatalf("bad link %q: %v", link.String(), err)
	}
	return query.NewQuery(u)
}

func TestBuildGridViewModel(t *testing.T) {
	e := newTestEngine(t, 2000, 4)
	vm := BuildGridViewModel("Grid", e, query.Capture("/grid", "t", "s1", e))

	if vm.Title != "Grid" || vm.Session != "s1" {
		t.Errorf("Unexpected title/session %q %q", vm.Title, vm.Session)
	}
	if len(vm.Headers) != 4 || len(vm.Rows) != 10 {
		t.Fatalf("Expected 4 headers and 10 rows, got %d and %d", len(vm.Headers), len(vm.Rows))
	}
	if vm.Summary != "Showing 1 to 10 of 2000" {
		t.Errorf("Unexpected summary %q", vm.Summary)
	}
	if vm.FilteredOf != "" {
		t.Errorf("Expected no filtered count without a filter, got %q", vm.FilteredOf)
	}
	if vm.Rows[3].Cells[2].Value != "3.3" {
		t.Errorf("Unexpected cell %q", vm.Rows[3].Cells[2].Value)
	}
	if !vm.Headers[0].IsFirst || !vm.Headers[3].IsLast || vm.Headers[1].IsFirst {
		t.Error("Unexpected first/last flags")
	}
	if vm.HasPrev || !vm.HasNext {
		t.Errorf("Expected only a next link on the first page")
	}

	var labels []string
	for _, link := range vm.PageLinks {
		labels = append(labels, link.Label)
	}
	expected := []string{"1", "2", "3", "…", "200"}
	if !equalStringSlices(labels, expected) {
		t.Errorf("Expected page links %v, got %v", expected, labels)
	}
	if !vm.PageLinks[0].Current || vm.PageLinks[1].Current {
		t.Error("Expected the first link to be current")
	}
	if q := followLink(t, vm.PageLinks[4].URL); q.Page != 199 || q.Session != "s1" {
		t.Errorf("Expected last page link to page 199 of s1, got %d %q", q.Page, q.Session)
	}
}

func TestHeaderLinks(t *testing.T) {
	e := newTestEngine(t, 5, 3)
	vm := BuildGridViewModel("Grid", e, query.Capture("/grid", "t", "s1", e))
	h := vm.Headers[1]

	if q := followLink(t, h.HideURL); !equalStringSlices(q.Hidden, []string{"col_2"}) {
		t.Errorf("Hide link hides %v", q.Hidden)
	}
	if q := followLink(t, h.PinLeftURL); q.Pins["col_2"] != columns.PinLeft {
		t.Errorf("Pin link pins %v", q.Pins)
	}
	if q := followLink(t, h.MoveRightURL); !equalStringSlices(q.Order, []string{"col_1", "col_3", "col_2"}) {
		t.Errorf("Move right link gives %v", q.Order)
	}
	if q := followLink(t, h.WiderURL); q.Widths["col_2"] != columns.DefaultWidth+ResizeStep {
		t.Errorf("Wider link gives %v", q.Widths)
	}
}

func TestNarrowerLinkStopsAtMinWidth(t *testing.T) {
	table, err := tables.NewDataTable([]*columns.ColumnDef{columns.NewColumnDef("a", "A", 100, 10)})
	if err != nil {
		t.Fatal(err)
	}
	if err := table.AppendRow("x"); err != nil {
		t.Fatal(err)
	}
	e, err := grid.New(table, grid.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	e.Resize("a", 15)

	vm := BuildGridViewModel("Grid", e, query.Capture("/grid", "t", "s1", e))
	q := followLink(t, vm.Headers[0].NarrowerURL)
	if q.Widths["a"] != 10 {
		t.Errorf("Expected the narrower link to stop at 10, got %v", q.Widths)
	}
	q.Apply(e)
	if got := e.Columns().Width("a"); got != 10 {
		t.Errorf("Expected width 10 after following the narrower link, got %d", got)
	}

	// at the minimum the link keeps the width where it is
	vm = BuildGridViewModel("Grid", e, query.Capture("/grid", "t", "s1", e))
	followLink(t, vm.Headers[0].NarrowerURL).Apply(e)
	if got := e.Columns().Width("a"); got != 10 {
		t.Errorf("Expected width to stay 10, got %d", got)
	}
}

func TestColumnMenu(t *testing.T) {
	e := newTestEngine(t, 5, 3)
	e.ToggleVisibility("col_1")
	vm := BuildGridViewModel("Grid", e, query.Capture("/grid", "t", "", e))

	if vm.VisibleCount != 2 || vm.ColumnCount != 3 {
		t.Errorf("Expected 2 of 3 columns, got %d of %d", vm.VisibleCount, vm.ColumnCount)
	}
	if len(vm.AllColumns) != 3 || vm.AllColumns[0].IsVisible || !vm.AllColumns[1].IsVisible {
		t.Errorf("Unexpected column menu %+v", vm.AllColumns)
	}
	if q := followLink(t, vm.AllColumns[0].ToggleColumnURL); len(q.Hidden) != 0 {
		t.Errorf("Expected the toggle link to show col_1 again, got hidden %v", q.Hidden)
	}
}

func TestFilteredSummary(t *testing.T) {
	e := newTestEngine(t, 30, 2)
	e.SetQuery("zzz")
	vm := BuildGridViewModel("Grid", e, query.Capture("/grid", "t", "", e))

	if vm.Summary != "No matching rows" || vm.FilteredOf != "0 of 30 rows" {
		t.Errorf("Unexpected summary %q / %q", vm.Summary, vm.FilteredOf)
	}
	if len(vm.Rows) != 0 || len(vm.PageLinks) != 1 {
		t.Errorf("Expected no rows and a single page link, got %d rows %d links", len(vm.Rows), len(vm.PageLinks))
	}
	if q := followLink(t, vm.ClearURL); q.Text != "" {
		t.Errorf("Clear link keeps query %q", q.Text)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		summary  pagination.Summary
		expected string
	}{
		{pagination.Summary{FilteredCount: 0}, "No matching rows"},
		{pagination.Summary{FilteredCount: 5, FirstRow: 5, LastRow: 5}, "Showing 5 to 5 of 5"},
		{pagination.Summary{FilteredCount: 25, FirstRow: 11, LastRow: 20}, "Showing 11 to 20 of 25"},
	}
	for _, tt := range tests {
		if got := Summary(tt.summary); got != tt.expected {
			t.Errorf("Summary(%+v) = %q, want %q", tt.summary, got, tt.expected)
		}
	}
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFormState(t *testing.T) {
	e := newTestEngine(t, 5, 3)
	e.ToggleVisibility("col_3")
	e.SetPin("col_1", columns.PinRight)
	vm := BuildGridViewModel("Grid", e, query.Capture("/grid", "t", "abc", e))

	expected := FormState{Table: "t", Session: "abc", Hidden: "col_3", Pin: "col_1:right"}
	if vm.Form != expected {
		t.Errorf("Expected form %+v, got %+v", expected, vm.Form)
	}

	e.SetViewport(300)
	vm = BuildGridViewModel("Grid", e, query.Capture("/grid", "t", "abc", e))
	if vm.Form.Viewport != "300" {
		t.Errorf("Expected the form to carry viewport 300, got %q", vm.Form.Viewport)
	}
}
