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

package rendering

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/grid"
	"github.com/google/vgrid/core/views"
	"github.com/mattn/go-runewidth"
)

// ASCIIOptions control plain text rendering.
type ASCIIOptions struct {
	// PixelsPerCell converts column widths to terminal cells. Defaults to 10.
	PixelsPerCell int
	// MinCells is the narrowest a rendered column gets. Defaults to 3.
	MinCells int
}

// CellWidth converts a column width in pixels to terminal cells.
func (o ASCIIOptions) CellWidth(pixels int) int {
	ppc := o.PixelsPerCell
	if ppc <= 0 {
		ppc = 10
	}
	minCells := o.MinCells
	if minCells <= 0 {
		minCells = 3
	}
	return max(minCells, pixels/ppc)
}

// RenderASCII writes the frame as a plain text table: a header line, a rule, one
// line per materialized row and the pagination summary. Pinned columns are
// marked in the header. Wide runes are measured with their display width.
func RenderASCII(w io.Writer, vm grid.ViewModel, opts ASCIIOptions) error {
	bw := bufio.NewWriter(w)

	widths := make([]int, len(vm.Columns))
	headers := make([]string, len(vm.Columns))
	for i, col := range vm.Columns {
		widths[i] = opts.CellWidth(col.Width)
		header := col.DisplayName
		switch col.Pin {
		case columns.PinLeft:
			header = "<" + header
		case columns.PinRight:
			header = header + ">"
		}
		headers[i] = header
	}

	writeLine(bw, headers, widths)
	rules := make([]string, len(widths))
	for i, width := range widths {
		rules[i] = strings.Repeat("-", width)
	}
	fmt.Fprintln(bw, strings.Join(rules, "-+-"))

	for _, row := range vm.Rows {
		writeLine(bw, row.Cells, widths)
	}

	fmt.Fprintln(bw, views.Summary(vm.Pagination))
	if vm.Paginated {
		fmt.Fprintf(bw, "Page %d of %d\n", vm.Pagination.PageIndex+1, vm.Pagination.PageCount)
	}
	return bw.Flush()
}

// FitCell truncates or pads s to exactly width display cells.
func FitCell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

func writeLine(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(widths))
	for i, width := range widths {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		parts[i] = FitCell(value, width)
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, " | "), " "))
}
