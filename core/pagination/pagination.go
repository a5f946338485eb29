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

// Package pagination slices a row subset into fixed-size pages.
package pagination

const (
	DefaultPageSize = 10
	// DefaultMaxButtons is the size of the page button strip.
	DefaultMaxButtons = 7
)

// PageCount is max(1, ceil(rowCount/pageSize)).
func PageCount(rowCount, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if rowCount <= 0 {
		return 1
	}
	return (rowCount + pageSize - 1) / pageSize
}

// Controller holds the page index for a subset of a known size. The page index
// always satisfies 0 <= pageIndex < PageCount().
type Controller struct {
	pageIndex int
	pageSize  int
	rowCount  int
}

// NewController creates a controller on page 0. A non-positive size falls back
// to DefaultPageSize.
func NewController(pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{pageSize: pageSize}
}

func (c *Controller) PageIndex() int {
	return c.pageIndex
}

func (c *Controller) PageSize() int {
	return c.pageSize
}

func (c *Controller) RowCount() int {
	return c.rowCount
}

func (c *Controller) PageCount() int {
	return PageCount(c.rowCount, c.pageSize)
}

// SetRowCount records the size of the subset being paged and clamps the page
// index back into range when the subset shrank.
func (c *Controller) SetRowCount(rowCount int) {
	if rowCount < 0 {
		rowCount = 0
	}
	c.rowCount = rowCount
	if last := c.PageCount() - 1; c.pageIndex > last {
		c.pageIndex = last
	}
}

// Bounds returns the half-open range [start, end) of the current page.
func (c *Controller) Bounds() (start, end int) {
	start = c.pageIndex * c.pageSize
	end = min(c.rowCount, start+c.pageSize)
	if start > end {
		start = end
	}
	return start, end
}

// Slice returns the current page of rows. It updates the row count from rows
// first, so the page index is clamped against the subset it slices.
func (c *Controller) Slice(rows []int) []int {
	c.SetRowCount(len(rows))
	start, end := c.Bounds()
	return rows[start:end]
}

func (c *Controller) CanPreviousPage() bool {
	return c.pageIndex > 0
}

func (c *Controller) CanNextPage() bool {
	return c.pageIndex < c.PageCount()-1
}

// NextPage advances one page; it is a no-op on the last page.
func (c *Controller) NextPage() bool {
	if !c.CanNextPage() {
		return false
	}
	c.pageIndex++
	return true
}

// PreviousPage goes back one page; it is a no-op on the first page.
func (c *Controller) PreviousPage() bool {
	if !c.CanPreviousPage() {
		return false
	}
	c.pageIndex--
	return true
}

// SetPageIndex jumps to page i. Out of range indices are ignored.
func (c *Controller) SetPageIndex(i int) bool {
	if i < 0 || i >= c.PageCount() || i == c.pageIndex {
		return false
	}
	c.pageIndex = i
	return true
}

func (c *Controller) FirstPage() bool {
	return c.SetPageIndex(0)
}

func (c *Controller) LastPage() bool {
	return c.SetPageIndex(c.PageCount() - 1)
}

// Reset returns to page 0.
func (c *Controller) Reset() {
	c.pageIndex = 0
}

// Summary describes the current page for display.
type Summary struct {
	PageIndex     int
	PageCount     int
	FilteredCount int
	TotalCount    int
	// FirstRow and LastRow are the 1-based bounds of the rows on this page, both 0
	// when there are none.
	FirstRow int
	LastRow  int
}

// Summarize reports the current page against totalCount unfiltered rows.
func (c *Controller) Summarize(totalCount int) Summary {
	start, end := c.Bounds()
	s := Summary{
		PageIndex:     c.pageIndex,
		PageCount:     c.PageCount(),
		FilteredCount: c.rowCount,
		TotalCount:    totalCount,
	}
	if end > start {
		s.FirstRow = start + 1
		s.LastRow = end
	}
	return s
}

// Button is one entry in a page button strip: a page index or an ellipsis.
type Button struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// Buttons lays out the page strip. With at most maxButtons pages every page is
// listed; otherwise the first and last pages are kept, with up to two neighbours
// on each side of the current page and ellipses over the gaps.
func Buttons(pageIndex, pageCount, maxButtons int) []Button {
	if maxButtons <= 0 {
		maxButtons = DefaultMaxButtons
	}
	var buttons []Button
	page := func(i int) {
		buttons = append(buttons, Button{Page: i, Current: i == pageIndex})
	}
	if pageCount <= maxButtons {
		for i := 0; i < pageCount; i++ {
			page(i)
		}
		return buttons
	}

	left := max(1, pageIndex-2)
	right := min(pageCount-2, pageIndex+2)
	page(0)
	if left > 1 {
		buttons = append(buttons, Button{Page: -1, Ellipsis: true})
	}
	for i := left; i <= right; i++ {
		page(i)
	}
	if right < pageCount-2 {
		buttons = append(buttons, Button{Page: -1, Ellipsis: true})
	}
	page(pageCount - 1)
	return buttons
}
