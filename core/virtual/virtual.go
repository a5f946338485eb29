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

// Package virtual computes which rows of a fixed-row-height list intersect a
// scrolled viewport.
package virtual

import "math"

const (
	DefaultRowHeight = 40.0
	DefaultOverscan  = 5
)

// Params are the layout inputs of a window computation.
type Params struct {
	Count          int
	ScrollOffset   float64
	ViewportHeight float64
	RowHeight      float64
	Overscan       int
}

// Item is one materialized row of a window.
type Item struct {
	Index int
	Start float64
	Size  float64
}

// Window is the contiguous range [First, Last] of rows to render plus the space
// to reserve above and below it. An empty window has Last < First.
type Window struct {
	First         int
	Last          int
	RowHeight     float64
	TopPadding    float64
	BottomPadding float64
	TotalHeight   float64
}

func (w Window) Len() int {
	if w.Last < w.First {
		return 0
	}
	return w.Last - w.First + 1
}

func (w Window) Empty() bool {
	return w.Len() == 0
}

// Contains reports whether row i is inside the window.
func (w Window) Contains(i int) bool {
	return i >= w.First && i <= w.Last
}

// Items lists the window's rows with their vertical offsets.
func (w Window) Items() []Item {
	items := make([]Item, 0, w.Len())
	for i := w.First; i <= w.Last; i++ {
		items = append(items, Item{Index: i, Start: float64(i) * w.RowHeight, Size: w.RowHeight})
	}
	return items
}

func (p Params) normalized() Params {
	if p.Count < 0 {
		p.Count = 0
	}
	if p.RowHeight <= 0 || math.IsNaN(p.RowHeight) || math.IsInf(p.RowHeight, 0) {
		p.RowHeight = DefaultRowHeight
	}
	if p.ScrollOffset < 0 || math.IsNaN(p.ScrollOffset) || math.IsInf(p.ScrollOffset, 0) {
		p.ScrollOffset = 0
	}
	if p.ViewportHeight < 0 || math.IsNaN(p.ViewportHeight) || math.IsInf(p.ViewportHeight, 0) {
		p.ViewportHeight = 0
	}
	if p.Overscan < 0 {
		p.Overscan = 0
	}
	return p
}

// Compute returns the window for p. It depends on p alone.
func Compute(p Params) Window {
	p = p.normalized()
	n := p.Count
	w := Window{
		First:       0,
		Last:        -1,
		RowHeight:   p.RowHeight,
		TotalHeight: float64(n) * p.RowHeight,
	}
	if n == 0 {
		return w
	}

	// clamp in float space so very large offsets cannot overflow int
	top := float64(n - 1)
	first := int(math.Max(0, math.Min(math.Floor(p.ScrollOffset/p.RowHeight)-float64(p.Overscan), top)))
	last := int(math.Min(top, math.Ceil((p.ScrollOffset+p.ViewportHeight)/p.RowHeight)+float64(p.Overscan)))

	w.First = first
	w.Last = last
	w.TopPadding = float64(first) * p.RowHeight
	w.BottomPadding = float64(n-1-last) * p.RowHeight
	return w
}

// MaxScroll is the largest useful scroll offset for count rows in a viewport.
func MaxScroll(count int, rowHeight, viewportHeight float64) float64 {
	p := Params{Count: count, RowHeight: rowHeight, ViewportHeight: viewportHeight}.normalized()
	return math.Max(0, float64(p.Count)*p.RowHeight-p.ViewportHeight)
}
