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

package virtual

import (
	"testing"
)

func TestComputeAtTop(t *testing.T) {
	w := Compute(Params{Count: 2000, ScrollOffset: 0, ViewportHeight: 580, RowHeight: 40, Overscan: 5})

	// ceil(580/40) = 15, plus overscan
	if w.First != 0 || w.Last != 20 {
		t.Errorf("Expected [0, 20], got [%d, %d]", w.First, w.Last)
	}
	if w.TopPadding != 0 {
		t.Errorf("Expected no top padding, got %v", w.TopPadding)
	}
	if w.BottomPadding != float64(2000-1-20)*40 {
		t.Errorf("Unexpected bottom padding %v", w.BottomPadding)
	}
	if w.TotalHeight != 80000 {
		t.Errorf("Expected total height 80000, got %v", w.TotalHeight)
	}
}

func TestComputeMidScroll(t *testing.T) {
	w := Compute(Params{Count: 100, ScrollOffset: 410, ViewportHeight: 200, RowHeight: 40, Overscan: 2})

	// floor(410/40)=10 -> 8; ceil(610/40)=16 -> 18
	if w.First != 8 || w.Last != 18 {
		t.Errorf("Expected [8, 18], got [%d, %d]", w.First, w.Last)
	}
	if w.TopPadding != 320 || w.BottomPadding != float64(100-1-18)*40 {
		t.Errorf("Unexpected paddings top=%v bottom=%v", w.TopPadding, w.BottomPadding)
	}
	// padding plus materialized rows cover the content height
	if w.TopPadding+float64(w.Len())*40+w.BottomPadding != w.TotalHeight {
		t.Errorf("Paddings and rows do not add up to total height")
	}
}

func TestComputeAtBottom(t *testing.T) {
	w := Compute(Params{Count: 50, ScrollOffset: 50*40 - 200, ViewportHeight: 200, RowHeight: 40, Overscan: 3})
	if w.Last != 49 {
		t.Errorf("Expected last row 49, got %d", w.Last)
	}
	if w.BottomPadding != 0 {
		t.Errorf("Expected no bottom padding at the edge, got %v", w.BottomPadding)
	}
}

func TestComputeEmpty(t *testing.T) {
	w := Compute(Params{Count: 0, ScrollOffset: 100, ViewportHeight: 580, RowHeight: 40, Overscan: 5})
	if !w.Empty() || w.Len() != 0 {
		t.Errorf("Expected empty window, got [%d, %d]", w.First, w.Last)
	}
	if w.TotalHeight != 0 || w.TopPadding != 0 || w.BottomPadding != 0 {
		t.Errorf("Expected zero heights, got %+v", w)
	}
	if len(w.Items()) != 0 {
		t.Errorf("Expected no items")
	}
}

func TestComputeOverscroll(t *testing.T) {
	w := Compute(Params{Count: 10, ScrollOffset: 1e12, ViewportHeight: 100, RowHeight: 40, Overscan: 1})
	if w.First != 9 || w.Last != 9 {
		t.Errorf("Expected [9, 9] past the end, got [%d, %d]", w.First, w.Last)
	}
}

func TestComputeSanitizesInputs(t *testing.T) {
	w := Compute(Params{Count: 30, ScrollOffset: -50, ViewportHeight: -1, RowHeight: 0, Overscan: -3})
	if w.RowHeight != DefaultRowHeight {
		t.Errorf("Expected default row height, got %v", w.RowHeight)
	}
	if w.First != 0 || w.Last != 0 {
		t.Errorf("Expected [0, 0], got [%d, %d]", w.First, w.Last)
	}
}

func TestComputeIsPure(t *testing.T) {
	p := Params{Count: 777, ScrollOffset: 1234.5, ViewportHeight: 580, RowHeight: 40, Overscan: 5}
	a := Compute(p)
	b := Compute(p)
	if a != b {
		t.Errorf("Expected identical windows, got %+v and %+v", a, b)
	}
}

func TestComputeMonotonicInScroll(t *testing.T) {
	for _, count := range []int{1, 7, 100, 1000} {
		prev := Compute(Params{Count: count, ViewportHeight: 300, RowHeight: 37, Overscan: 4})
		for s := 0.0; s < float64(count)*37+500; s += 13 {
			w := Compute(Params{Count: count, ScrollOffset: s, ViewportHeight: 300, RowHeight: 37, Overscan: 4})
			if w.First < prev.First || w.Last < prev.Last {
				t.Fatalf("count=%d scroll=%v: window [%d,%d] went back from [%d,%d]", count, s, w.First, w.Last, prev.First, prev.Last)
			}
			if w.First < 0 || w.Last > count-1 || w.First > w.Last {
				t.Fatalf("count=%d scroll=%v: window [%d,%d] outside [0,%d]", count, s, w.First, w.Last, count-1)
			}
			prev = w
		}
	}
}

func TestItems(t *testing.T) {
	w := Compute(Params{Count: 10, ScrollOffset: 80, ViewportHeight: 40, RowHeight: 40, Overscan: 0})
	items := w.Items()
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Index != 2 || items[0].Start != 80 || items[0].Size != 40 {
		t.Errorf("Unexpected first item %+v", items[0])
	}
	if items[1].Index != 3 || items[1].Start != 120 {
		t.Errorf("Unexpected second item %+v", items[1])
	}
}

func TestMaxScroll(t *testing.T) {
	if got := MaxScroll(10, 40, 100); got != 300 {
		t.Errorf("Expected 300, got %v", got)
	}
	if got := MaxScroll(2, 40, 580); got != 0 {
		t.Errorf("Expected 0 when content fits, got %v", got)
	}
}
