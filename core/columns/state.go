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

// State holds the per-column presentation state of a grid: order, visibility,
// pin side and width. Commands never fail; an invalid command leaves the state
// untouched and reports false.
type State struct {
	defs   []*ColumnDef
	byID   map[string]*ColumnDef
	order  []string
	hidden map[string]bool
	pin    map[string]PinSide
	width  map[string]int
}

// Projection is one rendered column.
type Projection struct {
	ID          string
	DisplayName string
	Width       int
	Pin         PinSide
	// VisibleIndex is the column's position in the visible leaf order, the index
	// space used by MoveColumn and drag reordering.
	VisibleIndex int
	// Start is the x offset of the column's left edge within the projection.
	Start     int
	CanResize bool
	CanPin    bool
}

// NewState creates the initial state for defs: natural order, all visible,
// unpinned, initial widths.
func NewState(defs []*ColumnDef) (*State, error) {
	if err := ValidateDefs(defs); err != nil {
		return nil, err
	}
	s := &State{
		defs: append([]*ColumnDef(nil), defs...),
		byID: make(map[string]*ColumnDef, len(defs)),
	}
	for _, def := range defs {
		s.byID[def.id] = def
	}
	s.Reset()
	return s, nil
}

// Reset returns the state to what NewState produced.
func (s *State) Reset() {
	s.order = make([]string, len(s.defs))
	s.hidden = make(map[string]bool)
	s.pin = make(map[string]PinSide, len(s.defs))
	s.width = make(map[string]int, len(s.defs))
	for i, def := range s.defs {
		s.order[i] = def.id
		s.pin[def.id] = PinNone
		s.width[def.id] = def.InitialWidth()
	}
}

// Defs returns the column definitions in their natural order.
func (s *State) Defs() []*ColumnDef {
	return append([]*ColumnDef(nil), s.defs...)
}

// Def returns the definition for id, or nil.
func (s *State) Def(id string) *ColumnDef {
	return s.byID[id]
}

// Order returns a copy of the full column order, hidden columns included.
func (s *State) Order() []string {
	return append([]string(nil), s.order...)
}

// VisibleOrder returns the order without hidden columns.
func (s *State) VisibleOrder() []string {
	visible := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if !s.hidden[id] {
			visible = append(visible, id)
		}
	}
	return visible
}

func (s *State) VisibleCount() int {
	return len(s.order) - len(s.hidden)
}

func (s *State) TotalCount() int {
	return len(s.order)
}

func (s *State) IsVisible(id string) bool {
	_, ok := s.byID[id]
	return ok && !s.hidden[id]
}

// Hidden returns the hidden ids in column order.
func (s *State) Hidden() []string {
	hidden := make([]string, 0, len(s.hidden))
	for _, id := range s.order {
		if s.hidden[id] {
			hidden = append(hidden, id)
		}
	}
	return hidden
}

func (s *State) Pin(id string) PinSide {
	return s.pin[id]
}

func (s *State) Width(id string) int {
	return s.width[id]
}

// SetOrder replaces the order if newOrder is a permutation of the column ids.
func (s *State) SetOrder(newOrder []string) bool {
	if len(newOrder) != len(s.order) {
		return false
	}
	seen := make(map[string]bool, len(newOrder))
	for _, id := range newOrder {
		if _, ok := s.byID[id]; !ok || seen[id] {
			return false
		}
		seen[id] = true
	}
	s.order = append(s.order[:0], newOrder...)
	return true
}

// MoveColumn moves the visible column at from to position to, both indices in the
// visible leaf order. Hidden columns keep their positions in the full order.
// Indices are clamped to the visible range.
func (s *State) MoveColumn(from, to int) bool {
	order, ok := MoveVisible(s.order, s.hidden, from, to)
	if !ok {
		return false
	}
	s.order = order
	return true
}

// MoveVisible applies a visible-order move to a full column order and returns the
// new order. Ids in hidden keep their slots. It reports false, returning order
// unchanged, when there is nothing to move.
func MoveVisible(order []string, hidden map[string]bool, from, to int) ([]string, bool) {
	visible := make([]string, 0, len(order))
	for _, id := range order {
		if !hidden[id] {
			visible = append(visible, id)
		}
	}
	n := len(visible)
	if n == 0 {
		return order, false
	}
	from = clamp(from, 0, n-1)
	to = clamp(to, 0, n-1)
	if from == to {
		return order, false
	}

	moved := visible[from]
	visible = append(visible[:from], visible[from+1:]...)
	visible = append(visible[:to], append([]string{moved}, visible[to:]...)...)

	// write the visible sequence back into the visible slots
	result := make([]string, len(order))
	vi := 0
	for i, id := range order {
		if hidden[id] {
			result[i] = id
			continue
		}
		result[i] = visible[vi]
		vi++
	}
	return result, true
}

// ToggleVisibility hides a visible column or shows a hidden one.
func (s *State) ToggleVisibility(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	if s.hidden[id] {
		delete(s.hidden, id)
	} else {
		s.hidden[id] = true
	}
	return true
}

// SetPin anchors id to side. Columns that cannot pin only accept PinNone.
func (s *State) SetPin(id string, side PinSide) bool {
	def, ok := s.byID[id]
	if !ok || !side.Valid() {
		return false
	}
	if side != PinNone && !def.canPin {
		return false
	}
	if s.pin[id] == side {
		return false
	}
	s.pin[id] = side
	return true
}

// Resize sets the width of id, never below its minimum width.
func (s *State) Resize(id string, newWidth int) bool {
	def, ok := s.byID[id]
	if !ok || !def.canResize {
		return false
	}
	w := max(newWidth, def.minWidth)
	if s.width[id] == w {
		return false
	}
	s.width[id] = w
	return true
}

// Project returns the rendered column sequence: pinned-left columns, then
// unpinned, then pinned-right, each group in order position. Hidden columns are
// omitted.
func (s *State) Project() []Projection {
	var left, center, right []Projection
	for vi, id := range s.VisibleOrder() {
		def := s.byID[id]
		p := Projection{
			ID:           id,
			DisplayName:  def.displayName,
			Width:        s.width[id],
			Pin:          s.pin[id],
			VisibleIndex: vi,
			CanResize:    def.canResize,
			CanPin:       def.canPin,
		}
		switch p.Pin {
		case PinLeft:
			left = append(left, p)
		case PinRight:
			right = append(right, p)
		default:
			center = append(center, p)
		}
	}

	projected := make([]Projection, 0, len(left)+len(center)+len(right))
	projected = append(projected, left...)
	projected = append(projected, center...)
	projected = append(projected, right...)

	x := 0
	for i := range projected {
		projected[i].Start = x
		x += projected[i].Width
	}
	return projected
}

// TotalWidth is the summed width of the visible columns.
func (s *State) TotalWidth() int {
	total := 0
	for _, id := range s.order {
		if !s.hidden[id] {
			total += s.width[id]
		}
	}
	return total
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
