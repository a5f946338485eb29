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

package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/safehtml"
	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/grid"
)

// Query represents the grid state carried by a grid URL
type Query struct {
	// Base path (e.g., "/grid")
	Path string

	Table    string                     // Table the grid shows
	Session  string                     // Session the URL belongs to
	Text     string                     // Global filter text (q)
	Page     int                        // Zero-based page index
	Scroll   float64                    // Vertical scroll offset in pixels
	Viewport float64                    // Viewport height in pixels (0 = engine default)
	Order    []string                   // Full column order, hidden columns included (empty = natural order)
	Hidden   []string                   // Hidden column ids
	Pins     map[string]columns.PinSide // Pinned columns (columnID -> side)
	Widths   map[string]int             // Resized columns (columnID -> width)
}

// NewQuery creates a Query from a URL
func NewQuery(u *url.URL) *Query {
	state := &Query{
		Path:   u.Path,
		Pins:   make(map[string]columns.PinSide),
		Widths: make(map[string]int),
	}

	q := u.Query()

	state.Table = q.Get("table")
	state.Session = q.Get("session")
	state.Text = q.Get("q")

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page >= 0 {
		state.Page = page
	}
	if scroll, err := strconv.ParseFloat(q.Get("scroll"), 64); err == nil && scroll >= 0 {
		state.Scroll = scroll
	}
	if viewport, err := strconv.ParseFloat(q.Get("viewport"), 64); err == nil && viewport > 0 {
		state.Viewport = viewport
	}

	state.Order = splitList(q.Get("order"))
	state.Hidden = splitList(q.Get("hidden"))

	// Extract pin parameter (format: col1:left,col2:right)
	for _, part := range splitList(q.Get("pin")) {
		colonIdx := strings.LastIndex(part, ":")
		if colonIdx == -1 {
			continue
		}
		side, err := columns.ParsePinSide(part[colonIdx+1:])
		if err != nil || side == columns.PinNone {
			continue
		}
		state.Pins[part[:colonIdx]] = side
	}

	// Extract widths parameter (format: col1:200,col2:90). Widths below a
	// column's minimum are kept; Resize clamps them on Apply.
	for _, part := range splitList(q.Get("widths")) {
		colonIdx := strings.LastIndex(part, ":")
		if colonIdx == -1 {
			continue
		}
		if width, err := strconv.Atoi(part[colonIdx+1:]); err == nil {
			state.Widths[part[:colonIdx]] = width
		}
	}

	return state
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// Capture builds the Query that reproduces the engine's current state. Only
// state that differs from the defaults is recorded.
func Capture(path, table, session string, e *grid.Engine) *Query {
	state := &Query{
		Path:    path,
		Table:   table,
		Session: session,
		Text:    e.Query(),
		Page:    e.PageIndex(),
		Scroll:  e.ScrollOffset(),
		Order:   []string{},
		Hidden:  []string{},
		Pins:    make(map[string]columns.PinSide),
		Widths:  make(map[string]int),
	}
	if e.ViewportHeight() != e.Options().ViewportHeight {
		state.Viewport = e.ViewportHeight()
	}

	cols := e.Columns()
	defs := cols.Defs()
	order := cols.Order()
	for i, def := range defs {
		if order[i] != def.ID() {
			state.Order = order
			break
		}
	}
	state.Hidden = cols.Hidden()
	for _, def := range defs {
		id := def.ID()
		if side := cols.Pin(id); side != columns.PinNone {
			state.Pins[id] = side
		}
		if w := cols.Width(id); w != def.InitialWidth() {
			state.Widths[id] = w
		}
	}
	return state
}

// Apply replays the URL state onto e, starting from a full reset. Entries the
// engine rejects (unknown ids, out of range pages) are dropped silently.
func (s *Query) Apply(e *grid.Engine) {
	e.Reset()
	if len(s.Order) > 0 {
		e.SetOrder(s.Order)
	}
	for _, id := range s.Hidden {
		if e.Columns().IsVisible(id) {
			e.ToggleVisibility(id)
		}
	}
	for _, id := range sortedKeys(s.Pins) {
		e.SetPin(id, s.Pins[id])
	}
	for _, id := range sortedKeys(s.Widths) {
		e.Resize(id, s.Widths[id])
	}
	if s.Viewport > 0 {
		e.SetViewport(s.Viewport)
	}
	// the filter must be in place before the page index is checked against it
	e.SetQuery(s.Text)
	e.SetPageIndex(s.Page)
	e.Scroll(s.Scroll)
}

// Clone creates a deep copy of the Query
func (s *Query) Clone() *Query {
	clone := &Query{
		Path:     s.Path,
		Table:    s.Table,
		Session:  s.Session,
		Text:     s.Text,
		Page:     s.Page,
		Scroll:   s.Scroll,
		Viewport: s.Viewport,
		Order:    make([]string, len(s.Order)),
		Hidden:   make([]string, len(s.Hidden)),
		Pins:     make(map[string]columns.PinSide, len(s.Pins)),
		Widths:   make(map[string]int, len(s.Widths)),
	}
	copy(clone.Order, s.Order)
	copy(clone.Hidden, s.Hidden)
	for id, side := range s.Pins {
		clone.Pins[id] = side
	}
	for id, width := range s.Widths {
		clone.Widths[id] = width
	}
	return clone
}

// ToURL converts the Query back to a URL string
func (s *Query) ToURL() string {
	u := &url.URL{
		Path: s.Path,
	}

	q := u.Query()

	if s.Table != "" {
		q.Set("table", s.Table)
	}
	if s.Session != "" {
		q.Set("session", s.Session)
	}
	if s.Text != "" {
		q.Set("q", s.Text)
	}
	if s.Page > 0 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	if s.Scroll > 0 {
		q.Set("scroll", strconv.FormatFloat(s.Scroll, 'f', -1, 64))
	}
	if s.Viewport > 0 {
		q.Set("viewport", strconv.FormatFloat(s.Viewport, 'f', -1, 64))
	}
	if len(s.Order) > 0 {
		q.Set("order", strings.Join(s.Order, ","))
	}
	if len(s.Hidden) > 0 {
		q.Set("hidden", strings.Join(s.Hidden, ","))
	}

	if len(s.Pins) > 0 {
		pins := make([]string, 0, len(s.Pins))
		for _, id := range sortedKeys(s.Pins) {
			pins = append(pins, id+":"+s.Pins[id].String())
		}
		q.Set("pin", strings.Join(pins, ","))
	}

	if len(s.Widths) > 0 {
		widths := make([]string, 0, len(s.Widths))
		for _, id := range sortedKeys(s.Widths) {
			widths = append(widths, id+":"+strconv.Itoa(s.Widths[id]))
		}
		q.Set("widths", strings.Join(widths, ","))
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// ToSafeURL converts the Query to a safehtml.URL
func (s *Query) ToSafeURL() safehtml.URL {
	urlStr := s.ToURL()
	// URLSanitized sanitizes the input string and returns a URL
	return safehtml.URLSanitized(urlStr)
}

// IsColumnHidden checks if a column is in the hidden list
func (s *Query) IsColumnHidden(column string) bool {
	for _, col := range s.Hidden {
		if col == column {
			return true
		}
	}
	return false
}

// WithQueryText returns a URL with a different filter text. The scroll offset
// is dropped since the rows underneath it change.
func (s *Query) WithQueryText(text string) safehtml.URL {
	newState := s.Clone()
	newState.Text = text
	newState.Scroll = 0
	return newState.ToSafeURL()
}

// WithPage returns a URL for a different page
func (s *Query) WithPage(page int) safehtml.URL {
	newState := s.Clone()
	if page < 0 {
		page = 0
	}
	newState.Page = page
	newState.Scroll = 0
	return newState.ToSafeURL()
}

// WithColumnToggled returns a URL with the column toggled (hidden if shown, shown if hidden)
func (s *Query) WithColumnToggled(column string) safehtml.URL {
	newState := s.Clone()
	found := false
	newHidden := make([]string, 0, len(s.Hidden))
	for _, col := range s.Hidden {
		if col == column {
			found = true
		} else {
			newHidden = append(newHidden, col)
		}
	}

	if found {
		newState.Hidden = newHidden
	} else {
		newState.Hidden = append(newState.Hidden, column)
	}

	return newState.ToSafeURL()
}

// WithPin returns a URL with the column pinned to side. PinNone unpins it.
func (s *Query) WithPin(column string, side columns.PinSide) safehtml.URL {
	newState := s.Clone()
	if side == columns.PinNone {
		delete(newState.Pins, column)
	} else {
		newState.Pins[column] = side
	}
	return newState.ToSafeURL()
}

// WithWidth returns a URL with the column resized
func (s *Query) WithWidth(column string, width int) safehtml.URL {
	newState := s.Clone()
	newState.Widths[column] = width
	return newState.ToSafeURL()
}

// WithMove returns a URL with the visible column at from moved to to. The move
// needs the full column order, so Order must be set (Capture sets it whenever
// it is not the natural order); natural is the order to use otherwise.
func (s *Query) WithMove(natural []string, from, to int) safehtml.URL {
	newState := s.Clone()
	order := newState.Order
	if len(order) == 0 {
		order = natural
	}
	hidden := make(map[string]bool, len(s.Hidden))
	for _, id := range s.Hidden {
		hidden[id] = true
	}
	if moved, ok := columns.MoveVisible(order, hidden, from, to); ok {
		newState.Order = moved
	}
	return newState.ToSafeURL()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
