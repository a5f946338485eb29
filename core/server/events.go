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

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/drag"
	"github.com/google/vgrid/core/grid"
	"github.com/google/vgrid/core/query"
	"github.com/google/vgrid/core/views"
)

// Event is one host command sent to a session's engine. Type selects the
// command; the remaining fields are its arguments.
type Event struct {
	Type   string   `json:"type"`
	Query  string   `json:"query,omitempty"`
	Page   int      `json:"page,omitempty"`
	Offset float64  `json:"offset,omitempty"`
	Height float64  `json:"height,omitempty"`
	Index  int      `json:"index,omitempty"`
	From   int      `json:"from,omitempty"`
	To     int      `json:"to,omitempty"`
	Column string   `json:"column,omitempty"`
	Side   string   `json:"side,omitempty"`
	Width  int      `json:"width,omitempty"`
	Order  []string `json:"order,omitempty"`
}

// EventBatch is the body of an events request
type EventBatch struct {
	Table   string  `json:"table"`
	Session string  `json:"session"`
	Events  []Event `json:"events"`
}

// EventsResponse reports the applied batch and the resulting frame
type EventsResponse struct {
	Session string    `json:"session"`
	URL     string    `json:"url"`
	Applied int       `json:"applied"`
	Changed int       `json:"changed"`
	Frame   FrameJSON `json:"frame"`
}

// FrameJSON is the wire form of a grid frame
type FrameJSON struct {
	Columns       []ColumnJSON   `json:"columns"`
	Rows          []RowJSON      `json:"rows"`
	TopPadding    float64        `json:"topPadding"`
	BottomPadding float64        `json:"bottomPadding"`
	TotalHeight   float64        `json:"totalHeight"`
	TotalWidth    int            `json:"totalWidth"`
	ScrollOffset  float64        `json:"scrollOffset"`
	Pagination    PaginationJSON `json:"pagination"`
	Summary       string         `json:"summary"`
	Query         string         `json:"query"`
	Drag          DragJSON       `json:"drag"`
	VisibleCount  int            `json:"visibleCount"`
	ColumnCount   int            `json:"columnCount"`
}

type ColumnJSON struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	Width        int    `json:"width"`
	Start        int    `json:"start"`
	Pin          string `json:"pin"`
	VisibleIndex int    `json:"visibleIndex"`
}

type RowJSON struct {
	Index    int      `json:"index"`
	Position int      `json:"position"`
	Offset   float64  `json:"offset"`
	Cells    []string `json:"cells"`
}

type PaginationJSON struct {
	PageIndex     int  `json:"pageIndex"`
	PageCount     int  `json:"pageCount"`
	FilteredCount int  `json:"filteredCount"`
	TotalCount    int  `json:"totalCount"`
	FirstRow      int  `json:"firstRow"`
	LastRow       int  `json:"lastRow"`
	Paginated     bool `json:"paginated"`
}

type DragJSON struct {
	Phase       string `json:"phase"`
	SourceIndex int    `json:"sourceIndex"`
}

// NewFrameJSON converts a frame to its wire form
func NewFrameJSON(vm grid.ViewModel) FrameJSON {
	frame := FrameJSON{
		Columns:       make([]ColumnJSON, len(vm.Columns)),
		Rows:          make([]RowJSON, len(vm.Rows)),
		TopPadding:    vm.TopPadding,
		BottomPadding: vm.BottomPadding,
		TotalHeight:   vm.TotalHeight,
		TotalWidth:    vm.TotalWidth,
		ScrollOffset:  vm.ScrollOffset,
		Pagination: PaginationJSON{
			PageIndex:     vm.Pagination.PageIndex,
			PageCount:     vm.Pagination.PageCount,
			FilteredCount: vm.Pagination.FilteredCount,
			TotalCount:    vm.Pagination.TotalCount,
			FirstRow:      vm.Pagination.FirstRow,
			LastRow:       vm.Pagination.LastRow,
			Paginated:     vm.Paginated,
		},
		Summary:      views.Summary(vm.Pagination),
		Query:        vm.Query,
		Drag:         DragJSON{Phase: vm.Drag.Phase.String(), SourceIndex: vm.Drag.SourceIndex},
		VisibleCount: vm.VisibleCount,
		ColumnCount:  vm.ColumnCount,
	}
	for i, col := range vm.Columns {
		frame.Columns[i] = ColumnJSON{
			ID:           col.ID,
			DisplayName:  col.DisplayName,
			Width:        col.Width,
			Start:        col.Start,
			Pin:          col.Pin.String(),
			VisibleIndex: col.VisibleIndex,
		}
	}
	for i, row := range vm.Rows {
		frame.Rows[i] = RowJSON{
			Index:    row.RowIndex,
			Position: row.Position,
			Offset:   row.Offset,
			Cells:    row.Cells,
		}
	}
	return frame
}

// command turns an event into an engine command. Arguments that can only be
// checked against the engine's state are left to the engine, which ignores them.
func (ev Event) command() (func(e *grid.Engine) bool, error) {
	switch ev.Type {
	case "setQuery":
		return func(e *grid.Engine) bool { return e.SetQuery(ev.Query) }, nil
	case "clearQuery":
		return (*grid.Engine).ClearQuery, nil
	case "setPage":
		return func(e *grid.Engine) bool { return e.SetPageIndex(ev.Page) }, nil
	case "nextPage":
		return (*grid.Engine).NextPage, nil
	case "previousPage":
		return (*grid.Engine).PreviousPage, nil
	case "firstPage":
		return (*grid.Engine).FirstPage, nil
	case "lastPage":
		return (*grid.Engine).LastPage, nil
	case "setViewport":
		return func(e *grid.Engine) bool { return e.SetViewport(ev.Height) }, nil
	case "scroll":
		return func(e *grid.Engine) bool { return e.Scroll(ev.Offset) }, nil
	case "setOrder":
		return func(e *grid.Engine) bool { return e.SetOrder(ev.Order) }, nil
	case "moveColumn":
		return func(e *grid.Engine) bool { return e.MoveColumn(ev.From, ev.To) }, nil
	case "toggleVisibility":
		return func(e *grid.Engine) bool { return e.ToggleVisibility(ev.Column) }, nil
	case "setPin":
		side, err := columns.ParsePinSide(ev.Side)
		if err != nil {
			return nil, err
		}
		return func(e *grid.Engine) bool { return e.SetPin(ev.Column, side) }, nil
	case "resize":
		return func(e *grid.Engine) bool { return e.Resize(ev.Column, ev.Width) }, nil
	case "dragStart":
		return func(e *grid.Engine) bool { return e.DragStart(ev.Index) }, nil
	case "dragHover":
		return func(e *grid.Engine) bool { return e.DragHover(ev.Index) }, nil
	case "dragEnd":
		return func(e *grid.Engine) bool {
			dragging := e.DragState().Phase == drag.Dragging
			e.DragEnd()
			return dragging
		}, nil
	case "reset":
		return func(e *grid.Engine) bool {
			e.Reset()
			return true
		}, nil
	}
	return nil, fmt.Errorf("unknown event type %q", ev.Type)
}

// HandleEvents applies a JSON batch of events to an existing session and
// writes the resulting frame as JSON. The batch is validated before any event
// is applied, so a rejected batch leaves the session untouched.
func (s *Server) HandleEvents(w io.Writer, body io.Reader, setHeader func(key, value string)) *GridHandlerResult {
	var batch EventBatch
	if err := json.NewDecoder(body).Decode(&batch); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &GridHandlerResult{Error: err, StatusCode: http.StatusRequestEntityTooLarge, Message: fmt.Sprintf("Event batch exceeds %d bytes", tooLarge.Limit)}
		}
		return &GridHandlerResult{Error: err, StatusCode: 400, Message: fmt.Sprintf("Invalid event batch: %v", err)}
	}

	commands := make([]func(e *grid.Engine) bool, len(batch.Events))
	for i, ev := range batch.Events {
		cmd, err := ev.command()
		if err != nil {
			return &GridHandlerResult{Error: err, StatusCode: 400, Message: fmt.Sprintf("Event %d: %v", i, err)}
		}
		commands[i] = cmd
	}

	s.mu.Lock()
	sess, ok := s.activeSession(batch.Table, batch.Session)
	if !ok {
		s.mu.Unlock()
		return &GridHandlerResult{StatusCode: 404, Message: fmt.Sprintf("Session '%s' not found for table '%s'", batch.Session, batch.Table)}
	}

	resp := EventsResponse{Session: sess.id}
	for _, cmd := range commands {
		if cmd(sess.engine) {
			resp.Changed++
		}
		resp.Applied++
	}
	resp.URL = query.Capture("/grid", sess.table, sess.id, sess.engine).ToURL()
	resp.Frame = NewFrameJSON(sess.engine.View())
	s.mu.Unlock()

	setHeader("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Event response encoding error: %v", err)
		return &GridHandlerResult{Error: err}
	}
	return nil
}
