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
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/grid"
	"github.com/google/vgrid/core/tables"
)

func newTestTable(t *testing.T, rows int) *tables.DataTable {
	t.Helper()
	table, err := tables.NewDataTable([]*columns.ColumnDef{
		columns.NewColumnDef("id", "ID", 0, 0),
		columns.NewColumnDef("name", "Name", 0, 0),
		columns.NewColumnDef("city", "City", 0, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < rows; r++ {
		if err := table.AppendRow(fmt.Sprint(r), fmt.Sprintf("name%d", r), fmt.Sprintf("city%d", r%7)); err != nil {
			t.Fatal(err)
		}
	}
	return table
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(grid.DefaultOptions())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	next := 0
	srv.newSessionID = func() string {
		next++
		return fmt.Sprintf("s%d", next)
	}
	srv.SetLanding("Grids", "Test grids")
	srv.AddTable(TableEntry{Name: "people", Title: "People", Description: "Test people", SourceType: "sample", Table: newTestTable(t, 45)})
	return srv
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postEvents(t *testing.T, h http.Handler, batch EventBatch) (*httptest.ResponseRecorder, EventsResponse) {
	t.Helper()
	body, err := json.Marshal(batch)
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body)))
	var resp EventsResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func TestHandleGridRequest(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	t.Run("Missing table", func(t *testing.T) {
		if rec := get(t, h, "/grid"); rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("Unknown table", func(t *testing.T) {
		if rec := get(t, h, "/grid?table=nope"); rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})

	t.Run("Renders the grid", func(t *testing.T) {
		rec := get(t, h, "/grid?table=people&q=name4&hidden=city")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("Unexpected content type %q", ct)
		}
		body := rec.Body.String()
		// name4 and name40..name44 match
		if !strings.Contains(body, "Showing 1 to 6 of 6") {
			t.Errorf("Expected the filtered summary in the page")
		}
		if !strings.Contains(body, "2 of 3 visible") {
			t.Errorf("Expected the column menu counts in the page")
		}
	})
}

func TestSessionKeepsState(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	get(t, h, "/grid?table=people&page=2")
	if srv.SessionCount() != 1 {
		t.Fatalf("Expected one session, got %d", srv.SessionCount())
	}

	// a bare session URL shows the session as it is
	rec := get(t, h, "/grid?table=people&session=s1")
	if !strings.Contains(rec.Body.String(), "Showing 21 to 30 of 45") {
		t.Errorf("Expected page 3 of the session")
	}
	if srv.SessionCount() != 1 {
		t.Errorf("Expected the session to be reused, got %d sessions", srv.SessionCount())
	}

	// a session id for another table starts a new session
	srv.AddTable(TableEntry{Name: "other", Table: newTestTable(t, 3)})
	get(t, h, "/grid?table=other&session=s1")
	if srv.SessionCount() != 2 {
		t.Errorf("Expected a new session, got %d sessions", srv.SessionCount())
	}
}

// fakeClock advances one second on every reading so sessions get distinct use times.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func TestSessionCacheIsBounded(t *testing.T) {
	srv := newTestServer(t)
	srv.now = (&fakeClock{now: time.Unix(0, 0)}).Now
	srv.SetSessionLimits(50, time.Hour)
	h := srv.Handler()

	// landing links carry no session, so every visit starts one
	for i := 0; i < 500; i++ {
		get(t, h, "/grid?table=people")
	}
	if got := srv.SessionCount(); got != 50 {
		t.Fatalf("Expected the cache to hold 50 sessions, got %d", got)
	}
	if _, ok := srv.sessions["s1"]; ok {
		t.Error("Expected the oldest session to be evicted")
	}
	if _, ok := srv.sessions["s500"]; !ok {
		t.Error("Expected the newest session to be kept")
	}

	// using a session makes it the most recent one
	get(t, h, "/grid?table=people&session=s451")
	get(t, h, "/grid?table=people")
	if _, ok := srv.sessions["s451"]; !ok {
		t.Error("Expected the recently used session to survive eviction")
	}
	if _, ok := srv.sessions["s452"]; ok {
		t.Error("Expected the least recently used session to be evicted")
	}
	if got := srv.SessionCount(); got != 50 {
		t.Errorf("Expected 50 sessions, got %d", got)
	}
}

func TestIdleSessionsExpire(t *testing.T) {
	srv := newTestServer(t)
	clock := &fakeClock{now: time.Unix(0, 0)}
	srv.now = clock.Now
	srv.SetSessionLimits(10, time.Minute)
	h := srv.Handler()

	get(t, h, "/grid?table=people&page=2")
	clock.now = clock.now.Add(2 * time.Minute)

	if rec, _ := postEvents(t, h, EventBatch{Table: "people", Session: "s1"}); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an expired session, got %d", rec.Code)
	}
	if got := srv.SessionCount(); got != 0 {
		t.Errorf("Expected the idle session to expire, got %d sessions", got)
	}

	// the expired id starts over on a fresh grid
	rec := get(t, h, "/grid?table=people&session=s1")
	if !strings.Contains(rec.Body.String(), "Showing 1 to 10 of 45") {
		t.Errorf("Expected a fresh grid for the expired session")
	}
}

func TestHandleEvents(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()
	get(t, h, "/grid?table=people")

	rec, resp := postEvents(t, h, EventBatch{
		Table:   "people",
		Session: "s1",
		Events: []Event{
			{Type: "setQuery", Query: "CITY3"},
			{Type: "dragStart", Index: 0},
			{Type: "dragHover", Index: 2},
			{Type: "dragEnd"},
			{Type: "setPin", Column: "name", Side: "left"},
			{Type: "nextPage"},
			{Type: "toggleVisibility", Column: "nope"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	// nextPage on a single page and the unknown column change nothing
	if resp.Applied != 7 || resp.Changed != 5 {
		t.Errorf("Expected 7 applied and 5 changed, got %d and %d", resp.Applied, resp.Changed)
	}

	frame := resp.Frame
	// rows 3, 10, 17, 24, 31, 38 have city3
	if frame.Pagination.FilteredCount != 6 || frame.Pagination.PageIndex != 0 {
		t.Errorf("Expected 6 rows on one page, got %+v", frame.Pagination)
	}
	var ids []string
	for _, col := range frame.Columns {
		ids = append(ids, col.ID)
	}
	if strings.Join(ids, ",") != "name,city,id" {
		t.Errorf("Unexpected columns %v", ids)
	}
	if frame.Columns[0].Pin != "left" || frame.Drag.Phase != "idle" {
		t.Errorf("Unexpected pin %q or drag phase %q", frame.Columns[0].Pin, frame.Drag.Phase)
	}
	if !strings.Contains(resp.URL, "order=name%2Ccity%2Cid") || !strings.Contains(resp.URL, "session=s1") {
		t.Errorf("Unexpected state URL %q", resp.URL)
	}
}

func TestHandleEventsRejectsBadBatches(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()
	get(t, h, "/grid?table=people")

	tests := []struct {
		name  string
		batch EventBatch
		code  int
	}{
		{"Unknown event", EventBatch{Table: "people", Session: "s1", Events: []Event{{Type: "setQuery", Query: "x"}, {Type: "explode"}}}, http.StatusBadRequest},
		{"Bad pin side", EventBatch{Table: "people", Session: "s1", Events: []Event{{Type: "setPin", Column: "id", Side: "up"}}}, http.StatusBadRequest},
		{"Unknown session", EventBatch{Table: "people", Session: "s9"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := postEvents(t, h, tt.batch)
			if rec.Code != tt.code {
				t.Errorf("Expected %d, got %d", tt.code, rec.Code)
			}
		})
	}

	// the rejected batch did not apply its valid first event
	_, resp := postEvents(t, h, EventBatch{Table: "people", Session: "s1"})
	if resp.Frame.Query != "" {
		t.Errorf("Expected no query after rejected batches, got %q", resp.Frame.Query)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /events, got %d", rec.Code)
	}

	// a batch over the body limit is refused before it is decoded
	huge := `{"table":"people","session":"s1","events":[{"type":"setQuery","query":"` + strings.Repeat("x", maxEventsBodyBytes) + `"}]}`
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(huge)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413 for an oversized batch, got %d", rec.Code)
	}
	_, resp = postEvents(t, h, EventBatch{Table: "people", Session: "s1"})
	if resp.Frame.Query != "" {
		t.Errorf("Expected the oversized batch to change nothing, got query %q", resp.Frame.Query)
	}
}

func TestReplaceTableRemounts(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()
	get(t, h, "/grid?table=people&page=3")

	if err := srv.ReplaceTable("people", newTestTable(t, 5)); err != nil {
		t.Fatalf("ReplaceTable failed: %v", err)
	}
	if srv.SessionCount() != 0 {
		t.Errorf("Expected sessions to be dropped, got %d", srv.SessionCount())
	}
	if err := srv.ReplaceTable("nope", newTestTable(t, 1)); err == nil {
		t.Error("Expected an error for an unknown table")
	}

	rec := get(t, h, "/grid?table=people&session=s1")
	if !strings.Contains(rec.Body.String(), "Showing 1 to 5 of 5") {
		t.Errorf("Expected a fresh grid over the new table")
	}
}

func TestHandleLanding(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := get(t, h, "/")
	body := rec.Body.String()
	if !strings.Contains(body, "Grids") || !strings.Contains(body, "People") || !strings.Contains(body, "/grid?table=people") {
		t.Errorf("Unexpected landing page:\n%s", body)
	}
	if rec := get(t, h, "/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestConcurrentRequests(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()
	get(t, h, "/grid?table=people")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			postEvents(t, h, EventBatch{Table: "people", Session: "s1", Events: []Event{{Type: "scroll", Offset: float64(i * 10)}}})
			get(t, h, fmt.Sprintf("/grid?table=people&session=s1&page=%d", i%4))
		}(i)
	}
	wg.Wait()
	if srv.SessionCount() != 1 {
		t.Errorf("Expected one session, got %d", srv.SessionCount())
	}
}

func TestTimingCollector(t *testing.T) {
	tc := NewTimingCollector()
	tc.Record("Parse Query", 1500000)
	entries := tc.GetEntries()
	if len(entries) != 1 || entries[0].Name != "Parse Query" || entries[0].DurationMs != 1.5 {
		t.Errorf("Unexpected entries %+v", entries)
	}
	if tc.TotalMs() < 0 {
		t.Error("Expected a non-negative total")
	}
}
