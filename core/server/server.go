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
	"fmt"
	"io"
	"log"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/google/vgrid/core/grid"
	"github.com/google/vgrid/core/query"
	"github.com/google/vgrid/core/rendering"
	"github.com/google/vgrid/core/tables"
	"github.com/google/vgrid/core/views"
)

// TableEntry is a table the server offers, with its landing page metadata.
type TableEntry struct {
	Name        string
	Title       string
	Description string
	SourceType  string
	Table       *tables.DataTable
}

type session struct {
	id       string
	table    string
	engine   *grid.Engine
	lastUsed time.Time
}

const (
	// DefaultMaxSessions caps the live sessions. The least recently used
	// session is dropped to make room for a new one.
	DefaultMaxSessions = 1000
	// DefaultSessionTTL is how long a session may sit unused before it expires.
	DefaultSessionTTL = 30 * time.Minute
)

// Server represents the application server with all its dependencies
type Server struct {
	renderer *rendering.GridRenderer
	options  grid.Options

	title    string
	subtitle string

	// mu guards tables and sessions, and serializes every use of a session's engine
	mu       sync.Mutex
	tables   map[string]*TableEntry
	sessions map[string]*session

	maxSessions int
	sessionTTL  time.Duration

	newSessionID func() string
	now          func() time.Time
}

// NewServer creates a new server whose grids use the given engine options
func NewServer(options grid.Options) (*Server, error) {
	renderer, err := rendering.NewGridRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return &Server{
		renderer:     renderer,
		options:      options,
		title:        "Vgrid",
		tables:       make(map[string]*TableEntry),
		sessions:     make(map[string]*session),
		maxSessions:  DefaultMaxSessions,
		sessionTTL:   DefaultSessionTTL,
		newSessionID: uuid.NewString,
		now:          time.Now,
	}, nil
}

// SetLanding sets the landing page title and subtitle
func (s *Server) SetLanding(title, subtitle string) {
	s.title = title
	s.subtitle = subtitle
}

// SetSessionLimits bounds the session cache. Values that are not positive keep
// the current limit.
func (s *Server) SetSessionLimits(maxSessions int, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if maxSessions > 0 {
		s.maxSessions = maxSessions
	}
	if ttl > 0 {
		s.sessionTTL = ttl
	}
}

// AddTable registers a table. Registering a name again replaces the table and
// drops every session on the old one, which remounts their grids.
func (s *Server) AddTable(entry TableEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Title == "" {
		entry.Title = entry.Name
	}
	if _, exists := s.tables[entry.Name]; exists {
		for id, sess := range s.sessions {
			if sess.table == entry.Name {
				delete(s.sessions, id)
			}
		}
	}
	s.tables[entry.Name] = &entry
}

// ReplaceTable swaps the data of a registered table, keeping its metadata.
func (s *Server) ReplaceTable(name string, table *tables.DataTable) error {
	s.mu.Lock()
	entry, ok := s.tables[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("table '%s' not found", name)
	}
	replaced := *entry
	replaced.Table = table
	s.AddTable(replaced)
	return nil
}

// SessionCount returns the number of live sessions
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// lookupSession returns the session id for table, creating a new session when id
// is unknown, expired or belongs to another table. Callers must hold s.mu.
func (s *Server) lookupSession(tableName, id string) (*session, bool, error) {
	now := s.now()
	s.expireSessions(now)
	if sess, ok := s.sessions[id]; ok && sess.table == tableName {
		sess.lastUsed = now
		return sess, false, nil
	}
	entry := s.tables[tableName]
	engine, err := grid.New(entry.Table, s.options)
	if err != nil {
		return nil, false, err
	}
	for len(s.sessions) >= s.maxSessions {
		s.evictOldest()
	}
	sess := &session{id: s.newSessionID(), table: tableName, engine: engine, lastUsed: now}
	s.sessions[sess.id] = sess
	return sess, true, nil
}

// activeSession returns a live session of table without creating one. Callers
// must hold s.mu.
func (s *Server) activeSession(tableName, id string) (*session, bool) {
	now := s.now()
	s.expireSessions(now)
	sess, ok := s.sessions[id]
	if !ok || sess.table != tableName {
		return nil, false
	}
	sess.lastUsed = now
	return sess, true
}

func (s *Server) expireSessions(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > s.sessionTTL {
			delete(s.sessions, id)
		}
	}
}

func (s *Server) evictOldest() {
	var oldest *session
	for _, sess := range s.sessions {
		if oldest == nil || sess.lastUsed.Before(oldest.lastUsed) {
			oldest = sess
		}
	}
	if oldest != nil {
		delete(s.sessions, oldest.id)
	}
}

// GridHandlerResult represents the result of handling a grid request
type GridHandlerResult struct {
	Error      error
	StatusCode int
	Message    string
}

// TimingCollector collects timing measurements for various operations
type TimingCollector struct {
	entries []views.TimingInfo
	start   time.Time
}

// NewTimingCollector creates a new timing collector
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{start: time.Now()}
}

// Record records a timing entry
func (tc *TimingCollector) Record(operation string, duration time.Duration) {
	tc.entries = append(tc.entries, views.TimingInfo{
		Name:       operation,
		DurationMs: float64(duration.Microseconds()) / 1000.0,
	})
}

// GetEntries returns all timing entries
func (tc *TimingCollector) GetEntries() []views.TimingInfo {
	return tc.entries
}

// TotalMs returns total elapsed time in milliseconds
func (tc *TimingCollector) TotalMs() float64 {
	return float64(time.Since(tc.start).Microseconds()) / 1000.0
}

// stateParams are the URL parameters that carry grid state. A request with none
// of them shows the session as it is.
var stateParams = []string{"q", "page", "scroll", "viewport", "order", "hidden", "pin", "widths"}

func hasGridState(u *url.URL) bool {
	values := u.Query()
	for _, p := range stateParams {
		if _, ok := values[p]; ok {
			return true
		}
	}
	return false
}

// HandleGridRequest processes a grid request and writes the response
// Returns an error result if the request is invalid, nil on success
func (s *Server) HandleGridRequest(w io.Writer, requestURL *url.URL, setHeader func(key, value string)) *GridHandlerResult {
	timing := NewTimingCollector()

	// Parse URL into Query
	parseStart := time.Now()
	q := query.NewQuery(requestURL)
	timing.Record("Parse Query", time.Since(parseStart))

	if q.Table == "" {
		return &GridHandlerResult{StatusCode: 400, Message: "Table parameter is required"}
	}

	s.mu.Lock()
	entry, ok := s.tables[q.Table]
	if !ok {
		s.mu.Unlock()
		return &GridHandlerResult{StatusCode: 404, Message: fmt.Sprintf("Table '%s' not found", q.Table)}
	}

	sessionStart := time.Now()
	sess, _, err := s.lookupSession(q.Table, q.Session)
	if err != nil {
		s.mu.Unlock()
		return &GridHandlerResult{Error: err, StatusCode: 500, Message: "Failed to create grid"}
	}
	timing.Record("Get Session", time.Since(sessionStart))

	// Replay URL state onto the engine
	applyStart := time.Now()
	if hasGridState(requestURL) {
		q.Apply(sess.engine)
	}
	timing.Record("Apply State", time.Since(applyStart))

	// Build the view model from the engine
	vmStart := time.Now()
	current := query.Capture(requestURL.Path, q.Table, sess.id, sess.engine)
	viewModel := views.BuildGridViewModel(entry.Title, sess.engine, current)
	s.mu.Unlock()
	timing.Record("Build ViewModel", time.Since(vmStart))

	viewModel.Timings = timing.GetEntries()
	viewModel.Timings = append(viewModel.Timings, views.TimingInfo{Name: "Total", DurationMs: timing.TotalMs()})

	setHeader("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, viewModel); err != nil {
		log.Printf("Template rendering error: %v", err)
		return &GridHandlerResult{Error: err}
	}
	return nil
}

// HandleLanding processes the landing page request
func (s *Server) HandleLanding(w io.Writer, setHeader func(key, value string)) error {
	setHeader("Content-Type", "text/html; charset=utf-8")

	vm := views.LandingViewModel{
		Title:    s.title,
		Subtitle: s.subtitle,
	}

	s.mu.Lock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := s.tables[name]
		link := &query.Query{Path: "/grid", Table: name}
		vm.Tables = append(vm.Tables, views.TableInfo{
			Name:        entry.Title,
			Description: entry.Description,
			URL:         link.ToSafeURL(),
			SourceType:  entry.SourceType,
			RecordCount: entry.Table.Length(),
			ColumnCount: entry.Table.ColumnCount(),
		})
	}
	s.mu.Unlock()

	if err := s.renderer.RenderLanding(w, vm); err != nil {
		log.Printf("Template rendering error: %v", err)
		return err
	}
	return nil
}
