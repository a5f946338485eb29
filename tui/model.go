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

// Package tui is a terminal front end for a grid engine. Each text line is one
// row; the engine's viewport is sized to the lines the terminal leaves for rows.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/vgrid/core/columns"
	"github.com/google/vgrid/core/drag"
	"github.com/google/vgrid/core/grid"
	"github.com/google/vgrid/core/rendering"
	"github.com/google/vgrid/core/views"
)

// chromeLines are the lines View uses besides rows: title, header, rule,
// status and help.
const chromeLines = 5

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	pinnedStyle   = lipgloss.NewStyle().Underline(true)
	statusStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Model is the bubbletea model of one grid.
type Model struct {
	engine *grid.Engine
	title  string

	keys   keyMap
	help   help.Model
	filter textinput.Model
	cells  rendering.ASCIIOptions

	filtering bool
	// selected is the id of the column the column commands act on
	selected  string
	width     int
	height    int
	message   string
}

// New creates a model over engine.
func New(engine *grid.Engine, title string) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter rows"
	ti.SetValue(engine.Query())

	m := Model{
		engine: engine,
		title:  title,
		keys:   defaultKeyMap(),
		help:   help.New(),
		filter: ti,
	}
	if vm := engine.View(); len(vm.Columns) > 0 {
		m.selected = vm.Columns[0].ID
	}
	return m
}

// Engine returns the engine the model drives.
func (m Model) Engine() *grid.Engine {
	return m.engine
}

// Selected returns the id of the selected column.
func (m Model) Selected() string {
	return m.selected
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		lines := max(1, msg.Height-chromeLines)
		m.engine.SetViewport(float64(lines) * m.engine.Options().RowHeight)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.engine.ClearQuery()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.engine.SetQuery(m.filter.Value())
	return m, cmd
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.engine
	rowHeight := e.Options().RowHeight
	m.message = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		e.Scroll(e.ScrollOffset() - rowHeight)
	case key.Matches(msg, m.keys.Down):
		e.Scroll(e.ScrollOffset() + rowHeight)
	case key.Matches(msg, m.keys.PageUp):
		e.Scroll(e.ScrollOffset() - e.ViewportHeight())
	case key.Matches(msg, m.keys.PageDown):
		e.Scroll(e.ScrollOffset() + e.ViewportHeight())

	case key.Matches(msg, m.keys.NextPage):
		m.pageOrScroll(e.NextPage, func() { e.Scroll(e.ScrollOffset() + e.ViewportHeight()) })
	case key.Matches(msg, m.keys.PrevPage):
		m.pageOrScroll(e.PreviousPage, func() { e.Scroll(e.ScrollOffset() - e.ViewportHeight()) })
	case key.Matches(msg, m.keys.First):
		m.pageOrScroll(e.FirstPage, func() { e.Scroll(0) })
	case key.Matches(msg, m.keys.Last):
		m.pageOrScroll(e.LastPage, func() { e.Scroll(e.View().TotalHeight) })

	case key.Matches(msg, m.keys.Left):
		m.step(-1)
	case key.Matches(msg, m.keys.Right):
		m.step(1)
	case key.Matches(msg, m.keys.MoveLeft):
		m.move(-1)
	case key.Matches(msg, m.keys.MoveRight):
		m.move(1)
	case key.Matches(msg, m.keys.Drag):
		m.toggleDrag()

	case key.Matches(msg, m.keys.PinLeft):
		m.togglePin(columns.PinLeft)
	case key.Matches(msg, m.keys.PinRight):
		m.togglePin(columns.PinRight)
	case key.Matches(msg, m.keys.Wider):
		m.resize(views.ResizeStep)
	case key.Matches(msg, m.keys.Narrower):
		m.resize(-views.ResizeStep)

	case key.Matches(msg, m.keys.Hide):
		m.hide()
	case key.Matches(msg, m.keys.ShowAll):
		for _, id := range e.Columns().Hidden() {
			e.ToggleVisibility(id)
		}
		m.ensureSelection()

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.ClearFilter):
		m.filter.SetValue("")
		e.ClearQuery()

	case key.Matches(msg, m.keys.Reset):
		e.Reset()
		m.filter.SetValue("")
		m.ensureSelection()
	}
	return m, nil
}

// pageOrScroll runs the page command when paginating, scroll otherwise.
func (m *Model) pageOrScroll(page func() bool, scroll func()) {
	if m.engine.Options().Paginate {
		page()
		return
	}
	scroll()
}

// projected returns the display position of the selected column, or -1.
func (m *Model) projected(cols []columns.Projection) int {
	for i, col := range cols {
		if col.ID == m.selected {
			return i
		}
	}
	return -1
}

func (m *Model) ensureSelection() {
	cols := m.engine.Columns().Project()
	if len(cols) == 0 {
		m.selected = ""
		return
	}
	if m.projected(cols) < 0 {
		m.selected = cols[0].ID
	}
}

// step selects the column delta display positions away. While dragging, the
// dragged column follows.
func (m *Model) step(delta int) {
	cols := m.engine.Columns().Project()
	i := m.projected(cols)
	if i < 0 {
		m.ensureSelection()
		return
	}
	j := i + delta
	if j < 0 || j >= len(cols) {
		return
	}
	if m.engine.DragState().Phase == drag.Dragging {
		m.engine.DragHover(cols[j].VisibleIndex)
		return
	}
	m.selected = cols[j].ID
}

// move shifts the selected column delta positions in the visible leaf order.
func (m *Model) move(delta int) {
	cols := m.engine.Columns().Project()
	i := m.projected(cols)
	if i < 0 {
		return
	}
	from := cols[i].VisibleIndex
	if !m.engine.MoveColumn(from, from+delta) {
		m.message = "column cannot move further"
	}
}

func (m *Model) toggleDrag() {
	if m.engine.DragState().Phase == drag.Dragging {
		m.engine.DragEnd()
		return
	}
	cols := m.engine.Columns().Project()
	if i := m.projected(cols); i >= 0 {
		m.engine.DragStart(cols[i].VisibleIndex)
	}
}

func (m *Model) togglePin(side columns.PinSide) {
	if m.selected == "" {
		return
	}
	if m.engine.Columns().Pin(m.selected) == side {
		side = columns.PinNone
	}
	if !m.engine.SetPin(m.selected, side) {
		m.message = fmt.Sprintf("column %s cannot be pinned", m.selected)
	}
}

func (m *Model) resize(delta int) {
	if m.selected == "" {
		return
	}
	width := m.engine.Columns().Width(m.selected)
	if !m.engine.Resize(m.selected, width+delta) {
		m.message = fmt.Sprintf("column %s cannot be resized further", m.selected)
	}
}

func (m *Model) hide() {
	cols := m.engine.Columns().Project()
	i := m.projected(cols)
	if i < 0 {
		return
	}
	m.engine.ToggleVisibility(m.selected)
	cols = append(cols[:i], cols[i+1:]...)
	switch {
	case len(cols) == 0:
		m.selected = ""
	case i < len(cols):
		m.selected = cols[i].ID
	default:
		m.selected = cols[len(cols)-1].ID
	}
}

// View renders the title, the rows inside the viewport and a status line.
func (m Model) View() string {
	vm := m.engine.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	widths := make([]int, len(vm.Columns))
	headers := make([]string, len(vm.Columns))
	rules := make([]string, len(vm.Columns))
	for i, col := range vm.Columns {
		widths[i] = m.cells.CellWidth(col.Width)
		cell := rendering.FitCell(col.DisplayName, widths[i])
		rules[i] = strings.Repeat("─", widths[i])
		switch {
		case col.ID == m.selected:
			cell = selectedStyle.Render(cell)
		case col.Pin != columns.PinNone:
			cell = pinnedStyle.Render(cell)
		default:
			cell = headerStyle.Render(cell)
		}
		headers[i] = cell
	}
	m.writeLine(&b, strings.Join(headers, " │ "))
	m.writeLine(&b, strings.Join(rules, "─┼─"))

	top := vm.ScrollOffset
	bottom := top + m.engine.ViewportHeight()
	for _, row := range vm.Rows {
		if row.Offset+row.Height <= top || row.Offset >= bottom {
			continue
		}
		parts := make([]string, len(widths))
		for i, width := range widths {
			value := ""
			if i < len(row.Cells) {
				value = row.Cells[i]
			}
			parts[i] = rendering.FitCell(value, width)
		}
		m.writeLine(&b, strings.Join(parts, " │ "))
	}

	if m.filtering {
		b.WriteString(m.filter.View())
	} else {
		b.WriteString(statusStyle.Render(m.status(vm)))
	}
	if m.message != "" {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(m.message))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) writeLine(b *strings.Builder, line string) {
	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	b.WriteString(line)
	b.WriteString("\n")
}

func (m Model) status(vm grid.ViewModel) string {
	parts := []string{views.Summary(vm.Pagination)}
	if vm.Paginated {
		parts = append(parts, fmt.Sprintf("page %d of %d", vm.Pagination.PageIndex+1, vm.Pagination.PageCount))
	}
	parts = append(parts, fmt.Sprintf("%d of %d columns", vm.VisibleCount, vm.ColumnCount))
	if q := m.engine.Query(); q != "" {
		parts = append(parts, fmt.Sprintf("filter %q", q))
	}
	if vm.Drag.Phase == drag.Dragging {
		parts = append(parts, "moving "+m.selected)
	}
	return strings.Join(parts, " · ")
}
