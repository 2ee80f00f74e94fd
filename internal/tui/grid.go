// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/confighub/flowdesk/internal/selectsvc"
)

// minColumnWidth keeps narrow panes readable.
const minColumnWidth = 4

// Grid adapts rows and a column schema to a bubbles table. Column widths
// are weights spread over the grid's width.
type Grid struct {
	table   table.Model
	columns []selectsvc.Column
	rows    []selectsvc.Row
	width   int
}

// NewGrid returns an empty, focused grid.
func NewGrid(columns []selectsvc.Column) Grid {
	t := table.New(
		table.WithColumns(tableColumns(columns, 0)),
		table.WithFocused(true),
		table.WithKeyMap(gridKeyMap()),
		table.WithStyles(gridStyles()),
	)
	return Grid{table: t, columns: columns}
}

func tableColumns(columns []selectsvc.Column, width int) []table.Column {
	total := 0
	for _, c := range columns {
		total += weight(c)
	}
	// each cell has one column of padding on both sides
	avail := width - 2*len(columns)

	out := make([]table.Column, len(columns))
	for i, c := range columns {
		w := weight(c) * 2
		if width > 0 && total > 0 {
			w = avail * weight(c) / total
		}
		if w < minColumnWidth {
			w = minColumnWidth
		}
		out[i] = table.Column{Title: c.Title, Width: w}
	}
	return out
}

func weight(c selectsvc.Column) int {
	if c.Width <= 0 {
		return 1
	}
	return c.Width
}

// SetRows replaces the rows, keeping the cursor in range.
func (g *Grid) SetRows(rows []selectsvc.Row) {
	g.rows = rows
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		cells := make(table.Row, len(g.columns))
		for j, c := range g.columns {
			cells[j] = selectsvc.Cell(r, c.Field)
		}
		out[i] = cells
	}
	g.table.SetRows(out)
	if g.table.Cursor() >= len(rows) {
		g.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Rows returns the rows shown.
func (g *Grid) Rows() []selectsvc.Row { return g.rows }

// SetSize fits the grid to width x height cells.
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.table.SetColumns(tableColumns(g.columns, width))
	g.table.SetWidth(width)
	g.table.SetHeight(max(height, 3))
}

// Selected returns the row under the cursor, or nil.
func (g *Grid) Selected() selectsvc.Row {
	i := g.table.Cursor()
	if i < 0 || i >= len(g.rows) {
		return nil
	}
	return g.rows[i]
}

// SelectID moves the cursor to the row with id and reports whether it
// was found.
func (g *Grid) SelectID(id string) bool {
	for i, r := range g.rows {
		if r.RowID() == id {
			g.table.SetCursor(i)
			return true
		}
	}
	return false
}

// Focus and Blur control whether the grid takes movement keys.
func (g *Grid) Focus() { g.table.Focus() }
func (g *Grid) Blur()  { g.table.Blur() }

// Update handles cursor movement.
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	var cmd tea.Cmd
	g.table, cmd = g.table.Update(msg)
	return g, cmd
}

// View renders the table, or a placeholder when it has no rows.
func (g Grid) View() string {
	if len(g.rows) == 0 {
		return g.table.View() + "\n" + dimStyle.Render("  (no records)")
	}
	return g.table.View()
}
