// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/confighub/flowdesk/internal/selectsvc"
)

var defaultPickerColumns = []selectsvc.Column{
	selectsvc.Col("id", 2),
	selectsvc.Col("name", 4),
}

// TableSelectorView renders any selectsvc.Picker as a dialog body. Pickers
// that expose Columns are shown with them; pickers that can filter get a
// filter line.
type TableSelectorView struct {
	title     string
	picker    selectsvc.Picker
	grid      Grid
	filter    textinput.Model
	filtering bool
	keys      pickerKeyMap
	cancel    func()
}

type columnar interface {
	Columns() []selectsvc.Column
}

type filterable interface {
	SetFilter(q string)
	Query() string
}

// NewTableSelectorView shows picker's current rows. cancel is called on esc.
func NewTableSelectorView(title string, picker selectsvc.Picker, cancel func()) *TableSelectorView {
	columns := defaultPickerColumns
	if c, ok := picker.(columnar); ok && len(c.Columns()) > 0 {
		columns = c.Columns()
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "type to filter"

	v := &TableSelectorView{
		title:  title,
		picker: picker,
		grid:   NewGrid(columns),
		filter: ti,
		keys:   defaultPickerKeyMap(),
		cancel: cancel,
	}
	v.grid.SetSize(60, 10)
	v.grid.SetRows(picker.Rows())
	if t := picker.Tentative(); t != nil {
		v.grid.SelectID(t.RowID())
	}
	return v
}

// Update handles one message. Confirming or cancelling closes the hosting
// modal through the picker's owner; the caller checks the modal afterwards.
func (v *TableSelectorView) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.filtering {
		switch km.Type {
		case tea.KeyEsc, tea.KeyEnter:
			v.filtering = false
			v.filter.Blur()
			v.grid.Focus()
			return nil
		}
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(km)
		if f, ok := v.picker.(filterable); ok && f.Query() != v.filter.Value() {
			f.SetFilter(v.filter.Value())
			v.grid.SetRows(v.picker.Rows())
		}
		return cmd
	}

	switch {
	case key.Matches(km, v.keys.Cancel):
		if v.cancel != nil {
			v.cancel()
		}
		return nil
	case key.Matches(km, v.keys.Filter):
		if _, ok := v.picker.(filterable); ok {
			v.filtering = true
			v.grid.Blur()
			return v.filter.Focus()
		}
		return nil
	case key.Matches(km, v.keys.Click):
		if row := v.grid.Selected(); row != nil {
			v.picker.Click(row)
		}
		return nil
	case key.Matches(km, v.keys.DoubleClick):
		if row := v.grid.Selected(); row != nil {
			v.picker.DoubleClick(row)
		}
		return nil
	case key.Matches(km, v.keys.Select):
		v.picker.Confirm()
		return nil
	}

	var cmd tea.Cmd
	v.grid, cmd = v.grid.Update(km)
	return cmd
}

// View renders the dialog body.
func (v *TableSelectorView) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(v.title))
	b.WriteString("\n\n")
	if _, ok := v.picker.(filterable); ok && (v.filtering || v.filter.Value() != "") {
		b.WriteString(v.filter.View())
		b.WriteString("\n")
	}
	b.WriteString(v.grid.View())
	b.WriteString("\n\n")

	if t := v.picker.Tentative(); t != nil {
		b.WriteString(dimStyle.Render("Marked: ") + nameStyle.Render(t.RowLabel()))
	} else {
		b.WriteString(dimStyle.Render("Nothing marked"))
	}
	b.WriteString("\n")

	selectBtn := "[s] Select"
	if v.picker.SelectDisabled() {
		b.WriteString(dimStyle.Render(selectBtn))
	} else {
		b.WriteString(nameStyle.Render(selectBtn))
	}
	b.WriteString("  " + dimStyle.Render("[esc] Cancel  space:mark  enter:choose  /:filter"))
	return b.String()
}
