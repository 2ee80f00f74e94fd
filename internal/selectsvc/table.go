// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package selectsvc

import "strings"

// Picker is anything a ListSelector can host in its modal to choose one row.
// TableSelector is the standard implementation.
type Picker interface {
	// SetRows replaces the candidates and clears any tentative choice.
	SetRows(rows []Row)
	// Rows returns the candidates currently offered.
	Rows() []Row
	// Click marks row as the tentative choice without confirming it.
	Click(row Row)
	// DoubleClick is Click followed by Confirm.
	DoubleClick(row Row) bool
	// Confirm hands the tentative row to the select callback.
	// It is a no-op returning false when nothing is tentative.
	Confirm() bool
	// SelectDisabled reports whether Confirm would do nothing.
	SelectDisabled() bool
	// Tentative returns the current tentative row, or nil.
	Tentative() Row
	// SetOnSelect installs the confirm callback.
	SetOnSelect(fn func(Row))
	// Reset drops the tentative choice and any transient state.
	Reset()
}

// TableSelector lets the caller confirm exactly one row from a table.
type TableSelector struct {
	columns   []Column
	rows      []Row
	tentative Row
	onSelect  func(Row)
}

var _ Picker = (*TableSelector)(nil)

// NewTableSelector returns a selector over rows showing columns.
func NewTableSelector(columns []Column, rows []Row) *TableSelector {
	return &TableSelector{columns: columns, rows: rows}
}

// Columns returns the display schema.
func (t *TableSelector) Columns() []Column { return t.columns }

func (t *TableSelector) SetRows(rows []Row) {
	t.rows = rows
	t.tentative = nil
}

func (t *TableSelector) Rows() []Row { return t.rows }

func (t *TableSelector) Click(row Row) {
	t.tentative = row
}

func (t *TableSelector) DoubleClick(row Row) bool {
	t.Click(row)
	return t.Confirm()
}

func (t *TableSelector) Confirm() bool {
	row := t.tentative
	if row == nil {
		return false
	}
	if t.onSelect != nil {
		t.onSelect(row)
	}
	return true
}

func (t *TableSelector) SelectDisabled() bool { return t.tentative == nil }

func (t *TableSelector) Tentative() Row { return t.tentative }

func (t *TableSelector) SetOnSelect(fn func(Row)) { t.onSelect = fn }

func (t *TableSelector) Reset() { t.tentative = nil }

// FilterPicker narrows a TableSelector's candidates by a case-insensitive
// substring of the row label or any shown column.
type FilterPicker struct {
	*TableSelector
	all   []Row
	query string
}

var _ Picker = (*FilterPicker)(nil)

// NewFilterPicker wraps a table selector over rows with filtering.
func NewFilterPicker(columns []Column, rows []Row) *FilterPicker {
	return &FilterPicker{TableSelector: NewTableSelector(columns, rows), all: rows}
}

func (f *FilterPicker) SetRows(rows []Row) {
	f.all = rows
	f.apply()
}

// Query returns the active filter text.
func (f *FilterPicker) Query() string { return f.query }

// SetFilter narrows the rows. A tentative row that no longer matches is dropped.
func (f *FilterPicker) SetFilter(q string) {
	f.query = q
	keep := f.tentative
	f.apply()
	if keep != nil {
		if _, ok := Find(f.rows, keep.RowID()); ok {
			f.tentative = keep
		}
	}
}

// Reset clears the filter as well as the tentative row.
func (f *FilterPicker) Reset() {
	f.query = ""
	f.apply()
}

func (f *FilterPicker) apply() {
	q := strings.ToLower(strings.TrimSpace(f.query))
	if q == "" {
		f.TableSelector.SetRows(f.all)
		return
	}
	var out []Row
	for _, r := range f.all {
		if f.matches(r, q) {
			out = append(out, r)
		}
	}
	f.TableSelector.SetRows(out)
}

func (f *FilterPicker) matches(r Row, q string) bool {
	if strings.Contains(strings.ToLower(r.RowLabel()), q) {
		return true
	}
	for _, c := range f.columns {
		if strings.Contains(strings.ToLower(Cell(r, c.Field)), q) {
			return true
		}
	}
	return false
}
