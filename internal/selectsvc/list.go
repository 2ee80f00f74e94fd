// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package selectsvc

// ListState is the ListSelector's mode.
type ListState int

const (
	// Collapsed shows the current selection.
	Collapsed ListState = iota
	// Picking has the picker modal open.
	Picking
)

func (s ListState) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Picking:
		return "picking"
	default:
		return "unknown"
	}
}

// ListSelector maintains the ids chosen for a multi-reference field.
// Ids are added through a Picker hosted in a modal and removed directly.
//
// Additions are limited to ids present in the candidate rows. Ids loaded
// from the API that no candidate resolves are kept (so a failed lookup
// never erases saved data) but Resolved leaves them out.
type ListSelector struct {
	Label string

	rows     []Row
	selected *SelectionSet
	global   bool
	state    ListState
	picker   Picker
	modal    *Modal

	// OnSelectionChange receives the ids after every change.
	OnSelectionChange func(ids []string)
	// OnGlobalChange receives the new flag value after every toggle.
	OnGlobalChange func(global bool)
}

// NewListSelector wires picker into a modal. selected may be nil.
func NewListSelector(label string, rows []Row, selected *SelectionSet, picker Picker) *ListSelector {
	if selected == nil {
		selected = &SelectionSet{}
	}
	ls := &ListSelector{
		Label:    label,
		rows:     rows,
		selected: selected,
		picker:   picker,
		modal:    NewModal("Add " + label),
	}
	picker.SetOnSelect(ls.confirm)
	ls.modal.OnReset(picker.Reset)
	ls.modal.SetOnClose(func() { ls.state = Collapsed })
	return ls
}

// State returns Collapsed or Picking.
func (l *ListSelector) State() ListState { return l.state }

// Picker returns the hosted picker.
func (l *ListSelector) Picker() Picker { return l.picker }

// Modal returns the picker's modal.
func (l *ListSelector) Modal() *Modal { return l.modal }

// Global reports the global flag.
func (l *ListSelector) Global() bool { return l.global }

// CanAdd reports whether the add affordance is enabled.
func (l *ListSelector) CanAdd() bool { return !l.global }

// Selection returns the underlying set.
func (l *ListSelector) Selection() *SelectionSet { return l.selected }

// IDs returns the selected ids in order.
func (l *ListSelector) IDs() []string { return l.selected.IDs() }

// Rows returns the candidates.
func (l *ListSelector) Rows() []Row { return l.rows }

// SetRows replaces the candidates. The selection is left alone.
func (l *ListSelector) SetRows(rows []Row) {
	l.rows = rows
	if l.state == Picking {
		l.picker.SetRows(rows)
	}
}

// Resolved returns the selected rows in selection order, skipping ids
// no candidate matches.
func (l *ListSelector) Resolved() []Row {
	var out []Row
	for _, id := range l.selected.IDs() {
		if r, ok := Find(l.rows, id); ok {
			out = append(out, r)
		}
	}
	return out
}

// Open moves to Picking. It fails while the global flag is set.
func (l *ListSelector) Open() error {
	if l.global {
		return ErrGlobalSelection
	}
	l.picker.SetRows(l.rows)
	l.state = Picking
	l.modal.Open()
	return nil
}

// Cancel closes the picker without changing the selection.
func (l *ListSelector) Cancel() {
	if l.state != Picking {
		return
	}
	l.modal.Close()
}

// Add appends id if it is a known candidate and not yet selected.
// It reports whether the selection changed.
func (l *ListSelector) Add(id string) bool {
	if l.global {
		return false
	}
	if _, ok := Find(l.rows, id); !ok {
		return false
	}
	if !l.selected.Add(id) {
		return false
	}
	l.changed()
	return true
}

// Remove drops id. Ignored while the global flag is set.
func (l *ListSelector) Remove(id string) bool {
	if l.global {
		return false
	}
	if !l.selected.Remove(id) {
		return false
	}
	l.changed()
	return true
}

// SetGlobal flips the global flag. The held ids are kept either way.
func (l *ListSelector) SetGlobal(global bool) {
	if l.global == global {
		return
	}
	l.global = global
	if global && l.state == Picking {
		l.modal.Close()
	}
	if l.OnGlobalChange != nil {
		l.OnGlobalChange(global)
	}
}

// ToggleGlobal inverts the global flag.
func (l *ListSelector) ToggleGlobal() { l.SetGlobal(!l.global) }

// InitGlobal sets the flag without firing OnGlobalChange, for seeding
// from a stored record.
func (l *ListSelector) InitGlobal(global bool) { l.global = global }

func (l *ListSelector) confirm(row Row) {
	l.Add(row.RowID())
	l.modal.Close()
}

func (l *ListSelector) changed() {
	if l.OnSelectionChange != nil {
		l.OnSelectionChange(l.selected.IDs())
	}
}
