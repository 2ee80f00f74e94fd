// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package selectsvc

// ChoiceSelector holds a single reference id picked through a modal.
type ChoiceSelector struct {
	Label string

	rows   []Row
	value  string
	picker Picker
	modal  *Modal

	// OnChange receives the new id after every change.
	OnChange func(id string)
}

// NewChoiceSelector wires picker into a modal with an initial value.
func NewChoiceSelector(label string, rows []Row, value string, picker Picker) *ChoiceSelector {
	c := &ChoiceSelector{
		Label:  label,
		rows:   rows,
		value:  value,
		picker: picker,
		modal:  NewModal("Choose " + label),
	}
	picker.SetOnSelect(func(r Row) {
		c.Set(r.RowID())
		c.modal.Close()
	})
	c.modal.OnReset(picker.Reset)
	return c
}

// Value returns the chosen id.
func (c *ChoiceSelector) Value() string { return c.value }

// Resolved returns the row for the chosen id, if a candidate matches.
func (c *ChoiceSelector) Resolved() (Row, bool) { return Find(c.rows, c.value) }

// Rows returns the candidates.
func (c *ChoiceSelector) Rows() []Row { return c.rows }

// SetRows replaces the candidates. The value is left alone.
func (c *ChoiceSelector) SetRows(rows []Row) { c.rows = rows }

// Picker returns the hosted picker.
func (c *ChoiceSelector) Picker() Picker { return c.picker }

// Modal returns the picker's modal.
func (c *ChoiceSelector) Modal() *Modal { return c.modal }

// Open shows the picker.
func (c *ChoiceSelector) Open() {
	c.picker.SetRows(c.rows)
	if r, ok := c.Resolved(); ok {
		c.picker.Click(r)
	}
	c.modal.Open()
}

// Cancel closes the picker without changing the value.
func (c *ChoiceSelector) Cancel() { c.modal.Close() }

// Set changes the value.
func (c *ChoiceSelector) Set(id string) {
	if id == c.value {
		return
	}
	c.value = id
	if c.OnChange != nil {
		c.OnChange(id)
	}
}

// Clear empties the value.
func (c *ChoiceSelector) Clear() { c.Set("") }
