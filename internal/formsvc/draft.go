// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package formsvc

import (
	"strconv"
	"strings"

	"github.com/confighub/flowdesk/internal/selectsvc"
)

// Mode says how a draft will be saved.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
	// ModeDuplicate saves as a create, seeded from an existing record.
	ModeDuplicate
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Creates reports whether saving inserts a new record.
func (m Mode) Creates() bool { return m != ModeEdit }

// Draft is the unsaved copy of one entity being edited.
type Draft struct {
	Entity string
	Mode   Mode
	// SourceID is the record being edited; empty unless Mode is ModeEdit.
	SourceID string
	// Source is the row the draft was seeded from, if any. Fields the
	// schema does not cover are carried over from it on save.
	Source selectsvc.Row

	Values     map[string]string
	Selections map[string]*selectsvc.SelectionSet
}

// NewDraft seeds a draft for schema. row is nil when creating.
func NewDraft(entity string, schema Schema, row selectsvc.Row, mode Mode) *Draft {
	if row == nil && mode != ModeCreate {
		mode = ModeCreate
	}
	d := &Draft{
		Entity:     entity,
		Mode:       mode,
		Values:     make(map[string]string),
		Selections: make(map[string]*selectsvc.SelectionSet),
	}
	if mode != ModeCreate {
		d.Source = row
	}
	if mode == ModeEdit {
		d.SourceID = row.RowID()
	}

	for _, f := range schema.Fields {
		var v string
		var ok bool
		if d.Source != nil && f.Kind != KindPassword {
			v, ok = d.Source.GetField(f.Name)
		}
		if !ok {
			v = f.Default
		}
		if mode == ModeDuplicate && f.CopySuffix && v != "" {
			v += " (copy)"
		}

		switch f.Kind {
		case KindMulti:
			d.Selections[f.Name] = selectsvc.ParseSelectionSet(v, f.Separator)
			if f.Global != "" {
				g := "false"
				if d.Source != nil {
					if sv, ok := d.Source.GetField(f.Global); ok {
						g = sv
					}
				}
				d.Values[f.Global] = g
			}
		case KindBool:
			if v == "" {
				v = "false"
			}
			d.Values[f.Name] = v
		default:
			d.Values[f.Name] = v
		}
	}
	return d
}

// Get returns a scalar value.
func (d *Draft) Get(name string) string { return d.Values[name] }

// Set changes a scalar value.
func (d *Draft) Set(name, v string) { d.Values[name] = v }

// Bool reads a flag value.
func (d *Draft) Bool(name string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(d.Values[name]))
	return b
}

// SetBool changes a flag value.
func (d *Draft) SetBool(name string, b bool) { d.Values[name] = strconv.FormatBool(b) }

// Selection returns a multi field's set, creating it if needed.
func (d *Draft) Selection(name string) *selectsvc.SelectionSet {
	s, ok := d.Selections[name]
	if !ok {
		s = &selectsvc.SelectionSet{}
		d.Selections[name] = s
	}
	return s
}

// Clone returns an independent copy.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Values = make(map[string]string, len(d.Values))
	for k, v := range d.Values {
		c.Values[k] = v
	}
	c.Selections = make(map[string]*selectsvc.SelectionSet, len(d.Selections))
	for k, s := range d.Selections {
		c.Selections[k] = s.Clone()
	}
	return &c
}
