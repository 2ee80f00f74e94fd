// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/confighub/flowdesk/internal/formsvc"
	"github.com/confighub/flowdesk/internal/selectsvc"
)

// lookupColumns are the picker columns per option source.
var lookupColumns = map[string][]selectsvc.Column{
	formsvc.LookupRoles:         {selectsvc.Col("name", 3), selectsvc.Col("description", 5)},
	formsvc.LookupUsers:         {selectsvc.Col("login", 2), selectsvc.Col("name", 4)},
	formsvc.LookupProjects:      {selectsvc.Col("code", 1), selectsvc.Col("name", 4)},
	formsvc.LookupApprovalFlows: {selectsvc.Col("name", 4), selectsvc.Col("entityType", 3)},
}

func newPicker(lookup string) *selectsvc.FilterPicker {
	columns, ok := lookupColumns[lookup]
	if !ok {
		columns = defaultPickerColumns
	}
	return selectsvc.NewFilterPicker(columns, nil)
}

// ListSelectorField shows a multi-reference field: the resolved rows with
// a cursor for removal, or the global marker.
type ListSelectorField struct {
	*selectsvc.ListSelector
	cursor int
}

func (l *ListSelectorField) clamp() {
	n := len(l.Resolved())
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// View renders the field's value line.
func (l *ListSelectorField) View(focused bool) string {
	rows := l.Resolved()
	if l.Global() {
		s := cyanStyle.Render("All (applies globally)")
		if len(rows) > 0 {
			s += dimStyle.Render(fmt.Sprintf("  %d kept", len(rows)))
		}
		return s
	}
	if len(rows) == 0 {
		return dimStyle.Render("(none)")
	}
	parts := make([]string, len(rows))
	for i, r := range rows {
		label := r.RowLabel()
		if focused && i == l.cursor {
			parts[i] = headerStyle.Render("[" + label + "]")
		} else {
			parts[i] = nameStyle.Render(label)
		}
	}
	return strings.Join(parts, dimStyle.Render(", "))
}

type formField struct {
	spec   formsvc.FieldSpec
	input  textinput.Model
	choice *selectsvc.ChoiceSelector
	list   *ListSelectorField
}

func (ff *formField) textual() bool {
	switch ff.spec.Kind {
	case formsvc.KindText, formsvc.KindPassword, formsvc.KindNumber:
		return true
	}
	return false
}

// Form edits one draft. It never talks to the backend; the console saves.
type Form struct {
	entity  formsvc.Entity
	draft   *formsvc.Draft
	opts    formsvc.Options
	fields  []*formField
	focus   int
	loading bool
	errs    map[string]string
	notice  string
	keys    formKeyMap

	picker      *TableSelectorView
	pickerModal *selectsvc.Modal
}

// NewForm builds inputs for entity's schema seeded from draft. Choice and
// multi fields have no candidates until SetOptions.
func NewForm(entity formsvc.Entity, draft *formsvc.Draft) *Form {
	f := &Form{
		entity:  entity,
		draft:   draft,
		loading: true,
		errs:    make(map[string]string),
		keys:    defaultFormKeyMap(),
	}
	for _, spec := range entity.Schema().Fields {
		ff := &formField{spec: spec}
		switch spec.Kind {
		case formsvc.KindText, formsvc.KindPassword, formsvc.KindNumber:
			ti := textinput.New()
			ti.Prompt = ""
			ti.Width = 36
			ti.SetValue(draft.Get(spec.Name))
			if spec.MaxLen > 0 {
				ti.CharLimit = spec.MaxLen
			}
			if spec.Kind == formsvc.KindPassword {
				ti.EchoMode = textinput.EchoPassword
				ti.EchoCharacter = '•'
				if !draft.Mode.Creates() {
					ti.Placeholder = "unchanged"
				}
			}
			if spec.Kind == formsvc.KindNumber && spec.Range != nil {
				ti.Placeholder = fmt.Sprintf("%d-%d", spec.Range.Min, spec.Range.Max)
			}
			ff.input = ti

		case formsvc.KindChoice:
			ff.choice = selectsvc.NewChoiceSelector(spec.Label, nil, draft.Get(spec.Name), newPicker(spec.Lookup))
			ff.choice.OnChange = func(id string) { draft.Set(spec.Name, id) }

		case formsvc.KindMulti:
			ls := selectsvc.NewListSelector(spec.Label, nil, draft.Selection(spec.Name), newPicker(spec.Lookup))
			if spec.Global != "" {
				ls.InitGlobal(draft.Bool(spec.Global))
				ls.OnGlobalChange = func(global bool) { draft.SetBool(spec.Global, global) }
			}
			ff.list = &ListSelectorField{ListSelector: ls}
		}
		f.fields = append(f.fields, ff)
	}
	f.focusField(0)
	return f
}

func (f *Form) Entity() formsvc.Entity   { return f.entity }
func (f *Form) Draft() *formsvc.Draft    { return f.draft }
func (f *Form) Options() formsvc.Options { return f.opts }
func (f *Form) Loading() bool            { return f.loading }

// Title names the form by mode and source record.
func (f *Form) Title() string {
	singular := f.entity.Singular()
	switch f.draft.Mode {
	case formsvc.ModeEdit:
		return "Edit " + singular + ": " + f.draft.Source.RowLabel()
	case formsvc.ModeDuplicate:
		return "Copy of " + singular + ": " + f.draft.Source.RowLabel()
	default:
		return "New " + singular
	}
}

// SetOptions hands the loaded lookups to choice and multi fields.
func (f *Form) SetOptions(opts formsvc.Options) {
	f.opts = opts
	f.loading = false
	for _, ff := range f.fields {
		rows := opts[ff.spec.Lookup]
		switch {
		case ff.choice != nil:
			ff.choice.SetRows(rows)
		case ff.list != nil:
			ff.list.SetRows(rows)
			ff.list.clamp()
		}
	}
}

// SetErrors marks failed fields and focuses the first one.
func (f *Form) SetErrors(errs field.ErrorList) {
	f.errs = make(map[string]string, len(errs))
	first := -1
	for _, fe := range errs {
		f.errs[fe.Field] = fe.ErrorBody()
		if first < 0 {
			for i, ff := range f.fields {
				if ff.spec.Name == fe.Field {
					first = i
					break
				}
			}
		}
	}
	if first >= 0 {
		f.focusField(first)
	}
}

// Errors returns the messages currently shown, by field name.
func (f *Form) Errors() map[string]string { return f.errs }

// PickerView returns the open picker dialog, if any.
func (f *Form) PickerView() *TableSelectorView { return f.picker }

// Focused returns the focused field's name.
func (f *Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].spec.Name
}

func (f *Form) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	n := len(f.fields)
	i = (i%n + n) % n
	if cur := f.fields[f.focus]; cur.textual() {
		cur.input.Blur()
	}
	f.focus = i
	if next := f.fields[i]; next.textual() {
		return next.input.Focus()
	}
	return nil
}

// Update routes a message to the open picker or the focused field.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if f.picker != nil {
		cmd := f.picker.Update(msg)
		if !f.pickerModal.IsOpen() {
			f.picker, f.pickerModal = nil, nil
		}
		return cmd
	}
	if len(f.fields) == 0 {
		return nil
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return f.updateInput(msg)
	}
	f.notice = ""

	switch {
	case key.Matches(km, f.keys.Next):
		return f.focusField(f.focus + 1)
	case key.Matches(km, f.keys.Prev):
		return f.focusField(f.focus - 1)
	}

	ff := f.fields[f.focus]
	switch ff.spec.Kind {
	case formsvc.KindBool:
		if key.Matches(km, f.keys.Toggle) {
			f.draft.SetBool(ff.spec.Name, !f.draft.Bool(ff.spec.Name))
		}
		return nil

	case formsvc.KindChoice:
		switch {
		case key.Matches(km, f.keys.Pick):
			ff.choice.Open()
			f.openPicker(ff.choice.Modal(), ff.choice.Picker(), ff.choice.Cancel)
		case key.Matches(km, f.keys.Remove):
			ff.choice.Clear()
		}
		return nil

	case formsvc.KindMulti:
		f.updateList(ff, km)
		return nil

	default:
		return f.updateInput(km)
	}
}

func (f *Form) updateList(ff *formField, km tea.KeyMsg) {
	l := ff.list
	switch {
	case key.Matches(km, f.keys.Global):
		if ff.spec.Global != "" {
			l.ToggleGlobal()
		}
	case key.Matches(km, f.keys.Pick):
		if err := l.Open(); err != nil {
			f.notice = ff.spec.Label + " applies to all; press g to pick individually"
			return
		}
		f.openPicker(l.Modal(), l.Picker(), l.Cancel)
	case key.Matches(km, f.keys.Remove):
		rows := l.Resolved()
		if l.cursor < len(rows) && !l.Remove(rows[l.cursor].RowID()) && l.Global() {
			f.notice = ff.spec.Label + " applies to all; press g to edit"
		}
		l.clamp()
	case key.Matches(km, f.keys.Left):
		l.cursor--
		l.clamp()
	case key.Matches(km, f.keys.Right):
		l.cursor++
		l.clamp()
	}
}

func (f *Form) openPicker(modal *selectsvc.Modal, picker selectsvc.Picker, cancel func()) {
	f.pickerModal = modal
	f.picker = NewTableSelectorView(modal.Title, picker, cancel)
}

func (f *Form) updateInput(msg tea.Msg) tea.Cmd {
	ff := f.fields[f.focus]
	if !ff.textual() {
		return nil
	}
	var cmd tea.Cmd
	ff.input, cmd = ff.input.Update(msg)
	f.draft.Set(ff.spec.Name, ff.input.Value())
	return cmd
}

// SetWidth fits text inputs to a pane of the given width.
func (f *Form) SetWidth(width int) {
	w := max(width-8, 10)
	for _, ff := range f.fields {
		if ff.textual() {
			ff.input.Width = w
		}
	}
}

// View renders the form body.
func (f *Form) View() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(f.Title()))
	if f.loading {
		b.WriteString(" " + dimStyle.Render("(loading options...)"))
	}
	b.WriteString("\n\n")

	for i, ff := range f.fields {
		focused := i == f.focus
		marker, label := "  ", dimStyle.Render(ff.spec.Label)
		if focused {
			marker, label = headerStyle.Render("› "), headerStyle.Render(ff.spec.Label)
		}
		if ff.spec.Required || (ff.spec.RequiredOnCreate && f.draft.Mode.Creates()) {
			label += warnStyle.Render("*")
		}
		b.WriteString(marker + label + "\n")
		b.WriteString("    " + f.renderValue(ff, focused) + "\n")
		if msg := f.errs[ff.spec.Name]; msg != "" {
			b.WriteString("    " + errStyle.Render(msg) + "\n")
		}
	}

	if f.notice != "" {
		b.WriteString("\n" + warnStyle.Render(f.notice) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render(f.hint()))
	return b.String()
}

func (f *Form) renderValue(ff *formField, focused bool) string {
	switch ff.spec.Kind {
	case formsvc.KindBool:
		if f.draft.Bool(ff.spec.Name) {
			return okStyle.Render("[x]") + " yes"
		}
		return dimStyle.Render("[ ]") + " no"

	case formsvc.KindChoice:
		v := ff.choice.Value()
		if v == "" {
			return dimStyle.Render("(none)")
		}
		if r, ok := ff.choice.Resolved(); ok {
			return nameStyle.Render(r.RowLabel()) + dimStyle.Render(" ("+v+")")
		}
		return v

	case formsvc.KindMulti:
		return ff.list.View(focused)

	default:
		return ff.input.View()
	}
}

func (f *Form) hint() string {
	base := "ctrl+s save · esc close"
	if len(f.fields) == 0 {
		return base
	}
	ff := f.fields[f.focus]
	switch ff.spec.Kind {
	case formsvc.KindBool:
		return "space toggle · " + base
	case formsvc.KindChoice:
		return "enter choose · x clear · " + base
	case formsvc.KindMulti:
		s := "enter add · ←/→ move · x remove · "
		if ff.spec.Global != "" {
			s += "g all · "
		}
		return s + base
	default:
		return "tab next field · " + base
	}
}
