// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/confighub/flowdesk/internal/formsvc"
	"github.com/confighub/flowdesk/internal/selectsvc"
)

type dialogKind int

const (
	dialogAlert dialogKind = iota
	dialogConfirmDelete
)

// dialog is the console's own modal: delete confirmation and alerts.
// Its content is cleared every time it closes.
type dialog struct {
	modal   *selectsvc.Modal
	kind    dialogKind
	entity  formsvc.Entity
	row     selectsvc.Row
	message string
}

func newDialog() *dialog {
	d := &dialog{modal: selectsvc.NewModal("")}
	d.modal.OnReset(func() {
		d.kind = dialogAlert
		d.entity = nil
		d.row = nil
		d.message = ""
		d.modal.Title = ""
	})
	return d
}

func (d *dialog) confirmDelete(entity formsvc.Entity, row selectsvc.Row) {
	d.kind = dialogConfirmDelete
	d.entity = entity
	d.row = row
	d.modal.Title = "Delete " + entity.Singular() + "?"
	d.message = row.RowLabel()
	d.modal.Open()
}

func (d *dialog) alert(title, message string) {
	d.kind = dialogAlert
	d.modal.Title = title
	d.message = message
	d.modal.Open()
}

func (d *dialog) View() string {
	var b strings.Builder
	title := headerStyle
	if d.kind == dialogAlert {
		title = errStyle.Bold(true)
	}
	b.WriteString(title.Render(d.modal.Title))
	b.WriteString("\n\n")
	b.WriteString(d.message)
	b.WriteString("\n\n")
	switch d.kind {
	case dialogConfirmDelete:
		b.WriteString(errStyle.Render("[y] Delete") + "  " + dimStyle.Render("[n/esc] Cancel"))
	default:
		b.WriteString(dimStyle.Render("Press any key to close"))
	}
	return b.String()
}

// renderModal centers content in a bordered box filling the console area.
func renderModal(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modalStyle.Render(content))
}
