// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package selectsvc holds the UI-independent state behind the console's
// selection dialogs: the table selector, the list selector that hosts it
// in a modal, and the modal lifecycle itself.
package selectsvc

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Row is any record that can be shown in a grid or picked in a dialog.
// RowID must be unique within one candidate set.
type Row interface {
	RowID() string
	RowLabel() string
	GetField(name string) (string, bool)
}

// ErrGlobalSelection is returned when adding to a list whose global flag is on.
var ErrGlobalSelection = errors.New("selection applies globally")

// Column describes one grid column.
type Column struct {
	Field string
	Title string
	Width int // relative weight; 0 means 1
}

// Col builds a column titled from its field name.
func Col(field string, width int) Column {
	return Column{Field: field, Title: TitleFor(field), Width: width}
}

// TitleFor turns a JSON field name into a column title:
// "relatedProjects" becomes "Related Projects", "roleIds" becomes "Role IDs".
func TitleFor(field string) string {
	var words []string
	var cur []rune
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, string(cur))
			cur = cur[:0]
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		words = append(words, string(cur))
	}
	caser := cases.Title(language.English)
	for i, w := range words {
		switch strings.ToLower(w) {
		case "id":
			words[i] = "ID"
		case "ids":
			words[i] = "IDs"
		default:
			words[i] = caser.String(w)
		}
	}
	return strings.Join(words, " ")
}

// Cell returns the display value of field for row, or "" when absent.
func Cell(row Row, field string) string {
	if row == nil {
		return ""
	}
	v, _ := row.GetField(field)
	return v
}

// IDs returns the ids of rows in order.
func IDs(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.RowID()
	}
	return out
}

// Find returns the row with id, if present.
func Find(rows []Row, id string) (Row, bool) {
	for _, r := range rows {
		if r.RowID() == id {
			return r, true
		}
	}
	return nil, false
}
