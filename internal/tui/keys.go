// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding
	// Navigation
	NextTab key.Binding
	PrevTab key.Binding
	NextSub key.Binding
	PrevSub key.Binding
	Grow    key.Binding
	Shrink  key.Binding
	Focus   key.Binding
	// Row actions
	Open      key.Binding
	Add       key.Binding
	Duplicate key.Binding
	Delete    key.Binding
	Close     key.Binding
	Save      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		NextTab:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev tab")),
		NextSub:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevSub:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Grow:      key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "widen list")),
		Shrink:    key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "narrow list")),
		Focus:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "switch pane")),
		Open:      key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter/e", "edit")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Duplicate: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Add, k.Delete, k.NextTab, k.NextSub, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab, k.NextSub, k.PrevSub},
		{k.Open, k.Add, k.Duplicate, k.Delete, k.Refresh},
		{k.Save, k.Close, k.Focus, k.Grow, k.Shrink},
		{k.Help, k.Quit},
	}
}

// formKeyMap is active while the detail panel has focus.
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Pick   key.Binding
	Remove key.Binding
	Global key.Binding
	Left   key.Binding
	Right  key.Binding
}

func defaultFormKeyMap() formKeyMap {
	return formKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Pick:   key.NewBinding(key.WithKeys("enter", "+"), key.WithHelp("enter", "choose")),
		Remove: key.NewBinding(key.WithKeys("x", "delete", "backspace"), key.WithHelp("x", "remove")),
		Global: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "apply to all")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev item")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next item")),
	}
}

// pickerKeyMap drives a TableSelectorView.
type pickerKeyMap struct {
	Click       key.Binding
	DoubleClick key.Binding
	Select      key.Binding
	Filter      key.Binding
	Cancel      key.Binding
}

func defaultPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Click:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mark")),
		DoubleClick: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		Select:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "select")),
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// gridKeyMap keeps table movement off the letters the console uses.
func gridKeyMap() table.KeyMap {
	return table.KeyMap{
		LineUp:       key.NewBinding(key.WithKeys("up", "k")),
		LineDown:     key.NewBinding(key.WithKeys("down", "j")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		GotoTop:      key.NewBinding(key.WithKeys("home")),
		GotoBottom:   key.NewBinding(key.WithKeys("end")),
	}
}
