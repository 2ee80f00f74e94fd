// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package navsvc tracks the console's navigation: which main tab and sub-tab
// are active, which row is selected, whether the detail panel is open, and
// how wide the split is. Every navigation change starts a new epoch so that
// results fetched for an earlier view can be recognised and dropped.
package navsvc

import (
	"context"
	"sync"

	"github.com/confighub/flowdesk/internal/selectsvc"
)

// SubTab is one entry under a main tab. Entity names the form binding
// shown for it.
type SubTab struct {
	Title  string
	Entity string
}

// Tab is a main navigation tab.
type Tab struct {
	Title   string
	SubTabs []SubTab
}

// DefaultTabs is the console's navigation tree.
var DefaultTabs = []Tab{
	{Title: "Workflow", SubTabs: []SubTab{
		{Title: "Approval Flows", Entity: "approval-flows"},
		{Title: "Approval Boxes", Entity: "approval-boxes"},
		{Title: "Forms", Entity: "forms"},
	}},
	{Title: "Organization", SubTabs: []SubTab{
		{Title: "Users", Entity: "users"},
		{Title: "Roles", Entity: "roles"},
		{Title: "Staffing", Entity: "staffing"},
		{Title: "Projects", Entity: "projects"},
	}},
	{Title: "Settings", SubTabs: []SubTab{
		{Title: "Configurations", Entity: "configurations"},
	}},
}

// PanelMode describes the detail panel.
type PanelMode int

const (
	PanelClosed PanelMode = iota
	PanelEdit
	PanelCreate
	PanelDuplicate
)

func (p PanelMode) String() string {
	switch p {
	case PanelClosed:
		return "closed"
	case PanelEdit:
		return "edit"
	case PanelCreate:
		return "create"
	case PanelDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Split ratio bounds and default.
const (
	MinSplit     = 0.2
	MaxSplit     = 0.8
	DefaultSplit = 0.5
)

// Navigator is the navigation state machine. It is driven from the UI
// loop; Epoch and Current may be called from any goroutine.
type Navigator struct {
	tabs     []Tab
	main     int
	sub      int
	selected selectsvc.Row
	panel    PanelMode
	split    float64

	view     generation
	panelGen generation
}

// generation is an epoch counter paired with a context that is cancelled
// when the counter moves on.
type generation struct {
	mu     sync.Mutex
	epoch  uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func (g *generation) advance() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	g.epoch++
	g.ctx, g.cancel = context.WithCancel(context.Background())
}

func (g *generation) current() (context.Context, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ctx, g.epoch
}

func (g *generation) stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
}

// New returns a navigator over tabs positioned on the first sub-tab.
// tabs must be non-empty and every tab must have a sub-tab.
func New(tabs []Tab) *Navigator {
	n := &Navigator{tabs: tabs, split: DefaultSplit}
	n.view.advance()
	n.panelGen.advance()
	return n
}

// Tabs returns the navigation tree.
func (n *Navigator) Tabs() []Tab { return n.tabs }

// MainTab returns the active main tab index.
func (n *Navigator) MainTab() int { return n.main }

// SubTab returns the active sub-tab index within the main tab.
func (n *Navigator) SubTab() int { return n.sub }

// Active returns the active sub-tab.
func (n *Navigator) Active() SubTab { return n.tabs[n.main].SubTabs[n.sub] }

// Selected returns the selected row, or nil.
func (n *Navigator) Selected() selectsvc.Row { return n.selected }

// Panel returns the detail panel mode.
func (n *Navigator) Panel() PanelMode { return n.panel }

// PanelRow is the row handed to the form: the selected row when editing
// or duplicating, nil when creating or closed.
func (n *Navigator) PanelRow() selectsvc.Row {
	switch n.panel {
	case PanelEdit, PanelDuplicate:
		return n.selected
	default:
		return nil
	}
}

// Split returns the list pane's share of the width.
func (n *Navigator) Split() float64 { return n.split }

// SelectMainTab activates tab i, moves to its first sub-tab, clears the
// selection and closes the panel. Out of range indexes are ignored.
func (n *Navigator) SelectMainTab(i int) bool {
	if i < 0 || i >= len(n.tabs) {
		return false
	}
	n.main = i
	n.sub = 0
	n.reset()
	return true
}

// NextMainTab and PrevMainTab cycle the main tabs.
func (n *Navigator) NextMainTab() { n.SelectMainTab((n.main + 1) % len(n.tabs)) }
func (n *Navigator) PrevMainTab() { n.SelectMainTab((n.main + len(n.tabs) - 1) % len(n.tabs)) }

// SelectSubTab activates sub-tab i of the current main tab, clears the
// selection and closes the panel.
func (n *Navigator) SelectSubTab(i int) bool {
	if i < 0 || i >= len(n.tabs[n.main].SubTabs) {
		return false
	}
	n.sub = i
	n.reset()
	return true
}

// NextSubTab and PrevSubTab cycle the sub-tabs of the current main tab.
func (n *Navigator) NextSubTab() {
	count := len(n.tabs[n.main].SubTabs)
	n.SelectSubTab((n.sub + 1) % count)
}

func (n *Navigator) PrevSubTab() {
	count := len(n.tabs[n.main].SubTabs)
	n.SelectSubTab((n.sub + count - 1) % count)
}

// Restore jumps to a saved position, falling back to the first tab.
func (n *Navigator) Restore(main, sub int) {
	if !n.SelectMainTab(main) {
		n.SelectMainTab(0)
		return
	}
	n.SelectSubTab(sub)
}

// Select marks row as selected without opening the panel.
func (n *Navigator) Select(row selectsvc.Row) { n.selected = row }

// OpenEdit selects row and opens the panel in edit mode.
func (n *Navigator) OpenEdit(row selectsvc.Row) {
	if row == nil {
		return
	}
	n.selected = row
	n.panel = PanelEdit
	n.panelGen.advance()
}

// OpenCreate opens the panel in create mode. Any earlier selection is
// not passed to the form.
func (n *Navigator) OpenCreate() {
	n.panel = PanelCreate
	n.panelGen.advance()
}

// OpenDuplicate opens the panel in create mode seeded from row.
func (n *Navigator) OpenDuplicate(row selectsvc.Row) {
	if row == nil {
		return
	}
	n.selected = row
	n.panel = PanelDuplicate
	n.panelGen.advance()
}

// ClosePanel returns to the list. The selection is not restored or changed.
func (n *Navigator) ClosePanel() {
	if n.panel == PanelClosed {
		return
	}
	n.panel = PanelClosed
	n.panelGen.advance()
}

// Resize moves the split by delta, clamped to [MinSplit, MaxSplit].
func (n *Navigator) Resize(delta float64) {
	n.SetSplit(n.split + delta)
}

// SetSplit sets the split, clamped to [MinSplit, MaxSplit].
func (n *Navigator) SetSplit(ratio float64) {
	switch {
	case ratio < MinSplit:
		ratio = MinSplit
	case ratio > MaxSplit:
		ratio = MaxSplit
	}
	n.split = ratio
}

// Epoch returns the current view generation. It moves on every tab or
// sub-tab change and on Refresh.
func (n *Navigator) Epoch() uint64 {
	_, epoch := n.view.current()
	return epoch
}

// Current reports whether a list result tagged with epoch still applies.
func (n *Navigator) Current(epoch uint64) bool {
	return n.Epoch() == epoch
}

// Context returns the view epoch and a context cancelled when the view
// changes.
func (n *Navigator) Context() (context.Context, uint64) {
	return n.view.current()
}

// PanelEpoch returns the detail panel generation. It moves whenever the
// panel opens, closes, or the view changes.
func (n *Navigator) PanelEpoch() uint64 {
	_, epoch := n.panelGen.current()
	return epoch
}

// PanelCurrent reports whether a form result tagged with epoch still applies.
func (n *Navigator) PanelCurrent(epoch uint64) bool {
	return n.PanelEpoch() == epoch
}

// PanelContext returns the panel epoch and a context cancelled when the
// panel changes.
func (n *Navigator) PanelContext() (context.Context, uint64) {
	return n.panelGen.current()
}

// Refresh starts a new view epoch without moving, so an in-flight load for
// the current view is superseded by the reload.
func (n *Navigator) Refresh() { n.view.advance() }

// Stop cancels every outstanding context.
func (n *Navigator) Stop() {
	n.view.stop()
	n.panelGen.stop()
}

func (n *Navigator) reset() {
	n.selected = nil
	n.panel = PanelClosed
	n.view.advance()
	n.panelGen.advance()
}
