// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confighub/flowdesk/internal/session"
	"github.com/confighub/flowdesk/pkg/backend"
	"github.com/confighub/flowdesk/pkg/backend/backendtest"
)

// Journey tests drive the whole console the way a user would, against the
// demo data served over HTTP.

func startJourney(t *testing.T, opts Options) (*teatest.TestModel, *backend.MemoryService) {
	t.Helper()
	mem := backend.NewDemoService()
	srv := backendtest.NewServer(mem)
	t.Cleanup(srv.Close)

	opts.Service = backend.NewClient(srv.APIURL(),
		backend.WithUserID("u-admin"),
		backend.WithTimeout(5*time.Second))
	opts.Session = session.Session{UserID: "u-admin"}

	tm := teatest.NewTestModel(t, New(opts), teatest.WithInitialTermSize(120, 40))
	return tm, mem
}

func waitForText(t *testing.T, tm *teatest.TestModel, text string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte(text))
	}, teatest.WithDuration(3*time.Second))
}

func typeText(tm *teatest.TestModel, s string) {
	for _, r := range s {
		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// ===========================================================================
// Journey 1: browse tabs and come back to the same place
// ===========================================================================

func TestJourney_BrowseAndResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	tm, _ := startJourney(t, Options{SnapshotPath: path})

	waitForText(t, tm, "Purchase order approval")

	// Next sub-tab: approval boxes
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	waitForText(t, tm, "Finance sign-off")

	// Next main tab: organization / users
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	waitForText(t, tm, "kim@example.com")

	// Widen the list, then quit
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'>'}})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second))
	m, ok := final.(Console)
	require.True(t, ok)
	assert.Equal(t, 1, m.nav.MainTab())
	assert.Equal(t, 0, m.nav.SubTab())

	_, err := os.Stat(path)
	require.NoError(t, err, "quitting saves the position")
	snap, err := session.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.MainTab)
	assert.Equal(t, "u-admin", snap.UserID)
	assert.InDelta(t, 0.55, snap.Split, 1e-9)

	// A fresh console restores the tab
	restored := New(Options{Service: backend.NewDemoService(), Restore: snap})
	assert.Equal(t, "users", restored.nav.Active().Entity)
}

// ===========================================================================
// Journey 2: create an approval flow through the form and its picker
// ===========================================================================

func TestJourney_CreateApprovalFlow(t *testing.T) {
	tm, mem := startJourney(t, Options{})

	waitForText(t, tm, "Purchase order approval")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	waitForText(t, tm, "New approval flow")
	time.Sleep(200 * time.Millisecond) // options load

	typeText(tm, "Travel approval")

	// Entity type: open the picker and take the first row
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForText(t, tm, "Choose Entity type")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlS})
	waitForText(t, tm, "Saved Travel approval")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second))

	flows, err := mem.ApprovalFlows().GetAll(t.Context())
	require.NoError(t, err)
	require.Len(t, flows, 3)
	assert.Equal(t, "Travel approval", flows[2].Name)
	assert.Equal(t, "purchase-order", flows[2].EntityType)
	assert.True(t, flows[2].Active)
}

// ===========================================================================
// Journey 3: a failed save keeps what the user typed
// ===========================================================================

func TestJourney_SaveValidationKeepsDraft(t *testing.T) {
	tm, mem := startJourney(t, Options{})

	waitForText(t, tm, "Purchase order approval")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	waitForText(t, tm, "New approval flow")
	typeText(tm, "Half done")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlS})
	waitForText(t, tm, "Cannot save approval flow")

	// Any key dismisses the alert; the form is still there
	tm.Send(tea.KeyMsg{Type: tea.KeyEscape})
	waitForText(t, tm, "Entity type is required")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second))
	m := final.(Console)
	require.NotNil(t, m.Form())
	assert.Equal(t, "Half done", m.Form().Draft().Get("name"))

	flows, err := mem.ApprovalFlows().GetAll(t.Context())
	require.NoError(t, err)
	assert.Len(t, flows, 2)
}

// ===========================================================================
// Journey 4: delete with confirmation
// ===========================================================================

func TestJourney_DeleteWithConfirm(t *testing.T) {
	tm, mem := startJourney(t, Options{})

	waitForText(t, tm, "Change request review")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	waitForText(t, tm, "Delete approval flow?")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	waitForText(t, tm, "Deleted Change request review")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second))

	_, err := mem.ApprovalFlows().Get(t.Context(), "f-cr")
	assert.ErrorIs(t, err, backend.ErrNotFound)
}
