// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package navsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row string

func (r row) RowID() string                  { return string(r) }
func (r row) RowLabel() string               { return string(r) }
func (r row) GetField(string) (string, bool) { return "", false }

func TestMainTabResetsSubTabAndSelection(t *testing.T) {
	for main := range DefaultTabs {
		n := New(DefaultTabs)
		n.SelectMainTab(main)
		if len(DefaultTabs[main].SubTabs) > 1 {
			n.SelectSubTab(1)
		}
		n.OpenEdit(row("r1"))

		for target := range DefaultTabs {
			n.SelectMainTab(target)
			assert.Equal(t, 0, n.SubTab(), "main %d -> %d", main, target)
			assert.Nil(t, n.Selected())
			assert.Equal(t, PanelClosed, n.Panel())
			assert.Equal(t, DefaultTabs[target].SubTabs[0], n.Active())

			n.OpenEdit(row("again"))
		}
	}
}

func TestSubTabClearsSelection(t *testing.T) {
	n := New(DefaultTabs)
	n.Select(row("r1"))
	require.True(t, n.SelectSubTab(1))
	assert.Nil(t, n.Selected())
	assert.Equal(t, "approval-boxes", n.Active().Entity)

	assert.False(t, n.SelectSubTab(99))
	assert.Equal(t, 1, n.SubTab())
}

func TestCycleTabs(t *testing.T) {
	n := New(DefaultTabs)
	n.PrevMainTab()
	assert.Equal(t, len(DefaultTabs)-1, n.MainTab())
	n.NextMainTab()
	assert.Equal(t, 0, n.MainTab())

	n.PrevSubTab()
	assert.Equal(t, len(DefaultTabs[0].SubTabs)-1, n.SubTab())
	n.NextSubTab()
	assert.Equal(t, 0, n.SubTab())
}

func TestPanelRows(t *testing.T) {
	n := New(DefaultTabs)
	assert.Nil(t, n.PanelRow())

	n.OpenEdit(row("r1"))
	assert.Equal(t, PanelEdit, n.Panel())
	assert.Equal(t, row("r1"), n.PanelRow())

	// Add after a selection must hand nil to the form.
	n.OpenCreate()
	assert.Equal(t, PanelCreate, n.Panel())
	assert.Nil(t, n.PanelRow())

	n.OpenDuplicate(row("r2"))
	assert.Equal(t, PanelDuplicate, n.Panel())
	assert.Equal(t, row("r2"), n.PanelRow())

	n.ClosePanel()
	assert.Equal(t, PanelClosed, n.Panel())
	assert.Nil(t, n.PanelRow())
	assert.Equal(t, row("r2"), n.Selected(), "closing does not change the selection")

	n.OpenEdit(nil)
	assert.Equal(t, PanelClosed, n.Panel())
}

func TestSplitClamped(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		want  float64
	}{
		{name: "grow", delta: 0.1, want: 0.6},
		{name: "shrink", delta: -0.1, want: 0.4},
		{name: "clamp max", delta: 5, want: MaxSplit},
		{name: "clamp min", delta: -5, want: MinSplit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(DefaultTabs)
			n.Resize(tt.delta)
			assert.InDelta(t, tt.want, n.Split(), 1e-9)
		})
	}
}

func TestEpochDiscardsStaleResults(t *testing.T) {
	n := New(DefaultTabs)
	ctx, epoch := n.Context()
	require.NoError(t, ctx.Err())
	assert.True(t, n.Current(epoch))

	n.SelectSubTab(1)
	assert.False(t, n.Current(epoch), "tab switch must invalidate in-flight loads")
	assert.Error(t, ctx.Err(), "previous context is cancelled")

	ctx2, epoch2 := n.Context()
	assert.Greater(t, epoch2, epoch)
	n.Refresh()
	assert.False(t, n.Current(epoch2))
	assert.Error(t, ctx2.Err())
}

func TestPanelEpochIndependentOfView(t *testing.T) {
	n := New(DefaultTabs)
	_, view := n.Context()

	n.OpenCreate()
	pctx, panel := n.PanelContext()
	assert.True(t, n.Current(view), "opening the panel keeps list loads valid")

	n.ClosePanel()
	assert.False(t, n.PanelCurrent(panel))
	assert.Error(t, pctx.Err())
	assert.True(t, n.Current(view))

	n.OpenCreate()
	_, panel = n.PanelContext()
	n.NextMainTab()
	assert.False(t, n.PanelCurrent(panel), "tab change closes the panel")
}

func TestRestore(t *testing.T) {
	n := New(DefaultTabs)
	n.Restore(1, 2)
	assert.Equal(t, 1, n.MainTab())
	assert.Equal(t, 2, n.SubTab())

	n.Restore(42, 0)
	assert.Equal(t, 0, n.MainTab())
	assert.Equal(t, 0, n.SubTab())
}
