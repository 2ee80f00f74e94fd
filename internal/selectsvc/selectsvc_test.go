// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package selectsvc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	id   string
	name string
}

func (r testRow) RowID() string    { return r.id }
func (r testRow) RowLabel() string { return r.name }
func (r testRow) GetField(name string) (string, bool) {
	switch name {
	case "id":
		return r.id, true
	case "name":
		return r.name, true
	}
	return "", false
}

func rowsAB() []Row {
	return []Row{testRow{"1", "A"}, testRow{"2", "B"}}
}

func newList(rows []Row, ids ...string) *ListSelector {
	return NewListSelector("Items", rows, NewSelectionSet(ids...), NewTableSelector([]Column{Col("name", 1)}, nil))
}

func TestParseSelectionSet(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "blank", raw: "  ", want: nil},
		{name: "single", raw: "a", want: []string{"a"}},
		{name: "order kept", raw: "c,a,b", want: []string{"c", "a", "b"}},
		{name: "duplicates collapse", raw: "a,b,a", want: []string{"a", "b"}},
		{name: "blank segments dropped", raw: "a,,b, ", want: []string{"a", "b"}},
		{name: "spaces trimmed", raw: " a , b ", want: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSelectionSet(tt.raw, ",").IDs()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectionSetJoin(t *testing.T) {
	s := NewSelectionSet("x", "y")
	assert.Equal(t, "x,y", s.Join(""))
	assert.Equal(t, "x;y", s.Join(";"))

	var nilSet *SelectionSet
	assert.Equal(t, "", nilSet.Join(","))
	assert.Equal(t, 0, nilSet.Len())
	assert.False(t, nilSet.Has("x"))
}

func TestSelectionSetCloneIsIndependent(t *testing.T) {
	s := NewSelectionSet("a")
	c := s.Clone()
	c.Add("b")
	assert.Equal(t, []string{"a"}, s.IDs())
	assert.Equal(t, []string{"a", "b"}, c.IDs())
}

func TestTitleFor(t *testing.T) {
	tests := map[string]string{
		"name":              "Name",
		"relatedProjects":   "Related Projects",
		"roleIds":           "Role IDs",
		"programTemplateId": "Program Template ID",
		"id":                "ID",
	}
	for field, want := range tests {
		if got := TitleFor(field); got != want {
			t.Errorf("TitleFor(%q) = %q, want %q", field, got, want)
		}
	}
}

func TestTableSelectorConfirmDisabledWithoutTentative(t *testing.T) {
	ts := NewTableSelector(nil, rowsAB())
	var got []Row
	ts.SetOnSelect(func(r Row) { got = append(got, r) })

	assert.True(t, ts.SelectDisabled())
	assert.False(t, ts.Confirm())
	assert.Empty(t, got)

	ts.Click(rowsAB()[1])
	assert.False(t, ts.SelectDisabled())
	assert.Empty(t, got, "click must not confirm")

	assert.True(t, ts.Confirm())
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].RowID())
}

func TestDoubleClickEqualsClickThenConfirm(t *testing.T) {
	for _, row := range rowsAB() {
		var viaDouble, viaClick Row

		a := NewTableSelector(nil, rowsAB())
		a.SetOnSelect(func(r Row) { viaDouble = r })
		a.DoubleClick(row)

		b := NewTableSelector(nil, rowsAB())
		b.SetOnSelect(func(r Row) { viaClick = r })
		b.Click(row)
		b.Confirm()

		assert.Equal(t, viaClick, viaDouble)
		assert.Equal(t, a.Tentative(), b.Tentative())
	}
}

func TestFilterPicker(t *testing.T) {
	rows := []Row{testRow{"1", "Apollo"}, testRow{"2", "Borealis"}, testRow{"3", "Cirrus"}}
	fp := NewFilterPicker([]Column{Col("name", 1)}, rows)

	fp.Click(rows[1])
	fp.SetFilter("or")
	assert.Equal(t, []string{"2"}, IDs(fp.Rows()))
	assert.Equal(t, "2", fp.Tentative().RowID(), "matching tentative row survives filtering")

	fp.SetFilter("cir")
	assert.Equal(t, []string{"3"}, IDs(fp.Rows()))
	assert.Nil(t, fp.Tentative())

	fp.Reset()
	assert.Equal(t, "", fp.Query())
	assert.Len(t, fp.Rows(), 3)
}

func TestListSelectorScenario(t *testing.T) {
	ls := newList(rowsAB())
	var changes [][]string
	ls.OnSelectionChange = func(ids []string) { changes = append(changes, ids) }

	require.NoError(t, ls.Open())
	assert.Equal(t, Picking, ls.State())
	ls.Picker().DoubleClick(rowsAB()[0])
	assert.Equal(t, Collapsed, ls.State())
	assert.Equal(t, []string{"1"}, ls.IDs())

	require.NoError(t, ls.Open())
	ls.Picker().DoubleClick(rowsAB()[0])
	assert.Equal(t, []string{"1"}, ls.IDs(), "adding a present id is a no-op")
	assert.Equal(t, Collapsed, ls.State())

	assert.True(t, ls.Remove("1"))
	assert.Empty(t, ls.IDs())

	assert.Equal(t, [][]string{{"1"}, nil}, changes)
}

func TestListSelectorCancelLeavesSelection(t *testing.T) {
	ls := newList(rowsAB(), "2")
	require.NoError(t, ls.Open())
	ls.Picker().Click(rowsAB()[0])

	ls.Cancel()
	assert.Equal(t, Collapsed, ls.State())
	assert.Equal(t, []string{"2"}, ls.IDs())
	assert.Nil(t, ls.Picker().Tentative(), "closing the modal resets the picker")
	assert.False(t, ls.Modal().IsOpen())
}

func TestListSelectorGlobalFlag(t *testing.T) {
	ls := newList(rowsAB(), "1")
	var flags []bool
	ls.OnGlobalChange = func(g bool) { flags = append(flags, g) }

	ls.SetGlobal(true)
	assert.False(t, ls.CanAdd())
	assert.ErrorIs(t, ls.Open(), ErrGlobalSelection)
	assert.Equal(t, Collapsed, ls.State())
	assert.False(t, ls.Add("2"))
	assert.False(t, ls.Remove("1"))
	assert.Equal(t, []string{"1"}, ls.IDs())

	ls.SetGlobal(false)
	assert.True(t, ls.CanAdd())
	assert.NoError(t, ls.Open())
	assert.Equal(t, []string{"1"}, ls.IDs())
	assert.Equal(t, []bool{true, false}, flags)
}

func TestListSelectorGlobalWhilePickingClosesModal(t *testing.T) {
	ls := newList(rowsAB())
	require.NoError(t, ls.Open())
	ls.SetGlobal(true)
	assert.Equal(t, Collapsed, ls.State())
	assert.False(t, ls.Modal().IsOpen())
}

func TestListSelectorResolvedDropsUnknownIDs(t *testing.T) {
	ls := newList(rowsAB(), "9", "2")
	assert.Equal(t, []string{"2"}, IDs(ls.Resolved()))
	assert.Equal(t, []string{"9", "2"}, ls.IDs(), "stored ids are not discarded")

	assert.False(t, ls.Add("7"), "unknown ids cannot be added")
}

func TestListSelectorAddRemoveProperty(t *testing.T) {
	rows := []Row{testRow{"1", "A"}, testRow{"2", "B"}, testRow{"3", "C"}}
	candidates := map[string]bool{"1": true, "2": true, "3": true}
	pool := []string{"1", "2", "3", "4", ""}
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		ls := newList(rows)
		for step := 0; step < 30; step++ {
			id := pool[rng.Intn(len(pool))]
			switch rng.Intn(4) {
			case 0:
				ls.Add(id)
			case 1:
				ls.Remove(id)
			case 2:
				if ls.Open() == nil {
					if r, ok := Find(rows, id); ok {
						ls.Picker().DoubleClick(r)
					} else {
						ls.Cancel()
					}
				}
			case 3:
				ls.ToggleGlobal()
			}

			seen := map[string]bool{}
			for _, got := range ls.IDs() {
				if seen[got] {
					t.Fatalf("run %d step %d: duplicate id %q in %v", run, step, got, ls.IDs())
				}
				seen[got] = true
				if !candidates[got] {
					t.Fatalf("run %d step %d: id %q not a candidate", run, step, got)
				}
			}
		}
	}
}

func TestModalAlwaysResetsOnClose(t *testing.T) {
	m := NewModal("confirm")
	resets, closes := 0, 0
	m.OnReset(func() { resets++ })
	m.SetOnClose(func() { closes++ })

	m.Open()
	assert.True(t, m.IsOpen())
	m.Close()
	assert.False(t, m.IsOpen())
	m.Close()
	assert.Equal(t, 2, resets)
	assert.Equal(t, 2, closes)

	var nilModal *Modal
	assert.False(t, nilModal.IsOpen())
}

func TestChoiceSelector(t *testing.T) {
	var changed []string
	cs := NewChoiceSelector("Role", rowsAB(), "1", NewTableSelector(nil, nil))
	cs.OnChange = func(id string) { changed = append(changed, id) }

	cs.Open()
	assert.True(t, cs.Modal().IsOpen())
	assert.Equal(t, "1", cs.Picker().Tentative().RowID(), "current value is pre-clicked")

	cs.Picker().DoubleClick(rowsAB()[1])
	assert.False(t, cs.Modal().IsOpen())
	assert.Equal(t, "2", cs.Value())

	cs.Open()
	cs.Cancel()
	assert.Equal(t, "2", cs.Value())
	assert.Nil(t, cs.Picker().Tentative())

	cs.Clear()
	assert.Equal(t, []string{"2", ""}, changed)
}
