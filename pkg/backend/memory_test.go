// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoServiceSeeded(t *testing.T) {
	s := NewDemoService()
	ctx := context.Background()

	boxes, err := s.ApprovalBoxes().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, boxes, 2)
	assert.True(t, boxes[0].AllProjects)
	assert.Equal(t, "p-apollo", boxes[1].RelatedProjects)

	buttons, err := s.Lookups().Buttons(ctx)
	require.NoError(t, err)
	assert.Len(t, buttons, 4)
}

func TestMemoryInsertAssignsID(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	a, err := s.Roles().Insert(ctx, Role{Name: "A"})
	require.NoError(t, err)
	b, err := s.Roles().Insert(ctx, Role{Name: "B"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	all, err := s.Roles().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name, "insertion order is kept")
}

func TestMemoryUserPasswordIsWriteOnly(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	u, err := s.Users().Insert(ctx, User{Login: "jo", Name: "Jo", Password: "pw"})
	require.NoError(t, err)
	assert.Empty(t, u.Password)

	u.Name = "Jo Renamed"
	_, err = s.Users().Update(ctx, u)
	require.NoError(t, err)

	s.mu.RLock()
	stored := s.users.items[u.ID]
	s.mu.RUnlock()
	assert.Equal(t, "pw", stored.Password, "empty password on update keeps the old one")
	assert.Equal(t, "Jo Renamed", stored.Name)
}

func TestMemoryErrors(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()

	_, err := s.Projects().Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Projects().Update(ctx, Project{ID: "missing"})
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(s.Projects().Delete(ctx, "missing"), ErrNotFound))

	_, err = s.Projects().Insert(ctx, Project{ID: "p1"})
	require.NoError(t, err)
	_, err = s.Projects().Insert(ctx, Project{ID: "p1"})
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	s := NewDemoService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Roles().GetAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFixturesRejectsBadYAML(t *testing.T) {
	s := NewMemoryService()
	err := s.LoadFixtures([]byte("roles: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse fixtures")
}

func TestLoadFixturesMergesLookupsByID(t *testing.T) {
	s := NewMemoryService()
	ctx := context.Background()
	first := []byte("buttons:\n  - id: approve\n    name: Approve\n  - id: reject\n    name: Reject\nentityTypes:\n  - id: timesheet\n    name: Timesheet\n")
	second := []byte("buttons:\n  - id: approve\n    name: Approve now\n  - name: no id\nprogramTemplates:\n  - id: t1\n    name: Standard\n")

	require.NoError(t, s.LoadFixtures(first))
	require.NoError(t, s.LoadFixtures(first))
	require.NoError(t, s.LoadFixtures(second))

	buttons, err := s.Lookups().Buttons(ctx)
	require.NoError(t, err)
	require.Len(t, buttons, 2)
	assert.Equal(t, "Approve now", buttons[0].Name)
	assert.Equal(t, "reject", buttons[1].ID)

	types, err := s.Lookups().EntityTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 1)

	templates, err := s.Lookups().ProgramTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, 1)
}

func TestEntityGetField(t *testing.T) {
	box := ApprovalBox{ID: "b1", Title: "Review", Order: 2, AllProjects: true, DefaultButtons: "approve"}

	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{field: "title", want: "Review", wantOK: true},
		{field: "order", want: "2", wantOK: true},
		{field: "allProjects", want: "true", wantOK: true},
		{field: "defaultButtons", want: "approve", wantOK: true},
		{field: "nope", want: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := box.GetField(tt.field)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("GetField(%q) = %q, %v; want %q, %v", tt.field, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
