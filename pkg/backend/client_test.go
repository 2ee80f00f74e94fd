// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package backend_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confighub/flowdesk/pkg/backend"
	"github.com/confighub/flowdesk/pkg/backend/backendtest"
)

func newTestClient(t *testing.T) (*backend.Client, *backendtest.Server) {
	t.Helper()
	srv := backendtest.NewServer(backend.NewDemoService())
	t.Cleanup(srv.Close)
	c := backend.NewClient(srv.APIURL(),
		backend.WithToken("secret"),
		backend.WithUserID("u-admin"),
		backend.WithTimeout(5*time.Second),
	)
	return c, srv
}

func TestClientGetAll(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	roles, err := c.Roles().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, "r-admin", roles[0].ID)
	assert.Equal(t, "approve,reject,return,delegate", roles[0].ButtonIDs)

	users, err := c.Users().GetAll(ctx)
	require.NoError(t, err)
	for _, u := range users {
		assert.Empty(t, u.Password, "password must not be returned for %s", u.Login)
	}
}

func TestClientCRUDRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	created, err := c.Projects().Insert(ctx, backend.Project{Code: "DLT", Name: "Delta", Active: true})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := c.Projects().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Delta", got.Name)

	got.Name = "Delta Rollout"
	updated, err := c.Projects().Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Delta Rollout", updated.Name)

	require.NoError(t, c.Projects().Delete(ctx, created.ID))

	_, err = c.Projects().Get(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrNotFound))
}

func TestClientSendsSessionHeaders(t *testing.T) {
	c, srv := newTestClient(t)

	_, err := c.Lookups().Buttons(context.Background())
	require.NoError(t, err)

	reqs := srv.Requests()
	require.NotEmpty(t, reqs)
	last := reqs[len(reqs)-1]
	assert.Equal(t, "/api/lookups/buttons", last.Path)
	assert.Equal(t, "u-admin", last.UserID)
	assert.Equal(t, "Bearer secret", last.Auth)
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{name: "not found", status: http.StatusNotFound, sentinel: backend.ErrNotFound},
		{name: "conflict", status: http.StatusConflict, sentinel: backend.ErrConflict},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "forbidden", status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(t)
			srv.FailNext("/api/roles", tt.status)

			_, err := c.Roles().GetAll(context.Background())
			require.Error(t, err)

			var serr *backend.StatusError
			require.True(t, errors.As(err, &serr), "expected StatusError, got %T", err)
			assert.Equal(t, tt.status, serr.StatusCode)
			assert.Equal(t, "INJECTED", serr.Code)
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
			}
		})
	}
}

func TestClientInsertConflict(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Roles().Insert(context.Background(), backend.Role{ID: "r-admin", Name: "dup"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrConflict))
}

func TestClientUpdateRequiresID(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Roles().Update(context.Background(), backend.Role{Name: "nameless"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestClientNetworkError(t *testing.T) {
	c := backend.NewClient("http://127.0.0.1:1/api", backend.WithTimeout(time.Second))

	_, err := c.Roles().GetAll(context.Background())
	require.Error(t, err)
	var serr *backend.StatusError
	assert.False(t, errors.As(err, &serr))
}
