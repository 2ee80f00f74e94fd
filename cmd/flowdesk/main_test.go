// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confighub/flowdesk/internal/clierr"
	"github.com/confighub/flowdesk/internal/config"
	"github.com/confighub/flowdesk/internal/session"
	"github.com/confighub/flowdesk/pkg/backend"
	"github.com/confighub/flowdesk/pkg/backend/backendtest"
)

// isolate points HOME and the FLOWDESK_* variables at a scratch directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{config.EnvAPIURL, config.EnvToken, config.EnvTimeout, config.EnvLogDir, config.EnvFixtures} {
		t.Setenv(env, "")
	}
	return home
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--no-log"))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_Help(t *testing.T) {
	isolate(t)

	tests := []struct {
		name         string
		args         []string
		wantContains []string
	}{
		{
			name:         "root help",
			args:         []string{"--help"},
			wantContains: []string{"Usage:", "flowdesk", "Available Commands", "FLOWDESK_API_URL"},
		},
		{
			name:         "version",
			args:         []string{"version"},
			wantContains: []string{"flowdesk version dev"},
		},
		{
			name:         "list help",
			args:         []string{"list", "--help"},
			wantContains: []string{"approval-boxes", "--json"},
		},
		{
			name:         "completion bash",
			args:         []string{"completion", "bash"},
			wantContains: []string{"bash completion"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, "", tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q\n%s", want, out)
				}
			}
		})
	}
}

func TestCLI_ListDemo(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "", "list", "approval-boxes", "--demo")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[0], "FLOW ID")
	assert.Contains(t, lines[1], "b-po-1")
	assert.Contains(t, lines[2], "Finance sign-off")

	out, err = runCLI(t, "", "list", "projects", "--demo", "--json")
	require.NoError(t, err)
	var projects []backend.Project
	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	assert.Len(t, projects, 3)

	_, err = runCLI(t, "", "list", "widgets", "--demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown entity")
}

func TestCLI_ListFixtures(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects:\n  - id: p-x\n    code: X\n    name: Xylo\n"), 0644))

	out, err := runCLI(t, "", "list", "projects", "--fixtures", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Xylo")

	out, err = runCLI(t, "", "list", "roles", "--fixtures", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No roles found")
}

func TestCLI_GetAndDelete(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "", "get", "users", "u-kim", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "login: kim")
	assert.NotContains(t, out, "password")

	out, err = runCLI(t, "", "get", "users", "u-kim", "--demo", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"login": "kim"`)

	_, err = runCLI(t, "", "get", "users", "u-nobody", "--demo")
	require.Error(t, err)
	assert.True(t, clierr.IsNotFound(err))

	out, err = runCLI(t, "n\n", "delete", "roles", "r-pm", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, `Delete role "Project Manager"? [y/N]`)
	assert.Contains(t, out, "Cancelled.")

	out, err = runCLI(t, "", "delete", "roles", "r-pm", "--demo", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted role r-pm")
}

func TestCLI_AgainstAPI(t *testing.T) {
	isolate(t)
	srv := backendtest.NewServer(backend.NewDemoService())
	t.Cleanup(srv.Close)

	out, err := runCLI(t, "", "list", "users", "--api-url", srv.APIURL(), "--token", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "kim@example.com")

	reqs := srv.Requests()
	require.NotEmpty(t, reqs)
	assert.Equal(t, "Bearer secret", reqs[len(reqs)-1].Auth)

	srv.FailNext("/api/users", http.StatusForbidden)
	_, err = runCLI(t, "", "list", "users", "--api-url", srv.APIURL())
	require.Error(t, err)
	assert.True(t, clierr.IsForbidden(err))
	assert.Contains(t, clierr.Pretty(err), "flowdesk login")
}

func TestCLI_LoginWhoamiLogout(t *testing.T) {
	home := isolate(t)

	out, err := runCLI(t, "", "whoami", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	out, err = runCLI(t, "", "login", "u-kim", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Kim Lee (kim)")

	snap, err := session.Load(filepath.Join(home, ".flowdesk", "session.json"))
	require.NoError(t, err)
	assert.Equal(t, "u-kim", snap.UserID)

	out, err = runCLI(t, "", "whoami", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Kim Lee (kim)")
	assert.Contains(t, out, "roles: r-pm")

	_, err = runCLI(t, "", "login", "u-ghost", "--demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flowdesk list users")

	out, err = runCLI(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	assert.True(t, loadSession().Anonymous())
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: http://file.example/api\ntoken: from-file\n"), 0644))

	tests := []struct {
		name     string
		env      string
		opts     rootOptions
		wantURL  string
		wantTok  string
		wantDemo bool
	}{
		{name: "file only", opts: rootOptions{configPath: path}, wantURL: "http://file.example/api", wantTok: "from-file"},
		{name: "flag wins", opts: rootOptions{configPath: path, apiURL: "http://flag.example/api", token: "t"}, wantURL: "http://flag.example/api", wantTok: "t"},
		{name: "fixtures imply demo", opts: rootOptions{configPath: path, fixtures: "x.yaml"}, wantURL: "http://file.example/api", wantTok: "from-file", wantDemo: true},
		{name: "flag fixes bad env url", env: "not-a-url", opts: rootOptions{configPath: path, apiURL: "http://localhost:9999/api"}, wantURL: "http://localhost:9999/api", wantTok: "from-file"},
		{name: "demo ignores bad env url", env: "not-a-url", opts: rootOptions{configPath: path, demo: true}, wantURL: "not-a-url", wantTok: "from-file", wantDemo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(config.EnvAPIURL, tt.env)
			cfg, err := tt.opts.loadConfig()
			if err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			if cfg.APIURL != tt.wantURL {
				t.Errorf("APIURL = %q, want %q", cfg.APIURL, tt.wantURL)
			}
			if cfg.Token != tt.wantTok {
				t.Errorf("Token = %q, want %q", cfg.Token, tt.wantTok)
			}
			if cfg.Demo != tt.wantDemo {
				t.Errorf("Demo = %v, want %v", cfg.Demo, tt.wantDemo)
			}
		})
	}

	bad := rootOptions{configPath: path, apiURL: "not a url"}
	_, err := bad.loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--api-url")

	t.Setenv(config.EnvAPIURL, "not-a-url")
	_, err = (&rootOptions{configPath: path}).loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"not-a-url"`)
}

func TestCompleteEntities(t *testing.T) {
	got, dir := completeEntities(&cobra.Command{}, nil, "app")
	assert.Equal(t, []string{"approval-flows", "approval-boxes"}, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, dir)

	got, _ = completeEntities(&cobra.Command{}, []string{"users"}, "")
	assert.Empty(t, got)
}

func TestCompleteEntityIDs(t *testing.T) {
	home := isolate(t)
	opts := &rootOptions{demo: true, configPath: filepath.Join(home, "none.yaml")}
	complete := completeEntityIDs(opts)

	got, _ := complete(&cobra.Command{}, []string{"approval-flows"}, "f-")
	assert.Equal(t, []string{"f-po", "f-cr"}, got)

	got, _ = complete(&cobra.Command{}, []string{"staffing"}, "s-2")
	assert.Equal(t, []string{"s-2"}, got)

	got, _ = complete(&cobra.Command{}, []string{"nope"}, "")
	assert.Empty(t, got)

	users, _ := completeUserIDs(opts)(&cobra.Command{}, nil, "u-s")
	assert.Equal(t, []string{"u-sam"}, users)
}
