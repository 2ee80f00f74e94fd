// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/confighub/flowdesk/internal/config"
	"github.com/confighub/flowdesk/internal/session"
	"github.com/confighub/flowdesk/internal/tui"
	"github.com/confighub/flowdesk/pkg/backend"
)

func newConsoleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Open the interactive console (the default command)",
		Long: `Open the interactive console.

Keys:
  [ / ]            switch main tab
  tab / shift+tab  switch view within a tab
  enter / e        edit the selected record
  a / c / d        add, copy or delete
  ctrl+s           save the open form
  < / >            resize the list
  ?                full help

The last tab is remembered for 24 hours in ~/.flowdesk/session.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd, opts)
		},
	}
}

func runConsole(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	snapPath := session.DefaultPath()
	snap, err := session.Load(snapPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignoring saved session: %v\n", err)
		snap = nil
	}
	sess := snap.Session()

	svc, err := buildService(cfg, sess)
	if err != nil {
		return err
	}

	log := opts.openLog(cfg, "console")
	log.Section("Console")
	if cfg.Demo {
		log.Printf("backend: in-memory (fixtures=%q)", cfg.Fixtures)
	} else {
		log.Printf("backend: %s", cfg.APIURL)
	}
	log.Printf("user: %q", sess.UserID)

	runErr := tui.Run(tui.Options{
		Service:      svc,
		Session:      sess,
		Logger:       log,
		SnapshotPath: snapPath,
		Restore:      snap,
	})
	if runErr != nil {
		log.Errorf("console: %v", runErr)
	}
	if path := log.Close(); path != "" {
		fmt.Fprintf(os.Stderr, "Log: %s\n", path)
	}
	return runErr
}

// buildService picks the in-memory backend for demo runs and the REST
// client otherwise. The session's user id is sent with every request.
func buildService(cfg *config.Config, sess session.Session) (backend.Service, error) {
	if !cfg.Demo {
		return backend.NewClient(cfg.APIURL,
			backend.WithToken(cfg.Token),
			backend.WithUserID(sess.UserID),
			backend.WithTimeout(cfg.Timeout),
		), nil
	}
	if cfg.Fixtures == "" {
		return backend.NewDemoService(), nil
	}
	mem := backend.NewMemoryService()
	if err := mem.LoadFixtureFile(cfg.Fixtures); err != nil {
		return nil, err
	}
	return mem, nil
}
