// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confighub/flowdesk/internal/clierr"
	"github.com/confighub/flowdesk/internal/session"
)

// loadSession returns the saved session, or an anonymous one.
func loadSession() session.Session {
	snap, err := session.Load(session.DefaultPath())
	if err != nil {
		return session.Session{}
	}
	return snap.Session()
}

// updateSnapshot rewrites the user id in the saved snapshot, keeping the
// console position.
func updateSnapshot(userID string) error {
	path := session.DefaultPath()
	snap, err := session.Load(path)
	if err != nil {
		snap = &session.Snapshot{}
	}
	snap.UserID = userID
	return session.Save(path, snap)
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <user-id>",
		Short: "Act as a user",
		Long: `Act as a user.

The id is checked against the users list and saved in
~/.flowdesk/session.json. Records you create or change are stamped
with it, and it is sent to the API as X-User-ID.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeUserIDs(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ctx, cancel, err := opts.connect()
			if err != nil {
				return err
			}
			defer cancel()

			user, err := svc.Users().Get(ctx, args[0])
			if err != nil {
				if clierr.IsNotFound(err) {
					return clierr.WrapWithHint(fmt.Errorf("no user %q", args[0]), "flowdesk list users shows the known ids")
				}
				return err
			}
			if !user.Active {
				return fmt.Errorf("user %q is inactive", args[0])
			}
			if err := updateSnapshot(user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.RowLabel())
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			sess := loadSession()
			if sess.Anonymous() {
				fmt.Fprintln(out, "Not logged in. Run: flowdesk login <user-id>")
				return nil
			}

			svc, ctx, cancel, err := opts.connect()
			if err != nil {
				return err
			}
			defer cancel()

			user, err := svc.Users().Get(ctx, sess.UserID)
			if err != nil {
				// The id is still useful when the API is unreachable.
				fmt.Fprintf(out, "%s (%s)\n", sess.UserID, clierr.Short(err))
				return nil
			}
			fmt.Fprintln(out, user.RowLabel())
			fmt.Fprintf(out, "  id:    %s\n", user.ID)
			if user.Email != "" {
				fmt.Fprintf(out, "  email: %s\n", user.Email)
			}
			if user.RoleIDs != "" {
				fmt.Fprintf(out, "  roles: %s\n", user.RoleIDs)
			}
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := updateSnapshot(""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}
