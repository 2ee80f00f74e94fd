// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/confighub/flowdesk/internal/clierr"
	"github.com/confighub/flowdesk/internal/formsvc"
	"github.com/confighub/flowdesk/internal/selectsvc"
	"github.com/confighub/flowdesk/pkg/backend"
)

// resolveEntity finds the form binding for a command-line entity name.
func resolveEntity(name string) (formsvc.Entity, error) {
	reg := formsvc.DefaultRegistry()
	if e, ok := reg.Get(strings.ToLower(name)); ok {
		return e, nil
	}
	return nil, fmt.Errorf("unknown entity %q (one of: %s)", name, strings.Join(reg.Keys(), ", "))
}

// connect loads config and the saved session and returns the backend.
func (o *rootOptions) connect() (backend.Service, context.Context, context.CancelFunc, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	svc, err := buildService(cfg, loadSession())
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	return svc, ctx, cancel, nil
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "List the records of one entity",
		Long: `List the records of one entity as a table.

Entities: ` + strings.Join(formsvc.DefaultRegistry().Keys(), ", ") + `

Examples:
  flowdesk list users
  flowdesk list approval-boxes --json
  flowdesk list projects --demo`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeEntities,
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := resolveEntity(args[0])
			if err != nil {
				return err
			}
			svc, ctx, cancel, err := opts.connect()
			if err != nil {
				return err
			}
			defer cancel()

			rows, err := entity.List(ctx, svc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, clierr.NothingFound(strings.ToLower(entity.Title())))
				return nil
			}
			return writeTable(out, entity.Columns(), rows)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <entity> <id>",
		Short: "Show one record",
		Example: `  flowdesk get users u-kim
  flowdesk get approval-flows f-po -o json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeEntityIDs(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := resolveEntity(args[0])
			if err != nil {
				return err
			}
			svc, ctx, cancel, err := opts.connect()
			if err != nil {
				return err
			}
			defer cancel()

			row, err := entity.Get(ctx, svc, args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch output {
			case "json":
				return writeJSON(out, row)
			case "yaml", "":
				data, err := yaml.Marshal(row)
				if err != nil {
					return fmt.Errorf("encode %s: %w", args[1], err)
				}
				_, err = out.Write(data)
				return err
			default:
				return fmt.Errorf("unsupported output %q (json or yaml)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format: yaml or json")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:               "delete <entity> <id>",
		Short:             "Delete one record",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeEntityIDs(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := resolveEntity(args[0])
			if err != nil {
				return err
			}
			svc, ctx, cancel, err := opts.connect()
			if err != nil {
				return err
			}
			defer cancel()

			row, err := entity.Get(ctx, svc, args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete %s %q?", entity.Singular(), row.RowLabel())) {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			if err := entity.Delete(ctx, svc, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %s %s\n", entity.Singular(), args[1])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func writeTable(out io.Writer, columns []selectsvc.Column, rows []selectsvc.Row) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := []string{"ID"}
	for _, c := range columns {
		header = append(header, strings.ToUpper(c.Title))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range rows {
		cells := []string{r.RowID()}
		for _, c := range columns {
			cells = append(cells, selectsvc.Cell(r, c.Field))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
