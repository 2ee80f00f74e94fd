// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package formsvc

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/confighub/flowdesk/internal/logging"
	"github.com/confighub/flowdesk/internal/selectsvc"
	"github.com/confighub/flowdesk/pkg/backend"
)

// Lookup names used by FieldSpec.Lookup.
const (
	LookupRoles            = "roles"
	LookupUsers            = "users"
	LookupProjects         = "projects"
	LookupApprovalFlows    = "approvalFlows"
	LookupButtons          = "buttons"
	LookupProgramTemplates = "programTemplates"
	LookupEntityTypes      = "entityTypes"
)

// Options maps a lookup name to its candidate rows.
type Options map[string][]selectsvc.Row

type loader func(ctx context.Context, svc backend.Service) ([]selectsvc.Row, error)

var loaders = map[string]loader{
	LookupRoles:         resourceLoader(backend.Service.Roles),
	LookupUsers:         resourceLoader(backend.Service.Users),
	LookupProjects:      resourceLoader(backend.Service.Projects),
	LookupApprovalFlows: resourceLoader(backend.Service.ApprovalFlows),
	LookupButtons: func(ctx context.Context, svc backend.Service) ([]selectsvc.Row, error) {
		items, err := svc.Lookups().Buttons(ctx)
		return toRows(items), err
	},
	LookupProgramTemplates: func(ctx context.Context, svc backend.Service) ([]selectsvc.Row, error) {
		items, err := svc.Lookups().ProgramTemplates(ctx)
		return toRows(items), err
	},
	LookupEntityTypes: func(ctx context.Context, svc backend.Service) ([]selectsvc.Row, error) {
		items, err := svc.Lookups().EntityTypes(ctx)
		return toRows(items), err
	},
}

func resourceLoader[T backend.Entity[T]](res func(backend.Service) backend.Resource[T]) loader {
	return func(ctx context.Context, svc backend.Service) ([]selectsvc.Row, error) {
		items, err := res(svc).GetAll(ctx)
		return toRows(items), err
	}
}

func toRows[T selectsvc.Row](items []T) []selectsvc.Row {
	rows := make([]selectsvc.Row, len(items))
	for i, item := range items {
		rows[i] = item
	}
	return rows
}

// maxConcurrentLookups bounds parallel lookup requests per form.
const maxConcurrentLookups = 4

// LoadOptions fetches every lookup the schema uses, concurrently. A lookup
// that fails is logged and left empty so the form still opens.
func LoadOptions(ctx context.Context, svc backend.Service, schema Schema, log *logging.Logger) Options {
	opts := make(Options)
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(maxConcurrentLookups)
	for _, name := range schema.Lookups() {
		load, ok := loaders[name]
		if !ok {
			log.Errorf("no loader for lookup %q", name)
			continue
		}
		g.Go(func() error {
			rows, err := load(ctx, svc)
			if err != nil {
				log.Errorf("load lookup %s: %v", name, err)
				rows = nil
			}
			mu.Lock()
			opts[name] = rows
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return opts
}

// LoadLookup fetches a single lookup by name.
func LoadLookup(ctx context.Context, svc backend.Service, name string) ([]selectsvc.Row, error) {
	load, ok := loaders[name]
	if !ok {
		return nil, fmt.Errorf("unknown lookup %q", name)
	}
	return load(ctx, svc)
}
