// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/confighub/flowdesk/internal/formsvc"
	"github.com/confighub/flowdesk/internal/selectsvc"
	"github.com/confighub/flowdesk/pkg/backend"
)

const idCacheTTL = 3 * time.Second

type completionFunc func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// Record id completion cache (avoid repeated API calls during tab-complete)
var (
	cachedIDs     = map[string][]string{}
	idCacheExpiry = map[string]time.Time{}
	idCacheMu     sync.Mutex
)

// completeEntities returns entity names for the first argument.
func completeEntities(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return filterPrefix(formsvc.DefaultRegistry().Keys(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeEntityIDs completes <entity> then <id>.
func completeEntityIDs(opts *rootOptions) completionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			return completeEntities(cmd, args, toComplete)
		case 1:
			entity, err := resolveEntity(args[0])
			if err != nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return filterPrefix(recordIDs(opts, entity), toComplete), cobra.ShellCompDirectiveNoFileComp
		default:
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	}
}

// completeUserIDs completes the login argument.
func completeUserIDs(opts *rootOptions) completionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		users := formsvc.DefaultRegistry().MustGet(formsvc.KeyUsers)
		return filterPrefix(recordIDs(opts, users), toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// recordIDs lists entity's ids, cached briefly per entity.
func recordIDs(opts *rootOptions, entity formsvc.Entity) []string {
	idCacheMu.Lock()
	defer idCacheMu.Unlock()

	key := entity.Key()
	if time.Now().Before(idCacheExpiry[key]) && len(cachedIDs[key]) > 0 {
		return cachedIDs[key]
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return nil
	}
	svc, err := buildService(cfg, loadSession())
	if err != nil {
		return nil
	}

	// Quick timeout for completion - don't block shell
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ids, err := listIDs(ctx, svc, entity)
	if err != nil {
		return nil
	}

	cachedIDs[key] = ids
	idCacheExpiry[key] = time.Now().Add(idCacheTTL)
	return ids
}

func listIDs(ctx context.Context, svc backend.Service, entity formsvc.Entity) ([]string, error) {
	rows, err := entity.List(ctx, svc)
	if err != nil {
		return nil, err
	}
	return selectsvc.IDs(rows), nil
}

// filterPrefix filters strings by prefix (case-insensitive)
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		return items
	}
	var filtered []string
	lowerPrefix := strings.ToLower(prefix)
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
