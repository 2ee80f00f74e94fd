// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package formsvc

import (
	"fmt"
	"sync"
)

// Registry holds the entity bindings the console can show.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]Entity
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]Entity),
	}
}

// Register adds e, replacing any binding with the same key.
func (r *Registry) Register(e Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entities[e.Key()]; !ok {
		r.order = append(r.order, e.Key())
	}
	r.entities[e.Key()] = e
}

// Get returns the binding for key.
func (r *Registry) Get(key string) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[key]
	return e, ok
}

// MustGet is Get for keys known at compile time.
func (r *Registry) MustGet(key string) Entity {
	e, ok := r.Get(key)
	if !ok {
		panic(fmt.Sprintf("formsvc: no entity registered for %q", key))
	}
	return e
}

// Keys returns registered keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// DefaultRegistry returns a registry with every flowdesk entity.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range entities() {
		r.Register(e)
	}
	return r
}
