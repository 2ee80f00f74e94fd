// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package backend

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"sigs.k8s.io/yaml"
)

//go:embed fixtures/demo.yaml
var demoFixtures []byte

// Fixtures is the on-disk shape of a MemoryService seed file.
// Field names follow the API's JSON names.
type Fixtures struct {
	Roles            []Role            `json:"roles,omitempty"`
	Users            []User            `json:"users,omitempty"`
	Configurations   []Configuration   `json:"configurations,omitempty"`
	ApprovalFlows    []ApprovalFlow    `json:"approvalFlows,omitempty"`
	ApprovalBoxes    []ApprovalBox     `json:"approvalBoxes,omitempty"`
	Forms            []FormDefinition  `json:"forms,omitempty"`
	Staffing         []Staffing        `json:"staffing,omitempty"`
	Projects         []Project         `json:"projects,omitempty"`
	Buttons          []Button          `json:"buttons,omitempty"`
	ProgramTemplates []ProgramTemplate `json:"programTemplates,omitempty"`
	EntityTypes      []EntityType      `json:"entityTypes,omitempty"`
}

// MemoryService is an in-process Service. It backs demo mode and tests.
type MemoryService struct {
	mu sync.RWMutex

	roles          *memResource[Role]
	users          *memResource[User]
	configurations *memResource[Configuration]
	flows          *memResource[ApprovalFlow]
	boxes          *memResource[ApprovalBox]
	forms          *memResource[FormDefinition]
	staffing       *memResource[Staffing]
	projects       *memResource[Project]

	buttons   []Button
	templates []ProgramTemplate
	types     []EntityType
}

// NewMemoryService returns an empty service.
func NewMemoryService() *MemoryService {
	s := &MemoryService{}
	s.roles = newMemResource[Role](&s.mu, PathRoles)
	s.users = newMemResource[User](&s.mu, PathUsers)
	s.users.redact = func(u User) User { u.Password = ""; return u }
	s.users.merge = func(old, u User) User {
		if u.Password == "" {
			u.Password = old.Password
		}
		return u
	}
	s.configurations = newMemResource[Configuration](&s.mu, PathConfigurations)
	s.flows = newMemResource[ApprovalFlow](&s.mu, PathApprovalFlows)
	s.boxes = newMemResource[ApprovalBox](&s.mu, PathApprovalBoxes)
	s.forms = newMemResource[FormDefinition](&s.mu, PathForms)
	s.staffing = newMemResource[Staffing](&s.mu, PathStaffing)
	s.projects = newMemResource[Project](&s.mu, PathProjects)
	return s
}

// NewDemoService returns a service seeded with the built-in demo data.
func NewDemoService() *MemoryService {
	s := NewMemoryService()
	if err := s.LoadFixtures(demoFixtures); err != nil {
		panic(fmt.Sprintf("demo fixtures: %v", err))
	}
	return s
}

// LoadFixtureFile seeds the service from a YAML or JSON file.
func (s *MemoryService) LoadFixtureFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	return s.LoadFixtures(data)
}

// LoadFixtures seeds the service from YAML or JSON. Records without an id
// get a generated one. Existing records with the same id are replaced.
func (s *MemoryService) LoadFixtures(data []byte) error {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse fixtures: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles.seed(f.Roles)
	s.users.seed(f.Users)
	s.configurations.seed(f.Configurations)
	s.flows.seed(f.ApprovalFlows)
	s.boxes.seed(f.ApprovalBoxes)
	s.forms.seed(f.Forms)
	s.staffing.seed(f.Staffing)
	s.projects.seed(f.Projects)
	s.buttons = seedLookup(s.buttons, f.Buttons)
	s.templates = seedLookup(s.templates, f.ProgramTemplates)
	s.types = seedLookup(s.types, f.EntityTypes)
	return nil
}

// seedLookup merges items into list by id. Items without an id are skipped.
func seedLookup[T interface{ RowID() string }](list, items []T) []T {
	index := make(map[string]int, len(list))
	for i, item := range list {
		index[item.RowID()] = i
	}
	for _, item := range items {
		id := item.RowID()
		if id == "" {
			continue
		}
		if i, ok := index[id]; ok {
			list[i] = item
			continue
		}
		index[id] = len(list)
		list = append(list, item)
	}
	return list
}

func (s *MemoryService) Roles() Resource[Role]                   { return s.roles }
func (s *MemoryService) Users() Resource[User]                   { return s.users }
func (s *MemoryService) Configurations() Resource[Configuration] { return s.configurations }
func (s *MemoryService) ApprovalFlows() Resource[ApprovalFlow]   { return s.flows }
func (s *MemoryService) ApprovalBoxes() Resource[ApprovalBox]    { return s.boxes }
func (s *MemoryService) Forms() Resource[FormDefinition]         { return s.forms }
func (s *MemoryService) Staffing() Resource[Staffing]            { return s.staffing }
func (s *MemoryService) Projects() Resource[Project]             { return s.projects }
func (s *MemoryService) Lookups() Lookups                        { return memLookups{s: s} }

type memLookups struct {
	s *MemoryService
}

func (l memLookups) Buttons(ctx context.Context) ([]Button, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return append([]Button(nil), l.s.buttons...), ctx.Err()
}

func (l memLookups) ProgramTemplates(ctx context.Context) ([]ProgramTemplate, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return append([]ProgramTemplate(nil), l.s.templates...), ctx.Err()
}

func (l memLookups) EntityTypes(ctx context.Context) ([]EntityType, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return append([]EntityType(nil), l.s.types...), ctx.Err()
}

// memResource keeps records in insertion order. All resources of one
// MemoryService share its lock.
type memResource[T Entity[T]] struct {
	mu    *sync.RWMutex
	path  string
	items map[string]T
	order []string

	// redact strips write-only fields on read; merge carries them over on update.
	redact func(T) T
	merge  func(old, updated T) T
}

func (r *memResource[T]) view(item T) T {
	if r.redact != nil {
		return r.redact(item)
	}
	return item
}

func newMemResource[T Entity[T]](mu *sync.RWMutex, path string) *memResource[T] {
	return &memResource[T]{mu: mu, path: path, items: make(map[string]T)}
}

// seed must be called with the lock held.
func (r *memResource[T]) seed(items []T) {
	for _, item := range items {
		if item.RowID() == "" {
			item = item.WithID(uuid.NewString())
		}
		if _, ok := r.items[item.RowID()]; !ok {
			r.order = append(r.order, item.RowID())
		}
		r.items[item.RowID()] = item
	}
}

func (r *memResource[T]) GetAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.view(r.items[id]))
	}
	return out, nil
}

func (r *memResource[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return zero, fmt.Errorf("%s %q: %w", r.path, id, ErrNotFound)
	}
	return r.view(item), nil
}

func (r *memResource[T]) Insert(ctx context.Context, item T) (T, error) {
	if err := ctx.Err(); err != nil {
		return item, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.RowID() == "" {
		item = item.WithID(uuid.NewString())
	}
	if _, ok := r.items[item.RowID()]; ok {
		return item, fmt.Errorf("%s %q: %w", r.path, item.RowID(), ErrConflict)
	}
	r.items[item.RowID()] = item
	r.order = append(r.order, item.RowID())
	return r.view(item), nil
}

func (r *memResource[T]) Update(ctx context.Context, item T) (T, error) {
	if err := ctx.Err(); err != nil {
		return item, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.items[item.RowID()]
	if !ok {
		return item, fmt.Errorf("%s %q: %w", r.path, item.RowID(), ErrNotFound)
	}
	if r.merge != nil {
		item = r.merge(old, item)
	}
	r.items[item.RowID()] = item
	return r.view(item), nil
}

func (r *memResource[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("%s %q: %w", r.path, id, ErrNotFound)
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
