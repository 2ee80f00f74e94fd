// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package backend is the connection library for the flowdesk REST API.
// All reads and writes the console performs go through a Service.
package backend

import "context"

// Entity is implemented by every record type the API manages.
// WithID returns a copy of the record carrying the given id.
type Entity[T any] interface {
	RowID() string
	RowLabel() string
	GetField(name string) (string, bool)
	WithID(id string) T
}

// Resource exposes CRUD for one entity collection.
type Resource[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Lookups are the read-only reference lists used to populate choices.
type Lookups interface {
	Buttons(ctx context.Context) ([]Button, error)
	ProgramTemplates(ctx context.Context) ([]ProgramTemplate, error)
	EntityTypes(ctx context.Context) ([]EntityType, error)
}

// Service is the full API surface the console depends on.
type Service interface {
	Roles() Resource[Role]
	Users() Resource[User]
	Configurations() Resource[Configuration]
	ApprovalFlows() Resource[ApprovalFlow]
	ApprovalBoxes() Resource[ApprovalBox]
	Forms() Resource[FormDefinition]
	Staffing() Resource[Staffing]
	Projects() Resource[Project]
	Lookups() Lookups
}

// Resource paths, relative to the API base.
const (
	PathRoles          = "roles"
	PathUsers          = "users"
	PathConfigurations = "configurations"
	PathApprovalFlows  = "approval-flows"
	PathApprovalBoxes  = "approval-boxes"
	PathForms          = "forms"
	PathStaffing       = "staffing"
	PathProjects       = "projects"

	LookupButtons          = "buttons"
	LookupProgramTemplates = "program-templates"
	LookupEntityTypes      = "entity-types"
)
