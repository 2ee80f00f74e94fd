// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package formsvc

import (
	"github.com/confighub/flowdesk/internal/selectsvc"
	"github.com/confighub/flowdesk/pkg/backend"
)

// Entity keys match the API resource paths.
const (
	KeyApprovalFlows  = backend.PathApprovalFlows
	KeyApprovalBoxes  = backend.PathApprovalBoxes
	KeyForms          = backend.PathForms
	KeyUsers          = backend.PathUsers
	KeyRoles          = backend.PathRoles
	KeyStaffing       = backend.PathStaffing
	KeyProjects       = backend.PathProjects
	KeyConfigurations = backend.PathConfigurations
)

func entities() []Entity {
	return []Entity{
		approvalFlows(),
		approvalBoxes(),
		forms(),
		users(),
		roles(),
		staffing(),
		projects(),
		configurations(),
	}
}

func approvalFlows() Entity {
	return NewBinding(KeyApprovalFlows, "Approval Flows", "approval flow", backend.Service.ApprovalFlows,
		[]selectsvc.Column{
			selectsvc.Col("name", 28),
			selectsvc.Col("entityType", 18),
			selectsvc.Col("programTemplateId", 20),
			selectsvc.Col("active", 8),
		},
		Schema{Fields: []FieldSpec{
			{Name: "name", Label: "Name", Kind: KindText, Required: true, MaxLen: 80, CopySuffix: true},
			{Name: "entityType", Label: "Entity type", Kind: KindChoice, Required: true, Lookup: LookupEntityTypes},
			{Name: "programTemplateId", Label: "Program template", Kind: KindChoice, Lookup: LookupProgramTemplates},
			{Name: "active", Label: "Active", Kind: KindBool, Default: "true"},
		}},
	)
}

func approvalBoxes() Entity {
	return NewBinding(KeyApprovalBoxes, "Approval Boxes", "approval box", backend.Service.ApprovalBoxes,
		[]selectsvc.Column{
			selectsvc.Col("flowId", 10),
			selectsvc.Col("order", 6),
			selectsvc.Col("title", 24),
			selectsvc.Col("roleId", 12),
			selectsvc.Col("dueDays", 8),
			selectsvc.Col("allProjects", 12),
		},
		Schema{Fields: []FieldSpec{
			{Name: "flowId", Label: "Approval flow", Kind: KindChoice, Required: true, Lookup: LookupApprovalFlows},
			{Name: "title", Label: "Title", Kind: KindText, Required: true, MaxLen: 80, CopySuffix: true},
			{Name: "order", Label: "Order", Kind: KindNumber, Required: true, Range: &Range{Min: 1, Max: 99}, Default: "1"},
			{Name: "roleId", Label: "Approver role", Kind: KindChoice, Lookup: LookupRoles},
			{Name: "dueDays", Label: "Due in days", Kind: KindNumber, Range: &Range{Min: 0, Max: 365}, Default: "0"},
			{Name: "defaultButtons", Label: "Default buttons", Kind: KindMulti, Lookup: LookupButtons},
			{Name: "relatedProjects", Label: "Related projects", Kind: KindMulti, Required: true, Lookup: LookupProjects, Global: "allProjects"},
		}},
	)
}

func forms() Entity {
	return NewBinding(KeyForms, "Forms", "form", backend.Service.Forms,
		[]selectsvc.Column{
			selectsvc.Col("name", 28),
			selectsvc.Col("entityType", 18),
			selectsvc.Col("version", 8),
			selectsvc.Col("published", 10),
		},
		Schema{Fields: []FieldSpec{
			{Name: "name", Label: "Name", Kind: KindText, Required: true, MaxLen: 80, CopySuffix: true},
			{Name: "entityType", Label: "Entity type", Kind: KindChoice, Required: true, Lookup: LookupEntityTypes},
			{Name: "programTemplateId", Label: "Program template", Kind: KindChoice, Lookup: LookupProgramTemplates},
			{Name: "version", Label: "Version", Kind: KindNumber, Required: true, Range: &Range{Min: 1, Max: 9999}, Default: "1"},
			{Name: "published", Label: "Published", Kind: KindBool},
		}},
	)
}

func users() Entity {
	return NewBinding(KeyUsers, "Users", "user", backend.Service.Users,
		[]selectsvc.Column{
			selectsvc.Col("login", 14),
			selectsvc.Col("name", 22),
			selectsvc.Col("email", 26),
			selectsvc.Col("active", 8),
		},
		Schema{Fields: []FieldSpec{
			{Name: "login", Label: "Login", Kind: KindText, Required: true, MaxLen: 32, CopySuffix: true},
			{Name: "name", Label: "Name", Kind: KindText, Required: true, MaxLen: 80},
			{Name: "email", Label: "Email", Kind: KindText, MaxLen: 120},
			{Name: "roleIds", Label: "Roles", Kind: KindMulti, Lookup: LookupRoles},
			{Name: "active", Label: "Active", Kind: KindBool, Default: "true"},
			{Name: "password", Label: "Password", Kind: KindPassword, RequiredOnCreate: true, MaxLen: 64},
			{Name: "passwordConfirm", Label: "Confirm password", Kind: KindPassword, Confirms: "password"},
		}},
	)
}

func roles() Entity {
	return NewBinding(KeyRoles, "Roles", "role", backend.Service.Roles,
		[]selectsvc.Column{
			selectsvc.Col("name", 20),
			selectsvc.Col("description", 36),
			selectsvc.Col("buttonIds", 24),
		},
		Schema{Fields: []FieldSpec{
			{Name: "name", Label: "Name", Kind: KindText, Required: true, MaxLen: 40, CopySuffix: true},
			{Name: "description", Label: "Description", Kind: KindText, MaxLen: 200},
			{Name: "buttonIds", Label: "Buttons", Kind: KindMulti, Lookup: LookupButtons},
		}},
	)
}

func staffing() Entity {
	return NewBinding(KeyStaffing, "Staffing", "staffing", backend.Service.Staffing,
		[]selectsvc.Column{
			selectsvc.Col("userId", 12),
			selectsvc.Col("projectId", 14),
			selectsvc.Col("roleId", 12),
			selectsvc.Col("allocation", 10),
		},
		Schema{Fields: []FieldSpec{
			{Name: "userId", Label: "User", Kind: KindChoice, Required: true, Lookup: LookupUsers},
			{Name: "projectId", Label: "Project", Kind: KindChoice, Required: true, Lookup: LookupProjects},
			{Name: "roleId", Label: "Role", Kind: KindChoice, Required: true, Lookup: LookupRoles},
			{Name: "allocation", Label: "Allocation %", Kind: KindNumber, Required: true, Range: &Range{Min: 0, Max: 100}, Default: "100"},
		}},
	)
}

func projects() Entity {
	return NewBinding(KeyProjects, "Projects", "project", backend.Service.Projects,
		[]selectsvc.Column{
			selectsvc.Col("code", 12),
			selectsvc.Col("name", 30),
			selectsvc.Col("active", 8),
		},
		Schema{Fields: []FieldSpec{
			{Name: "code", Label: "Code", Kind: KindText, Required: true, MaxLen: 16},
			{Name: "name", Label: "Name", Kind: KindText, Required: true, MaxLen: 80, CopySuffix: true},
			{Name: "active", Label: "Active", Kind: KindBool, Default: "true"},
		}},
	)
}

func configurations() Entity {
	return NewBinding(KeyConfigurations, "Configurations", "configuration", backend.Service.Configurations,
		[]selectsvc.Column{
			selectsvc.Col("key", 24),
			selectsvc.Col("value", 24),
			selectsvc.Col("global", 8),
			selectsvc.Col("projectIds", 24),
		},
		Schema{Fields: []FieldSpec{
			{Name: "key", Label: "Key", Kind: KindText, Required: true, MaxLen: 64, CopySuffix: true},
			{Name: "value", Label: "Value", Kind: KindText, Required: true, MaxLen: 200},
			{Name: "description", Label: "Description", Kind: KindText, MaxLen: 200},
			{Name: "projectIds", Label: "Projects", Kind: KindMulti, Required: true, Lookup: LookupProjects, Global: "global"},
		}},
	)
}
