// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package backend

import "strconv"

// Role is a named permission group. ButtonIDs lists the approval buttons
// members may use, comma separated.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ButtonIDs   string `json:"buttonIds,omitempty"`
	UpdatedBy   string `json:"updatedBy,omitempty"`
}

func (r Role) RowID() string         { return r.ID }
func (r Role) RowLabel() string      { return r.Name }
func (r Role) WithID(id string) Role { r.ID = id; return r }
func (r Role) GetField(name string) (string, bool) {
	return lookupField(map[string]string{
		"id":          r.ID,
		"name":        r.Name,
		"description": r.Description,
		"buttonIds":   r.ButtonIDs,
		"updatedBy":   r.UpdatedBy,
	}, name)
}

// User is a console account. Password is write-only: the API never returns it.
type User struct {
	ID        string `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	RoleIDs   string `json:"roleIds,omitempty"`
	Active    bool   `json:"active"`
	Password  string `json:"password,omitempty"`
	UpdatedBy string `json:"updatedBy,omitempty"`
}

func (u User) RowID() string         { return u.ID }
func (u User) RowLabel() string      { return u.Name + " (" + u.Login + ")" }
func (u User) WithID(id string) User { u.ID = id; return u }
func (u User) GetField(name string) (string, bool) {
	return lookupField(map[string]string{
		"id":        u.ID,
		"login":     u.Login,
		"name":      u.Name,
		"email":     u.Email,
		"roleIds":   u.RoleIDs,
		"active":    strconv.FormatBool(u.Active),
		"updatedBy": u.UpdatedBy,
	}, name)
}

// Configuration is a key/value setting. When Global is false it applies
// only to the projects in ProjectIDs.
type Configuration struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Global      bool   `json:"global"`
	ProjectIDs  string `json:"projectIds,omitempty"`
	UpdatedBy   string `json:"updatedBy,omitempty"`
}

func (c Configuration) RowID() string                  { return c.ID }
func (c Configuration) RowLabel() string               { return c.Key }
func (c Configuration) WithID(id string) Configuration { c.ID = id; return c }
func (c Configuration) GetField(name string) (string, bool) {
	return lookupField(map[string]string{
		"id":          c.ID,
		"key":         c.Key,
		"value":       c.Value,
		"description": c.Description,
		"global":      strconv.FormatBool(c.Global),
		"projectIds":  c.ProjectIDs,
		"updatedBy":   c.UpdatedBy,
	}, name)
}

// ApprovalFlow routes an entity type through an ordered list of ApprovalBoxes.
type ApprovalFlow struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	EntityType        string `json:"entityType"`
	ProgramTemplateID string `json:"programTemplateId,omitempty"`
	Active            bool   `json:"active"`
	CreatedBy         string `json:"createdBy,omitempty"`
	UpdatedBy         string `json:"updatedBy,omitempty"`
}

func (f ApprovalFlow) RowID() string                 { return f.ID }
func (f ApprovalFlow) RowLabel() string              { return f.Name }
func (f ApprovalFlow) WithID(id string) ApprovalFlow { f.ID = id; return f }
func (f ApprovalFlow) GetField(name string) (string, bool) {
	return lookupField(map[string]string{
		"id":                f.ID,
		"name":              f.Name,
		"entityType":        f.EntityType,
		"programTemplateId": f.ProgramTemplateID,
		"active":            strconv.FormatBool(f.Active),
		"createdBy":         f.CreatedBy,
		"updatedBy":         f.UpdatedBy,
	}, name)
}

// ApprovalBox is one step of an ApprovalFlow. RelatedProjects is ignored
// when AllProjects is set.
type ApprovalBox struct {
	ID              string `json:"id"`
	FlowID          string `json:"flowId"`
	Title           string `json:"title"`
	Order           int    `json:"order"`
	RoleID          string `json:"roleId,omitempty"`
	DueDays         int    `json:"dueDays"`
	DefaultButtons  string `json:"defaultButtons,omitempty"`
	RelatedProjects string `json:"relatedProjects,omitempty"`
	AllProjects     bool   `json:"allProjects"`
	UpdatedBy       string `json:"updatedBy,omitempty"`
}

func (b ApprovalBox) RowID() string                { return b.ID }
func (b ApprovalBox) RowLabel() string             { return b.Title }
func (b ApprovalBox) WithID(id string) ApprovalBox { b.ID = id; return b }
func (b ApprovalBox) GetField(name string) (string, bool) {
	return lookupField(map[string]string{
		"id":              b.ID,
		"flowId":          b.FlowID,
		"title":           b.Title,
		"order":           strconv.Itoa(b.Order),
		"roleId":          b.RoleID,
		"dueDays":         strconv.Itoa(b.DueDays),
		"defaultButtons":  b.DefaultButtons,
		"relatedProjects": b.RelatedProjects,
		"allProjects":     strconv.FormatBool(b.AllProjects),
		"updatedBy":       b.UpdatedBy,
	}, name)
}

// FormDefinition is a versioned data-entry form attached to an entity type.
type FormDefinition struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	EntityType        string `json:"entityType"`
	ProgramTemplateID string `json:"programTemplateId,omitempty"`
	Version           int    `json:"version"`
	Published         bool   `json:"published"`
	UpdatedBy         string `json:"updatedBy,omitempty"`
}

func (f FormDefinition) RowID() string                   { return f.ID }
func (f FormDefinition) RowLabel() string                { return f.Name + " v" + strconv.Itoa(f.Version) }
func (f FormDefinition) WithID(id string) FormDefinition { f.ID = id; return f }
func (f FormDefinition) GetField(name string) (string, bool) {
	return lookupField(map[string]string{
		"id":                f.ID,
		"name":              f.Name,
		"entityType":        f.EntityType,
		"programTemplateId": f.ProgramTemplateID,
		"version":           strconv.Itoa(f.Version),
		"published":         strconv.FormatBool(f.Published),
		"updatedBy":         f.UpdatedBy,
	}, name)
}

// Staffing assigns a user to a project in a role. Allocation is a percentage.
type Staffing struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	ProjectID  string `json:"projectId"`
	RoleID     string `json:"roleId"`
	Allocation int    `json:"allocation"`
	UpdatedBy  string `json:"updatedBy,omitempty"`
}

func (s Staffing) RowID() string             { return s.ID }
func (s Staffing) RowLabel() string          { return s.UserID + "@" + s.ProjectID }
func (s Staffing) WithID(id string) Staffing { s.ID = id; return s }
func (s Staffing) GetField(name string) (string, bool) {
	return lookupField(map[string]string{
		"id":         s.ID,
		"userId":     s.UserID,
		"projectId":  s.ProjectID,
		"roleId":     s.RoleID,
		"allocation": strconv.Itoa(s.Allocation),
		"updatedBy":  s.UpdatedBy,
	}, name)
}

// Project is the unit work is staffed and approved against.
type Project struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func (p Project) RowID() string            { return p.ID }
func (p Project) RowLabel() string         { return p.Code + " " + p.Name }
func (p Project) WithID(id string) Project { p.ID = id; return p }
func (p Project) GetField(name string) (string, bool) {
	return lookupField(map[string]string{
		"id":     p.ID,
		"code":   p.Code,
		"name":   p.Name,
		"active": strconv.FormatBool(p.Active),
	}, name)
}

// Button is an action offered at an approval step (approve, reject, ...).
type Button struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Action string `json:"action,omitempty"`
}

func (b Button) RowID() string    { return b.ID }
func (b Button) RowLabel() string { return b.Name }
func (b Button) GetField(name string) (string, bool) {
	return lookupField(map[string]string{"id": b.ID, "name": b.Name, "action": b.Action}, name)
}

// ProgramTemplate is a reference template flows and forms can be bound to.
type ProgramTemplate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p ProgramTemplate) RowID() string    { return p.ID }
func (p ProgramTemplate) RowLabel() string { return p.Name }
func (p ProgramTemplate) GetField(name string) (string, bool) {
	return lookupField(map[string]string{"id": p.ID, "name": p.Name}, name)
}

// EntityType names a kind of record that can carry a flow or form.
type EntityType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (e EntityType) RowID() string    { return e.ID }
func (e EntityType) RowLabel() string { return e.Name }
func (e EntityType) GetField(name string) (string, bool) {
	return lookupField(map[string]string{"id": e.ID, "name": e.Name}, name)
}

func lookupField(fields map[string]string, name string) (string, bool) {
	v, ok := fields[name]
	return v, ok
}
