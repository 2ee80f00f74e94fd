// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package formsvc drives every entity editor from one parameterized form.
// A Schema lists an entity's fields and rules; a Binding connects that
// schema to the entity's backend resource. The console looks bindings up
// in a Registry by entity key.
package formsvc

// Kind is an input type.
type Kind int

const (
	KindText Kind = iota
	KindPassword
	KindNumber
	KindBool
	// KindChoice holds one id picked from a lookup.
	KindChoice
	// KindMulti holds a delimited id list picked from a lookup, optionally
	// with a global flag that makes the list apply everywhere.
	KindMulti
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPassword:
		return "password"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindChoice:
		return "choice"
	case KindMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// Range bounds a number field, inclusive.
type Range struct {
	Min, Max int
}

// FieldSpec describes one form input.
type FieldSpec struct {
	// Name is the entity's JSON field name.
	Name  string
	Label string
	Kind  Kind

	Required bool
	// RequiredOnCreate applies Required only when creating.
	RequiredOnCreate bool
	MaxLen           int
	Range            *Range
	Default          string

	// Lookup names the option source for choice and multi fields.
	Lookup string
	// Global names the entity's bool field that switches a multi field to
	// "applies to everything".
	Global string
	// Separator for multi fields; DefaultSeparator when empty.
	Separator string

	// Confirms names the field this one must equal. Confirmation fields
	// are never sent to the API.
	Confirms string
	// CopySuffix marks the field that gets " (copy)" when duplicating.
	CopySuffix bool
}

// Virtual reports whether the field exists only in the form.
func (f FieldSpec) Virtual() bool { return f.Confirms != "" }

// Schema is an entity's field list, in display order.
type Schema struct {
	Fields []FieldSpec
}

// Field looks a field up by name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Lookups returns the distinct option sources the schema needs.
func (s Schema) Lookups() []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range s.Fields {
		if f.Lookup == "" || seen[f.Lookup] {
			continue
		}
		seen[f.Lookup] = true
		out = append(out, f.Lookup)
	}
	return out
}
