// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package selectsvc

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// DefaultSeparator is the delimiter the API uses for id lists.
const DefaultSeparator = ","

// SelectionSet is an ordered list of ids without duplicates.
// The zero value is empty and ready to use.
type SelectionSet struct {
	ids  []string
	seen sets.Set[string]
}

// NewSelectionSet builds a set from ids, dropping blanks and repeats.
func NewSelectionSet(ids ...string) *SelectionSet {
	s := &SelectionSet{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// ParseSelectionSet splits a delimited id string as stored by the API.
func ParseSelectionSet(raw, sep string) *SelectionSet {
	if sep == "" {
		sep = DefaultSeparator
	}
	s := &SelectionSet{}
	if strings.TrimSpace(raw) == "" {
		return s
	}
	for _, part := range strings.Split(raw, sep) {
		s.Add(strings.TrimSpace(part))
	}
	return s
}

// Add appends id if it is non-blank and not already present.
// It reports whether the set changed.
func (s *SelectionSet) Add(id string) bool {
	if id == "" {
		return false
	}
	if s.seen == nil {
		s.seen = sets.New[string]()
	}
	if s.seen.Has(id) {
		return false
	}
	s.seen.Insert(id)
	s.ids = append(s.ids, id)
	return true
}

// Remove drops id and reports whether it was present.
func (s *SelectionSet) Remove(id string) bool {
	if !s.Has(id) {
		return false
	}
	s.seen.Delete(id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return true
}

// Has reports membership.
func (s *SelectionSet) Has(id string) bool {
	return s != nil && s.seen.Has(id)
}

// Len returns the number of ids.
func (s *SelectionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns a copy of the ids in insertion order.
func (s *SelectionSet) IDs() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.ids...)
}

// Join encodes the set for the API.
func (s *SelectionSet) Join(sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}
	if s == nil {
		return ""
	}
	return strings.Join(s.ids, sep)
}

// String implements fmt.Stringer.
func (s *SelectionSet) String() string {
	return s.Join(DefaultSeparator)
}

// Clone returns an independent copy.
func (s *SelectionSet) Clone() *SelectionSet {
	return NewSelectionSet(s.IDs()...)
}
