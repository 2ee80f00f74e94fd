// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package formsvc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/confighub/flowdesk/internal/selectsvc"
)

// ValidationError carries every local validation failure for one draft.
// Saving stops before any API call when it is returned.
type ValidationError struct {
	Entity string
	Errs   field.ErrorList
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, e.Errs.ToAggregate().Error())
}

// Fields returns the names of the fields that failed.
func (e *ValidationError) Fields() []string {
	var out []string
	for _, fe := range e.Errs {
		out = append(out, fe.Field)
	}
	return out
}

// Validate checks d against schema. opts supplies the valid ids for choice
// fields; a lookup with no options (for example one that failed to load)
// is not checked.
func Validate(schema Schema, d *Draft, opts Options) field.ErrorList {
	var errs field.ErrorList
	for _, f := range schema.Fields {
		path := field.NewPath(f.Name)
		v := strings.TrimSpace(d.Values[f.Name])
		required := f.Required || (f.RequiredOnCreate && d.Mode.Creates())

		switch f.Kind {
		case KindText, KindPassword:
			if required && v == "" {
				errs = append(errs, field.Required(path, f.Label+" is required"))
				continue
			}
			if f.MaxLen > 0 && utf8.RuneCountInString(v) > f.MaxLen {
				errs = append(errs, &field.Error{
					Type:     field.ErrorTypeTooLong,
					Field:    path.String(),
					BadValue: v,
					Detail:   fmt.Sprintf("may not be more than %d characters", f.MaxLen),
				})
			}
			if f.Confirms != "" && d.Values[f.Name] != d.Values[f.Confirms] {
				errs = append(errs, field.Invalid(path, "", "does not match "+strings.ToLower(labelOf(schema, f.Confirms))))
			}

		case KindNumber:
			if v == "" {
				if required {
					errs = append(errs, field.Required(path, f.Label+" is required"))
				}
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, field.Invalid(path, v, "must be a whole number"))
				continue
			}
			if f.Range != nil && (n < f.Range.Min || n > f.Range.Max) {
				errs = append(errs, field.Invalid(path, n, fmt.Sprintf("must be between %d and %d", f.Range.Min, f.Range.Max)))
			}

		case KindBool:
			if v != "" {
				if _, err := strconv.ParseBool(v); err != nil {
					errs = append(errs, field.Invalid(path, v, "must be true or false"))
				}
			}

		case KindChoice:
			if v == "" {
				if required {
					errs = append(errs, field.Required(path, f.Label+" is required"))
				}
				continue
			}
			if valid := opts[f.Lookup]; len(valid) > 0 {
				if _, ok := selectsvc.Find(valid, v); !ok {
					errs = append(errs, field.NotSupported(path, v, selectsvc.IDs(valid)))
				}
			}

		case KindMulti:
			if f.Global != "" && d.Bool(f.Global) {
				continue
			}
			if required && d.Selection(f.Name).Len() == 0 {
				msg := "select at least one"
				if f.Global != "" {
					msg += " or apply globally"
				}
				errs = append(errs, field.Required(path, msg))
			}
		}
	}
	return errs
}

func labelOf(schema Schema, name string) string {
	if f, ok := schema.Field(name); ok && f.Label != "" {
		return f.Label
	}
	return name
}
