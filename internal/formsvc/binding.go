// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package formsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/confighub/flowdesk/internal/selectsvc"
	"github.com/confighub/flowdesk/internal/session"
	"github.com/confighub/flowdesk/pkg/backend"
)

// Entity is what the console needs to list and edit one record type,
// with the concrete type erased.
type Entity interface {
	Key() string
	Title() string
	Singular() string
	Columns() []selectsvc.Column
	Schema() Schema

	List(ctx context.Context, svc backend.Service) ([]selectsvc.Row, error)
	Get(ctx context.Context, svc backend.Service, id string) (selectsvc.Row, error)
	Delete(ctx context.Context, svc backend.Service, id string) error

	NewDraft(row selectsvc.Row, mode Mode) *Draft
	// Save validates d and writes it. On failure d is left untouched so the
	// user can correct it and retry.
	Save(ctx context.Context, svc backend.Service, sess session.Session, d *Draft, opts Options) (selectsvc.Row, error)
}

// Binding ties a schema to a backend resource of T.
type Binding[T backend.Entity[T]] struct {
	key      string
	title    string
	singular string
	resource func(backend.Service) backend.Resource[T]
	columns  []selectsvc.Column
	schema   Schema
}

// NewBinding returns a binding. resource selects the collection from a
// Service, e.g. backend.Service.Roles.
func NewBinding[T backend.Entity[T]](key, title, singular string, resource func(backend.Service) backend.Resource[T], columns []selectsvc.Column, schema Schema) *Binding[T] {
	return &Binding[T]{
		key:      key,
		title:    title,
		singular: singular,
		resource: resource,
		columns:  columns,
		schema:   schema,
	}
}

func (b *Binding[T]) Key() string                 { return b.key }
func (b *Binding[T]) Title() string               { return b.title }
func (b *Binding[T]) Singular() string            { return b.singular }
func (b *Binding[T]) Columns() []selectsvc.Column { return b.columns }
func (b *Binding[T]) Schema() Schema              { return b.schema }

func (b *Binding[T]) List(ctx context.Context, svc backend.Service) ([]selectsvc.Row, error) {
	items, err := b.resource(svc).GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", b.key, err)
	}
	return toRows(items), nil
}

func (b *Binding[T]) Get(ctx context.Context, svc backend.Service, id string) (selectsvc.Row, error) {
	item, err := b.resource(svc).Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", b.singular, id, err)
	}
	return item, nil
}

func (b *Binding[T]) Delete(ctx context.Context, svc backend.Service, id string) error {
	if err := b.resource(svc).Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", b.singular, id, err)
	}
	return nil
}

func (b *Binding[T]) NewDraft(row selectsvc.Row, mode Mode) *Draft {
	return NewDraft(b.key, b.schema, row, mode)
}

func (b *Binding[T]) Save(ctx context.Context, svc backend.Service, sess session.Session, d *Draft, opts Options) (selectsvc.Row, error) {
	if errs := Validate(b.schema, d, opts); len(errs) > 0 {
		return nil, &ValidationError{Entity: b.singular, Errs: errs}
	}
	item, err := b.Build(d, sess)
	if err != nil {
		return nil, err
	}

	res := b.resource(svc)
	var saved T
	if d.Mode == ModeEdit {
		saved, err = res.Update(ctx, item)
	} else {
		saved, err = res.Insert(ctx, item)
	}
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", b.singular, err)
	}
	return saved, nil
}

// Build converts a draft to T. Fields outside the schema keep the source
// record's values; virtual fields are dropped and an empty password is
// omitted so the stored one is kept.
func (b *Binding[T]) Build(d *Draft, sess session.Session) (T, error) {
	var zero T
	doc := map[string]any{}
	if d.Source != nil {
		raw, err := json.Marshal(d.Source)
		if err != nil {
			return zero, fmt.Errorf("encode %s: %w", b.singular, err)
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return zero, fmt.Errorf("decode %s: %w", b.singular, err)
		}
	}

	for _, f := range b.schema.Fields {
		if f.Virtual() {
			continue
		}
		v := d.Values[f.Name]
		switch f.Kind {
		case KindNumber:
			n := 0
			if s := strings.TrimSpace(v); s != "" {
				var err error
				if n, err = strconv.Atoi(s); err != nil {
					return zero, fmt.Errorf("%s: %w", f.Name, err)
				}
			}
			doc[f.Name] = n
		case KindBool:
			doc[f.Name] = d.Bool(f.Name)
		case KindPassword:
			if v == "" {
				delete(doc, f.Name)
			} else {
				doc[f.Name] = v
			}
		case KindMulti:
			sep := f.Separator
			if sep == "" {
				sep = selectsvc.DefaultSeparator
			}
			doc[f.Name] = d.Selection(f.Name).Join(sep)
			if f.Global != "" {
				doc[f.Global] = d.Bool(f.Global)
			}
		default:
			doc[f.Name] = strings.TrimSpace(v)
		}
	}

	if d.Mode == ModeEdit {
		doc["id"] = d.SourceID
	} else {
		delete(doc, "id")
	}
	if sess.UserID != "" {
		doc["updatedBy"] = sess.UserID
		if d.Mode.Creates() {
			doc["createdBy"] = sess.UserID
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", b.singular, err)
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return zero, fmt.Errorf("decode %s: %w", b.singular, err)
	}
	return item, nil
}
