// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every API request.
const DefaultTimeout = 30 * time.Second

// Client talks to the flowdesk REST API.
// It implements Service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userID     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithUserID sets the X-User-ID header. The caller supplies the id from
// its session; the client never reads it from anywhere else.
func WithUserID(id string) ClientOption {
	return func(c *Client) { c.userID = id }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for the API rooted at baseURL
// (for example http://localhost:8080/api).
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Roles() Resource[Role] { return restResource[Role]{c: c, path: PathRoles} }
func (c *Client) Users() Resource[User] { return restResource[User]{c: c, path: PathUsers} }
func (c *Client) Configurations() Resource[Configuration] {
	return restResource[Configuration]{c: c, path: PathConfigurations}
}
func (c *Client) ApprovalFlows() Resource[ApprovalFlow] {
	return restResource[ApprovalFlow]{c: c, path: PathApprovalFlows}
}
func (c *Client) ApprovalBoxes() Resource[ApprovalBox] {
	return restResource[ApprovalBox]{c: c, path: PathApprovalBoxes}
}
func (c *Client) Forms() Resource[FormDefinition] {
	return restResource[FormDefinition]{c: c, path: PathForms}
}
func (c *Client) Staffing() Resource[Staffing] { return restResource[Staffing]{c: c, path: PathStaffing} }
func (c *Client) Projects() Resource[Project]  { return restResource[Project]{c: c, path: PathProjects} }
func (c *Client) Lookups() Lookups             { return restLookups{c: c} }

// do sends one request. in is JSON-encoded when non-nil; out is decoded
// from a 2xx body when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
		var eb errorBody
		if data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); len(data) > 0 {
			if json.Unmarshal(data, &eb) == nil {
				serr.Message = eb.Error
				serr.Code = eb.Code
			} else {
				serr.Message = strings.TrimSpace(string(data))
			}
		}
		return serr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

type restResource[T Entity[T]] struct {
	c    *Client
	path string
}

func (r restResource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r restResource[T]) GetAll(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r restResource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil, &item)
	return item, err
}

func (r restResource[T]) Insert(ctx context.Context, item T) (T, error) {
	var created T
	err := r.c.do(ctx, http.MethodPost, r.path, item, &created)
	return created, err
}

func (r restResource[T]) Update(ctx context.Context, item T) (T, error) {
	var updated T
	if item.RowID() == "" {
		return updated, fmt.Errorf("update %s: missing id", r.path)
	}
	err := r.c.do(ctx, http.MethodPut, r.itemPath(item.RowID()), item, &updated)
	return updated, err
}

func (r restResource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

type restLookups struct {
	c *Client
}

func (l restLookups) Buttons(ctx context.Context) ([]Button, error) {
	var out []Button
	err := l.c.do(ctx, http.MethodGet, "lookups/"+LookupButtons, nil, &out)
	return out, err
}

func (l restLookups) ProgramTemplates(ctx context.Context) ([]ProgramTemplate, error) {
	var out []ProgramTemplate
	err := l.c.do(ctx, http.MethodGet, "lookups/"+LookupProgramTemplates, nil, &out)
	return out, err
}

func (l restLookups) EntityTypes(ctx context.Context) ([]EntityType, error) {
	var out []EntityType
	err := l.c.do(ctx, http.MethodGet, "lookups/"+LookupEntityTypes, nil, &out)
	return out, err
}
