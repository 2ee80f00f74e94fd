// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when inserting a record whose id is taken.
	ErrConflict = errors.New("conflict")
)

// StatusError is a non-2xx API response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is lets errors.Is match the sentinel for the response status.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// errorBody is the JSON shape of an API error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
