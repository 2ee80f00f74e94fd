// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package clierr provides error classification and user-friendly error formatting for the CLI.
// It helps distinguish between different error types and provides actionable hints.
package clierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/confighub/flowdesk/internal/formsvc"
	"github.com/confighub/flowdesk/pkg/backend"
)

// Common error types for CLI output.
const (
	TypeNotFound   = "not_found"  // Record missing on the server
	TypeForbidden  = "forbidden"  // Not logged in, or not allowed
	TypeConflict   = "conflict"   // Duplicate id or concurrent change
	TypeNetwork    = "network"    // Connection/network errors
	TypeInternal   = "internal"   // Internal/unexpected errors
	TypeValidation = "validation" // Input validation errors
)

func statusOf(err error) int {
	var se *backend.StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsForbidden checks if the error is an authentication or permission error.
func IsForbidden(err error) bool {
	if err == nil {
		return false
	}
	switch statusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "access denied") ||
		strings.Contains(msg, "unauthorized")
}

// IsNotFound checks if the error indicates a missing record.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, backend.ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// IsConflict checks if the server rejected a write as conflicting.
func IsConflict(err error) bool {
	return err != nil && errors.Is(err, backend.ErrConflict)
}

// IsValidation checks if a save was stopped by local validation.
func IsValidation(err error) bool {
	var ve *formsvc.ValidationError
	return errors.As(err, &ve)
}

// IsNetworkError checks if the error is a connection/network error.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network is unreachable") ||
		strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "context deadline exceeded")
}

// ClassifyError determines the type of error for appropriate handling.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if IsValidation(err) {
		return TypeValidation
	}
	if IsForbidden(err) {
		return TypeForbidden
	}
	if IsConflict(err) {
		return TypeConflict
	}
	if IsNotFound(err) {
		return TypeNotFound
	}
	if IsNetworkError(err) {
		return TypeNetwork
	}
	return TypeInternal
}

// Pretty formats an error with a user-friendly message and actionable hints.
func Pretty(err error) string {
	if err == nil {
		return ""
	}

	errType := ClassifyError(err)
	baseMsg := err.Error()

	switch errType {
	case TypeValidation:
		var ve *formsvc.ValidationError
		errors.As(err, &ve)
		lines := make([]string, 0, len(ve.Errs))
		for _, fe := range ve.Errs {
			lines = append(lines, "  - "+fe.Error())
		}
		return fmt.Sprintf("Invalid %s:\n%s", ve.Entity, strings.Join(lines, "\n"))

	case TypeForbidden:
		return fmt.Sprintf("Access denied: %s\n\nHint: Check your credentials:\n"+
			"  - flowdesk whoami to see the current session\n"+
			"  - flowdesk login <user-id> to switch users\n"+
			"  - --token or FLOWDESK_TOKEN for the API token", baseMsg)

	case TypeConflict:
		return fmt.Sprintf("Conflict: %s\n\nHint: The record already exists or changed on the server. Refresh and try again.", baseMsg)

	case TypeNotFound:
		return fmt.Sprintf("Not found: %s", baseMsg)

	case TypeNetwork:
		return fmt.Sprintf("Connection error: %s\n\nHint: Check the API endpoint:\n"+
			"  - api_url in ~/.flowdesk/config.yaml, --api-url or FLOWDESK_API_URL\n"+
			"  - flowdesk --demo runs against built-in sample data", baseMsg)

	default:
		return fmt.Sprintf("Error: %s", baseMsg)
	}
}

// Short is a one-line form of Pretty for status bars.
func Short(err error) string {
	if err == nil {
		return ""
	}
	switch ClassifyError(err) {
	case TypeValidation:
		var ve *formsvc.ValidationError
		errors.As(err, &ve)
		return fmt.Sprintf("fix %s: %s", strings.Join(ve.Fields(), ", "), ve.Errs[0].Detail)
	case TypeForbidden:
		return "access denied: " + Unwrap(err).Error()
	case TypeConflict:
		return "conflict: " + err.Error()
	case TypeNetwork:
		return "connection error: " + err.Error()
	default:
		return err.Error()
	}
}

// WrapWithHint wraps an error with an additional hint message.
func WrapWithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\n\nHint: %s", err, hint)
}

// NothingFound returns a user-friendly message when a list comes back empty.
// This is different from an error - it's a valid "empty" result.
func NothingFound(resource string) string {
	return fmt.Sprintf("No %s found.\n\n"+
		"This might mean:\n"+
		"  - Nothing has been created yet\n"+
		"  - You may not have permission to list these records", resource)
}

// Unwrap returns the underlying error, stripping any wrapper.
func Unwrap(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
