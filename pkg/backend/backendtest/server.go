// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package backendtest serves a backend.Service over HTTP for client tests.
package backendtest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/confighub/flowdesk/pkg/backend"
)

// Server is a fake flowdesk API backed by a MemoryService.
type Server struct {
	*httptest.Server
	Service *backend.MemoryService

	mu       sync.Mutex
	failures map[string]int
	requests []Request
}

// Request records what the fake saw, for header assertions.
type Request struct {
	Method string
	Path   string
	UserID string
	Auth   string
}

// NewServer starts a fake API seeded with svc. The API root is URL()+"/api".
func NewServer(svc *backend.MemoryService) *Server {
	s := &Server{Service: svc, failures: make(map[string]int)}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/api", func(r chi.Router) {
		r.Use(s.injectFailures)
		mount(r, backend.PathRoles, svc.Roles())
		mount(r, backend.PathUsers, svc.Users())
		mount(r, backend.PathConfigurations, svc.Configurations())
		mount(r, backend.PathApprovalFlows, svc.ApprovalFlows())
		mount(r, backend.PathApprovalBoxes, svc.ApprovalBoxes())
		mount(r, backend.PathForms, svc.Forms())
		mount(r, backend.PathStaffing, svc.Staffing())
		mount(r, backend.PathProjects, svc.Projects())

		r.Get("/lookups/"+backend.LookupButtons, func(w http.ResponseWriter, r *http.Request) {
			items, err := svc.Lookups().Buttons(r.Context())
			respond(w, items, err)
		})
		r.Get("/lookups/"+backend.LookupProgramTemplates, func(w http.ResponseWriter, r *http.Request) {
			items, err := svc.Lookups().ProgramTemplates(r.Context())
			respond(w, items, err)
		})
		r.Get("/lookups/"+backend.LookupEntityTypes, func(w http.ResponseWriter, r *http.Request) {
			items, err := svc.Lookups().EntityTypes(r.Context())
			respond(w, items, err)
		})
	})

	s.Server = httptest.NewServer(r)
	return s
}

// APIURL is the base URL to hand to backend.NewClient.
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

// FailNext makes the next request to path (for example "/api/roles")
// answer with status.
func (s *Server) FailNext(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Requests returns every request seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			UserID: r.Header.Get("X-User-ID"),
			Auth:   r.Header.Get("Authorization"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.failures[r.URL.Path]
		delete(s.failures, r.URL.Path)
		s.mu.Unlock()
		if ok {
			writeError(w, status, "INJECTED", http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func mount[T backend.Entity[T]](r chi.Router, path string, res backend.Resource[T]) {
	r.Route("/"+path, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			items, err := res.GetAll(r.Context())
			respond(w, items, err)
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var item T
			if err := decodeJSON(r, &item); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
				return
			}
			created, err := res.Insert(r.Context(), item)
			if err != nil {
				respond(w, nil, err)
				return
			}
			writeJSON(w, http.StatusCreated, created)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			item, err := res.Get(r.Context(), chi.URLParam(r, "id"))
			respond(w, item, err)
		})
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			var item T
			if err := decodeJSON(r, &item); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
				return
			}
			updated, err := res.Update(r.Context(), item.WithID(chi.URLParam(r, "id")))
			respond(w, updated, err)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := res.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				respond(w, nil, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

func respond(w http.ResponseWriter, v any, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, v)
	case errors.Is(err, backend.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, backend.ErrConflict):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
