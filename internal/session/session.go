// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package session holds the signed-in user and the console's saved position.
// The Session value is passed explicitly to every operation that needs to
// know who is acting.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Session identifies the acting user.
type Session struct {
	UserID string
}

// Anonymous reports whether no user is signed in.
func (s Session) Anonymous() bool { return s.UserID == "" }

// Snapshot is what is written to disk between runs.
type Snapshot struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `json:"user_id,omitempty"`
	MainTab   int       `json:"main_tab"`
	SubTab    int       `json:"sub_tab"`
	Split     float64   `json:"split,omitempty"`
}

const snapshotVersion = "1.0"

// restoreWindow bounds how old a saved tab position may be to be restored.
const restoreWindow = 24 * time.Hour

// DefaultPath returns ~/.flowdesk/session.json.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".flowdesk", "session.json")
}

// Load reads the snapshot at path. A missing file yields an empty snapshot.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Snapshot{Version: snapshotVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	return &snap, nil
}

// Save writes snap to path, creating the directory if needed.
func Save(path string, snap *Snapshot) error {
	snap.Version = snapshotVersion
	snap.UpdatedAt = time.Now()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Session returns the identity stored in the snapshot.
func (s *Snapshot) Session() Session {
	if s == nil {
		return Session{}
	}
	return Session{UserID: s.UserID}
}

// Restorable reports whether the saved tab position is recent enough to reuse.
func (s *Snapshot) Restorable(now time.Time) bool {
	if s == nil || s.UpdatedAt.IsZero() {
		return false
	}
	return now.Sub(s.UpdatedAt) <= restoreWindow
}
