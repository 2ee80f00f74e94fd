// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	snap, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !snap.Session().Anonymous() {
		t.Errorf("expected anonymous session, got %+v", snap.Session())
	}
	if snap.Restorable(time.Now()) {
		t.Error("empty snapshot must not be restorable")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	if err := Save(path, &Snapshot{UserID: "u-kim", MainTab: 1, SubTab: 2, Split: 0.6}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Session().UserID != "u-kim" {
		t.Errorf("UserID = %q, want u-kim", snap.Session().UserID)
	}
	if snap.MainTab != 1 || snap.SubTab != 2 {
		t.Errorf("tab position = %d/%d, want 1/2", snap.MainTab, snap.SubTab)
	}
	if snap.Version != snapshotVersion {
		t.Errorf("Version = %q", snap.Version)
	}
	if !snap.Restorable(time.Now()) {
		t.Error("fresh snapshot should be restorable")
	}
	if snap.Restorable(time.Now().Add(25 * time.Hour)) {
		t.Error("day-old snapshot should not be restorable")
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestNilSnapshot(t *testing.T) {
	var snap *Snapshot
	if !snap.Session().Anonymous() {
		t.Error("nil snapshot should give an anonymous session")
	}
}
