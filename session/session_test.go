/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package session_test

import (
	"errors"
	"testing"

	"bennypowers.dev/tokensync/internal/mapfs"
	"bennypowers.dev/tokensync/session"
)

func TestBeginAndGet(t *testing.T) {
	fs := mapfs.New()
	mgr, err := session.NewManager(fs, ".backups/sessions.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := mgr.Begin("tokens", "dark theme pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.ID) != 8 {
		t.Errorf("expected 8-char id, got %q", s.ID)
	}
	if s.Directory != "tokens" {
		t.Errorf("expected directory 'tokens', got %q", s.Directory)
	}
	if s.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}

	got, ok := mgr.Get(s.ID)
	if !ok {
		t.Fatal("expected to find session by id")
	}
	if got.Description != "dark theme pass" {
		t.Errorf("expected description to survive, got %q", got.Description)
	}
}

func TestRecord(t *testing.T) {
	fs := mapfs.New()
	mgr, err := session.NewManager(fs, "sessions.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := mgr.Begin("tokens", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.Record(s.ID, "darkened primary", "core.json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := mgr.Get(s.ID)
	if len(got.Changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(got.Changes))
	}
	change := got.Changes[0]
	if change.Summary != "darkened primary" {
		t.Errorf("expected summary to survive, got %q", change.Summary)
	}
	if len(change.Files) != 1 || change.Files[0] != "core.json" {
		t.Errorf("expected files [core.json], got %v", change.Files)
	}
}

func TestRecordUnknownSession(t *testing.T) {
	fs := mapfs.New()
	mgr, err := session.NewManager(fs, "sessions.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mgr.Record("nope", "x"); !errors.Is(err, session.ErrUnknownSession) {
		t.Errorf("expected ErrUnknownSession, got %v", err)
	}
}

func TestRegistryPersists(t *testing.T) {
	fs := mapfs.New()
	mgr, err := session.NewManager(fs, "sessions.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := mgr.Begin("tokens", "first")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.Record(s.ID, "tweaked spacing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh manager over the same file sees everything.
	reopened, err := session.NewManager(fs, "sessions.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := reopened.Get(s.ID)
	if !ok {
		t.Fatal("expected persisted session to load")
	}
	if got.Description != "first" {
		t.Errorf("expected description 'first', got %q", got.Description)
	}
	if len(got.Changes) != 1 {
		t.Errorf("expected 1 change, got %d", len(got.Changes))
	}
}

func TestListOrder(t *testing.T) {
	fs := mapfs.New()
	mgr, err := session.NewManager(fs, "sessions.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := mgr.Begin("tokens", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := mgr.Begin("tokens", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list := mgr.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	ids := map[string]bool{list[0].ID: true, list[1].ID: true}
	if !ids[first.ID] || !ids[second.ID] {
		t.Errorf("expected both sessions in list, got %v", ids)
	}
	if list[0].StartedAt.After(list[1].StartedAt) {
		t.Error("expected oldest-first ordering")
	}
}

func TestCorruptRegistry(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("sessions.json", `{]`, 0644)

	if _, err := session.NewManager(fs, "sessions.json"); err == nil {
		t.Fatal("expected error for corrupt registry")
	}
}
