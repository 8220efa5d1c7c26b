/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package session records editing sessions: who is working against
// which tokens directory, and what changed while they were. Sessions
// are independent records keyed by id. Concurrent sessions against the
// same directory share filesystem state and can observe each other's
// writes; nothing here serializes them.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"bennypowers.dev/tokensync/fs"
)

// ErrUnknownSession indicates an id no live session carries.
var ErrUnknownSession = errors.New("unknown session")

// registryVersion is written into the persisted registry so a future
// format change can detect old files.
const registryVersion = "1.0"

// Change is one recorded edit within a session.
type Change struct {
	At      time.Time `json:"at"`
	Summary string    `json:"summary"`
	Files   []string  `json:"files,omitempty"`
}

// Session is one editing session against a tokens directory.
type Session struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"startedAt"`
	Description string    `json:"description,omitempty"`
	Directory   string    `json:"directory"`
	Changes     []Change  `json:"changes,omitempty"`
}

// registry is the on-disk shape of the session store.
type registry struct {
	Version  string     `json:"version"`
	Sessions []*Session `json:"sessions"`
}

// Manager keeps the live session records and mirrors every mutation to
// a JSON registry file.
type Manager struct {
	mu   sync.RWMutex
	fs   fs.FileSystem
	path string
	byID map[string]*Session
}

// NewManager opens the session registry at path, loading existing
// records. A missing file is a fresh registry, not an error.
func NewManager(filesystem fs.FileSystem, path string) (*Manager, error) {
	m := &Manager{
		fs:   filesystem,
		path: path,
		byID: map[string]*Session{},
	}

	if !filesystem.Exists(path) {
		return m, nil
	}
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session registry %s: %w", path, err)
	}
	var reg registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing session registry %s: %w", path, err)
	}
	for _, s := range reg.Sessions {
		m.byID[s.ID] = s
	}
	return m, nil
}

// Begin starts a session against directory and persists it.
func (m *Manager) Begin(directory, description string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:          uuid.New().String()[:8],
		StartedAt:   time.Now().UTC(),
		Description: description,
		Directory:   directory,
	}
	m.byID[s.ID] = s
	if err := m.save(); err != nil {
		delete(m.byID, s.ID)
		return nil, err
	}
	return s, nil
}

// Record appends a change to the session and persists it.
func (m *Manager) Record(id, summary string, files ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	s.Changes = append(s.Changes, Change{
		At:      time.Now().UTC(),
		Summary: summary,
		Files:   files,
	})
	return m.save()
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.byID[id]
	return s, ok
}

// List returns every session, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Session, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// save writes the registry. Callers hold the lock.
func (m *Manager) save() error {
	sessions := make([]*Session, 0, len(m.byID))
	for _, s := range m.byID {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.Before(sessions[j].StartedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})

	reg := registry{Version: registryVersion, Sessions: sessions}
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(m.path); dir != "." && dir != "/" {
		if err := m.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("writing session registry %s: %w", m.path, err)
		}
	}
	if err := m.fs.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("writing session registry %s: %w", m.path, err)
	}
	return nil
}
