/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package recovery guards destructive operations: timestamped backups
// with manifests and retention, rollback with a pre-rollback snapshot,
// auto-repair of common defects, and severity-classified error reports.
package recovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/internal/logger"
	"bennypowers.dev/tokensync/layout"
)

// Sentinel errors for backup and rollback.
var (
	// ErrBackupNotFound indicates no backup exists under the given id.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrNothingToBackUp indicates the source path does not exist yet.
	ErrNothingToBackUp = errors.New("nothing to back up")

	// ErrUnsafeRollback indicates the rollback safety check failed and
	// Force was not set.
	ErrUnsafeRollback = errors.New("rollback safety check failed")
)

// manifestFile sits beside the copied files in every backup directory.
const manifestFile = "manifest.json"

// filesDir holds the backed-up copies within a backup directory.
const filesDir = "files"

// Backup records one saved state.
type Backup struct {
	// ID names the backup: operation, UTC timestamp, random suffix.
	ID string `json:"id"`

	// Operation is the operation that requested the backup (split,
	// consolidate, pre-rollback, manual).
	Operation string `json:"operation"`

	// CreatedAt is the backup creation time in UTC.
	CreatedAt time.Time `json:"createdAt"`

	// Source is the path that was backed up.
	Source string `json:"source"`

	// SourceIsDir records whether Source was a directory; restore
	// needs it to place files correctly.
	SourceIsDir bool `json:"sourceIsDir"`

	// Files are the relative paths stored under files/.
	Files []string `json:"files"`

	// Metadata carries caller context, e.g. the session id.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Manager creates, lists and restores backups under a single root
// directory. Each backup is a directory named by its id holding a
// manifest and the copied files.
type Manager struct {
	fs    fs.FileSystem
	root  string
	maxOp int
}

// NewManager returns a backup manager rooted at root. maxPerOperation
// bounds how many backups are kept per operation name; older ones are
// pruned when the bound is exceeded. Zero or negative means unbounded.
func NewManager(filesystem fs.FileSystem, root string, maxPerOperation int) *Manager {
	return &Manager{fs: filesystem, root: root, maxOp: maxPerOperation}
}

// Root returns the backup root directory.
func (m *Manager) Root() string {
	return m.root
}

// newBackupID builds ids like split-20250311T142233-3f9a21bc. The
// random suffix keeps ids unique when operations run within a second.
func newBackupID(operation string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s",
		operation,
		now.Format("20060102T150405"),
		uuid.New().String()[:8])
}

// CreateBackup copies sourcePath (a file or a directory of JSON files)
// into a new backup directory and writes its manifest. A missing source
// wraps ErrNothingToBackUp so callers can treat a first run as a
// non-event rather than a failure.
func (m *Manager) CreateBackup(operation, sourcePath string, metadata map[string]string) (*Backup, error) {
	if !m.fs.Exists(sourcePath) {
		return nil, fmt.Errorf("%w: %s", ErrNothingToBackUp, sourcePath)
	}

	now := time.Now().UTC()
	backup := &Backup{
		ID:        newBackupID(operation, now),
		Operation: operation,
		CreatedAt: now,
		Source:    sourcePath,
		Metadata:  metadata,
	}

	dest := filepath.Join(m.root, backup.ID, filesDir)

	info, err := m.fs.Stat(sourcePath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		backup.SourceIsDir = true
		files, err := layout.Snapshot(m.fs, sourcePath, dest)
		if err != nil {
			return nil, err
		}
		backup.Files = files
	} else {
		data, err := m.fs.ReadFile(sourcePath)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(sourcePath)
		if err := m.fs.MkdirAll(dest, 0755); err != nil {
			return nil, err
		}
		if err := m.fs.WriteFile(filepath.Join(dest, name), data, 0644); err != nil {
			return nil, err
		}
		backup.Files = []string{name}
	}

	if err := m.writeManifest(backup); err != nil {
		return nil, err
	}

	m.prune(operation)
	return backup, nil
}

func (m *Manager) writeManifest(backup *Backup) error {
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	path := filepath.Join(m.root, backup.ID, manifestFile)
	if err := m.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return m.fs.WriteFile(path, data, 0644)
}

// GetBackup loads one backup's manifest by id.
func (m *Manager) GetBackup(id string) (*Backup, error) {
	path := filepath.Join(m.root, id, manifestFile)
	if !m.fs.Exists(path) {
		return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, id)
	}
	data, err := m.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	backup := &Backup{}
	if err := json.Unmarshal(data, backup); err != nil {
		return nil, fmt.Errorf("%w: %s: corrupt manifest: %v", ErrBackupNotFound, id, err)
	}
	return backup, nil
}

// ListBackups returns every readable backup, newest first. Directories
// with broken manifests are skipped with a logged warning rather than
// failing the listing.
func (m *Manager) ListBackups() ([]*Backup, error) {
	if !m.fs.Exists(m.root) {
		return nil, nil
	}
	entries, err := m.fs.ReadDir(m.root)
	if err != nil {
		return nil, err
	}

	var backups []*Backup
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		backup, err := m.GetBackup(entry.Name())
		if err != nil {
			logger.Warn("skipping backup %s: %v", entry.Name(), err)
			continue
		}
		backups = append(backups, backup)
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].ID > backups[j].ID
		}
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// ListByOperation returns backups for one operation, newest first.
func (m *Manager) ListByOperation(operation string) ([]*Backup, error) {
	all, err := m.ListBackups()
	if err != nil {
		return nil, err
	}
	var filtered []*Backup
	for _, backup := range all {
		if backup.Operation == operation {
			filtered = append(filtered, backup)
		}
	}
	return filtered, nil
}

// prune removes the oldest backups of an operation past the retention
// bound. Pruning failures are logged, never fatal: a backup that
// outlives its retention is better than a failed operation.
func (m *Manager) prune(operation string) {
	if m.maxOp <= 0 {
		return
	}
	backups, err := m.ListByOperation(operation)
	if err != nil {
		logger.Warn("backup pruning skipped: %v", err)
		return
	}
	for i := m.maxOp; i < len(backups); i++ {
		dir := filepath.Join(m.root, backups[i].ID)
		if err := m.fs.RemoveAll(dir); err != nil {
			logger.Warn("could not prune backup %s: %v", backups[i].ID, err)
		}
	}
}
