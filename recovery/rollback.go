/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package recovery

import (
	"fmt"
	"path/filepath"
)

// PreRollbackOperation tags the snapshot taken before every restore.
const PreRollbackOperation = "pre-rollback"

// RollbackOptions control restore behavior.
type RollbackOptions struct {
	// Force proceeds past a failed safety check or a failed
	// pre-rollback snapshot.
	Force bool

	// DryRun reports what would be restored without touching disk.
	DryRun bool
}

// RollbackResult reports a restore.
type RollbackResult struct {
	// BackupID is the backup that was (or would be) restored.
	BackupID string

	// PreRollbackID names the snapshot of the replaced state, so the
	// rollback itself can be rolled back. Empty on dry runs and when
	// the target did not exist.
	PreRollbackID string

	// Restored lists the paths written, relative to the target.
	Restored []string

	// DryRun reports whether this was a rehearsal.
	DryRun bool
}

// Rollback restores the state saved under id. The current state of the
// target is always snapshotted first as a pre-rollback backup; a
// rollback never becomes the only way the data ever existed. Force
// overrides the safety check, DryRun only reports.
func (m *Manager) Rollback(id string, opts RollbackOptions) (*RollbackResult, error) {
	backup, err := m.GetBackup(id)
	if err != nil {
		return nil, err
	}

	result := &RollbackResult{BackupID: id, DryRun: opts.DryRun}

	if opts.DryRun {
		result.Restored = append(result.Restored, backup.Files...)
		return result, nil
	}

	if err := m.checkRollbackTarget(backup); err != nil {
		if !opts.Force {
			return nil, err
		}
		if mkErr := m.fs.MkdirAll(filepath.Dir(backup.Source), 0755); mkErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsafeRollback, mkErr)
		}
	}

	if m.fs.Exists(backup.Source) {
		snapshot, err := m.CreateBackup(PreRollbackOperation, backup.Source, map[string]string{
			"rollback-of": id,
		})
		if err != nil {
			if !opts.Force {
				return nil, fmt.Errorf("%w: could not snapshot current state: %v", ErrUnsafeRollback, err)
			}
		} else {
			result.PreRollbackID = snapshot.ID
		}
	}

	stored := filepath.Join(m.root, id, filesDir)
	for _, rel := range backup.Files {
		data, err := m.fs.ReadFile(filepath.Join(stored, rel))
		if err != nil {
			return nil, fmt.Errorf("backup %s is incomplete: %v", id, err)
		}

		target := backup.Source
		if backup.SourceIsDir {
			target = filepath.Join(backup.Source, rel)
		}
		if parent := filepath.Dir(target); parent != "." {
			if err := m.fs.MkdirAll(parent, 0755); err != nil {
				return nil, err
			}
		}
		if err := m.fs.WriteFile(target, data, 0644); err != nil {
			return nil, err
		}
		result.Restored = append(result.Restored, rel)
	}

	return result, nil
}

// checkRollbackTarget verifies the restore destination is writable in
// principle: its parent must exist and be a directory.
func (m *Manager) checkRollbackTarget(backup *Backup) error {
	parent := filepath.Dir(backup.Source)
	if parent == "." || parent == "/" || parent == "" {
		return nil
	}
	info, err := m.fs.Stat(parent)
	if err != nil {
		return fmt.Errorf("%w: parent directory %s does not exist", ErrUnsafeRollback, parent)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrUnsafeRollback, parent)
	}
	return nil
}

// RollbackLatest restores the newest backup of an operation.
func (m *Manager) RollbackLatest(operation string, opts RollbackOptions) (*RollbackResult, error) {
	backups, err := m.ListByOperation(operation)
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, fmt.Errorf("%w: no %s backups", ErrBackupNotFound, operation)
	}
	return m.Rollback(backups[0].ID, opts)
}
