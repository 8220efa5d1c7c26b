/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package recovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokensync/internal/mapfs"
	"bennypowers.dev/tokensync/recovery"
)

func TestCreateBackup_Directory(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("tokens/$metadata.json", `{"tokenSetOrder":["core"]}`, 0644)
	fs.AddFile("tokens/core.json", `{"a":{"$value":"1"}}`, 0644)

	mgr := recovery.NewManager(fs, "backups", 5)

	backup, err := mgr.CreateBackup("split", "tokens", map[string]string{"session": "s1"})
	require.NoError(t, err)

	assert.Equal(t, "split", backup.Operation)
	assert.True(t, backup.SourceIsDir)
	assert.Equal(t, []string{"$metadata.json", "core.json"}, backup.Files)
	assert.Equal(t, "s1", backup.Metadata["session"])
	assert.Contains(t, backup.ID, "split-")

	// Manifest and copies land under the backup id.
	assert.True(t, fs.Exists("backups/"+backup.ID+"/manifest.json"))
	data, err := fs.ReadFile("backups/" + backup.ID + "/files/core.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"$value":"1"}}`, string(data))
}

func TestCreateBackup_SingleFile(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("tokens.json", `{"color":{"$value":"#fff"}}`, 0644)

	mgr := recovery.NewManager(fs, "backups", 5)

	backup, err := mgr.CreateBackup("consolidate", "tokens.json", nil)
	require.NoError(t, err)

	assert.False(t, backup.SourceIsDir)
	assert.Equal(t, []string{"tokens.json"}, backup.Files)

	loaded, err := mgr.GetBackup(backup.ID)
	require.NoError(t, err)
	assert.Equal(t, "tokens.json", loaded.Source)
}

func TestCreateBackup_MissingSource(t *testing.T) {
	mgr := recovery.NewManager(mapfs.New(), "backups", 5)

	_, err := mgr.CreateBackup("split", "tokens", nil)
	assert.ErrorIs(t, err, recovery.ErrNothingToBackUp)
}

func TestGetBackup_NotFound(t *testing.T) {
	mgr := recovery.NewManager(mapfs.New(), "backups", 5)

	_, err := mgr.GetBackup("split-20250101T000000-deadbeef")
	assert.ErrorIs(t, err, recovery.ErrBackupNotFound)
}

func TestBackupRetention(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("tokens/core.json", `{}`, 0644)

	mgr := recovery.NewManager(fs, "backups", 2)

	first, err := mgr.CreateBackup("split", "tokens", nil)
	require.NoError(t, err)
	second, err := mgr.CreateBackup("split", "tokens", nil)
	require.NoError(t, err)
	third, err := mgr.CreateBackup("split", "tokens", nil)
	require.NoError(t, err)

	backups, err := mgr.ListByOperation("split")
	require.NoError(t, err)
	require.Len(t, backups, 2)

	// Newest first; the first backup was pruned.
	assert.Equal(t, third.ID, backups[0].ID)
	assert.Equal(t, second.ID, backups[1].ID)
	assert.False(t, fs.Exists("backups/"+first.ID), "oldest backup should be pruned")

	// Other operations have their own retention pool.
	_, err = mgr.CreateBackup("consolidate", "tokens", nil)
	require.NoError(t, err)
	backups, err = mgr.ListByOperation("split")
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

func TestListBackups_SkipsBrokenManifests(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("tokens/core.json", `{}`, 0644)
	fs.AddFile("backups/not-a-backup/manifest.json", `{{{`, 0644)

	mgr := recovery.NewManager(fs, "backups", 0)

	created, err := mgr.CreateBackup("split", "tokens", nil)
	require.NoError(t, err)

	backups, err := mgr.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, created.ID, backups[0].ID)
}
