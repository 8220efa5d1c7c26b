/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package backup provides the backup commands for tokensync.
package backup

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/tokensync/config"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/recovery"
)

// Cmd is the backup cobra command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage backups of token files",
	Long: `Manage the backups tokensync takes before overwriting token files. Backups
live under the configured backup directory, one subdirectory per backup, and
can be restored with the rollback command.`,
}

var createCmd = &cobra.Command{
	Use:   "create [path]",
	Short: "Back up a token file or directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCreate,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing backups",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("operation", "", "Only list backups taken by this operation")

	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	filesystem := fs.NewOSFileSystem()
	cfg := config.LoadOrDefault(filesystem, ".")

	path := cfg.TokensDir
	if len(args) > 0 {
		path = args[0]
	}

	manager := cfg.BackupManager(filesystem)
	backup, err := manager.CreateBackup("manual", path, nil)
	if errors.Is(err, recovery.ErrNothingToBackUp) {
		fmt.Printf("Nothing to back up at %s\n", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error backing up %s: %w", path, err)
	}

	fmt.Printf("Backed up %s as %s (%d files)\n", path, backup.ID, len(backup.Files))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	operation, _ := cmd.Flags().GetString("operation")

	filesystem := fs.NewOSFileSystem()
	cfg := config.LoadOrDefault(filesystem, ".")
	manager := cfg.BackupManager(filesystem)

	var backups []*recovery.Backup
	var err error
	if operation != "" {
		backups, err = manager.ListByOperation(operation)
	} else {
		backups, err = manager.ListBackups()
	}
	if err != nil {
		return fmt.Errorf("error listing backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups.")
		return nil
	}

	for _, backup := range backups {
		fmt.Printf("%s  %s  %s (%d files)",
			backup.ID,
			backup.CreatedAt.Format("2006-01-02 15:04:05"),
			backup.Source,
			len(backup.Files))
		if session := backup.Metadata["session"]; session != "" {
			fmt.Printf("  session %s", session)
		}
		fmt.Println()
	}
	return nil
}
