/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package rollback provides the rollback command for tokensync.
package rollback

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bennypowers.dev/tokensync/config"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/recovery"
)

// Cmd is the rollback cobra command.
var Cmd = &cobra.Command{
	Use:   "rollback <backup-id>",
	Short: "Restore a backup",
	Long: `Restore the state saved under a backup id, as printed by backup list. The
replaced state is snapshotted first, so a rollback can itself be rolled back.
Pass "latest" instead of an id to restore the newest backup of an operation.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("force", false, "Restore even when the target fails the safety check")
	Cmd.Flags().Bool("dry-run", false, "Show what would be restored without writing")
	Cmd.Flags().String("operation", "split", "Operation to restore with \"latest\"")
}

func run(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	operation, _ := cmd.Flags().GetString("operation")

	filesystem := fs.NewOSFileSystem()
	cfg := config.LoadOrDefault(filesystem, ".")
	manager := cfg.BackupManager(filesystem)

	opts := recovery.RollbackOptions{Force: force, DryRun: dryRun}

	var result *recovery.RollbackResult
	var err error
	if args[0] == "latest" {
		result, err = manager.RollbackLatest(operation, opts)
	} else {
		result, err = manager.Rollback(args[0], opts)
	}
	if err != nil {
		for _, hint := range recovery.ClassifyError(err, args[0]).Suggestions {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		return fmt.Errorf("rollback failed: %w", err)
	}

	if result.DryRun {
		fmt.Printf("Would restore %d files from %s:\n", len(result.Restored), result.BackupID)
		for _, path := range result.Restored {
			fmt.Printf("  %s\n", path)
		}
		return nil
	}

	fmt.Printf("Restored %d files from %s\n", len(result.Restored), result.BackupID)
	if result.PreRollbackID != "" {
		fmt.Printf("Replaced state saved as %s\n", result.PreRollbackID)
	}
	return nil
}
