/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package consolidate provides the consolidate command for tokensync.
package consolidate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokensync/config"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/recovery"
	"bennypowers.dev/tokensync/session"
	"bennypowers.dev/tokensync/transform"
)

// Cmd is the consolidate cobra command.
var Cmd = &cobra.Command{
	Use:   "consolidate [dir]",
	Short: "Merge a modular directory into a consolidated document",
	Long: `Merge the files of a modular token directory back into one consolidated
document, in tokenSetOrder, with the token set order and theme definitions
carried under their reserved keys.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("output", "o", "", "Path for the consolidated document")
	Cmd.Flags().Bool("no-backup", false, "Skip the pre-write backup")
	Cmd.Flags().Bool("track", false, "Record this run in the session registry")
}

func run(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	noBackup, _ := cmd.Flags().GetBool("no-backup")
	track, _ := cmd.Flags().GetBool("track")

	filesystem := fs.NewOSFileSystem()
	cfg := config.LoadOrDefault(filesystem, ".")

	var dir string
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		dir = viper.GetString("tokens_dir")
	}
	if dir == "" {
		dir = cfg.TokensDir
	}

	if output == "" {
		output = viper.GetString("source")
	}
	if output == "" {
		output = cfg.SourcePath
	}

	opts := transform.Options{Rules: cfg.Rules()}
	if !noBackup {
		opts.Backups = cfg.BackupManager(filesystem)
	}

	var sessions *session.Manager
	if track {
		var err error
		sessions, err = session.NewManager(filesystem, filepath.Join(cfg.Backups.Dir, "sessions.json"))
		if err != nil {
			return fmt.Errorf("error opening session registry: %w", err)
		}
		sess, err := sessions.Begin(dir, fmt.Sprintf("consolidate %s", dir))
		if err != nil {
			return fmt.Errorf("error starting session: %w", err)
		}
		opts.SessionID = sess.ID
	}

	fmt.Printf("Consolidating %s into %s...\n", dir, output)

	result, err := transform.Consolidate(filesystem, dir, output, opts)
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	if err != nil {
		for _, hint := range recovery.ClassifyError(err, dir).Suggestions {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		return fmt.Errorf("consolidate failed: %w", err)
	}

	if result.BackupID != "" {
		fmt.Printf("Backed up %s as %s\n", output, result.BackupID)
	}
	fmt.Printf("Merged %d sets: %d tokens\n", len(result.Sets), result.TokensCount)

	if opts.SessionID != "" {
		summary := fmt.Sprintf("consolidated %d sets into %s", len(result.Sets), output)
		if err := sessions.Record(opts.SessionID, summary, output); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: session not recorded: %v\n", err)
		} else {
			fmt.Printf("Recorded in session %s\n", opts.SessionID)
		}
	}
	return nil
}
