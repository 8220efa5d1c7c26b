/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package split provides the split command for tokensync.
package split

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

// Cmd is the split cobra command.
var Cmd = &cobra.Command{
	Use:   "split [source]",
	Short: "Split a consolidated document into a modular directory",
	Long: `Split a consolidated token document into its modular form: $metadata.json,
$themes.json, and one file per token set. Without an argument the document is
taken from configuration or discovered by convention.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("dir", "d", "", "Directory for the modular form")
	Cmd.Flags().Bool("no-backup", false, "Skip the pre-write backup")
	Cmd.Flags().Bool("track", false, "Record this run in the session registry")
}

func run(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	noBackup, _ := cmd.Flags().GetBool("no-backup")
	track, _ := cmd.Flags().GetBool("track")

	filesystem := fs.NewOSFileSystem()
	cfg := config.LoadOrDefault(filesystem, ".")

	var source string
	if len(args) > 0 {
		source = args[0]
	}
	if source == "" {
		source = viper.GetString("source")
	}
	if source == "" {
		if discovered, ok := config.DiscoverSource(filesystem, "."); ok {
			source = discovered
		} else {
			source = cfg.SourcePath
		}
	}

	if dir == "" {
		dir = viper.GetString("tokens_dir")
	}
	if dir == "" {
		dir = cfg.TokensDir
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
		sess, err := sessions.Begin(dir, fmt.Sprintf("split %s", source))
		if err != nil {
			return fmt.Errorf("error starting session: %w", err)
		}
		opts.SessionID = sess.ID
	}

	fmt.Printf("Splitting %s into %s...\n", source, dir)

	result, err := transform.Split(filesystem, source, dir, opts)
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	if err != nil {
		for _, hint := range recovery.ClassifyError(err, source).Suggestions {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		return fmt.Errorf("split failed: %w", err)
	}

	if result.BackupID != "" {
		fmt.Printf("Backed up %s as %s\n", dir, result.BackupID)
	}
	fmt.Printf("Wrote %d files: %d tokens across %d sets\n",
		len(result.Files), result.TokensCount, len(result.Sets))

	if opts.SessionID != "" {
		summary := fmt.Sprintf("split %s into %d sets", source, len(result.Sets))
		if err := sessions.Record(opts.SessionID, summary, result.Files...); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: session not recorded: %v\n", err)
		} else {
			fmt.Printf("Recorded in session %s\n", opts.SessionID)
		}
	}
	return nil
}
