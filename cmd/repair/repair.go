/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package repair provides the recover command for tokensync.
package repair

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokensync/config"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/recovery"
)

// Cmd is the recover cobra command.
var Cmd = &cobra.Command{
	Use:     "recover [dir]",
	Aliases: []string{"repair"},
	Short:   "Repair a damaged modular directory",
	Long: `Inspect a modular token directory and repair what can be repaired safely:
recreate missing companion files and rewrite JSON that only suffers comments
or trailing commas. Unresolved references get suggestions, never edits.
Without --fix every repair is only reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("fix", false, "Apply the safe repairs")
}

func run(cmd *cobra.Command, args []string) error {
	fix, _ := cmd.Flags().GetBool("fix")

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

	fmt.Printf("Inspecting %s...\n", dir)

	result, err := recovery.AttemptRecovery(filesystem, dir, recovery.RecoveryOptions{AutoFix: fix})
	if err != nil {
		return fmt.Errorf("error recovering %s: %w", dir, err)
	}

	for _, fixed := range result.Fixed {
		fmt.Printf("Fixed: %s\n", fixed)
	}
	for _, suggestion := range result.Suggestions {
		fmt.Printf("Suggestion: %s\n", suggestion.Message)
	}
	for _, issue := range result.Remaining {
		fmt.Fprintf(os.Stderr, "Remaining: %s\n", issue.Error())
	}

	if len(result.Remaining) > 0 {
		if !fix {
			fmt.Fprintln(os.Stderr, "Run again with --fix to apply the safe repairs.")
		}
		return fmt.Errorf("%d issues need attention", len(result.Remaining))
	}

	if len(result.Fixed) == 0 {
		fmt.Println("Nothing to repair.")
	}
	return nil
}
