/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for tokensync.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokensync/cmd/backup"
	"bennypowers.dev/tokensync/cmd/consolidate"
	"bennypowers.dev/tokensync/cmd/repair"
	"bennypowers.dev/tokensync/cmd/rollback"
	"bennypowers.dev/tokensync/cmd/sets"
	"bennypowers.dev/tokensync/cmd/split"
	"bennypowers.dev/tokensync/cmd/validate"
	"bennypowers.dev/tokensync/cmd/version"
)

var rootCmd = &cobra.Command{
	Use:   "tokensync",
	Short: "Keep consolidated and modular design token files in sync",
	Long: `tokensync converts design token collections between a single consolidated
document and a modular directory of per-set files, and validates that the two
forms agree.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Commands consult viper for values not given as flags, so
	// TOKENSYNC_SOURCE and TOKENSYNC_TOKENS_DIR work everywhere.
	viper.SetEnvPrefix("tokensync")
	viper.AutomaticEnv()

	rootCmd.AddCommand(split.Cmd)
	rootCmd.AddCommand(consolidate.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(sets.Cmd)
	rootCmd.AddCommand(backup.Cmd)
	rootCmd.AddCommand(rollback.Cmd)
	rootCmd.AddCommand(repair.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
