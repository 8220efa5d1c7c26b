/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package sets provides the sets command for tokensync.
package sets

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokensync/config"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/transform"
)

// Cmd is the sets cobra command.
var Cmd = &cobra.Command{
	Use:   "sets [source]",
	Short: "Show the sets a split of a document would produce",
	Long: `Show how a consolidated document's top-level groups map onto token sets,
without writing anything. Documents carrying their own tokenSetOrder pass
through; others are classified by group name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
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

	sets, err := transform.IdentifySets(filesystem, source, transform.Options{Rules: cfg.Rules()})
	if err != nil {
		return fmt.Errorf("error identifying sets in %s: %w", source, err)
	}

	if len(sets) == 0 {
		fmt.Printf("%s contains no token sets.\n", source)
		return nil
	}

	fmt.Printf("%s splits into %d sets:\n", source, len(sets))
	for _, set := range sets {
		if set.File == "" {
			fmt.Printf("  %s (listed in tokenSetOrder, no content)\n", set.Name)
			continue
		}
		fmt.Printf("  %s -> %s (%d tokens)\n", set.Name, set.File, set.TokensCount)
	}
	return nil
}
