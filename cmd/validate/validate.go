/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validate provides the validate command for tokensync.
package validate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokensync/config"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/validator"
)

// Cmd is the validate cobra command.
var Cmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate a modular token directory",
	Long: `Validate a modular token directory: its structure, its references, and its
theme definitions. With a consolidated document (given, configured, or
discovered by convention) the two forms are also checked against each other.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().String("source", "", "Consolidated document for the round-trip check")
	Cmd.Flags().Bool("strict-descriptions", false, "Treat lost descriptions as errors")
	Cmd.Flags().Bool("strict", false, "Fail on warnings")
	Cmd.Flags().Bool("quiet", false, "Only output errors")
}

func run(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	strictDescriptions, _ := cmd.Flags().GetBool("strict-descriptions")
	strict, _ := cmd.Flags().GetBool("strict")
	quiet, _ := cmd.Flags().GetBool("quiet")

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

	if source == "" {
		source = viper.GetString("source")
	}
	if source == "" {
		if discovered, ok := config.DiscoverSource(filesystem, "."); ok {
			source = discovered
		}
	}

	opts := validator.Options{
		StrictDescriptions: strictDescriptions || cfg.StrictDescriptions,
		Rules:              cfg.Rules(),
	}

	if !quiet {
		fmt.Printf("Validating %s...\n", dir)
		if source != "" {
			fmt.Printf("Checking against %s\n", source)
		}
	}

	summary, err := validator.ValidateAll(filesystem, source, dir, opts)
	if err != nil {
		return fmt.Errorf("error validating %s: %w", dir, err)
	}

	warnings := 0
	warnings += report("structure", summary.Structure, quiet)
	warnings += report("references", summary.References, quiet)
	warnings += report("themes", summary.Themes, quiet)
	if summary.RoundTrip != nil {
		warnings += report("round trip", summary.RoundTrip, quiet)
	}

	if !summary.IsValid {
		return fmt.Errorf("validation failed")
	}
	if strict && warnings > 0 {
		return fmt.Errorf("validation failed: %d warnings in strict mode", warnings)
	}

	if !quiet {
		fmt.Println("Collection valid.")
	}
	return nil
}

// report prints one check's issues and returns its warning count.
func report(name string, result *validator.Result, quiet bool) int {
	for _, issue := range result.Errors() {
		fmt.Fprintf(os.Stderr, "Error (%s): %s\n", name, issue.Error())
	}
	warnings := result.Warnings()
	if !quiet {
		for _, issue := range warnings {
			fmt.Printf("Warning (%s): %s\n", name, issue.Error())
		}
	}
	return len(warnings)
}
