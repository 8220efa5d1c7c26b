/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package transform

import (
	"errors"
	"fmt"
	"path/filepath"

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/layout"
	"bennypowers.dev/tokensync/recovery"
	"bennypowers.dev/tokensync/token"
)

// Consolidate merges the modular form in dir into a single document at
// outPath. Sets merge in tokenSetOrder, later sets overwriting earlier
// ones on collision. Set trees are merged exactly as written on disk;
// canonicalization is the split direction's job.
//
// A missing or malformed $metadata.json is fatal: without an order the
// merge would be arbitrary. A missing $themes.json and missing set
// files are warnings, so a half-edited directory still consolidates.
// Malformed set files are fatal rather than silently skipped.
func Consolidate(filesystem fs.FileSystem, dir, outPath string, opts Options) (*ConsolidateResult, error) {
	result := &ConsolidateResult{}

	meta, err := layout.ReadMetadata(filesystem, dir)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}

	themes, err := layout.ReadThemes(filesystem, dir)
	if err != nil {
		if !errors.Is(err, layout.ErrMissingThemes) {
			result.Errors = append(result.Errors, err.Error())
			return result, err
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("no $themes.json in %s", dir))
		themes = nil
	}

	merged := map[string]any{}
	seen := map[string]bool{}
	for _, set := range meta.TokenSetOrder {
		if seen[set] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("tokenSetOrder lists %q more than once; merged once", set))
			continue
		}
		seen[set] = true

		path := filepath.Join(dir, layout.SetFileName(set))
		if !filesystem.Exists(path) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("set %q has no file at %s; skipped", set, path))
			continue
		}
		tree, err := document.Read(filesystem, path)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			return result, err
		}
		merged = document.DeepMerge(merged, tree)
		result.Sets = append(result.Sets, set)
	}

	if len(meta.TokenSetOrder) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("tokenSetOrder in %s is empty; nothing to merge", dir))
	}

	result.TokensCount = token.Count(merged)

	// Empty companion scaffolding stays out of the canonical document;
	// a real order or theme list rides along under its reserved key.
	if !meta.IsTrivial() {
		merged[token.MetadataKey] = meta.ToValue()
	}
	if len(themes) > 0 {
		merged[token.ThemesKey] = token.ThemesToValue(themes)
	}

	if opts.Backups != nil {
		backup, err := opts.Backups.CreateBackup("consolidate", outPath, opts.backupMetadata())
		switch {
		case err == nil:
			result.BackupID = backup.ID
		case errors.Is(err, recovery.ErrNothingToBackUp):
			// No previous document to save.
		default:
			result.Warnings = append(result.Warnings, fmt.Sprintf("backup of %s failed: %v", outPath, err))
		}
	}

	if err := document.Write(filesystem, outPath, merged); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}

	result.Success = true
	return result, nil
}
