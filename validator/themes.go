/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package validator

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/layout"
	"bennypowers.dev/tokensync/token"
)

// ValidateThemeCompleteness checks both directions of the theme/set
// relationship: every set a theme selects must have a backing file
// (error), and every set file should appear in some theme's selection
// (orphans are warnings).
func ValidateThemeCompleteness(filesystem fs.FileSystem, dir string) (*Result, error) {
	result := &Result{IsValid: true}

	if err := layout.CheckDir(filesystem, dir); err != nil {
		result.add(Issue{
			FilePath:   dir,
			Code:       CodeMissingFile,
			Severity:   SeverityError,
			Message:    "tokens directory does not exist",
			Suggestion: "run split first or check the path",
		})
		return result, nil
	}

	themesPath := filepath.Join(dir, token.ThemesFile)
	themes, err := layout.ReadThemes(filesystem, dir)
	if err != nil {
		switch {
		case errors.Is(err, layout.ErrMissingThemes):
			result.add(Issue{
				FilePath:   themesPath,
				Code:       CodeMissingFile,
				Severity:   SeverityWarning,
				Message:    "no theme definitions",
				Suggestion: "run split to derive a default theme list",
			})
			themes = nil
		case errors.Is(err, document.ErrSourceParse), errors.Is(err, token.ErrThemeShape):
			result.add(Issue{
				FilePath:   themesPath,
				Code:       CodeInvalidJSON,
				Severity:   SeverityError,
				Message:    fmt.Sprintf("theme definitions unusable: %v", err),
				Suggestion: "fix the file or run recovery with --fix",
			})
			return result, nil
		default:
			return nil, err
		}
	}

	files, err := layout.ListTokenFiles(filesystem, dir)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(files))
	for _, name := range files {
		present[name] = true
	}

	referenced := map[string]bool{}
	for _, theme := range themes {
		sets := make([]string, 0, len(theme.SelectedTokenSets))
		for set := range theme.SelectedTokenSets {
			sets = append(sets, set)
		}
		sort.Strings(sets)

		for _, set := range sets {
			name := layout.SetFileName(set)
			referenced[name] = true
			if !present[name] {
				result.add(Issue{
					FilePath:   themesPath,
					Path:       theme.ID,
					Code:       CodeUnknownSet,
					Severity:   SeverityError,
					Message:    fmt.Sprintf("theme %q selects set %q, which has no file", theme.Name, set),
					Suggestion: fmt.Sprintf("create %s or remove the set from the theme", name),
				})
			}
		}
	}

	if len(themes) > 0 {
		for _, name := range files {
			if !referenced[name] {
				result.add(Issue{
					FilePath:   filepath.Join(dir, name),
					Code:       CodeOrphanSet,
					Severity:   SeverityWarning,
					Message:    "set file is selected by no theme",
					Suggestion: "add it to a theme's selectedTokenSets or remove the file",
				})
			}
		}
	}
	return result, nil
}
