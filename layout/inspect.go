/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package layout

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/token"
)

// Issue codes reported by Inspect.
const (
	IssueMissingFile  = "missing_file"
	IssueInvalidJSON  = "invalid_json"
	IssueMissingField = "missing_field"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is one structural problem found in a modular directory.
type Issue struct {
	// FilePath is the file (or directory) the issue concerns.
	FilePath string
	// Code is one of the Issue* constants.
	Code string
	// Severity is SeverityError or SeverityWarning.
	Severity string
	// Message describes what's wrong.
	Message string
	// Suggestion provides an actionable fix.
	Suggestion string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.FilePath)
	sb.WriteString(": ")
	sb.WriteString(i.Message)
	if i.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(i.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// Inspect checks a modular directory against the on-disk contract and
// reports every problem found. All failure modes come back as issues,
// so the recovery system can act on them; a healthy directory yields
// nil.
func Inspect(filesystem fs.FileSystem, dir string) []Issue {
	if err := CheckDir(filesystem, dir); err != nil {
		return []Issue{{
			FilePath:   dir,
			Code:       IssueMissingFile,
			Severity:   SeverityError,
			Message:    "tokens directory does not exist",
			Suggestion: "run tokensync split <source> to create it",
		}}
	}

	var issues []Issue
	meta := inspectMetadata(filesystem, dir, &issues)
	inspectThemes(filesystem, dir, &issues)
	inspectSets(filesystem, dir, meta, &issues)
	return issues
}

func inspectMetadata(filesystem fs.FileSystem, dir string, issues *[]Issue) *token.Metadata {
	path := filepath.Join(dir, token.MetadataFile)
	if !filesystem.Exists(path) {
		*issues = append(*issues, Issue{
			FilePath:   path,
			Code:       IssueMissingFile,
			Severity:   SeverityError,
			Message:    "companion file $metadata.json is missing",
			Suggestion: "run tokensync recover --fix to recreate it, or re-run split",
		})
		return nil
	}

	data, err := filesystem.ReadFile(path)
	if err != nil {
		*issues = append(*issues, Issue{
			FilePath: path,
			Code:     IssueMissingFile,
			Severity: SeverityError,
			Message:  fmt.Sprintf("unreadable: %v", err),
		})
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		*issues = append(*issues, Issue{
			FilePath:   path,
			Code:       IssueInvalidJSON,
			Severity:   SeverityError,
			Message:    fmt.Sprintf("not valid JSON: %v", err),
			Suggestion: "check for trailing commas or comments; tokensync recover --fix repairs simple defects",
		})
		return nil
	}

	meta, err := token.MetadataFromValue(raw)
	if err != nil {
		*issues = append(*issues, Issue{
			FilePath:   path,
			Code:       IssueMissingField,
			Severity:   SeverityError,
			Message:    "tokenSetOrder must be an array of strings",
			Suggestion: "fix the tokenSetOrder entry by hand or re-run split",
		})
		return nil
	}

	if _, ok := raw["tokenSetOrder"]; !ok {
		*issues = append(*issues, Issue{
			FilePath:   path,
			Code:       IssueMissingField,
			Severity:   SeverityWarning,
			Message:    "metadata carries no tokenSetOrder",
			Suggestion: "set files cannot be enumerated without it",
		})
	}
	return meta
}

func inspectThemes(filesystem fs.FileSystem, dir string, issues *[]Issue) {
	path := filepath.Join(dir, token.ThemesFile)
	if !filesystem.Exists(path) {
		*issues = append(*issues, Issue{
			FilePath:   path,
			Code:       IssueMissingFile,
			Severity:   SeverityWarning,
			Message:    "companion file $themes.json is missing",
			Suggestion: "consolidation treats themes as empty; tokensync recover --fix recreates the file",
		})
		return
	}

	data, err := filesystem.ReadFile(path)
	if err != nil {
		*issues = append(*issues, Issue{
			FilePath: path,
			Code:     IssueMissingFile,
			Severity: SeverityError,
			Message:  fmt.Sprintf("unreadable: %v", err),
		})
		return
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		*issues = append(*issues, Issue{
			FilePath:   path,
			Code:       IssueInvalidJSON,
			Severity:   SeverityError,
			Message:    fmt.Sprintf("not a valid JSON array: %v", err),
			Suggestion: "check for trailing commas or comments; tokensync recover --fix repairs simple defects",
		})
		return
	}

	themes, err := token.ThemesFromValue(raw)
	if err != nil {
		*issues = append(*issues, Issue{
			FilePath:   path,
			Code:       IssueMissingField,
			Severity:   SeverityError,
			Message:    "theme entries need a string id, a string name and a selectedTokenSets map",
			Suggestion: "fix the malformed entry by hand",
		})
		return
	}

	for i, theme := range themes {
		if theme.ID == "" || theme.Name == "" {
			*issues = append(*issues, Issue{
				FilePath: path,
				Code:     IssueMissingField,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("theme %d has an empty id or name", i),
			})
		}
		for set, mode := range theme.SelectedTokenSets {
			if !token.ValidMode(string(mode)) {
				*issues = append(*issues, Issue{
					FilePath:   path,
					Code:       IssueMissingField,
					Severity:   SeverityWarning,
					Message:    fmt.Sprintf("theme %q marks set %q with unknown mode %q", theme.Name, set, mode),
					Suggestion: `use "source", "enabled" or "disabled"`,
				})
			}
		}
	}
}

func inspectSets(filesystem fs.FileSystem, dir string, meta *token.Metadata, issues *[]Issue) {
	if meta == nil {
		return
	}
	for _, set := range meta.TokenSetOrder {
		path := filepath.Join(dir, SetFileName(set))
		if !filesystem.Exists(path) {
			*issues = append(*issues, Issue{
				FilePath:   path,
				Code:       IssueMissingFile,
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("set %q has no backing file", set),
				Suggestion: "re-run split, or remove the set from tokenSetOrder",
			})
			continue
		}

		data, err := filesystem.ReadFile(path)
		if err != nil {
			*issues = append(*issues, Issue{
				FilePath: path,
				Code:     IssueMissingFile,
				Severity: SeverityError,
				Message:  fmt.Sprintf("unreadable: %v", err),
			})
			continue
		}
		var tree map[string]any
		if err := json.Unmarshal(data, &tree); err != nil {
			*issues = append(*issues, Issue{
				FilePath:   path,
				Code:       IssueInvalidJSON,
				Severity:   SeverityError,
				Message:    fmt.Sprintf("not valid JSON: %v", err),
				Suggestion: "check for trailing commas or comments; tokensync recover --fix repairs simple defects",
			})
		}
	}
}
