/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package recovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/tidwall/jsonc"

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/layout"
	"bennypowers.dev/tokensync/resolver"
	"bennypowers.dev/tokensync/token"
)

// RecoveryOptions control how far AttemptRecovery may go.
type RecoveryOptions struct {
	// AutoFix applies repairs: recreating companions and rewriting
	// near-valid JSON. Without it every fixable issue is only reported.
	AutoFix bool
}

// Suggestion proposes a replacement for an unresolved reference. It is
// never applied automatically; renaming a reference is an editorial
// decision.
type Suggestion struct {
	// SourcePath is the token whose value holds the reference.
	SourcePath string

	// Reference is the unresolved target path.
	Reference string

	// Candidate is the nearest known token path.
	Candidate string

	// Message is the human-readable proposal.
	Message string
}

// RecoveryResult reports what AttemptRecovery did and what remains.
type RecoveryResult struct {
	// Fixed describes each repair applied, in order.
	Fixed []string

	// Remaining are the issues that still need a human.
	Remaining []layout.Issue

	// Suggestions propose fixes for unresolved references.
	Suggestions []Suggestion
}

// AttemptRecovery inspects a modular directory, repairs what it safely
// can, and proposes fixes for what it cannot. Missing companions are
// recreated with minimal content (the metadata order is inferred from
// the set files present); JSON that only suffers comments or trailing
// commas is reparsed leniently and rewritten. Repairs run only with
// AutoFix set.
func AttemptRecovery(filesystem fs.FileSystem, dir string, opts RecoveryOptions) (*RecoveryResult, error) {
	result := &RecoveryResult{}

	for _, issue := range layout.Inspect(filesystem, dir) {
		if !opts.AutoFix {
			result.Remaining = append(result.Remaining, issue)
			continue
		}
		action, err := fixIssue(filesystem, dir, issue)
		if err != nil || action == "" {
			result.Remaining = append(result.Remaining, issue)
			continue
		}
		result.Fixed = append(result.Fixed, action)
	}

	result.Suggestions = referenceSuggestions(filesystem, dir)
	return result, nil
}

// fixIssue applies one repair. An empty action with a nil error means
// the issue has no safe automatic fix.
func fixIssue(filesystem fs.FileSystem, dir string, issue layout.Issue) (string, error) {
	base := filepath.Base(issue.FilePath)

	switch issue.Code {
	case layout.IssueMissingFile:
		switch {
		case issue.FilePath == dir:
			if err := layout.Init(filesystem, dir); err != nil {
				return "", err
			}
			return fmt.Sprintf("created %s with empty companion files", dir), nil

		case base == token.MetadataFile:
			order, err := inferSetOrder(filesystem, dir)
			if err != nil {
				return "", err
			}
			meta := &token.Metadata{TokenSetOrder: order}
			if err := layout.WriteMetadata(filesystem, dir, meta); err != nil {
				return "", err
			}
			return fmt.Sprintf("recreated %s with %d sets inferred from files", token.MetadataFile, len(order)), nil

		case base == token.ThemesFile:
			if err := layout.WriteThemes(filesystem, dir, nil); err != nil {
				return "", err
			}
			return fmt.Sprintf("recreated %s (empty)", token.ThemesFile), nil
		}
		// A set file with no content to restore from; nothing safe to do.
		return "", nil

	case layout.IssueInvalidJSON:
		return repairJSON(filesystem, issue.FilePath)
	}

	return "", nil
}

// inferSetOrder derives a tokenSetOrder from the set files on disk.
func inferSetOrder(filesystem fs.FileSystem, dir string) ([]string, error) {
	names, err := layout.ListTokenFiles(filesystem, dir)
	if err != nil {
		return nil, err
	}
	order := make([]string, 0, len(names))
	for _, name := range names {
		order = append(order, strings.TrimSuffix(name, ".json"))
	}
	return order, nil
}

// repairJSON reparses a file leniently and, when that succeeds,
// rewrites it as strict deterministic JSON. Files broken beyond
// comments and trailing commas stay untouched.
func repairJSON(filesystem fs.FileSystem, path string) (string, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return "", err
	}

	var repaired any
	if err := json.Unmarshal(jsonc.ToJSON(data), &repaired); err != nil {
		return "", nil
	}
	if err := document.Write(filesystem, path, repaired); err != nil {
		return "", err
	}
	return fmt.Sprintf("repaired %s", path), nil
}

// referenceSuggestions builds the unified tree from whatever sets are
// readable and proposes the nearest known path for each unresolved
// reference.
func referenceSuggestions(filesystem fs.FileSystem, dir string) []Suggestion {
	meta, err := layout.ReadMetadata(filesystem, dir)
	if err != nil {
		return nil
	}

	unified := map[string]any{}
	for _, set := range meta.TokenSetOrder {
		tree, err := document.Read(filesystem, filepath.Join(dir, layout.SetFileName(set)))
		if err != nil {
			continue
		}
		unified = document.DeepMerge(unified, tree)
	}

	known := resolver.KnownPaths(unified)

	var suggestions []Suggestion
	for _, occ := range resolver.Collect(unified) {
		_, err := resolver.Resolve(occ.Raw, unified)
		if !errors.Is(err, resolver.ErrUnresolvedReference) {
			continue
		}
		candidate := nameSuggestion(occ.Target, known)
		if candidate == "" {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			SourcePath: occ.SourcePath,
			Reference:  occ.Target,
			Candidate:  candidate,
			Message:    fmt.Sprintf("%s references {%s}; did you mean {%s}?", occ.SourcePath, occ.Target, candidate),
		})
	}
	return suggestions
}

// nameSuggestion returns the first known path within a small edit
// distance of the unresolved one.
func nameSuggestion(given string, known []string) string {
	for _, candidate := range known {
		if levenshtein.Distance(given, candidate, nil) < 3 {
			return candidate
		}
	}
	return ""
}
