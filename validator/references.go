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

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/layout"
	"bennypowers.dev/tokensync/resolver"
)

// ValidateReferences collects every {dot.path} reference across all set
// files and resolves each against the unified tree, following chains of
// reference-valued tokens. Unresolved references and cycles are both
// reported, tagged with the file and token path they originate from.
func ValidateReferences(filesystem fs.FileSystem, dir string) (*Result, error) {
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

	files, err := layout.ListTokenFiles(filesystem, dir)
	if err != nil {
		return nil, err
	}

	trees := make(map[string]map[string]any, len(files))
	for _, name := range files {
		path := filepath.Join(dir, name)
		tree, err := document.Read(filesystem, path)
		if err != nil {
			if errors.Is(err, document.ErrSourceParse) || errors.Is(err, document.ErrSourceRead) {
				result.add(Issue{
					FilePath:   path,
					Code:       CodeInvalidJSON,
					Severity:   SeverityError,
					Message:    "file is not valid JSON; its references cannot be checked",
					Suggestion: "fix the syntax or run recovery with --fix",
				})
				continue
			}
			return nil, err
		}
		trees[name] = tree
	}

	unified := unifiedTree(filesystem, dir, files, trees)

	for _, name := range files {
		tree, ok := trees[name]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name)
		for _, occ := range resolver.Collect(tree) {
			if _, err := resolver.ResolveChain(occ.Raw, unified); err != nil {
				result.add(referenceIssue(path, occ, err))
			}
		}
	}
	return result, nil
}

// unifiedTree merges every readable set file into one tree: sets in
// tokenSetOrder first (later wins, matching consolidation), then files
// the metadata does not list, in name order.
func unifiedTree(filesystem fs.FileSystem, dir string, files []string, trees map[string]map[string]any) map[string]any {
	merged := map[string]any{}
	used := map[string]bool{}

	if meta, err := layout.ReadMetadata(filesystem, dir); err == nil {
		for _, set := range meta.TokenSetOrder {
			name := layout.SetFileName(set)
			if tree, ok := trees[name]; ok && !used[name] {
				merged = document.DeepMerge(merged, tree)
				used[name] = true
			}
		}
	}
	for _, name := range files {
		if tree, ok := trees[name]; ok && !used[name] {
			merged = document.DeepMerge(merged, tree)
			used[name] = true
		}
	}
	return merged
}

func referenceIssue(filePath string, occ resolver.Occurrence, err error) Issue {
	issue := Issue{
		FilePath: filePath,
		Path:     occ.SourcePath,
		Severity: SeverityError,
		Message:  fmt.Sprintf("%s: %v", occ.Raw, err),
	}
	switch {
	case errors.Is(err, resolver.ErrCircularReference):
		issue.Code = CodeCircularReference
		issue.Suggestion = "break the cycle by giving one token a literal value"
	case errors.Is(err, resolver.ErrMalformedReference):
		issue.Code = CodeMalformedReference
		issue.Suggestion = "references take the form {dot.separated.path}"
	default:
		// Missing paths, null leaves, and group-valued targets all
		// leave the reference unresolved.
		issue.Code = CodeUnresolvedReference
		issue.Suggestion = "check the path, or run recover for nearest-match suggestions"
	}
	return issue
}
