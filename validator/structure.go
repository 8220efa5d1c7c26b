/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package validator

import (
	"path/filepath"

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/layout"
	"bennypowers.dev/tokensync/token"
)

// ValidateStructure checks the modular directory's physical contract:
// the directory and both companion files exist and parse, every set in
// tokenSetOrder has a backing file, and every token carries a value.
// Types may be inferred later; a value cannot be.
func ValidateStructure(filesystem fs.FileSystem, dir string) (*Result, error) {
	result := &Result{IsValid: true}

	for _, found := range layout.Inspect(filesystem, dir) {
		result.add(Issue{
			FilePath:   found.FilePath,
			Code:       found.Code,
			Severity:   found.Severity,
			Message:    found.Message,
			Suggestion: found.Suggestion,
		})
	}
	if err := layout.CheckDir(filesystem, dir); err != nil {
		return result, nil
	}

	files, err := layout.ListTokenFiles(filesystem, dir)
	if err != nil {
		return nil, err
	}
	for _, name := range files {
		path := filepath.Join(dir, name)
		tree, err := document.Read(filesystem, path)
		if err != nil {
			// Files named by the metadata were already reported by
			// Inspect; stray unparseable files still need a finding.
			if !hasIssue(result, CodeInvalidJSON, path) {
				result.add(Issue{
					FilePath:   path,
					Code:       CodeInvalidJSON,
					Severity:   SeverityError,
					Message:    "file is not valid JSON",
					Suggestion: "fix the syntax or run recovery with --fix",
				})
			}
			continue
		}
		token.Walk(tree, func(tokenPath []string, node map[string]any) {
			if _, ok := token.Value(node); !ok {
				result.add(Issue{
					FilePath:   path,
					Path:       token.JoinPath(tokenPath),
					Code:       CodeMissingValue,
					Severity:   SeverityError,
					Message:    "token declares a type but no value",
					Suggestion: "add a $value entry",
				})
			}
		})
	}
	return result, nil
}

func hasIssue(result *Result, code, filePath string) bool {
	for _, issue := range result.Issues {
		if issue.Code == code && issue.FilePath == filePath {
			return true
		}
	}
	return false
}
