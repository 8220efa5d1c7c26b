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
	"reflect"
	"sort"

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/internal/mapfs"
	"bennypowers.dev/tokensync/layout"
	"bennypowers.dev/tokensync/token"
	"bennypowers.dev/tokensync/transform"
)

const (
	replaySource = "roundtrip/source.json"
	replayDir    = "roundtrip/tokens"
)

// ValidateRoundTrip checks that the modular directory is equivalent to
// the consolidated document: it replays the split in memory and
// compares the replay's output to what is on disk, key by key. Running
// the real split rather than a parallel comparison keeps the check and
// the transformation from ever disagreeing about normalization.
//
// A lost $description is reported under its own code because some
// workflows tolerate it; Options.StrictDescriptions escalates it to an
// error. Tokens the document leaves untyped are flagged as warnings,
// since their modular $type is an inference, not a recorded fact.
func ValidateRoundTrip(filesystem fs.FileSystem, sourcePath, dir string, opts Options) (*Result, error) {
	result := &Result{IsValid: true}

	doc, err := document.Read(filesystem, sourcePath)
	if err != nil {
		switch {
		case errors.Is(err, document.ErrSourceRead):
			result.add(Issue{
				FilePath:   sourcePath,
				Code:       CodeMissingFile,
				Severity:   SeverityError,
				Message:    "consolidated document is unreadable",
				Suggestion: "check the path, or run consolidate to create it",
			})
		case errors.Is(err, document.ErrSourceParse):
			result.add(Issue{
				FilePath:   sourcePath,
				Code:       CodeInvalidJSON,
				Severity:   SeverityError,
				Message:    "consolidated document is not valid JSON",
				Suggestion: "fix the syntax or run recovery with --fix",
			})
		default:
			return nil, err
		}
		return result, nil
	}

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

	token.Walk(doc, func(path []string, node map[string]any) {
		if _, ok := token.ExplicitType(node); ok {
			return
		}
		value, ok := token.Value(node)
		if !ok {
			return
		}
		result.add(Issue{
			FilePath:   sourcePath,
			Path:       token.JoinPath(path),
			Code:       CodeInferredType,
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("token has no declared type; the modular form records it as %q", token.InferType(value)),
			Suggestion: "declare a $type to make the inference explicit",
		})
	})
	if _, ok := doc[token.MetadataKey]; !ok {
		result.add(Issue{
			FilePath:   sourcePath,
			Code:       CodeSynthesizedMetadata,
			Severity:   SeverityWarning,
			Message:    "document has no $metadata entry; the modular tokenSetOrder is derived",
			Suggestion: "run consolidate to record the order in the document",
		})
	}
	if _, ok := doc[token.ThemesKey]; !ok {
		result.add(Issue{
			FilePath:   sourcePath,
			Code:       CodeSynthesizedMetadata,
			Severity:   SeverityWarning,
			Message:    "document has no $themes entry; the modular theme list is derived",
			Suggestion: "run consolidate to record the themes in the document",
		})
	}

	scratch := mapfs.New()
	data, err := filesystem.ReadFile(sourcePath)
	if err != nil {
		return nil, err
	}
	if err := scratch.WriteFile(replaySource, data, 0644); err != nil {
		return nil, err
	}
	if _, err := transform.Split(scratch, replaySource, replayDir, transform.Options{Rules: opts.Rules}); err != nil {
		result.add(Issue{
			FilePath:   sourcePath,
			Code:       CodeMissingField,
			Severity:   SeverityError,
			Message:    fmt.Sprintf("document cannot be split: %v", err),
			Suggestion: "fix the document's reserved $metadata and $themes entries",
		})
		return result, nil
	}

	if err := compareMetadata(filesystem, scratch, dir, result, opts); err != nil {
		return nil, err
	}
	if err := compareThemes(filesystem, scratch, dir, result); err != nil {
		return nil, err
	}
	if err := compareSetFiles(filesystem, scratch, dir, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

func compareMetadata(filesystem, scratch fs.FileSystem, dir string, result *Result, opts Options) error {
	want, err := document.Read(scratch, filepath.Join(replayDir, token.MetadataFile))
	if err != nil {
		return err
	}

	actualPath := filepath.Join(dir, token.MetadataFile)
	got, err := document.Read(filesystem, actualPath)
	if err != nil {
		switch {
		case errors.Is(err, document.ErrSourceRead):
			result.add(Issue{
				FilePath:   actualPath,
				Code:       CodeMissingFile,
				Severity:   SeverityError,
				Message:    "modular form has no $metadata.json",
				Suggestion: "run split to regenerate it",
			})
		case errors.Is(err, document.ErrSourceParse):
			result.add(Issue{
				FilePath:   actualPath,
				Code:       CodeInvalidJSON,
				Severity:   SeverityError,
				Message:    "file is not valid JSON; round trip cannot be checked",
				Suggestion: "fix the syntax or run recovery with --fix",
			})
		default:
			return err
		}
		return nil
	}
	compareTrees(result, actualPath, "", want, got, opts)
	return nil
}

func compareThemes(filesystem, scratch fs.FileSystem, dir string, result *Result) error {
	want, err := layout.ReadThemes(scratch, replayDir)
	if err != nil {
		return err
	}

	actualPath := filepath.Join(dir, token.ThemesFile)
	got, err := layout.ReadThemes(filesystem, dir)
	if err != nil {
		switch {
		case errors.Is(err, layout.ErrMissingThemes):
			result.add(Issue{
				FilePath:   actualPath,
				Code:       CodeMissingFile,
				Severity:   SeverityError,
				Message:    "modular form has no $themes.json",
				Suggestion: "run split to regenerate it",
			})
		case errors.Is(err, document.ErrSourceParse), errors.Is(err, token.ErrThemeShape):
			result.add(Issue{
				FilePath:   actualPath,
				Code:       CodeInvalidJSON,
				Severity:   SeverityError,
				Message:    fmt.Sprintf("theme definitions unusable: %v", err),
				Suggestion: "fix the file or run recovery with --fix",
			})
		default:
			return err
		}
		return nil
	}

	if !reflect.DeepEqual(token.ThemesToValue(want), token.ThemesToValue(got)) {
		result.add(Issue{
			FilePath:   actualPath,
			Code:       CodeValueMismatch,
			Severity:   SeverityError,
			Message:    "theme definitions differ between the document and the modular form",
			Suggestion: "run consolidate to keep the modular themes, or split to restore the document's",
		})
	}
	return nil
}

func compareSetFiles(filesystem, scratch fs.FileSystem, dir string, result *Result, opts Options) error {
	replayFiles, err := layout.ListTokenFiles(scratch, replayDir)
	if err != nil {
		return err
	}
	actualFiles, err := layout.ListTokenFiles(filesystem, dir)
	if err != nil {
		return err
	}

	inReplay := make(map[string]bool, len(replayFiles))
	for _, name := range replayFiles {
		inReplay[name] = true
	}
	inActual := make(map[string]bool, len(actualFiles))
	for _, name := range actualFiles {
		inActual[name] = true
	}

	for _, name := range replayFiles {
		actualPath := filepath.Join(dir, name)
		if !inActual[name] {
			result.add(Issue{
				FilePath:   actualPath,
				Code:       CodeMissingFile,
				Severity:   SeverityError,
				Message:    "splitting the document produces this file, but it is missing",
				Suggestion: "run split to regenerate it",
			})
			continue
		}

		want, err := document.Read(scratch, filepath.Join(replayDir, name))
		if err != nil {
			return err
		}
		got, err := document.Read(filesystem, actualPath)
		if err != nil {
			if errors.Is(err, document.ErrSourceParse) {
				result.add(Issue{
					FilePath:   actualPath,
					Code:       CodeInvalidJSON,
					Severity:   SeverityError,
					Message:    "file is not valid JSON; round trip cannot be checked",
					Suggestion: "fix the syntax or run recovery with --fix",
				})
				continue
			}
			return err
		}
		// Hand edits may use the legacy bare keys; normalize before
		// comparing so only real differences are reported.
		compareTrees(result, actualPath, "", want, transform.NormalizeTree(got), opts)
	}

	for _, name := range actualFiles {
		if inReplay[name] {
			continue
		}
		result.add(Issue{
			FilePath:   filepath.Join(dir, name),
			Code:       CodeExtraFile,
			Severity:   SeverityError,
			Message:    "file has no counterpart in the document",
			Suggestion: "run consolidate to carry it into the document, or remove the file",
		})
	}
	return nil
}

// compareTrees reports every key present on one side but not the
// other, and every leaf whose values differ, keyed by dotted path.
// want is the replayed split of the document; got is what the
// directory actually holds.
func compareTrees(result *Result, filePath, prefix string, want, got map[string]any, opts Options) {
	keys := make([]string, 0, len(want))
	for key := range want {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := childPath(prefix, key)
		gotValue, ok := got[key]
		if !ok {
			if key == "$description" {
				severity := SeverityWarning
				if opts.StrictDescriptions {
					severity = SeverityError
				}
				result.add(Issue{
					FilePath:   filePath,
					Path:       path,
					Code:       CodeMissingDescription,
					Severity:   severity,
					Message:    "description lost from the modular form",
					Suggestion: "restore the $description, or run consolidate to drop it from the document",
				})
				continue
			}
			result.add(Issue{
				FilePath:   filePath,
				Path:       path,
				Code:       CodeMissingKey,
				Severity:   SeverityError,
				Message:    "present in the document but not in the modular form",
				Suggestion: "run split to regenerate the file",
			})
			continue
		}

		wantValue := want[key]
		wantMap, wantIsMap := wantValue.(map[string]any)
		gotMap, gotIsMap := gotValue.(map[string]any)
		switch {
		case wantIsMap && gotIsMap:
			compareTrees(result, filePath, path, wantMap, gotMap, opts)
		case wantIsMap || gotIsMap:
			result.add(Issue{
				FilePath:   filePath,
				Path:       path,
				Code:       CodeValueMismatch,
				Severity:   SeverityError,
				Message:    "value kinds differ between the document and the modular form",
				Suggestion: "run consolidate to keep the modular value, or split to restore the document's",
			})
		case !reflect.DeepEqual(wantValue, gotValue):
			code := CodeValueMismatch
			if key == "$type" {
				code = CodeTypeMismatch
			}
			result.add(Issue{
				FilePath:   filePath,
				Path:       path,
				Code:       code,
				Severity:   SeverityError,
				Message:    fmt.Sprintf("document has %v, modular form has %v", wantValue, gotValue),
				Suggestion: "run consolidate to keep the modular value, or split to restore the document's",
			})
		}
	}

	extra := make([]string, 0, len(got))
	for key := range got {
		if _, ok := want[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		result.add(Issue{
			FilePath:   filePath,
			Path:       childPath(prefix, key),
			Code:       CodeMissingKey,
			Severity:   SeverityError,
			Message:    "present in the modular form but not in the document",
			Suggestion: "run consolidate to carry it into the document",
		})
	}
}

func childPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
