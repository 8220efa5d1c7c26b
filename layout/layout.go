/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package layout manages the on-disk contract of the modular form: two
// companion files ($metadata.json ordering, $themes.json activation
// profiles) plus one JSON file per token set, all in one directory.
package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/token"
)

// Sentinel errors for the modular form's structural contract.
var (
	// ErrNotADirectory indicates the tokens path does not exist or is
	// not a directory.
	ErrNotADirectory = errors.New("tokens path is not a directory")

	// ErrMissingMetadata indicates the directory has no $metadata.json.
	ErrMissingMetadata = errors.New("missing $metadata.json")

	// ErrMissingThemes indicates the directory has no $themes.json.
	ErrMissingThemes = errors.New("missing $themes.json")
)

// SetFileName returns the on-disk basename for a token set.
func SetFileName(set string) string {
	return token.SanitizeSetName(set) + ".json"
}

// SetForFile reports which set in the metadata order a basename was
// written for. Sanitization is lossy, so the reverse mapping needs the
// metadata; a file no set maps to is reported not-found.
func SetForFile(name string, meta *token.Metadata) (string, bool) {
	if meta == nil {
		return "", false
	}
	for _, set := range meta.TokenSetOrder {
		if SetFileName(set) == name {
			return set, true
		}
	}
	return "", false
}

// IsCompanion reports whether a basename is one of the two companion
// files rather than a token set file.
func IsCompanion(name string) bool {
	return name == token.MetadataFile || name == token.ThemesFile
}

// CheckDir verifies the tokens path exists and is a directory.
func CheckDir(filesystem fs.FileSystem, dir string) error {
	info, err := filesystem.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}
	return nil
}

// ReadMetadata loads and shape-checks $metadata.json. A missing file
// wraps ErrMissingMetadata; malformed JSON wraps document.ErrSourceParse
// and a bad tokenSetOrder wraps token.ErrMetadataShape.
func ReadMetadata(filesystem fs.FileSystem, dir string) (*token.Metadata, error) {
	path := filepath.Join(dir, token.MetadataFile)
	if !filesystem.Exists(path) {
		return nil, fmt.Errorf("%w: %s", ErrMissingMetadata, path)
	}
	tree, err := document.Read(filesystem, path)
	if err != nil {
		return nil, err
	}
	meta, err := token.MetadataFromValue(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return meta, nil
}

// ReadThemes loads and shape-checks $themes.json. A missing file wraps
// ErrMissingThemes; malformed JSON wraps document.ErrSourceParse and a
// bad entry wraps token.ErrThemeShape.
func ReadThemes(filesystem fs.FileSystem, dir string) ([]*token.Theme, error) {
	path := filepath.Join(dir, token.ThemesFile)
	if !filesystem.Exists(path) {
		return nil, fmt.Errorf("%w: %s", ErrMissingThemes, path)
	}
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", document.ErrSourceRead, path, err)
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", document.ErrSourceParse, path, err)
	}
	themes, err := token.ThemesFromValue(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return themes, nil
}

// WriteMetadata writes $metadata.json into dir.
func WriteMetadata(filesystem fs.FileSystem, dir string, meta *token.Metadata) error {
	return document.Write(filesystem, filepath.Join(dir, token.MetadataFile), meta.ToValue())
}

// WriteThemes writes $themes.json into dir.
func WriteThemes(filesystem fs.FileSystem, dir string, themes []*token.Theme) error {
	return document.Write(filesystem, filepath.Join(dir, token.ThemesFile), token.ThemesToValue(themes))
}

// Init creates dir with empty companion files. Existing files are left
// untouched, so running it against a populated directory is harmless.
func Init(filesystem fs.FileSystem, dir string) error {
	if err := filesystem.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if !filesystem.Exists(filepath.Join(dir, token.MetadataFile)) {
		if err := WriteMetadata(filesystem, dir, &token.Metadata{}); err != nil {
			return err
		}
	}
	if !filesystem.Exists(filepath.Join(dir, token.ThemesFile)) {
		if err := WriteThemes(filesystem, dir, nil); err != nil {
			return err
		}
	}
	return nil
}

// ListTokenFiles returns the basenames of the set files in dir, sorted.
// Companion files and non-JSON entries are excluded.
func ListTokenFiles(filesystem fs.FileSystem, dir string) ([]string, error) {
	entries, err := filesystem.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || IsCompanion(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListCompanionFiles returns the companion basenames present in dir, in
// contract order: metadata first, themes second.
func ListCompanionFiles(filesystem fs.FileSystem, dir string) []string {
	var names []string
	for _, name := range []string{token.MetadataFile, token.ThemesFile} {
		if filesystem.Exists(filepath.Join(dir, name)) {
			names = append(names, name)
		}
	}
	return names
}

// Clean removes every generated JSON file from dir: the companions and
// all set files. Files the tool did not generate are left in place.
// With keepDir false the directory itself is removed afterwards.
func Clean(filesystem fs.FileSystem, dir string, keepDir bool) error {
	if err := CheckDir(filesystem, dir); err != nil {
		return err
	}

	names, err := ListTokenFiles(filesystem, dir)
	if err != nil {
		return err
	}
	names = append(names, ListCompanionFiles(filesystem, dir)...)

	for _, name := range names {
		if err := filesystem.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	if !keepDir {
		return filesystem.RemoveAll(dir)
	}
	return nil
}
