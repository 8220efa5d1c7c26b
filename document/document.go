/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package document reads and writes token JSON documents: the single
// consolidated document and the per-set files of the modular form.
// Reads are strict; the lenient path exists for the recovery system.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ohler55/ojg/oj"
	"github.com/tidwall/jsonc"

	"bennypowers.dev/tokensync/fs"
)

// Sentinel errors for document I/O. Callers match with errors.Is; the
// wrapped message carries the file path.
var (
	// ErrSourceRead indicates the document could not be read at all.
	ErrSourceRead = errors.New("source document unreadable")

	// ErrSourceParse indicates the document is not valid JSON.
	ErrSourceParse = errors.New("source document is not valid JSON")

	// ErrTargetWrite indicates the output path could not be written.
	ErrTargetWrite = errors.New("target document unwritable")
)

// writeOptions produce deterministic files: sorted keys, two-space
// indent. Stable output keeps diffs small across repeated round trips.
var writeOptions = oj.Options{Indent: 2, Sort: true}

// Read parses a JSON document into a token tree. Read failures wrap
// ErrSourceRead, malformed JSON wraps ErrSourceParse.
func Read(filesystem fs.FileSystem, path string) (map[string]any, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceRead, path, err)
	}
	return Parse(data, path)
}

// Parse decodes document bytes. The path is only used in error text.
func Parse(data []byte, path string) (map[string]any, error) {
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceParse, path, err)
	}
	return tree, nil
}

// ParseLenient decodes document bytes after stripping comments and
// trailing commas. Used by the recovery system's repair pass; regular
// reads stay strict so defects surface instead of compounding.
func ParseLenient(data []byte, path string) (map[string]any, error) {
	return Parse(jsonc.ToJSON(data), path)
}

// Write serializes a JSON document to path, creating parent
// directories. Most documents are token trees; $themes.json is a
// top-level array. Output is deterministic and ends with a newline.
func Write(filesystem fs.FileSystem, path string, doc any) error {
	data, err := oj.Marshal(doc, &writeOptions)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTargetWrite, path, err)
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := filesystem.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTargetWrite, path, err)
		}
	}
	if err := filesystem.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTargetWrite, path, err)
	}
	return nil
}
