/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package layout

import (
	iofs "io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"bennypowers.dev/tokensync/fs"
)

// Snapshot copies every JSON file under dir into destDir, preserving
// relative paths. It is the copy primitive behind backups; the backup
// manager owns naming and retention. Returns the relative paths copied,
// sorted.
func Snapshot(filesystem fs.FileSystem, dir, destDir string) ([]string, error) {
	files, err := GlobJSON(filesystem, dir)
	if err != nil {
		return nil, err
	}

	for _, rel := range files {
		data, err := filesystem.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			return nil, err
		}
		dest := filepath.Join(destDir, rel)
		if parent := filepath.Dir(dest); parent != "." {
			if err := filesystem.MkdirAll(parent, 0755); err != nil {
				return nil, err
			}
		}
		if err := filesystem.WriteFile(dest, data, 0644); err != nil {
			return nil, err
		}
	}

	return files, nil
}

// GlobJSON walks dir and returns every JSON file beneath it, as paths
// relative to dir, sorted. Matching runs through doublestar so the
// walk and the pattern agree on nested layouts.
func GlobJSON(filesystem fs.FileSystem, dir string) ([]string, error) {
	if err := CheckDir(filesystem, dir); err != nil {
		return nil, err
	}

	var matches []string
	err := iofs.WalkDir(filesystem, dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			// Skip directories we can't read
			if d != nil && d.IsDir() {
				return iofs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(path, dir)
		rel = strings.TrimPrefix(rel, string(filepath.Separator))

		if matched, _ := doublestar.Match("**/*.json", rel); matched {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}
