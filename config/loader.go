/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/internal/logger"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "tokensync"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json"}

// sourcePatterns are the conventional places a consolidated document
// lives, probed in order by DiscoverSource.
var sourcePatterns = []string{
	"tokens.json",
	"design-tokens.json",
	"**/tokens.json",
}

// Load searches for .config/tokensync.{yaml,yml,json} from rootDir.
// Returns nil if no config is found (not an error). Unset fields in a
// found config take their default values.
func Load(filesystem fs.FileSystem, rootDir string) (*Config, error) {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if !filesystem.Exists(configPath) {
			continue
		}

		data, err := filesystem.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}

		cfg := &Config{}
		switch ext {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("%s: %w", configPath, err)
			}
		case ".json":
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("%s: %w", configPath, err)
			}
		}

		cfg.fillDefaults()
		return cfg, nil
	}

	return nil, nil
}

// LoadOrDefault returns config or defaults if not found or unreadable.
// An unreadable config is reported but never fatal.
func LoadOrDefault(filesystem fs.FileSystem, rootDir string) *Config {
	cfg, err := Load(filesystem, rootDir)
	if err != nil {
		logger.Warn("ignoring config: %v", err)
		return Default()
	}
	if cfg == nil {
		return Default()
	}
	return cfg
}

// DiscoverSource finds a consolidated document under rootDir when none
// is configured: conventional names first, then a glob scan. Reports
// false when nothing matches.
func DiscoverSource(filesystem fs.FileSystem, rootDir string) (string, bool) {
	for _, pattern := range sourcePatterns {
		if !containsGlob(pattern) {
			path := filepath.Join(rootDir, pattern)
			if filesystem.Exists(path) {
				return path, true
			}
			continue
		}
		if matches, err := expandGlob(filesystem, filepath.Join(rootDir, pattern)); err == nil && len(matches) > 0 {
			return matches[0], true
		}
	}
	return "", false
}

// containsGlob returns true if the pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// expandGlob expands a glob pattern against the filesystem.
func expandGlob(filesystem fs.FileSystem, pattern string) ([]string, error) {
	// Find the base directory (non-glob prefix).
	baseDir := pattern
	for containsGlob(baseDir) {
		baseDir = filepath.Dir(baseDir)
	}

	relPattern := strings.TrimPrefix(pattern, baseDir)
	relPattern = strings.TrimPrefix(relPattern, string(filepath.Separator))

	var matches []string
	err := iofs.WalkDir(filesystem, baseDir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			// Skip directories we can't read.
			if d != nil && d.IsDir() {
				return iofs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		relPath := strings.TrimPrefix(path, baseDir)
		relPath = strings.TrimPrefix(relPath, string(filepath.Separator))

		if matched, _ := doublestar.Match(relPattern, relPath); matched {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}
