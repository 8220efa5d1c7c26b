/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for tokensync.
package config

import (
	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/recovery"
	"bennypowers.dev/tokensync/transform"
)

// Backups configures the recovery system's backup store.
type Backups struct {
	// Dir is the backup root directory.
	Dir string `yaml:"dir" json:"dir"`

	// MaxPerOperation bounds how many backups are retained per
	// operation name. Zero means the default retention; negative means
	// unbounded.
	MaxPerOperation int `yaml:"maxPerOperation" json:"maxPerOperation"`
}

// Config represents the tokensync project configuration.
type Config struct {
	// TokensDir is the modular directory that split writes and the
	// other operations read.
	TokensDir string `yaml:"tokensDir" json:"tokensDir"`

	// SourcePath is the consolidated document.
	SourcePath string `yaml:"sourcePath" json:"sourcePath"`

	// Backups configures backup retention.
	Backups Backups `yaml:"backups" json:"backups"`

	// Classification replaces the built-in set classification table
	// when non-empty.
	Classification []transform.Rule `yaml:"classification" json:"classification"`

	// StrictDescriptions escalates a description lost across a round
	// trip from a warning to an error.
	StrictDescriptions bool `yaml:"strictDescriptions" json:"strictDescriptions"`
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		TokensDir:  "tokens",
		SourcePath: "tokens.json",
		Backups: Backups{
			Dir:             ".backups",
			MaxPerOperation: 10,
		},
	}
}

// fillDefaults replaces unset fields with their defaults, so a partial
// config file behaves like an override rather than a full declaration.
func (c *Config) fillDefaults() {
	d := Default()
	if c.TokensDir == "" {
		c.TokensDir = d.TokensDir
	}
	if c.SourcePath == "" {
		c.SourcePath = d.SourcePath
	}
	if c.Backups.Dir == "" {
		c.Backups.Dir = d.Backups.Dir
	}
	if c.Backups.MaxPerOperation == 0 {
		c.Backups.MaxPerOperation = d.Backups.MaxPerOperation
	}
}

// BackupManager builds the recovery manager this config describes.
func (c *Config) BackupManager(filesystem fs.FileSystem) *recovery.Manager {
	max := c.Backups.MaxPerOperation
	if max < 0 {
		max = 0
	}
	return recovery.NewManager(filesystem, c.Backups.Dir, max)
}

// Rules returns the classification table, nil meaning the builtin one.
func (c *Config) Rules() []transform.Rule {
	return c.Classification
}
