/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"bennypowers.dev/tokensync/internal/logger"
	"bennypowers.dev/tokensync/internal/mapfs"
	"bennypowers.dev/tokensync/transform"
)

func TestLoad_YAML(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("project/.config/tokensync.yaml", `
tokensDir: design/tokens
sourcePath: design/tokens.json
strictDescriptions: true
backups:
  dir: design/.backups
  maxPerOperation: 3
classification:
  - set: primitives
    match: [color, space]
`, 0644)

	cfg, err := Load(mfs, "project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if cfg.TokensDir != "design/tokens" {
		t.Errorf("expected tokensDir 'design/tokens', got %q", cfg.TokensDir)
	}
	if cfg.SourcePath != "design/tokens.json" {
		t.Errorf("expected sourcePath 'design/tokens.json', got %q", cfg.SourcePath)
	}
	if !cfg.StrictDescriptions {
		t.Error("expected strictDescriptions true")
	}
	if cfg.Backups.Dir != "design/.backups" {
		t.Errorf("expected backups dir 'design/.backups', got %q", cfg.Backups.Dir)
	}
	if cfg.Backups.MaxPerOperation != 3 {
		t.Errorf("expected maxPerOperation 3, got %d", cfg.Backups.MaxPerOperation)
	}

	if len(cfg.Classification) != 1 {
		t.Fatalf("expected 1 classification rule, got %d", len(cfg.Classification))
	}
	rule := cfg.Classification[0]
	if rule.Set != "primitives" {
		t.Errorf("expected rule set 'primitives', got %q", rule.Set)
	}
	if len(rule.Match) != 2 || rule.Match[0] != "color" || rule.Match[1] != "space" {
		t.Errorf("expected match [color space], got %v", rule.Match)
	}
	if got := transform.ClassifySet("colorRamp", cfg.Rules()); got != "primitives" {
		t.Errorf("expected loaded rules to classify colorRamp as 'primitives', got %q", got)
	}
}

func TestLoad_JSON(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("project/.config/tokensync.json",
		`{"tokensDir": "tokens", "sourcePath": "figma/tokens.json"}`, 0644)

	cfg, err := Load(mfs, "project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config, got nil")
	}
	if cfg.SourcePath != "figma/tokens.json" {
		t.Errorf("expected sourcePath 'figma/tokens.json', got %q", cfg.SourcePath)
	}
}

func TestLoad_ExtensionPriority(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("project/.config/tokensync.yaml", `tokensDir: from-yaml`, 0644)
	mfs.AddFile("project/.config/tokensync.json", `{"tokensDir": "from-json"}`, 0644)

	cfg, err := Load(mfs, "project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TokensDir != "from-yaml" {
		t.Errorf("expected yaml to win, got %q", cfg.TokensDir)
	}
}

func TestLoad_NotFound(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("project/readme.md", "hi", 0644)

	cfg, err := Load(mfs, "project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config when not found, got %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("project/.config/tokensync.yaml", "tokensDir: [unterminated", 0644)

	if _, err := Load(mfs, "project"); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoad_PartialFillsDefaults(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("project/.config/tokensync.yaml", `tokensDir: design/tokens`, 0644)

	cfg, err := Load(mfs, "project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := Default()
	if cfg.TokensDir != "design/tokens" {
		t.Errorf("expected override to survive, got %q", cfg.TokensDir)
	}
	if cfg.SourcePath != d.SourcePath {
		t.Errorf("expected default sourcePath %q, got %q", d.SourcePath, cfg.SourcePath)
	}
	if cfg.Backups.Dir != d.Backups.Dir {
		t.Errorf("expected default backups dir %q, got %q", d.Backups.Dir, cfg.Backups.Dir)
	}
	if cfg.Backups.MaxPerOperation != d.Backups.MaxPerOperation {
		t.Errorf("expected default retention %d, got %d",
			d.Backups.MaxPerOperation, cfg.Backups.MaxPerOperation)
	}
}

func TestLoadOrDefault_NotFound(t *testing.T) {
	mfs := mapfs.New()

	cfg := LoadOrDefault(mfs, "project")
	if cfg == nil {
		t.Fatal("expected default config, got nil")
	}
	if cfg.TokensDir != "tokens" {
		t.Errorf("expected default tokensDir 'tokens', got %q", cfg.TokensDir)
	}
	if cfg.SourcePath != "tokens.json" {
		t.Errorf("expected default sourcePath 'tokens.json', got %q", cfg.SourcePath)
	}
}

func TestLoadOrDefault_Unreadable(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("project/.config/tokensync.yaml", "tokensDir: [unterminated", 0644)

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	cfg := LoadOrDefault(mfs, "project")
	if cfg == nil {
		t.Fatal("expected default config, got nil")
	}
	if cfg.TokensDir != "tokens" {
		t.Errorf("expected defaults for unreadable config, got tokensDir %q", cfg.TokensDir)
	}
	if !strings.Contains(buf.String(), "ignoring config") {
		t.Errorf("expected a warning about the ignored config, got %q", buf.String())
	}
}

func TestDiscoverSource(t *testing.T) {
	t.Run("conventional name at root", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("project/tokens.json", `{}`, 0644)

		path, ok := DiscoverSource(mfs, "project")
		if !ok {
			t.Fatal("expected discovery to succeed")
		}
		if path != "project/tokens.json" {
			t.Errorf("expected project/tokens.json, got %q", path)
		}
	})

	t.Run("glob fallback finds nested document", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("project/design/tokens.json", `{}`, 0644)

		path, ok := DiscoverSource(mfs, "project")
		if !ok {
			t.Fatal("expected discovery to succeed")
		}
		if path != "project/design/tokens.json" {
			t.Errorf("expected project/design/tokens.json, got %q", path)
		}
	})

	t.Run("nothing to find", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("project/notes.txt", "x", 0644)

		if path, ok := DiscoverSource(mfs, "project"); ok {
			t.Errorf("expected no discovery, got %q", path)
		}
	})
}
