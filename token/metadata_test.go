/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token_test

import (
	"encoding/json"
	"errors"
	"testing"

	"bennypowers.dev/tokensync/token"
)

func TestMetadata(t *testing.T) {
	t.Run("round trips extra keys", func(t *testing.T) {
		in := []byte(`{"tokenSetOrder":["core","global"],"activeSets":["core"]}`)
		var m token.Metadata
		if err := json.Unmarshal(in, &m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(m.TokenSetOrder) != 2 || m.TokenSetOrder[0] != "core" {
			t.Errorf("TokenSetOrder = %v", m.TokenSetOrder)
		}
		if _, ok := m.Extra["activeSets"]; !ok {
			t.Error("expected unknown key stored in Extra")
		}

		out, err := json.Marshal(&m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(out, &decoded); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := decoded["activeSets"]; !ok {
			t.Error("expected extra key written back out")
		}
		if _, ok := decoded["tokenSetOrder"]; !ok {
			t.Error("expected tokenSetOrder written back out")
		}
	})

	t.Run("rejects non-array order", func(t *testing.T) {
		_, err := token.MetadataFromValue(map[string]any{"tokenSetOrder": "core"})
		if !errors.Is(err, token.ErrMetadataShape) {
			t.Errorf("expected ErrMetadataShape, got %v", err)
		}
	})

	t.Run("rejects non-string entries", func(t *testing.T) {
		_, err := token.MetadataFromValue(map[string]any{
			"tokenSetOrder": []any{"core", 2.0},
		})
		if !errors.Is(err, token.ErrMetadataShape) {
			t.Errorf("expected ErrMetadataShape, got %v", err)
		}
	})

	t.Run("trivial when empty", func(t *testing.T) {
		m := &token.Metadata{}
		if !m.IsTrivial() {
			t.Error("expected empty metadata to be trivial")
		}
		m.TokenSetOrder = []string{"core"}
		if m.IsTrivial() {
			t.Error("expected ordered metadata to be non-trivial")
		}
	})
}

func TestThemes(t *testing.T) {
	t.Run("parses themes with vendor keys", func(t *testing.T) {
		themes, err := token.ThemesFromValue([]any{
			map[string]any{
				"id":   "light",
				"name": "Light",
				"selectedTokenSets": map[string]any{
					"core":  "source",
					"light": "enabled",
					"dark":  "disabled",
				},
				"$figmaStyleReferences": map[string]any{"color.primary": "S:abc123"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(themes) != 1 {
			t.Fatalf("expected 1 theme, got %d", len(themes))
		}
		theme := themes[0]
		if theme.ID != "light" || theme.Name != "Light" {
			t.Errorf("unexpected identity: %q %q", theme.ID, theme.Name)
		}
		if theme.SelectedTokenSets["core"] != token.ModeSource {
			t.Errorf("core mode = %q, want source", theme.SelectedTokenSets["core"])
		}
		if _, ok := theme.Extra["$figmaStyleReferences"]; !ok {
			t.Error("expected vendor block preserved in Extra")
		}
	})

	t.Run("round trips through value form", func(t *testing.T) {
		themes := []*token.Theme{{
			ID:   "dark",
			Name: "Dark",
			SelectedTokenSets: map[string]token.ThemeMode{
				"core": token.ModeSource,
				"dark": token.ModeEnabled,
			},
			Extra: map[string]any{"group": "modes"},
		}}

		value := token.ThemesToValue(themes)
		back, err := token.ThemesFromValue(value)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if back[0].ID != "dark" {
			t.Errorf("ID = %q, want dark", back[0].ID)
		}
		if back[0].Extra["group"] != "modes" {
			t.Error("expected extra key to survive the round trip")
		}
	})

	t.Run("rejects non-array document", func(t *testing.T) {
		_, err := token.ThemesFromValue(map[string]any{"id": "x"})
		if !errors.Is(err, token.ErrThemeShape) {
			t.Errorf("expected ErrThemeShape, got %v", err)
		}
	})

	t.Run("rejects malformed selectedTokenSets", func(t *testing.T) {
		_, err := token.ThemesFromValue([]any{
			map[string]any{"id": "x", "name": "X", "selectedTokenSets": "core"},
		})
		if !errors.Is(err, token.ErrThemeShape) {
			t.Errorf("expected ErrThemeShape, got %v", err)
		}
	})
}

func TestValidMode(t *testing.T) {
	for _, mode := range []string{"source", "enabled", "disabled"} {
		if !token.ValidMode(mode) {
			t.Errorf("expected %q to be valid", mode)
		}
	}
	for _, mode := range []string{"", "on", "Source"} {
		if token.ValidMode(mode) {
			t.Errorf("expected %q to be invalid", mode)
		}
	}
}
