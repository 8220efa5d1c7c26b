/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token_test

import (
	"testing"

	"bennypowers.dev/tokensync/token"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		node any
		want token.Kind
	}{
		{
			name: "token with $value",
			node: map[string]any{"$value": "#FF0000", "$type": "color"},
			want: token.KindToken,
		},
		{
			name: "token with legacy value key",
			node: map[string]any{"value": "#FF0000", "type": "color"},
			want: token.KindToken,
		},
		{
			name: "token with type but no value",
			node: map[string]any{"$type": "color"},
			want: token.KindToken,
		},
		{
			name: "group of tokens",
			node: map[string]any{
				"primary":   map[string]any{"$value": "#FF0000"},
				"secondary": map[string]any{"$value": "#00FF00"},
			},
			want: token.KindGroup,
		},
		{
			name: "nested groups",
			node: map[string]any{
				"brand": map[string]any{
					"primary": map[string]any{"$value": "#FF0000"},
				},
			},
			want: token.KindGroup,
		},
		{
			name: "group with description metadata",
			node: map[string]any{
				"$description": "brand palette",
				"primary":      map[string]any{"$value": "#FF0000"},
			},
			want: token.KindGroup,
		},
		{
			name: "empty map is a group",
			node: map[string]any{},
			want: token.KindGroup,
		},
		{
			name: "bare string",
			node: "#FF0000",
			want: token.KindOpaque,
		},
		{
			name: "array",
			node: []any{"a", "b"},
			want: token.KindOpaque,
		},
		{
			name: "map with scalar child",
			node: map[string]any{"version": "1.0"},
			want: token.KindOpaque,
		},
		{
			name: "map mixing tokens and scalars",
			node: map[string]any{
				"primary": map[string]any{"$value": "#FF0000"},
				"count":   3.0,
			},
			want: token.KindOpaque,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := token.Classify(tt.node); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("legacy keys become canonical", func(t *testing.T) {
		got := token.Normalize(map[string]any{
			"value":       "#FF0000",
			"type":        "color",
			"description": "brand red",
		})
		if got["$value"] != "#FF0000" {
			t.Errorf("$value = %v, want #FF0000", got["$value"])
		}
		if got["$type"] != "color" {
			t.Errorf("$type = %v, want color", got["$type"])
		}
		if got["$description"] != "brand red" {
			t.Errorf("$description = %v, want brand red", got["$description"])
		}
		if _, ok := got["value"]; ok {
			t.Error("legacy value key should not survive normalization")
		}
	})

	t.Run("missing type is inferred", func(t *testing.T) {
		got := token.Normalize(map[string]any{"value": "#fff"})
		if got["$type"] != token.TypeColor {
			t.Errorf("$type = %v, want %v", got["$type"], token.TypeColor)
		}
	})

	t.Run("explicit type wins over inference", func(t *testing.T) {
		got := token.Normalize(map[string]any{"$value": "#fff", "$type": "paint"})
		if got["$type"] != "paint" {
			t.Errorf("$type = %v, want paint", got["$type"])
		}
	})

	t.Run("vendor keys travel verbatim", func(t *testing.T) {
		ext := map[string]any{"studio.tokens": map[string]any{"modify": "alpha"}}
		got := token.Normalize(map[string]any{
			"$value":      "#fff",
			"$extensions": ext,
		})
		e, ok := got["$extensions"].(map[string]any)
		if !ok {
			t.Fatal("expected $extensions to be preserved")
		}
		if _, ok := e["studio.tokens"]; !ok {
			t.Error("expected vendor extension content preserved")
		}
	})
}

func TestWalk(t *testing.T) {
	tree := map[string]any{
		"color": map[string]any{
			"$description": "palette",
			"primary":      map[string]any{"$value": "#FF0000"},
			"secondary":    map[string]any{"$value": "#00FF00"},
		},
		"spacing": map[string]any{
			"sm": map[string]any{"$value": "4px"},
		},
		"$themes": []any{map[string]any{"id": "x"}},
	}

	var paths []string
	token.Walk(tree, func(path []string, _ map[string]any) {
		paths = append(paths, token.JoinPath(path))
	})

	want := []string{"color.primary", "color.secondary", "spacing.sm"}
	if len(paths) != len(want) {
		t.Fatalf("walked %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}

	if got := token.Count(tree); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}
