/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package document_test

import (
	"errors"
	"strings"
	"testing"

	"bennypowers.dev/tokensync/document"
	"bennypowers.dev/tokensync/internal/mapfs"
)

func TestRead(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("tokens.json", `{"color":{"primary":{"$value":"#fff"}}}`, 0644)

	tree, err := document.Read(fs, "tokens.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	color, ok := tree["color"].(map[string]any)
	if !ok {
		t.Fatal("expected color group")
	}
	if _, ok := color["primary"]; !ok {
		t.Error("expected primary token")
	}
}

func TestRead_MissingFile(t *testing.T) {
	fs := mapfs.New()
	_, err := document.Read(fs, "absent.json")
	if !errors.Is(err, document.ErrSourceRead) {
		t.Errorf("expected ErrSourceRead, got %v", err)
	}
	if !strings.Contains(err.Error(), "absent.json") {
		t.Errorf("expected path in error, got %v", err)
	}
}

func TestRead_MalformedJSON(t *testing.T) {
	fs := mapfs.New()
	fs.AddFile("broken.json", `{"color": {`, 0644)

	_, err := document.Read(fs, "broken.json")
	if !errors.Is(err, document.ErrSourceParse) {
		t.Errorf("expected ErrSourceParse, got %v", err)
	}
}

func TestParseLenient(t *testing.T) {
	data := []byte(`{
	// base palette
	"color": {
		"primary": {"$value": "#fff"},
	},
}`)

	if _, err := document.Parse(data, "x.json"); err == nil {
		t.Fatal("expected strict parse to fail on comments and trailing commas")
	}

	tree, err := document.ParseLenient(data, "x.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tree["color"]; !ok {
		t.Error("expected color group after lenient parse")
	}
}

func TestWrite(t *testing.T) {
	fs := mapfs.New()
	tree := map[string]any{
		"zebra": map[string]any{"$value": "z"},
		"alpha": map[string]any{"$value": "a"},
	}

	if err := document.Write(fs, "out/tokens.json", tree); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := fs.ReadFile("out/tokens.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := string(data)

	if !strings.HasSuffix(text, "\n") {
		t.Error("expected trailing newline")
	}
	// Sorted keys keep repeated writes byte-identical.
	if strings.Index(text, "alpha") > strings.Index(text, "zebra") {
		t.Error("expected keys written in sorted order")
	}

	again := mapfs.New()
	if err := document.Write(again, "out/tokens.json", tree); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repeat, _ := again.ReadFile("out/tokens.json")
	if string(repeat) != text {
		t.Error("expected deterministic output across writes")
	}
}

func TestDeepMerge(t *testing.T) {
	t.Run("groups merge recursively", func(t *testing.T) {
		dst := map[string]any{
			"color": map[string]any{
				"primary": map[string]any{"$value": "#111"},
			},
		}
		src := map[string]any{
			"color": map[string]any{
				"secondary": map[string]any{"$value": "#222"},
			},
		}

		merged := document.DeepMerge(dst, src)
		color := merged["color"].(map[string]any)
		if len(color) != 2 {
			t.Errorf("expected both tokens, got %v", color)
		}
	})

	t.Run("later token replaces wholesale", func(t *testing.T) {
		dst := map[string]any{
			"color": map[string]any{
				"primary": map[string]any{
					"$value":       "#111",
					"$description": "from core",
				},
			},
		}
		src := map[string]any{
			"color": map[string]any{
				"primary": map[string]any{"$value": "#999"},
			},
		}

		merged := document.DeepMerge(dst, src)
		primary := merged["color"].(map[string]any)["primary"].(map[string]any)
		if primary["$value"] != "#999" {
			t.Errorf("$value = %v, want #999", primary["$value"])
		}
		if _, ok := primary["$description"]; ok {
			t.Error("expected no field blending between token definitions")
		}
	})

	t.Run("token can replace a group", func(t *testing.T) {
		dst := map[string]any{
			"spacing": map[string]any{
				"sm": map[string]any{"$value": "4px"},
			},
		}
		src := map[string]any{
			"spacing": map[string]any{"$value": "8px"},
		}

		merged := document.DeepMerge(dst, src)
		spacing := merged["spacing"].(map[string]any)
		if spacing["$value"] != "8px" {
			t.Errorf("expected token to replace group, got %v", spacing)
		}
	})

	t.Run("merged values do not alias the source", func(t *testing.T) {
		src := map[string]any{
			"color": map[string]any{
				"primary": map[string]any{"$value": "#111"},
			},
		}
		merged := document.DeepMerge(nil, src)

		src["color"].(map[string]any)["primary"].(map[string]any)["$value"] = "mutated"
		primary := merged["color"].(map[string]any)["primary"].(map[string]any)
		if primary["$value"] != "#111" {
			t.Error("expected merge to copy values, not alias them")
		}
	})
}

func TestCloneTree(t *testing.T) {
	src := map[string]any{
		"color": map[string]any{
			"primary": map[string]any{
				"$value": "#111",
				"stops":  []any{"#111", "#222"},
			},
		},
	}

	clone := document.CloneTree(src)
	src["color"].(map[string]any)["primary"].(map[string]any)["stops"].([]any)[0] = "changed"

	stops := clone["color"].(map[string]any)["primary"].(map[string]any)["stops"].([]any)
	if stops[0] != "#111" {
		t.Error("expected deep copy of nested arrays")
	}
}
