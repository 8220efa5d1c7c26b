/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import "encoding/json"

// ThemeMode is a token set's activation state within a theme.
type ThemeMode string

const (
	ModeSource   ThemeMode = "source"
	ModeEnabled  ThemeMode = "enabled"
	ModeDisabled ThemeMode = "disabled"
)

// ValidMode reports whether s is a recognized activation mode.
func ValidMode(s string) bool {
	switch ThemeMode(s) {
	case ModeSource, ModeEnabled, ModeDisabled:
		return true
	}
	return false
}

// Theme is a named activation profile over token sets. Vendor
// cross-reference blocks ($figmaStyleReferences and friends) ride along
// in Extra and survive every transformation untouched.
type Theme struct {
	ID                string
	Name              string
	SelectedTokenSets map[string]ThemeMode
	Extra             map[string]any
}

// MarshalJSON writes id, name and selectedTokenSets alongside any
// preserved vendor keys.
func (t *Theme) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Extra)+3)
	for k, v := range t.Extra {
		out[k] = v
	}
	out["id"] = t.ID
	out["name"] = t.Name
	sets := make(map[string]string, len(t.SelectedTokenSets))
	for name, mode := range t.SelectedTokenSets {
		sets[name] = string(mode)
	}
	out["selectedTokenSets"] = sets
	return json.Marshal(out)
}

// UnmarshalJSON reads the required fields and stashes everything else.
func (t *Theme) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return t.fromMap(raw)
}

func (t *Theme) fromMap(raw map[string]any) error {
	t.ID = ""
	t.Name = ""
	t.SelectedTokenSets = nil
	t.Extra = nil

	for k, v := range raw {
		switch k {
		case "id":
			s, ok := v.(string)
			if !ok {
				return ErrThemeShape
			}
			t.ID = s
		case "name":
			s, ok := v.(string)
			if !ok {
				return ErrThemeShape
			}
			t.Name = s
		case "selectedTokenSets":
			m, ok := v.(map[string]any)
			if !ok {
				return ErrThemeShape
			}
			t.SelectedTokenSets = make(map[string]ThemeMode, len(m))
			for set, mode := range m {
				s, ok := mode.(string)
				if !ok {
					return ErrThemeShape
				}
				t.SelectedTokenSets[set] = ThemeMode(s)
			}
		default:
			if t.Extra == nil {
				t.Extra = make(map[string]any)
			}
			t.Extra[k] = v
		}
	}
	return nil
}

// ThemesFromValue converts the $themes entry of a parsed document.
func ThemesFromValue(v any) ([]*Theme, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, ErrThemeShape
	}
	themes := make([]*Theme, 0, len(list))
	for _, item := range list {
		raw, ok := item.(map[string]any)
		if !ok {
			return nil, ErrThemeShape
		}
		t := &Theme{}
		if err := t.fromMap(raw); err != nil {
			return nil, err
		}
		themes = append(themes, t)
	}
	return themes, nil
}

// ThemesToValue renders themes as the plain structure stored under the
// $themes key of a consolidated document.
func ThemesToValue(themes []*Theme) []any {
	out := make([]any, 0, len(themes))
	for _, t := range themes {
		entry := make(map[string]any, len(t.Extra)+3)
		for k, v := range t.Extra {
			entry[k] = v
		}
		entry["id"] = t.ID
		entry["name"] = t.Name
		sets := make(map[string]any, len(t.SelectedTokenSets))
		for name, mode := range t.SelectedTokenSets {
			sets[name] = string(mode)
		}
		entry["selectedTokenSets"] = sets
		out = append(out, entry)
	}
	return out
}
