/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import "encoding/json"

// Reserved top-level keys of a consolidated document and the companion
// files they map to in the modular form.
const (
	MetadataKey = "$metadata"
	ThemesKey   = "$themes"

	MetadataFile = "$metadata.json"
	ThemesFile   = "$themes.json"
)

// Metadata is the ordering record for a modular file set. TokenSetOrder
// defines file enumeration order and, by convention, layering precedence
// for consumers. Any further keys the authoring tool stores here are
// preserved verbatim in Extra.
type Metadata struct {
	TokenSetOrder []string
	Extra         map[string]any
}

// IsTrivial reports whether the metadata carries nothing worth writing
// back into a consolidated document: no set order and no extra keys.
func (m *Metadata) IsTrivial() bool {
	return len(m.TokenSetOrder) == 0 && len(m.Extra) == 0
}

// MarshalJSON writes tokenSetOrder alongside any preserved extra keys.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToValue())
}

// ToValue renders the metadata as the plain structure stored under the
// $metadata key of a consolidated document.
func (m *Metadata) ToValue() map[string]any {
	out := make(map[string]any, len(m.Extra)+1)
	for k, v := range m.Extra {
		out[k] = v
	}
	order := m.TokenSetOrder
	if order == nil {
		order = []string{}
	}
	out["tokenSetOrder"] = order
	return out
}

// UnmarshalJSON reads tokenSetOrder and stashes every other key in Extra.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return m.fromMap(raw)
}

func (m *Metadata) fromMap(raw map[string]any) error {
	m.TokenSetOrder = nil
	m.Extra = nil
	for k, v := range raw {
		if k != "tokenSetOrder" {
			if m.Extra == nil {
				m.Extra = make(map[string]any)
			}
			m.Extra[k] = v
			continue
		}
		list, ok := v.([]any)
		if !ok {
			return ErrMetadataShape
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return ErrMetadataShape
			}
			m.TokenSetOrder = append(m.TokenSetOrder, s)
		}
	}
	return nil
}

// MetadataFromValue converts the $metadata entry of a parsed document.
func MetadataFromValue(v any) (*Metadata, error) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, ErrMetadataShape
	}
	m := &Metadata{}
	if err := m.fromMap(raw); err != nil {
		return nil, err
	}
	return m, nil
}
