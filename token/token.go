/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package token provides the design token data model: structural
// classification of parsed JSON nodes, semantic type inference, and the
// metadata and theme records that accompany a modular token file set.
package token

import (
	"sort"
	"strings"
)

// Kind classifies a parsed JSON node within a token tree.
type Kind int

const (
	// KindOpaque is a node that is neither a token nor a group: a bare
	// scalar, an array, or a map mixing token-like and scalar children.
	KindOpaque Kind = iota

	// KindToken is a leaf token: a map exposing a value or type marker.
	KindToken

	// KindGroup is a map whose entries are all groups or tokens.
	KindGroup
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindGroup:
		return "group"
	default:
		return "opaque"
	}
}

// Keys recognized as token markers. The modular file contract uses the
// $-prefixed form; consolidated documents exported by older tooling may
// still carry the bare form. Both identify a token.
var (
	valueKeys       = []string{"$value", "value"}
	typeKeys        = []string{"$type", "type"}
	descriptionKeys = []string{"$description", "description"}
)

// Classify reports whether a node is a token, a group, or neither.
// Identification is structural: any map exposing a value or type marker
// is a token, never by name. Group-level $-prefixed entries (a group
// description, vendor blocks) are metadata, not children.
func Classify(node any) Kind {
	m, ok := node.(map[string]any)
	if !ok {
		return KindOpaque
	}
	if IsToken(m) {
		return KindToken
	}
	for key, child := range m {
		if strings.HasPrefix(key, "$") {
			continue
		}
		if Classify(child) == KindOpaque {
			return KindOpaque
		}
	}
	return KindGroup
}

// IsToken reports whether a map is a leaf token: it exposes a value
// marker or a declared type.
func IsToken(m map[string]any) bool {
	if _, ok := Value(m); ok {
		return true
	}
	if _, ok := ExplicitType(m); ok {
		return true
	}
	return false
}

// Value returns the token's raw value, checking $value before the
// legacy bare key.
func Value(m map[string]any) (any, bool) {
	for _, k := range valueKeys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// ExplicitType returns the token's declared type, if any.
func ExplicitType(m map[string]any) (string, bool) {
	for _, k := range typeKeys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// Description returns the token's description, if any.
func Description(m map[string]any) (string, bool) {
	for _, k := range descriptionKeys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// isMarkerKey reports whether a key is one of the value/type/description
// markers in either spelling. Every other key on a token node is vendor
// data and travels verbatim through any transformation.
func isMarkerKey(key string) bool {
	for _, k := range valueKeys {
		if key == k {
			return true
		}
	}
	for _, k := range typeKeys {
		if key == k {
			return true
		}
	}
	for _, k := range descriptionKeys {
		if key == k {
			return true
		}
	}
	return false
}

// Normalize converts a token node to the canonical $-prefixed form:
// $value always present, $type kept or inferred from the value's shape,
// $description carried when set, and all remaining keys (vendor
// extension blocks such as $extensions or $figmaStyleReferences) copied
// verbatim.
func Normalize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))

	if v, ok := Value(m); ok {
		out["$value"] = v
		if t, ok := ExplicitType(m); ok {
			out["$type"] = t
		} else {
			out["$type"] = InferType(v)
		}
	} else if t, ok := ExplicitType(m); ok {
		// Type marker without a value: keep the declared type, leave
		// the missing value for validation to report.
		out["$type"] = t
	}

	if d, ok := Description(m); ok {
		out["$description"] = d
	}

	for k, v := range m {
		if isMarkerKey(k) {
			continue
		}
		out[k] = v
	}

	return out
}

// Walk visits every token under root in sorted key order, calling fn
// with the token's dotted-path segments and its node map. $-prefixed
// keys are group metadata and are not descended into.
func Walk(root map[string]any, fn func(path []string, node map[string]any)) {
	walk(root, nil, fn)
}

func walk(node map[string]any, path []string, fn func(path []string, node map[string]any)) {
	keys := make([]string, 0, len(node))
	for k := range node {
		if strings.HasPrefix(k, "$") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		child, ok := node[k].(map[string]any)
		if !ok {
			continue
		}
		childPath := append(path[:len(path):len(path)], k)
		if IsToken(child) {
			fn(childPath, child)
			continue
		}
		walk(child, childPath, fn)
	}
}

// Count returns the number of leaf tokens under root.
func Count(root map[string]any) int {
	n := 0
	Walk(root, func([]string, map[string]any) { n++ })
	return n
}

// JoinPath renders path segments as a dotted token path.
func JoinPath(path []string) string {
	return strings.Join(path, ".")
}
