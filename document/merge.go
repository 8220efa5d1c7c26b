/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package document

import "bennypowers.dev/tokensync/token"

// DeepMerge layers src over dst and returns dst. Group maps merge
// recursively; token nodes and non-map values replace wholesale, so a
// later set's token wins with all of its markers rather than blending
// fields from two definitions of the same token. Values taken from src
// are copied, never aliased.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		if !srcIsMap || token.IsToken(srcMap) {
			dst[key] = copyValue(srcVal)
			continue
		}
		dstMap, dstIsMap := dst[key].(map[string]any)
		if !dstIsMap || token.IsToken(dstMap) {
			dst[key] = DeepMerge(nil, srcMap)
			continue
		}
		dst[key] = DeepMerge(dstMap, srcMap)
	}
	return dst
}

// CloneTree returns a deep copy of a token tree.
func CloneTree(src map[string]any) map[string]any {
	return copyValue(src).(map[string]any)
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = copyValue(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = copyValue(child)
		}
		return out
	default:
		return v
	}
}
