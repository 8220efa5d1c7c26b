/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"sort"
	"strings"

	"bennypowers.dev/tokensync/token"
)

// Occurrence is one reference found in a token tree: the token whose
// value carries it and the path it points at.
type Occurrence struct {
	// SourcePath is the dotted path of the referencing token.
	SourcePath string

	// Target is the referenced dotted path (the interior of the braces).
	Target string

	// Raw is the reference text as written, braces included.
	Raw string
}

// Collect finds every reference in every token value under root,
// including references nested inside composite values such as
// typography objects. Results are ordered by source path.
func Collect(root map[string]any) []Occurrence {
	var found []Occurrence
	token.Walk(root, func(path []string, node map[string]any) {
		value, ok := token.Value(node)
		if !ok {
			return
		}
		source := token.JoinPath(path)
		collectFromValue(value, source, &found)
	})
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].SourcePath != found[j].SourcePath {
			return found[i].SourcePath < found[j].SourcePath
		}
		return found[i].Target < found[j].Target
	})
	return found
}

func collectFromValue(value any, source string, found *[]Occurrence) {
	switch v := value.(type) {
	case string:
		for _, target := range ExtractAll(v) {
			*found = append(*found, Occurrence{
				SourcePath: source,
				Target:     target,
				Raw:        "{" + target + "}",
			})
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectFromValue(v[k], source, found)
		}
	case []any:
		for _, item := range v {
			collectFromValue(item, source, found)
		}
	}
}

// KnownPaths returns the dotted path of every token under root, sorted.
// The recovery system matches unresolved references against this set
// when suggesting alternatives.
func KnownPaths(root map[string]any) []string {
	var paths []string
	token.Walk(root, func(path []string, _ map[string]any) {
		paths = append(paths, strings.Join(path, "."))
	})
	sort.Strings(paths)
	return paths
}
