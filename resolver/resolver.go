/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver locates and resolves symbolic token references of
// the form {dot.separated.path} against a unified token tree.
package resolver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ohler55/ojg/jp"

	"bennypowers.dev/tokensync/token"
)

// Sentinel errors for reference resolution.
var (
	// ErrMalformedReference indicates a value that is not a
	// well-formed {path.to.token} reference.
	ErrMalformedReference = errors.New("malformed token reference")

	// ErrUnresolvedReference indicates a reference whose path does not
	// exist in the unified tree.
	ErrUnresolvedReference = errors.New("unresolved token reference")

	// ErrNotAToken indicates a reference that resolves to a group or
	// plain value instead of a token.
	ErrNotAToken = errors.New("reference does not resolve to a token")

	// ErrCircularReference indicates a reference chain that revisits a
	// token.
	ErrCircularReference = errors.New("circular reference detected")
)

var (
	// exactRefPattern matches a value that is exactly one reference.
	exactRefPattern = regexp.MustCompile(`^\{([^{}]+)\}$`)

	// embeddedRefPattern matches every reference inside a larger
	// string, e.g. both operands of "{space.sm} {space.lg}".
	embeddedRefPattern = regexp.MustCompile(`\{([^{}]+)\}`)
)

// ResolvedToken is the outcome of a successful resolution.
type ResolvedToken struct {
	// Path is the dotted path the reference named.
	Path []string

	// Node is the token's map within the unified tree.
	Node map[string]any

	// Value is the token's raw value.
	Value any

	// Type is the token's declared type, empty when untagged.
	Type string

	// Chain lists every reference followed to reach this token, in
	// order. Populated by ResolveChain; empty for direct hits.
	Chain []string
}

// Parse validates the exact reference shape and returns the interior
// path segments. A value containing anything beyond one {...} group,
// or an empty interior, is not a reference.
func Parse(ref string) ([]string, bool) {
	m := exactRefPattern.FindStringSubmatch(strings.TrimSpace(ref))
	if len(m) != 2 {
		return nil, false
	}
	segs := strings.Split(m[1], ".")
	for _, seg := range segs {
		if seg == "" {
			return nil, false
		}
	}
	return segs, true
}

// IsReference reports whether a value is exactly one reference.
func IsReference(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, ok = Parse(s)
	return ok
}

// ExtractAll returns the interior path of every reference embedded in
// a string, in order of appearance.
func ExtractAll(s string) []string {
	matches := embeddedRefPattern.FindAllStringSubmatch(s, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 {
			refs = append(refs, m[1])
		}
	}
	return refs
}

// Resolve looks up a single reference in the unified tree. A malformed
// shape or a missing path is a resolution failure, never a panic; the
// error names the first path segment that could not be followed.
func Resolve(ref string, tree map[string]any) (*ResolvedToken, error) {
	segs, ok := Parse(ref)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedReference, ref)
	}
	return resolvePath(segs, tree)
}

func resolvePath(segs []string, tree map[string]any) (*ResolvedToken, error) {
	// Fast path: one expression lookup. Child fragments handle set
	// names containing spaces, which a parsed path string would not.
	expr := jp.R()
	for _, seg := range segs {
		expr = expr.C(seg)
	}

	node := expr.First(tree)
	if node == nil {
		return nil, missingSegmentError(segs, tree)
	}

	m, ok := node.(map[string]any)
	if !ok || !token.IsToken(m) {
		return nil, fmt.Errorf("%w: {%s} names a %s", ErrNotAToken,
			strings.Join(segs, "."), token.Classify(node))
	}

	resolved := &ResolvedToken{Path: segs, Node: m}
	resolved.Value, _ = token.Value(m)
	resolved.Type, _ = token.ExplicitType(m)
	return resolved, nil
}

// missingSegmentError re-walks the path one segment at a time to name
// the first one that fails.
func missingSegmentError(segs []string, tree map[string]any) error {
	cur := any(tree)
	for i, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: {%s}: %q is not a group",
				ErrUnresolvedReference, strings.Join(segs, "."), segs[i-1])
		}
		next, ok := m[seg]
		if !ok {
			return fmt.Errorf("%w: {%s}: missing segment %q",
				ErrUnresolvedReference, strings.Join(segs, "."), seg)
		}
		cur = next
	}
	// Whole path walks but the expression found nothing: a null leaf.
	return fmt.Errorf("%w: {%s}: path holds a null value",
		ErrUnresolvedReference, strings.Join(segs, "."))
}

// ResolveChain follows a reference through any number of
// reference-valued tokens until it lands on a concrete value. Visited
// paths are tracked; revisiting one reports the cycle instead of
// looping.
func ResolveChain(ref string, tree map[string]any) (*ResolvedToken, error) {
	visited := make(map[string]bool)
	var chain []string

	current := ref
	for {
		segs, ok := Parse(current)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformedReference, current)
		}
		path := strings.Join(segs, ".")
		if visited[path] {
			cycle := append(chain, path)
			return nil, fmt.Errorf("%w: %s", ErrCircularReference,
				strings.Join(cycle, " -> "))
		}
		visited[path] = true
		chain = append(chain, path)

		resolved, err := resolvePath(segs, tree)
		if err != nil {
			return nil, err
		}

		next, isRef := resolved.Value.(string)
		if !isRef || !IsReference(next) {
			resolved.Chain = chain
			return resolved, nil
		}
		current = next
	}
}
