/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import (
	"regexp"
	"strings"
)

var (
	spaceRun    = regexp.MustCompile(`\s+`)
	invalidRune = regexp.MustCompile(`[^a-z0-9_-]`)
)

// SanitizeSetName converts an arbitrary set name into a file-safe
// identifier: lowercased, space runs become hyphens, everything outside
// [a-z0-9_-] is stripped. A name with nothing left after stripping
// falls back to "set" so the mapping stays total.
func SanitizeSetName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = spaceRun.ReplaceAllString(s, "-")
	s = invalidRune.ReplaceAllString(s, "")
	if s == "" {
		return "set"
	}
	return s
}
