/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// Semantic token types produced by inference. Explicitly tagged tokens
// may carry any type the authoring tool emits (fontFamily, fontWeight,
// boxShadow, ...); inference only ever concludes one of these.
const (
	TypeColor      = "color"
	TypeDimension  = "dimension"
	TypeTypography = "typography"
	TypeOther      = "other"
)

var (
	// dimensionPattern matches unit-suffixed CSS lengths: 16px, 1.5rem, 100%.
	dimensionPattern = regexp.MustCompile(`^-?\d+(\.\d+)?(px|em|rem|pt|%|vh|vw|vmin|vmax)$`)

	// gradientPattern matches CSS gradient functions, which
	// csscolorparser does not recognize as colors.
	gradientPattern = regexp.MustCompile(`^(linear|radial|conic)-gradient\(`)
)

// typographyKeys are the value-object keys that mark a composite
// typography token.
var typographyKeys = []string{
	"fontFamily",
	"fontSize",
	"fontWeight",
	"lineHeight",
	"letterSpacing",
	"paragraphSpacing",
	"textCase",
	"textDecoration",
}

// InferType guesses a token's semantic type from the shape of its raw
// value. Tokens with an explicit type never pass through here; the
// inferred type is written alongside the value so downstream consumers
// need no guessing of their own.
func InferType(value any) string {
	switch v := value.(type) {
	case string:
		return inferStringType(v)
	case float64, int, int64:
		return TypeDimension
	case map[string]any:
		if isTypographyValue(v) {
			return TypeTypography
		}
		return TypeOther
	default:
		return TypeOther
	}
}

func inferStringType(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return TypeOther
	}

	// Bare numbers as strings are dimensions, checked before color
	// parsing so numeric strings never misread as colors.
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return TypeDimension
	}
	if dimensionPattern.MatchString(trimmed) {
		return TypeDimension
	}

	if gradientPattern.MatchString(trimmed) {
		return TypeColor
	}
	// Hex, rgb()/rgba(), hsl()/hsla(), and named colors all parse here.
	if _, err := csscolorparser.Parse(trimmed); err == nil {
		return TypeColor
	}

	return TypeOther
}

// isTypographyValue reports whether an object value carries a
// font-shaped key set.
func isTypographyValue(m map[string]any) bool {
	for _, k := range typographyKeys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
