/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package transform

import (
	"strings"

	"bennypowers.dev/tokensync/token"
)

// Rule assigns top-level group names to a set. A name matches when its
// lowercased form equals a pattern or begins with one, so "border"
// claims borderRadius and borderWidth too.
type Rule struct {
	// Set is the target set name.
	Set string `yaml:"set" json:"set"`

	// Match are the name patterns claimed by this rule.
	Match []string `yaml:"match" json:"match"`
}

// setPrecedence orders the built-in sets in the written tokenSetOrder:
// primitives before semantics before components. Sets not listed here
// follow, sorted.
var setPrecedence = []string{"core", "global", "components", "brand", "content"}

// DefaultRules is the built-in classification table. First match wins;
// a name no rule claims becomes its own set under its sanitized name.
func DefaultRules() []Rule {
	return []Rule{
		{Set: "core", Match: []string{
			"color", "colour", "palette", "gradient",
			"typography", "font", "text",
			"letterspacing", "letter-spacing", "lineheight", "line-height",
			"spacing", "space", "sizing", "size", "dimension", "scale",
			"border", "radius", "radii", "stroke",
			"shadow", "elevation", "blur", "opacity",
			"z-index", "zindex", "layer",
			"motion", "duration", "easing", "transition",
			"breakpoint", "grid",
		}},
		{Set: "global", Match: []string{
			"global", "semantic", "alias", "theme", "light", "dark",
			"primary", "secondary", "accent", "surface", "background",
			"foreground", "feedback", "state",
		}},
		{Set: "components", Match: []string{
			"component", "button", "input", "card", "modal", "dialog",
			"badge", "chip", "tag", "table", "tab", "nav", "menu",
			"tooltip", "toast", "alert", "banner", "form", "field",
			"checkbox", "radio", "select", "switch", "toggle", "slider",
			"accordion", "avatar", "breadcrumb", "carousel", "divider",
			"drawer", "dropdown", "footer", "header", "icon", "link",
			"list", "pagination", "panel", "popover", "progress",
			"sidebar", "skeleton", "spinner", "stepper",
		}},
		{Set: "brand", Match: []string{"brand", "logo", "product", "marketing"}},
		{Set: "content", Match: []string{"content", "copy", "messaging", "microcopy", "label", "placeholder"}},
	}
}

// ClassifySet maps a top-level group name to its set. Matching is
// structural over the name only; the group's contents never influence
// the bucket, so the mapping is stable as tokens are added.
func ClassifySet(name string, rules []Rule) string {
	lower := strings.ToLower(name)
	for _, rule := range rules {
		for _, pattern := range rule.Match {
			if lower == pattern || strings.HasPrefix(lower, pattern) {
				return rule.Set
			}
		}
	}
	return token.SanitizeSetName(name)
}
