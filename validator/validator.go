/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validator implements the four consistency checks for token
// collections: directory structure, reference resolution, round-trip
// fidelity between the consolidated and modular forms, and theme
// completeness. Checks report typed issues rather than failing on the
// first problem; only real I/O failures surface as errors.
package validator

import (
	"strings"

	"bennypowers.dev/tokensync/fs"
	"bennypowers.dev/tokensync/transform"
)

// Issue codes, grouped by the check that emits them.
const (
	// Structure.
	CodeMissingFile  = "missing_file"
	CodeInvalidJSON  = "invalid_json"
	CodeMissingField = "missing_field"
	CodeMissingValue = "missing_value"

	// References.
	CodeMalformedReference  = "malformed_reference"
	CodeUnresolvedReference = "unresolved_reference"
	CodeCircularReference   = "circular_reference"

	// Round trip.
	CodeMissingKey          = "missing_key"
	CodeExtraFile           = "extra_file"
	CodeValueMismatch       = "value_mismatch"
	CodeTypeMismatch        = "type_mismatch"
	CodeMissingDescription  = "missing_description"
	CodeInferredType        = "inferred_type"
	CodeSynthesizedMetadata = "synthesized_metadata"

	// Themes.
	CodeUnknownSet = "unknown_set"
	CodeOrphanSet  = "orphan_set"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is a single validation finding.
type Issue struct {
	// FilePath is the file containing the problem.
	FilePath string
	// Path is the dotted path to the problematic element, when one
	// applies.
	Path string
	// Code is one of the Code* constants.
	Code string
	// Severity is SeverityError or SeverityWarning.
	Severity string
	// Message describes what's wrong.
	Message string
	// Suggestion provides an actionable fix.
	Suggestion string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	var sb strings.Builder
	if i.FilePath != "" {
		sb.WriteString(i.FilePath)
		sb.WriteString(": ")
	}
	if i.Path != "" {
		sb.WriteString(i.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	if i.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(i.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// Result is the outcome of one check. Valid means no error-severity
// issues were found; warnings never invalidate.
type Result struct {
	IsValid bool
	Issues  []Issue
}

func (r *Result) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
	if issue.Severity == SeverityError {
		r.IsValid = false
	}
}

// Errors returns the error-severity issues.
func (r *Result) Errors() []Issue {
	return r.bySeverity(SeverityError)
}

// Warnings returns the warning-severity issues.
func (r *Result) Warnings() []Issue {
	return r.bySeverity(SeverityWarning)
}

func (r *Result) bySeverity(severity string) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

// Options tune the checks that carry policy decisions.
type Options struct {
	// StrictDescriptions escalates a lost $description from a warning
	// to an error in the round-trip check.
	StrictDescriptions bool

	// Rules is the set classification table the round-trip check
	// replays splits with. Empty means the built-in table.
	Rules []transform.Rule
}

// Summary aggregates every check over one collection.
type Summary struct {
	Structure  *Result
	References *Result
	Themes     *Result

	// RoundTrip is nil when no consolidated document was given.
	RoundTrip *Result

	IsValid bool
}

// ValidateAll runs every check against the modular directory, plus the
// round-trip check when sourcePath names a consolidated document.
func ValidateAll(filesystem fs.FileSystem, sourcePath, dir string, opts Options) (*Summary, error) {
	structure, err := ValidateStructure(filesystem, dir)
	if err != nil {
		return nil, err
	}
	references, err := ValidateReferences(filesystem, dir)
	if err != nil {
		return nil, err
	}
	themes, err := ValidateThemeCompleteness(filesystem, dir)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Structure:  structure,
		References: references,
		Themes:     themes,
		IsValid:    structure.IsValid && references.IsValid && themes.IsValid,
	}

	if sourcePath != "" {
		roundTrip, err := ValidateRoundTrip(filesystem, sourcePath, dir, opts)
		if err != nil {
			return nil, err
		}
		summary.RoundTrip = roundTrip
		summary.IsValid = summary.IsValid && roundTrip.IsValid
	}
	return summary, nil
}
